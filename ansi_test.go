package termgrid

import "testing"

// freshLast is the render state a caller should seed before the first
// call to StringCells in a pass: default colors, no attributes. The Go
// zero value doesn't work for this - see LastCell's doc comment.
func freshLast() LastCell {
	return LastCell{Fg: DefaultColor, Bg: DefaultColor}
}

func TestStringCellsPlainNoCodes(t *testing.T) {
	g := Create(5, 1, 0)
	defer Destroy(g)

	g.SetCells(0, 0, asciiCell(0), []byte("hi"))

	var last LastCell
	got := StringCells(g, 0, 0, 5, &last, StringCellsOptions{})
	if got != "hi   " {
		t.Fatalf("got %q, want %q", got, "hi   ")
	}
}

func TestStringCellsTrim(t *testing.T) {
	g := Create(5, 1, 0)
	defer Destroy(g)

	g.SetCells(0, 0, asciiCell(0), []byte("hi"))

	var last LastCell
	got := StringCells(g, 0, 0, 5, &last, StringCellsOptions{Trim: true})
	if got != "hi" {
		t.Fatalf("got %q, want %q", got, "hi")
	}
}

func TestStringCellsMinimalSGRTransition(t *testing.T) {
	g := Create(3, 1, 0)
	defer Destroy(g)

	plain := asciiCell('a')
	bright := Cell{Text: "b", Width: 1, Attr: AttrBright, Fg: DefaultColor, Bg: DefaultColor}
	stillBright := Cell{Text: "c", Width: 1, Attr: AttrBright, Fg: DefaultColor, Bg: DefaultColor}

	g.SetCell(0, 0, plain)
	g.SetCell(1, 0, bright)
	g.SetCell(2, 0, stillBright)

	last := freshLast()
	got := StringCells(g, 0, 0, 3, &last, StringCellsOptions{WithCodes: true})

	want := "a" + "\x1b[1mb" + "c"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStringCellsResetDropsAttr(t *testing.T) {
	g := Create(2, 1, 0)
	defer Destroy(g)

	bright := Cell{Text: "a", Width: 1, Attr: AttrBright, Fg: DefaultColor, Bg: DefaultColor}
	plain := asciiCell('b')

	g.SetCell(0, 0, bright)
	g.SetCell(1, 0, plain)

	last := freshLast()
	got := StringCells(g, 0, 0, 2, &last, StringCellsOptions{WithCodes: true})

	want := "\x1b[1ma" + "\x1b[0;39;49mb"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStringCellsForegroundCodes(t *testing.T) {
	g := Create(3, 1, 0)
	defer Destroy(g)

	g.SetCell(0, 0, Cell{Text: "a", Width: 1, Fg: ANSIColor(2), Bg: DefaultColor})
	g.SetCell(1, 0, Cell{Text: "b", Width: 1, Fg: Palette256Color(200), Bg: DefaultColor})
	g.SetCell(2, 0, Cell{Text: "c", Width: 1, Fg: RGBColor(10, 20, 30), Bg: DefaultColor})

	last := freshLast()
	got := StringCells(g, 0, 0, 3, &last, StringCellsOptions{WithCodes: true})

	want := "\x1b[32ma" + "\x1b[38;5;200mb" + "\x1b[38;2;10;20;30mc"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStringCellsBrightUsesAttrNotColorValue(t *testing.T) {
	g := Create(1, 1, 0)
	defer Destroy(g)

	g.SetCell(0, 0, Cell{Text: "a", Width: 1, Attr: AttrBright, Fg: ANSIColor(2), Bg: DefaultColor})

	last := freshLast()
	got := StringCells(g, 0, 0, 1, &last, StringCellsOptions{WithCodes: true})

	want := "\x1b[1;92ma"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStringCellsCharsetShift(t *testing.T) {
	g := Create(2, 1, 0)
	defer Destroy(g)

	g.SetCell(0, 0, Cell{Text: "a", Width: 1, Attr: AttrCharset, Fg: DefaultColor, Bg: DefaultColor})
	g.SetCell(1, 0, asciiCell('b'))

	last := freshLast()
	got := StringCells(g, 0, 0, 2, &last, StringCellsOptions{WithCodes: true})

	want := "\x0ea" + "\x0fb"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStringCellsEscapeC0(t *testing.T) {
	g := Create(1, 1, 0)
	defer Destroy(g)

	g.SetCell(0, 0, Cell{Text: "a", Width: 1, Attr: AttrBright, Fg: DefaultColor, Bg: DefaultColor})

	last := freshLast()
	got := StringCells(g, 0, 0, 1, &last, StringCellsOptions{WithCodes: true, EscapeC0: true})

	want := `\033[1ma`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStringCellsEscapeC0Backslash(t *testing.T) {
	g := Create(1, 1, 0)
	defer Destroy(g)

	g.SetCell(0, 0, Cell{Text: `\`, Width: 1, Fg: DefaultColor, Bg: DefaultColor})

	var last LastCell
	got := StringCells(g, 0, 0, 1, &last, StringCellsOptions{EscapeC0: true})

	if got != `\\` {
		t.Fatalf("got %q, want %q", got, `\\`)
	}
}

func TestStringCellsSkipsPadding(t *testing.T) {
	g := Create(3, 1, 0)
	defer Destroy(g)

	g.SetCell(0, 0, Cell{Text: "中", Width: 2, Fg: DefaultColor, Bg: DefaultColor})
	g.SetCell(1, 0, Cell{Text: "", Width: 0, Flags: FlagPadding, Fg: DefaultColor, Bg: DefaultColor})
	g.SetCell(2, 0, asciiCell('x'))

	var last LastCell
	got := StringCells(g, 0, 0, 3, &last, StringCellsOptions{})

	want := "中" + "x"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStringCellsThreadsLastAcrossCalls(t *testing.T) {
	g := Create(2, 2, 0)
	defer Destroy(g)

	bright := Cell{Text: "a", Width: 1, Attr: AttrBright, Fg: DefaultColor, Bg: DefaultColor}
	g.SetCell(0, 0, bright)
	g.SetCell(0, 1, bright)

	last := freshLast()
	row0 := StringCells(g, 0, 0, 1, &last, StringCellsOptions{WithCodes: true})
	row1 := StringCells(g, 0, 1, 1, &last, StringCellsOptions{WithCodes: true})

	if row0 != "\x1b[1ma" {
		t.Fatalf("row0 = %q", row0)
	}
	if row1 != "a" {
		t.Fatalf("row1 should carry no SGR since state already matches, got %q", row1)
	}
}
