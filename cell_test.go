package termgrid

import "testing"

func TestNewDefaultCell(t *testing.T) {
	c := NewDefaultCell()
	if c.Text != " " || c.Width != 1 {
		t.Fatalf("expected single space cell, got %+v", c)
	}
	if !c.Fg.IsDefault() || !c.Bg.IsDefault() {
		t.Fatalf("expected default colors, got fg=%+v bg=%+v", c.Fg, c.Bg)
	}
}

func TestNeedsExtended(t *testing.T) {
	plain := Cell{Text: "a", Width: 1, Fg: ANSIColor(1), Bg: DefaultColor}
	if needsExtended(false, plain) {
		t.Error("plain ASCII cell should not need extended storage")
	}

	wide := Cell{Text: "文", Width: 2, Fg: DefaultColor, Bg: DefaultColor}
	if !needsExtended(false, wide) {
		t.Error("wide cell should need extended storage")
	}

	rgb := Cell{Text: "a", Width: 1, Fg: RGBColor(1, 2, 3), Bg: DefaultColor}
	if !needsExtended(false, rgb) {
		t.Error("RGB fg should need extended storage")
	}

	hiAttr := Cell{Text: "a", Width: 1, Attr: AttrCharset, Fg: DefaultColor, Bg: DefaultColor}
	if !needsExtended(false, hiAttr) {
		t.Error("attribute bit above 0xFF should need extended storage")
	}

	if !needsExtended(true, plain) {
		t.Error("an already-extended entry must stay extended")
	}
}

func TestDenseRoundTrip(t *testing.T) {
	c := Cell{Text: "x", Width: 1, Attr: AttrBright | AttrUnderscore, Fg: ANSIColor(3), Bg: Palette256Color(200)}
	e := storeDense(c)
	got := cellFromDense(e)

	if got.Text != c.Text || got.Attr != c.Attr {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, c)
	}
	if got.Fg != c.Fg || got.Bg != c.Bg {
		t.Fatalf("color round trip mismatch: got fg=%+v bg=%+v, want fg=%+v bg=%+v", got.Fg, got.Bg, c.Fg, c.Bg)
	}
}

func TestDisplayWidth(t *testing.T) {
	if (Cell{Text: "a", Width: 1}).displayWidth() != 1 {
		t.Error("expected width 1")
	}
	if (Cell{Text: "文", Width: 2}).displayWidth() != 2 {
		t.Error("expected width 2")
	}
}
