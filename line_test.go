package termgrid

import "testing"

func TestGrowthSize(t *testing.T) {
	cases := []struct {
		min, sx, want int
	}{
		{1, 80, 20},
		{21, 80, 40},
		{41, 80, 80},
		{100, 80, 100},
	}
	for _, c := range cases {
		if got := growthSize(c.min, c.sx); got != c.want {
			t.Errorf("growthSize(%d, %d) = %d, want %d", c.min, c.sx, got, c.want)
		}
	}
}

func TestLineSetGetCell(t *testing.T) {
	var l Line
	c := Cell{Text: "a", Width: 1, Fg: ANSIColor(2), Bg: DefaultColor}
	l.setCellAt(3, 80, c)

	got := l.getCellAt(3)
	if got.Text != "a" || got.Fg != c.Fg {
		t.Fatalf("got %+v, want %+v", got, c)
	}
	if l.cellUsed != 4 {
		t.Fatalf("cellUsed = %d, want 4", l.cellUsed)
	}
	if got := l.getCellAt(0); got.Text != " " {
		t.Fatalf("expected untouched column to be default cell, got %+v", got)
	}
}

func TestLineClearCellAt(t *testing.T) {
	var l Line
	l.setCellAt(0, 80, Cell{Text: "x", Width: 1, Fg: DefaultColor, Bg: DefaultColor})
	l.clearCellAt(0, 80, RGBColor(1, 2, 3))

	c := l.getCellAt(0)
	if c.Text != " " || c.Bg.Mode != ColorModeRGB {
		t.Fatalf("expected cleared cell with RGB bg, got %+v", c)
	}
	if !(l.flags&LineHasExtended != 0) {
		t.Error("RGB background should promote the line to extended")
	}
}

func TestLinePromotionAndCompact(t *testing.T) {
	var l Line
	l.setCellAt(0, 10, Cell{Text: "文", Width: 2, Fg: DefaultColor, Bg: DefaultColor})
	l.setCellAt(2, 10, Cell{Text: "a", Width: 1, Fg: DefaultColor, Bg: DefaultColor})

	if len(l.extended) == 0 {
		t.Fatal("expected at least one extended slot after a wide-glyph write")
	}

	// Overwrite the wide cell with something dense-representable. Once a
	// cell has been promoted, needsExtended keeps it extended on every
	// later write (the once-extended rule), so cell 0 stays in the side
	// table holding "b" rather than reverting to dense storage.
	l.setCellAt(0, 10, Cell{Text: "b", Width: 1, Fg: DefaultColor, Bg: DefaultColor})
	l.setCellAt(1, 10, Cell{Text: "c", Width: 1, Fg: DefaultColor, Bg: DefaultColor})
	l.compact()

	if l.flags&LineHasExtended == 0 {
		t.Error("expected extended flag still set: cell 0 remains extended under the once-extended rule")
	}
	if len(l.extended) != 1 {
		t.Errorf("expected one retained extended slot, got %d", len(l.extended))
	}
	if got := l.getCellAt(0); got.Text != "b" {
		t.Errorf("getCellAt(0) = %+v, want Text \"b\"", got)
	}
}

func TestLineWidthAndFirstCellWidth(t *testing.T) {
	var l Line
	if l.firstCellWidth() != 1 {
		t.Error("empty line should report first-cell width 1")
	}

	l.setCellAt(0, 10, Cell{Text: "文", Width: 2, Fg: DefaultColor, Bg: DefaultColor})
	l.setCellAt(1, 10, Cell{Text: "", Width: 0, Flags: FlagPadding, Fg: DefaultColor, Bg: DefaultColor})
	if l.firstCellWidth() != 2 {
		t.Errorf("firstCellWidth = %d, want 2", l.firstCellWidth())
	}
}

func TestCloneLineIsolation(t *testing.T) {
	var src Line
	src.setCellAt(0, 10, Cell{Text: "文", Width: 2, Fg: DefaultColor, Bg: DefaultColor})

	dst := cloneLine(src)
	dst.setCellAt(0, 10, Cell{Text: "y", Width: 1, Fg: DefaultColor, Bg: DefaultColor})

	if src.getCellAt(0).Text == dst.getCellAt(0).Text {
		t.Fatal("mutating the clone should not affect the source line")
	}
}
