package termgrid

// Cell is the abstract styled character at one screen position (spec.md §3).
// Text is usually one ASCII byte but may hold a multi-byte UTF-8 cluster
// (combining marks, wide glyphs). Width is the number of display columns
// the cluster occupies: 1 or 2.
type Cell struct {
	Text  string
	Width uint8
	Attr  Attr
	Flags CellFlags
	Fg    Color
	Bg    Color
}

// ExtendedCell is the full Cell representation stored in a Line's side
// table when the dense CellEntry encoding can't hold it (spec.md §3).
type ExtendedCell = Cell

// defaultCell is the read-only default cell value: a space with default
// colors, no attributes. Mirrors the teacher's NewCell() and the design
// note's single shared grid_default_cell constant.
var defaultCell = Cell{
	Text:  " ",
	Width: 1,
	Fg:    DefaultColor,
	Bg:    DefaultColor,
}

// NewDefaultCell returns a fresh copy of the default cell.
func NewDefaultCell() Cell {
	return defaultCell
}

// CellEntry is the dense inline encoding of a cell: structural flags,
// the low 8 attribute bits, 8-bit color indices, and either the single
// ASCII byte of the cell's text or (when FlagExtended is set) the index
// of the corresponding ExtendedCell in the line's side table.
// Mirrors spec.md §3's "fixed 8-byte-class record".
type CellEntry struct {
	Flags  CellFlags
	Attr   uint8
	Fg     uint8
	Bg     uint8
	Data   byte   // ASCII text byte, valid when Flags&FlagExtended == 0
	Offset uint16 // index into Line.extended, valid when Flags&FlagExtended != 0
}

// defaultEntry is the dense encoding of defaultCell, used to fill newly
// grown line storage without re-deriving it each time.
var defaultEntry = storeDense(defaultCell)

// needsExtended reports whether c cannot be represented in a dense
// CellEntry and must be promoted to the line's extended side table
// (spec.md §4.A). alreadyExtended is the FlagExtended bit of the entry
// being overwritten: once extended, an entry stays extended.
func needsExtended(alreadyExtended bool, c Cell) bool {
	if alreadyExtended {
		return true
	}
	if uint16(c.Attr)&^0x00FF != 0 {
		return true
	}
	if len(c.Text) != 1 || c.Width != 1 {
		return true
	}
	if c.Fg.Mode == ColorModeRGB || c.Bg.Mode == ColorModeRGB {
		return true
	}
	return false
}

// storeDense packs c into a dense CellEntry. Callers must have already
// established (via needsExtended) that c fits the dense encoding.
func storeDense(c Cell) CellEntry {
	e := CellEntry{
		Attr:  uint8(c.Attr),
		Flags: c.Flags &^ FlagExtended,
	}

	if c.Fg.Mode == ColorMode256 {
		e.Flags |= FlagFg256
		e.Fg = uint8(c.Fg.Value)
	} else {
		e.Fg = uint8(c.Fg.Value)
	}

	if c.Bg.Mode == ColorMode256 {
		e.Flags |= FlagBg256
		e.Bg = uint8(c.Bg.Value)
	} else {
		e.Bg = uint8(c.Bg.Value)
	}

	if len(c.Text) == 1 {
		e.Data = c.Text[0]
	} else {
		e.Data = ' '
	}

	return e
}

// cellFromDense reconstructs a Cell from a dense, non-extended CellEntry.
func cellFromDense(e CellEntry) Cell {
	c := Cell{
		Text:  string(e.Data),
		Width: 1,
		Attr:  Attr(e.Attr),
		Flags: e.Flags &^ FlagExtended,
	}

	if e.Flags&FlagFg256 != 0 {
		c.Fg = Palette256Color(e.Fg)
	} else {
		c.Fg = ANSIColor(e.Fg)
	}

	if e.Flags&FlagBg256 != 0 {
		c.Bg = Palette256Color(e.Bg)
	} else {
		c.Bg = ANSIColor(e.Bg)
	}

	return c
}

// displayWidth returns the column width of c, using its Width field when
// it was set by a caller that already measured the glyph, falling back
// to rune-width measurement of the first rune otherwise.
func (c Cell) displayWidth() int {
	if c.Width != 0 {
		return int(c.Width)
	}
	for _, r := range c.Text {
		return runeWidth(r)
	}
	return 1
}
