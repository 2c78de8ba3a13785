package termgrid

// LineFlags is a bitset of per-line structural flags (spec.md §3).
type LineFlags uint8

const (
	// LineWrapped marks that the next line is a continuation of this one
	// (same logical paragraph) rather than starting a new paragraph.
	LineWrapped LineFlags = 1 << iota
	// LineHasExtended marks that at least one cell in this line uses the
	// extended side table. Set by promote; cleared by compact once no
	// extended entry remains.
	LineHasExtended
	// LineDead marks a line fully consumed by a reflow join. joinInto
	// marks consumed lines dead in place and skips dead lines it meets;
	// the reflow pass splices them out of the block right after the join.
	LineDead
)

// Line is one row: a variable-length sequence of dense cell entries plus
// a side table of cells too rich for the dense encoding (spec.md §3).
type Line struct {
	cells     []CellEntry
	cellUsed  int
	extended  []ExtendedCell
	flags     LineFlags
}

// newLine returns an empty line with no backing storage.
func newLine() Line {
	return Line{}
}

// cellSize returns the current capacity of the dense cell array.
func (l *Line) cellSize() int {
	return len(l.cells)
}

// growthSize applies the three-tier snap policy from spec.md §4.B:
// sx/4, then sx/2, then sx, so sparse lines stay small while still
// amortizing growth for lines that keep being written past their size.
func growthSize(minWidth, sx int) int {
	tiers := [3]int{sx / 4, sx / 2, sx}
	for _, t := range tiers {
		if t >= minWidth {
			return t
		}
	}
	return minWidth
}

// expand enlarges the line's dense cell array to at least width entries,
// using the tiered growth policy. New cells are default-initialized; if
// bg is not the default color, it's applied to the new cells (promoting
// them to extended storage if bg is a true-color value).
func (l *Line) expand(width, sx int, bg Color) {
	if width <= len(l.cells) {
		return
	}

	oldSize := len(l.cells)
	newSize := growthSize(width, sx)
	if newSize < width {
		newSize = width
	}

	grown := make([]CellEntry, newSize)
	copy(grown, l.cells)
	for i := oldSize; i < newSize; i++ {
		grown[i] = defaultEntry
	}
	l.cells = grown

	if !bg.IsDefault() {
		cell := defaultCell
		cell.Bg = bg
		for i := oldSize; i < newSize; i++ {
			if bg.Mode == ColorModeRGB {
				l.promote(i, cell)
				continue
			}
			e := defaultEntry
			if bg.Mode == ColorMode256 {
				e.Flags |= FlagBg256
			}
			e.Bg = uint8(bg.Value)
			l.cells[i] = e
		}
	}
}

// promote upgrades the entry at idx to the extended side table, growing
// extended by one slot and copying the full cell into it (spec.md §4.A).
func (l *Line) promote(idx int, c Cell) {
	l.extended = append(l.extended, c)
	offset := len(l.extended) - 1

	flags := c.Flags | FlagExtended
	l.cells[idx] = CellEntry{
		Flags:  flags,
		Offset: uint16(offset),
	}
	l.flags |= LineHasExtended
}

// setCellAt writes c at column x, expanding storage and choosing the
// dense or extended encoding as needed, then advances cellUsed.
func (l *Line) setCellAt(x, sx int, c Cell) {
	l.expand(x+1, sx, DefaultColor)

	wasExtended := l.cells[x].Flags&FlagExtended != 0
	if needsExtended(wasExtended, c) {
		l.promote(x, c)
	} else {
		l.cells[x] = storeDense(c)
	}

	if x+1 > l.cellUsed {
		l.cellUsed = x + 1
	}
}

// clearCellAt overwrites the entry at x with the default cell, applying
// bg as the new background (spec.md §4.B's clear-cell operation).
func (l *Line) clearCellAt(x, sx int, bg Color) {
	l.expand(x+1, sx, DefaultColor)

	cell := defaultCell
	cell.Bg = bg

	if bg.Mode == ColorModeRGB {
		l.promote(x, cell)
	} else {
		e := defaultEntry
		if bg.Mode == ColorMode256 {
			e.Flags |= FlagBg256
		}
		e.Bg = uint8(bg.Value)
		l.cells[x] = e
	}
}

// getCellAt returns the cell at column x, or the default cell if x is
// past the line's written extent (spec.md §4.B's get-cell operation).
func (l *Line) getCellAt(x int) Cell {
	if x < 0 || x >= len(l.cells) {
		return NewDefaultCell()
	}

	e := l.cells[x]
	if e.Flags&FlagExtended != 0 {
		if int(e.Offset) >= len(l.extended) {
			// Diagnostic guard: a dangling offset means the line's
			// invariants were violated upstream; fail soft to default
			// rather than index out of range.
			diagf("line: extended offset %d out of range (len=%d)", e.Offset, len(l.extended))
			return NewDefaultCell()
		}
		return l.extended[e.Offset]
	}

	return cellFromDense(e)
}

// compact walks the line, counts entries still bearing FlagExtended, and
// rewrites extended to a packed array indexed in traversal order,
// updating each entry's Offset in place (spec.md §4.A's Compaction).
// If no entry is extended, extended is released.
func (l *Line) compact() {
	count := 0
	for i := range l.cells {
		if l.cells[i].Flags&FlagExtended != 0 {
			count++
		}
	}

	if count == 0 {
		l.extended = nil
		l.flags &^= LineHasExtended
		return
	}

	packed := make([]ExtendedCell, 0, count)
	for i := range l.cells {
		if l.cells[i].Flags&FlagExtended == 0 {
			continue
		}
		off := l.cells[i].Offset
		var cell ExtendedCell
		if int(off) < len(l.extended) {
			cell = l.extended[off]
		} else {
			cell = NewDefaultCell()
		}
		packed = append(packed, cell)
		l.cells[i].Offset = uint16(len(packed) - 1)
	}

	l.extended = packed
}

// width returns the line's logical width: the column one past the
// rightmost written cell, accounting for wide glyphs.
func (l *Line) width() int {
	w := 0
	for x := 0; x < l.cellUsed; x++ {
		c := l.getCellAt(x)
		if c.Flags&FlagPadding != 0 {
			continue
		}
		w += c.displayWidth()
	}
	return w
}

// firstCellWidth returns the display width of the line's first cell, or
// 1 for an empty line. Used by the reflow per-line decision (spec.md §4.E).
func (l *Line) firstCellWidth() int {
	if l.cellUsed == 0 {
		return 1
	}
	return l.getCellAt(0).displayWidth()
}

// free releases the line's backing storage, turning it back into an
// empty line.
func (l *Line) free() {
	l.cells = nil
	l.extended = nil
	l.cellUsed = 0
	l.flags = 0
}

// cloneLine deep-copies a line's cells and extended table so the clone
// is fully independent of the source (used by DuplicateLines and
// scroll-history-region, spec.md §4.D's duplicate-lines isolation law).
func cloneLine(src Line) Line {
	dst := Line{
		cellUsed: src.cellUsed,
		flags:    src.flags,
	}
	if src.cells != nil {
		dst.cells = make([]CellEntry, len(src.cells))
		copy(dst.cells, src.cells)
	}
	if src.extended != nil {
		dst.extended = make([]ExtendedCell, len(src.extended))
		copy(dst.extended, src.extended)
	}
	return dst
}

// isWrapped reports the LineWrapped flag.
func (l *Line) isWrapped() bool { return l.flags&LineWrapped != 0 }

// isDead reports the LineDead flag.
func (l *Line) isDead() bool { return l.flags&LineDead != 0 }

// setWrapped sets or clears the LineWrapped flag.
func (l *Line) setWrapped(wrapped bool) {
	if wrapped {
		l.flags |= LineWrapped
	} else {
		l.flags &^= LineWrapped
	}
}
