package termgrid

// Grid is the screen and scrollback storage for one virtual terminal
// screen (spec.md §3). A Grid is owned by a single logical screen at a
// time; spec.md §5 places concurrent mutation of one Grid out of scope,
// so Grid carries no internal locking - callers serialize their own
// access, same as the teacher's design would need to if it dropped its
// mutex.
type Grid struct {
	sx, sy int

	blocks blockList

	hsize     int
	hlimit    int
	hscrolled int

	reflowing bool
}

// Create builds a new grid of sx columns by sy rows, with no history yet
// and room to grow up to hlimit history rows (spec.md §3's Lifecycle).
func Create(sx, sy, hlimit int) *Grid {
	if sx < 1 {
		sx = 1
	}
	if sy < 1 {
		sy = 1
	}
	g := &Grid{sx: sx, sy: sy, hlimit: hlimit}
	g.blocks.grow(sy, sx)
	return g
}

// Destroy releases every line's buffers and every block (spec.md §3's
// Lifecycle). The Grid must not be used afterward.
func Destroy(g *Grid) {
	for b := g.blocks.head; b != nil; b = b.next {
		for i := range b.lines {
			b.lines[i].free()
		}
	}
	g.blocks = blockList{}
	g.hsize, g.hscrolled = 0, 0
}

// SX returns the current screen width in columns.
func (g *Grid) SX() int { return g.sx }

// SY returns the current screen height in rows.
func (g *Grid) SY() int { return g.sy }

// HSize returns the number of history (scrollback) rows.
func (g *Grid) HSize() int { return g.hsize }

// HLimit returns the maximum hsize permitted before collection fires.
func (g *Grid) HLimit() int { return g.hlimit }

// HScrolled returns rows scrolled out beyond the limit, used by a
// renderer to position a scrollbar.
func (g *Grid) HScrolled() int { return g.hscrolled }

// Hallocated returns the number of rows currently backed by storage.
// Equals HSize()+SY() whenever a reflow is not in progress (spec.md §8
// invariant #1).
func (g *Grid) Hallocated() int { return g.blocks.hallocated() }

// SetHistoryLimit applies a new hlimit and, if hsize now reaches or
// exceeds it, immediately runs CollectHistory (SPEC_FULL.md §12 supplement: a
// config hot-reload is a second natural collection trigger alongside
// push growth).
func (g *Grid) SetHistoryLimit(n int) {
	if n < 0 {
		n = 0
	}
	g.hlimit = n
	// A single collection pass only trims 10% of hlimit; repeat until the
	// grid actually complies with a sharply lowered limit, same as it
	// would converge one push at a time under the old limit.
	for g.hlimit > 0 && g.hsize >= g.hlimit {
		before := g.hsize
		g.CollectHistory()
		if g.hsize >= before {
			break
		}
	}
}

func (g *Grid) inRange(y int) bool {
	return y >= 0 && y < g.hsize+g.sy
}

// GetCell returns the cell at (x, y), or the default cell if out of
// range (spec.md §4.D / §7: out-of-range read returns the default cell).
func (g *Grid) GetCell(x, y int) Cell {
	g.completeReflow()
	if !g.inRange(y) {
		diagf("grid: get-cell row %d out of range [0,%d)", y, g.hsize+g.sy)
		return NewDefaultCell()
	}
	var cache locateCache
	b, local := g.blocks.locate(y, &cache)
	if b == nil {
		return NewDefaultCell()
	}
	return b.lines[local].getCellAt(x)
}

// SetCell writes c at (x, y), expanding the line and promoting to the
// extended encoding as needed (spec.md §4.D). Out-of-range y is a
// silent no-op after a diagnostic (spec.md §7).
func (g *Grid) SetCell(x, y int, c Cell) {
	g.completeReflow()
	if x < 0 || !g.inRange(y) {
		diagf("grid: set-cell (%d,%d) out of range", x, y)
		return
	}
	var cache locateCache
	b, local := g.blocks.locate(y, &cache)
	if b == nil {
		return
	}
	b.lines[local].setCellAt(x, g.sx, c)
}

// SetCells vectorizes a write of ASCII bytes sharing a style template
// (spec.md §4.D). Each byte in data becomes one cell at consecutive
// columns starting at x; style supplies Attr/Flags/Fg/Bg.
func (g *Grid) SetCells(x, y int, style Cell, data []byte) {
	for i, b := range data {
		c := style
		c.Text = string(b)
		c.Width = 1
		g.SetCell(x+i, y, c)
	}
}

// Clear blanks the nx-by-ny rectangle at (x, y) (spec.md §4.D). A
// rectangle spanning the full row width is delegated to ClearLines,
// which is cheaper since it can simply release line storage.
func (g *Grid) Clear(x, y, nx, ny int, bg Color) {
	g.completeReflow()
	if x <= 0 && nx >= g.sx {
		g.ClearLines(y, ny, bg)
		return
	}

	var cache locateCache
	right := x + nx
	for row := y; row < y+ny; row++ {
		b, local := g.blocks.locate(row, &cache)
		if b == nil {
			continue
		}
		line := &b.lines[local]

		if bg.IsDefault() && right >= g.sx {
			if x < len(line.cells) {
				line.cells = line.cells[:x]
			}
			if line.cellUsed > x {
				line.cellUsed = x
			}
			continue
		}

		line.expand(right, g.sx, DefaultColor)
		for i := x; i < right; i++ {
			line.clearCellAt(i, g.sx, bg)
		}
		if right > line.cellUsed {
			line.cellUsed = right
		}
	}
}

// ClearLines blanks ny full rows starting at y (spec.md §4.D). Line
// storage is released; if bg isn't the default color, the row is
// re-expanded to full width filled with bg (a renderer needs the
// explicit cells to paint a non-default background past cellUsed).
func (g *Grid) ClearLines(y, ny int, bg Color) {
	g.completeReflow()
	var cache locateCache
	for row := y; row < y+ny; row++ {
		b, local := g.blocks.locate(row, &cache)
		if b == nil {
			continue
		}
		line := &b.lines[local]
		line.free()
		if !bg.IsDefault() {
			line.expand(g.sx, g.sx, bg)
			line.cellUsed = g.sx
		}
	}
}

// MoveLines moves ny line records (not cell copies) from sy0 to dy
// (spec.md §4.D). Direction-dependent traversal order avoids aliasing
// when the two ranges overlap; vacated source rows are re-emptied
// (filled with bg if it isn't the default color).
func (g *Grid) MoveLines(dy, sy0, ny int, bg Color) {
	if dy == sy0 || ny <= 0 {
		return
	}
	g.completeReflow()

	var srcCache, dstCache locateCache

	emptied := func() Line {
		l := newLine()
		if !bg.IsDefault() {
			l.expand(g.sx, g.sx, bg)
			l.cellUsed = g.sx
		}
		return l
	}

	move := func(i int) {
		srcRow, dstRow := sy0+i, dy+i
		sb, sl := g.blocks.locate(srcRow, &srcCache)
		db, dl := g.blocks.locate(dstRow, &dstCache)
		if sb == nil || db == nil {
			return
		}
		db.lines[dl].free()
		db.lines[dl] = sb.lines[sl]
		sb.lines[sl] = emptied()
	}

	if dy < sy0 {
		for i := 0; i < ny; i++ {
			move(i)
		}
	} else {
		for i := ny - 1; i >= 0; i-- {
			move(i)
		}
	}
}

// MoveCells shifts nx cells within one line from px to dx (spec.md
// §4.D). Both source and destination extents are expanded first; the
// portion of the source range not covered by the destination range is
// cleared to bg afterward.
func (g *Grid) MoveCells(dx, px, py, nx int, bg Color) {
	if nx <= 0 {
		return
	}
	g.completeReflow()

	var cache locateCache
	b, local := g.blocks.locate(py, &cache)
	if b == nil {
		return
	}
	line := &b.lines[local]

	maxExtent := px + nx
	if e := dx + nx; e > maxExtent {
		maxExtent = e
	}
	line.expand(maxExtent, g.sx, DefaultColor)

	moved := make([]Cell, nx)
	for i := 0; i < nx; i++ {
		moved[i] = line.getCellAt(px + i)
	}

	if dx < px {
		for i := 0; i < nx; i++ {
			line.setCellAt(dx+i, g.sx, moved[i])
		}
	} else {
		for i := nx - 1; i >= 0; i-- {
			line.setCellAt(dx+i, g.sx, moved[i])
		}
	}
	if dx+nx > line.cellUsed {
		line.cellUsed = dx + nx
	}

	for i := 0; i < nx; i++ {
		srcCol := px + i
		if srcCol >= dx && srcCol < dx+nx {
			continue
		}
		line.clearCellAt(srcCol, g.sx, bg)
	}
}

// ScrollHistory grows hallocated by one, appends an empty bottom line,
// compacts the row that becomes historical (the prior top of the
// visible region), and increments hsize and hscrolled (spec.md §4.D).
func (g *Grid) ScrollHistory(bg Color) {
	g.completeReflow()
	g.blocks.grow(1, g.sx)

	var cache locateCache
	if b, local := g.blocks.locate(g.blocks.hallocated()-1, &cache); b != nil && !bg.IsDefault() {
		b.lines[local].expand(g.sx, g.sx, bg)
		b.lines[local].cellUsed = g.sx
	}

	if b, local := g.blocks.locate(g.hsize, &cache); b != nil {
		b.lines[local].compact()
	}

	g.hsize++
	g.hscrolled++
	g.CollectHistory()
}

// ScrollHistoryRegion implements the three-phase shift described in
// spec.md §4.D for scrolling a sub-region of the screen while also
// feeding its top line into history: extend by one, push the whole
// visible region down by one, copy the region's (pre-shift) top line
// into the freed history slot, then shift [upper+1, lower] up by one
// within the region and blank the new bottom row. upper and lower are
// 0-based rows relative to the visible region's top.
func (g *Grid) ScrollHistoryRegion(upper, lower int, bg Color) {
	g.completeReflow()
	g.blocks.grow(1, g.sx)
	oldHsize := g.hsize

	var cache locateCache

	for i := g.sy - 1; i >= 0; i-- {
		srcRow, dstRow := oldHsize+i, oldHsize+1+i
		sb, sl := g.blocks.locate(srcRow, &cache)
		db, dl := g.blocks.locate(dstRow, &cache)
		if sb == nil || db == nil {
			continue
		}
		db.lines[dl].free()
		db.lines[dl] = sb.lines[sl]
		sb.lines[sl] = newLine()
	}

	topRow := oldHsize + 1 + upper
	tb, tl := g.blocks.locate(topRow, &cache)
	hb, hl := g.blocks.locate(oldHsize, &cache)
	if tb != nil && hb != nil {
		hb.lines[hl].free()
		hb.lines[hl] = cloneLine(tb.lines[tl])
	}

	g.hsize++
	g.hscrolled++

	regionStart := g.hsize + upper + 1
	regionEnd := g.hsize + lower
	for row := regionStart; row <= regionEnd; row++ {
		sb, sl := g.blocks.locate(row, &cache)
		db, dl := g.blocks.locate(row-1, &cache)
		if sb == nil || db == nil {
			continue
		}
		db.lines[dl].free()
		db.lines[dl] = sb.lines[sl]
		sb.lines[sl] = newLine()
	}

	g.ClearLines(g.hsize+lower, 1, bg)
	g.CollectHistory()
}

// ClearHistory drops every scrollback row, leaving only the visible
// region.
func (g *Grid) ClearHistory() {
	g.completeReflow()
	if g.hsize == 0 {
		return
	}
	g.blocks.trimHead(g.hsize)
	g.hsize = 0
	g.hscrolled = 0
}

// CollectHistory trims 10% of hlimit (minimum 1) off the head of
// history once hsize reaches hlimit, and clamps hscrolled (spec.md
// §4.D, §8 invariant #5).
func (g *Grid) CollectHistory() {
	g.completeReflow()
	if g.hlimit <= 0 || g.hsize < g.hlimit {
		return
	}

	trim := g.hlimit / 10
	if trim < 1 {
		trim = 1
	}
	if trim > g.hsize {
		trim = g.hsize
	}

	g.blocks.trimHead(trim)
	g.hsize -= trim

	if g.hscrolled > g.hsize {
		g.hscrolled = g.hsize
	}
}

// DuplicateLines copies ny line records from src (starting at sy0) into
// dst (starting at dy), deep-cloning cells and extended tables so the
// two grids remain independent afterward (spec.md §4.D).
func DuplicateLines(dst *Grid, dy int, src *Grid, sy0, ny int) {
	src.completeReflow()
	dst.completeReflow()
	var srcCache, dstCache locateCache
	for i := 0; i < ny; i++ {
		sb, sl := src.blocks.locate(sy0+i, &srcCache)
		db, dl := dst.blocks.locate(dy+i, &dstCache)
		if sb == nil || db == nil {
			continue
		}
		db.lines[dl].free()
		db.lines[dl] = cloneLine(sb.lines[sl])
	}
}

// PeekLine returns a pointer to the line at row y for introspection
// (tests, diffing), or nil if y is out of range (spec.md §4.D).
func (g *Grid) PeekLine(y int) *Line {
	g.completeReflow()
	if !g.inRange(y) {
		return nil
	}
	var cache locateCache
	b, local := g.blocks.locate(y, &cache)
	if b == nil {
		return nil
	}
	return &b.lines[local]
}

// CompareResult reports whether two grids hold identical content, and
// if not, the coordinates of the first mismatch.
type CompareResult struct {
	Equal bool
	Row   int
	Col   int
}

// Compare performs a full structural diff of a and b (spec.md §6's
// compare(a, b) → bool, extended per SPEC_FULL.md §12 to report the
// first mismatching coordinate; CompareResult.Equal alone satisfies the
// original bool contract).
func Compare(a, b *Grid) CompareResult {
	a.completeReflow()
	b.completeReflow()
	if a.sx != b.sx || a.sy != b.sy || a.hsize != b.hsize {
		return CompareResult{Row: -1, Col: -1}
	}

	rows := a.hsize + a.sy
	cols := a.sx
	if b.sx > cols {
		cols = b.sx
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if a.GetCell(x, y) != b.GetCell(x, y) {
				return CompareResult{Row: y, Col: x}
			}
		}
	}

	return CompareResult{Equal: true, Row: -1, Col: -1}
}

// checkInvariants validates spec.md §8's invariants #1, #2, #3 and the
// hscrolled <= hsize half of #5; hsize <= hlimit is not checked.
// Only active when Debug is set (spec.md §7: invariant violations in
// debug builds abort rather than limp on).
func (g *Grid) checkInvariants() {
	if !Debug {
		return
	}
	if !g.reflowing {
		assertInvariant(g.blocks.hallocated() == g.hsize+g.sy, "hallocated != hsize+sy")
	}
	g.blocks.checkInvariants(g.blocks.hallocated())
	assertInvariant(g.hscrolled <= g.hsize, "hscrolled > hsize")
}
