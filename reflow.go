package termgrid

// placeCell writes c at column col in row, and - if c is a double-width
// glyph - writes a synthetic padding cell at col+1 covering its second
// column (spec.md §4.E's "a width-2 cell never straddles a row boundary").
func placeCell(row *Line, col, sx int, c Cell) {
	row.setCellAt(col, sx, c)
	if c.displayWidth() == 2 {
		pad := c
		pad.Text = ""
		pad.Width = 0
		pad.Flags |= FlagPadding
		row.setCellAt(col+1, sx, pad)
	}
}

// splitRow lays out l's cells across as many new rows of width newSx as
// needed (spec.md §4.E's Split). Every row but the last is marked
// wrapped; the last row inherits l's own wrapped flag, to be possibly
// joined into or cleared by the caller.
func splitRow(l Line, newSx int) []Line {
	rows := []Line{newLine()}
	cur := &rows[len(rows)-1]
	col := 0

	for x := 0; x < l.cellUsed; x++ {
		c := l.getCellAt(x)
		if c.Flags&FlagPadding != 0 {
			continue
		}
		w := c.displayWidth()
		if col+w > newSx {
			cur.setWrapped(true)
			rows = append(rows, newLine())
			cur = &rows[len(rows)-1]
			col = 0
		}
		placeCell(cur, col, newSx, c)
		col += w
	}

	cur.setWrapped(l.isWrapped())
	return rows
}

// copyInto copies cells from src (starting at column 0) into target
// starting at column *w, stopping before any cell that would exceed
// newSx. Returns whether every cell of src was copied, and how many
// source columns were consumed.
func copyInto(target *Line, src *Line, newSx int, w *int) (fullyConsumed bool, copied int) {
	for copied < src.cellUsed {
		c := src.getCellAt(copied)
		if c.Flags&FlagPadding != 0 {
			copied++
			continue
		}
		cw := c.displayWidth()
		if *w+cw > newSx {
			return false, copied
		}
		placeCell(target, *w, newSx, c)
		*w += cw
		copied += cw
	}
	return true, copied
}

// shiftLeft discards src's first `from` columns, moving the remainder
// down to column 0 and updating cellUsed (spec.md §4.E's "partially
// consumed" row handling).
func shiftLeft(l *Line, from, sx int) {
	remaining := l.cellUsed - from
	if remaining <= 0 {
		l.free()
		return
	}

	saved := make([]Cell, 0, remaining)
	for i := from; i < l.cellUsed; i++ {
		c := l.getCellAt(i)
		if c.Flags&FlagPadding != 0 {
			continue
		}
		saved = append(saved, c)
	}

	l.free()
	col := 0
	for _, c := range saved {
		placeCell(l, col, sx, c)
		col += c.displayWidth()
	}
	l.cellUsed = col
}

// joinInto consumes as much of following as fits into target (spec.md
// §4.E's Join), returning the count of fully-consumed rows at the front
// of following. Consumed rows are freed and marked dead in place rather
// than removed, so the caller can splice them out in one step.
func joinInto(target *Line, following []Line, newSx int) int {
	w := target.width()
	consumed := 0
	prevWrapped := target.isWrapped()

	for i := range following {
		src := &following[i]
		if src.isDead() {
			consumed++
			continue
		}
		if src.cellUsed == 0 && !prevWrapped {
			break
		}

		srcWrapped := src.isWrapped()
		fullyConsumed, copied := copyInto(target, src, newSx, &w)

		if fullyConsumed {
			if !srcWrapped {
				target.setWrapped(false)
			}
			src.free()
			src.flags = LineDead
			consumed++
			prevWrapped = srcWrapped
			if w >= newSx {
				break
			}
			continue
		}

		shiftLeft(src, copied, newSx)
		break
	}

	return consumed
}

// spliceReplace replaces the count lines at work[at:at+count] with
// replacement, returning the resulting slice.
func spliceReplace(work []Line, at, count int, replacement []Line) []Line {
	tail := append([]Line{}, work[at+count:]...)
	out := append(work[:at:at], replacement...)
	return append(out, tail...)
}

// applySplitFixup applies spec.md §4.E's Y-fixup rule for a split of
// source row yy into n output rows: any fixup at or past yy shifts down
// by n-1 (the rows the split inserted).
func applySplitFixup(fixups []int, yy, n int) {
	for i, f := range fixups {
		if f >= 0 && yy <= f {
			fixups[i] = f + n - 1
		}
	}
}

// applyJoinFixup applies spec.md §4.E's Y-fixup rule for a join that
// removes k lines at row `to`: a fixup past the removed range shifts up
// by k; a fixup inside the removed range clamps to `to`.
func applyJoinFixup(fixups []int, to, k int) {
	for i, f := range fixups {
		if f < 0 {
			continue
		}
		if f > to+k {
			fixups[i] = f - k
		} else if f > to {
			fixups[i] = to
		}
	}
}

// reflowBlockContents rewraps lines (laid out at oldSx) to newSx,
// applying the per-line decision from spec.md §4.E. fixups holds local
// row indices (within lines) to track through the rewrite; entries are
// updated in place and returned. Returns the new line slice and the
// change in row count (new length minus old length).
func reflowBlockContents(lines []Line, oldSx, newSx int, fixups []int) ([]Line, []int, int) {
	work := make([]Line, len(lines))
	copy(work, lines)

	pos := 0
	for pos < len(work) {
		line := &work[pos]
		if line.isDead() {
			pos++
			continue
		}

		w := line.width()
		f := line.firstCellWidth()

		switch {
		case w == newSx || f > newSx:
			pos++

		case w > newSx:
			rows := splitRow(*line, newSx)
			n := len(rows)
			applySplitFixup(fixups, pos, n)
			work = spliceReplace(work, pos, 1, rows)

			last := &work[pos+n-1]
			if rows[n-1].isWrapped() && last.width() < newSx && pos+n < len(work) {
				consumed := joinInto(last, work[pos+n:], newSx)
				if consumed > 0 {
					applyJoinFixup(fixups, pos+n-1, consumed)
					work = spliceReplace(work, pos+n, consumed, nil)
				}
			}
			pos += n

		case line.isWrapped():
			if pos+1 < len(work) {
				consumed := joinInto(line, work[pos+1:], newSx)
				if consumed > 0 {
					applyJoinFixup(fixups, pos, consumed)
					work = spliceReplace(work, pos+1, consumed, nil)
				}
			}
			pos++

		default:
			pos++
		}
	}

	return work, fixups, len(work) - len(lines)
}

// reflowBlock rewrites b's lines to newSx, stores the resulting row count
// delta in b.reflowDelta, and returns the updated fixups (spec.md §4.E's
// Block-level pass, for a single block).
func reflowBlock(b *block, newSx int, fixups []int) []int {
	newLines, outFixups, delta := reflowBlockContents(b.lines, b.sx, newSx, fixups)
	b.lines = newLines
	b.sx = newSx
	b.needReflow = false
	b.reflowDelta = delta
	return outFixups
}

// Reflow rewraps the entire grid to newSx, splitting or joining lines
// within each logical paragraph and repairing the cursor's row in place
// (spec.md §4.E's Grid-level reflow, §6's resize entry point). History
// blocks beyond one screen past the visible region are marked
// need_reflow and left untouched; they're rewritten lazily on first
// access via completeReflow.
//
// cursorRow is in the same addressing as GetCell/PeekLine: row 0 is the
// oldest line in the grid's addressable range (history head), not the
// top of the viewport. Callers that track the cursor as a viewport-
// relative row must add hsize before calling and subtract the (possibly
// different, post-reflow) hsize after.
//
// Fixups are tracked in rows-from-the-tail-end coordinates, which stay
// stable as blocks are rewritten tail to head regardless of how
// head-ward (not-yet-visited) blocks later change size - only the
// blocks strictly after a given row, which have already been finalized
// by the time the walk reaches it, affect that row's distance from the
// tail end.
func (g *Grid) Reflow(newSx int, cursorRow *int) {
	if newSx < 1 || newSx == g.sx {
		return
	}

	g.reflowing = true
	defer func() { g.reflowing = false }()

	totalOld := g.hsize + g.sy

	var cy int
	haveCursor := cursorRow != nil
	if haveCursor {
		cy = totalOld - 1 - *cursorRow
	}

	rev := g.hscrolled - 1

	hsizeDiff := 0
	emittedNew := 0
	tailBase := 0

	for b := g.blocks.tail; b != nil; b = b.prev {
		n := len(b.lines)

		if emittedNew > g.sy {
			b.needReflow = true
			b.sx = newSx
			tailBase += n
			continue
		}

		var fixups []int
		cyIdx, revIdx := -1, -1
		if haveCursor && cy >= tailBase && cy < tailBase+n {
			cyIdx = len(fixups)
			fixups = append(fixups, n-1-(cy-tailBase))
		}
		if rev >= 0 && rev >= tailBase && rev < tailBase+n {
			revIdx = len(fixups)
			fixups = append(fixups, n-1-(rev-tailBase))
		}

		outFixups := reflowBlock(b, newSx, fixups)
		newLen := len(b.lines)

		if cyIdx >= 0 {
			cy = tailBase + (newLen - 1 - outFixups[cyIdx])
		}
		if revIdx >= 0 {
			rev = tailBase + (newLen - 1 - outFixups[revIdx])
		}

		hsizeDiff += b.reflowDelta
		emittedNew += newLen
		tailBase += newLen
	}

	if hsizeDiff < 0 && -hsizeDiff > g.hsize {
		residual := -hsizeDiff - g.hsize
		g.hsize = 0
		g.blocks.grow(residual, newSx)
	} else {
		g.hsize += hsizeDiff
	}

	if g.hscrolled > g.hsize {
		g.hscrolled = g.hsize
	}

	g.sx = newSx

	if haveCursor {
		totalNew := g.hsize + g.sy
		*cursorRow = totalNew - 1 - cy
	}
	if rev >= 0 {
		g.hscrolled = rev + 1
	}
	if g.hscrolled > g.hsize {
		g.hscrolled = g.hsize
	}
	if g.hscrolled < 0 {
		g.hscrolled = 0
	}

	g.checkInvariants()
}

// completeReflow rewrites every block still marked need_reflow, with no
// fixups to track (spec.md §4.E's Lazy completion). The reflowing guard
// prevents re-entry when a facade call triggers this from within an
// already-running reflow.
func (g *Grid) completeReflow() {
	if g.reflowing {
		return
	}

	pending := false
	for b := g.blocks.head; b != nil; b = b.next {
		if b.needReflow {
			pending = true
			break
		}
	}
	if !pending {
		return
	}

	g.reflowing = true
	defer func() { g.reflowing = false }()

	hsizeDiff := 0
	for b := g.blocks.head; b != nil; b = b.next {
		if !b.needReflow {
			continue
		}
		reflowBlock(b, g.sx, nil)
		hsizeDiff += b.reflowDelta
	}

	if hsizeDiff < 0 && -hsizeDiff > g.hsize {
		residual := -hsizeDiff - g.hsize
		g.hsize = 0
		g.blocks.grow(residual, g.sx)
	} else {
		g.hsize += hsizeDiff
	}
	if g.hscrolled > g.hsize {
		g.hscrolled = g.hsize
	}
}
