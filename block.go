package termgrid

// maxBlockLines is the largest number of lines a single block may hold
// (spec.md §4.C).
const maxBlockLines = 1024

// block is a contiguous array of lines, carrying the width its lines were
// laid out at and a lazy-reflow marker (spec.md §3's "Block").
type block struct {
	lines      []Line
	sx         int
	needReflow bool

	// reflowDelta is the row-count change from the most recent reflowBlock
	// call (reflow.go), staged here so the grid-level driver can read it
	// back without reflowBlock needing its own return channel for it.
	reflowDelta int

	prev, next *block
}

// blockList is a doubly-linked list of blocks that together back the row
// address space [0, hallocated) (spec.md §4.C). The grid owns exactly
// one blockList; blocks never appear in more than one list.
type blockList struct {
	head, tail *block
	count      int // number of blocks
}

// locateCache is the one-entry, caller-supplied cache that short-circuits
// repeated locate calls into the same block. Per spec.md §4.C's design
// note, this isn't an optimization - bulk operations (clear, move,
// reflow) address rows in monotone sequence, and without it each access
// degrades to O(#blocks).
type locateCache struct {
	offsetBase int
	lastBlock  *block
}

// pushTail appends b to the end of the list.
func (bl *blockList) pushTail(b *block) {
	b.prev = bl.tail
	b.next = nil
	if bl.tail != nil {
		bl.tail.next = b
	} else {
		bl.head = b
	}
	bl.tail = b
	bl.count++
}

// popHead removes and returns the first block, or nil if the list is empty.
func (bl *blockList) popHead() *block {
	b := bl.head
	if b == nil {
		return nil
	}
	bl.head = b.next
	if bl.head != nil {
		bl.head.prev = nil
	} else {
		bl.tail = nil
	}
	b.prev, b.next = nil, nil
	bl.count--
	return b
}

// popTail removes and returns the last block, or nil if the list is empty.
func (bl *blockList) popTail() *block {
	b := bl.tail
	if b == nil {
		return nil
	}
	bl.tail = b.prev
	if bl.tail != nil {
		bl.tail.next = nil
	} else {
		bl.head = nil
	}
	b.prev, b.next = nil, nil
	bl.count--
	return b
}

// hallocated returns the sum of block sizes, i.e. the number of
// addressable rows currently backed by storage.
func (bl *blockList) hallocated() int {
	total := 0
	for b := bl.head; b != nil; b = b.next {
		total += len(b.lines)
	}
	return total
}

// locate finds the block owning row py and py's row index within that
// block, using a two-sided scan (spec.md §4.C): walk from the head if py
// is in the first half of the address space, from the tail otherwise.
// cache, if non-nil, is checked first and updated on a cold lookup.
// A py outside [0, hallocated) yields a nil block.
func (bl *blockList) locate(py int, cache *locateCache) (*block, int) {
	if cache != nil && cache.lastBlock != nil {
		base := cache.offsetBase
		if py >= base && py < base+len(cache.lastBlock.lines) {
			return cache.lastBlock, py - base
		}
	}

	total := bl.hallocated()
	if py < 0 || py >= total {
		return nil, 0
	}
	var b *block
	var base int

	if py < total/2 {
		base = 0
		for b = bl.head; b != nil; b = b.next {
			if py < base+len(b.lines) {
				break
			}
			base += len(b.lines)
		}
	} else {
		base = total
		for b = bl.tail; b != nil; b = b.prev {
			base -= len(b.lines)
			if py >= base {
				break
			}
		}
	}

	if b == nil {
		return nil, 0
	}

	if cache != nil {
		cache.lastBlock = b
		cache.offsetBase = base
	}

	return b, py - base
}

// grow appends n zero-initialized lines to the row address space,
// creating new blocks at width sx as needed once the tail block is full
// (spec.md §4.C's realloc, grow direction).
func (bl *blockList) grow(n, sx int) {
	for n > 0 {
		if bl.tail == nil || len(bl.tail.lines) >= maxBlockLines {
			bl.pushTail(&block{sx: sx})
		}

		room := maxBlockLines - len(bl.tail.lines)
		take := n
		if take > room {
			take = room
		}

		for i := 0; i < take; i++ {
			bl.tail.lines = append(bl.tail.lines, newLine())
		}
		n -= take
	}
}

// shrink frees n rows from the tail of the address space, freeing whole
// blocks when they fit entirely within n, else trimming the tail block's
// line slice after releasing the freed lines' buffers (spec.md §4.C's
// realloc, shrink direction).
func (bl *blockList) shrink(n int) {
	for n > 0 && bl.tail != nil {
		sz := len(bl.tail.lines)
		if sz <= n {
			for i := range bl.tail.lines {
				bl.tail.lines[i].free()
			}
			bl.popTail()
			n -= sz
			continue
		}

		for i := sz - n; i < sz; i++ {
			bl.tail.lines[i].free()
		}
		bl.tail.lines = bl.tail.lines[:sz-n]
		n = 0
	}
}

// realloc grows or shrinks the address space so that hallocated() equals
// target (spec.md §4.C).
func (bl *blockList) realloc(target, sx int) {
	cur := bl.hallocated()
	if target > cur {
		bl.grow(target-cur, sx)
	} else if target < cur {
		bl.shrink(cur - target)
	}
}

// trimHead frees the first n rows overall (spec.md §4.C). Whole blocks
// are consumed from the head when they fit entirely within n; a partial
// head removal frees those lines' buffers, shifts the remainder to the
// front of the block's slice, and shrinks the slice in place. Partial
// trims are rare in practice (history collection almost always removes
// whole blocks), so paying O(remaining) for them is an accepted tradeoff,
// not a bug.
func (bl *blockList) trimHead(n int) {
	for n > 0 && bl.head != nil {
		sz := len(bl.head.lines)
		if sz <= n {
			for i := range bl.head.lines {
				bl.head.lines[i].free()
			}
			bl.popHead()
			n -= sz
			continue
		}

		for i := 0; i < n; i++ {
			bl.head.lines[i].free()
		}
		copy(bl.head.lines, bl.head.lines[n:])
		bl.head.lines = bl.head.lines[:sz-n]
		n = 0
	}
}

// checkInvariants validates that the sum of block sizes equals expected
// (spec.md §8 invariant #2) and that no block exceeds maxBlockLines
// (invariant #3). Only active when Debug is set (spec.md §7).
func (bl *blockList) checkInvariants(expected int) {
	if !Debug {
		return
	}
	total := 0
	for b := bl.head; b != nil; b = b.next {
		assertInvariant(len(b.lines) > 0, "block with zero lines")
		assertInvariant(len(b.lines) <= maxBlockLines, "block exceeds maxBlockLines")
		total += len(b.lines)
	}
	assertInvariant(total == expected, "sum of block sizes disagrees with hallocated")
}
