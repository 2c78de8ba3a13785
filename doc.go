// Package termgrid provides the screen and scrollback storage engine for
// a headless terminal multiplexer: a grid of styled cells, segmented
// into fixed-size blocks, that can be read and written cell-by-cell and
// rewrapped in place when the screen width changes.
//
// This package has no parser and no renderer. It's the layer in
// between: something upstream (a VT220 escape-sequence interpreter)
// drives it by calling [Grid.SetCell]/[Grid.Clear]/[Grid.MoveLines] and
// friends, and something downstream (a renderer) reads it back via
// [Grid.GetCell]/[Grid.PeekLine]/[StringCells].
//
// # Quick Start
//
//	g := termgrid.Create(80, 24, 2000) // 80 cols, 24 rows, 2000 lines of history
//	defer termgrid.Destroy(g)
//
//	g.SetCell(0, 0, termgrid.Cell{Text: "H", Width: 1, Fg: termgrid.DefaultColor, Bg: termgrid.DefaultColor})
//	g.SetCell(1, 0, termgrid.Cell{Text: "i", Width: 1, Fg: termgrid.DefaultColor, Bg: termgrid.DefaultColor})
//
//	last := termgrid.LastCell{Fg: termgrid.DefaultColor, Bg: termgrid.DefaultColor}
//	out := termgrid.StringCells(g, 0, 0, 5, &last, termgrid.StringCellsOptions{WithCodes: true, Trim: true})
//	fmt.Println(out) // "Hi"
//
// # Architecture
//
// The package is organized around five cooperating pieces:
//
//   - [Cell]/[CellEntry]: a two-tier cell codec. Most cells (plain ASCII,
//     8-bit color, no exotic attributes) pack into an 8-byte dense
//     [CellEntry]; anything richer (wide glyphs, combining marks, RGB
//     color, more than 8 attribute bits) is promoted into a per-line
//     side table of full [Cell] values.
//   - [Line]: one row - a dense cell array plus that side table, with a
//     tiered growth policy so sparse rows stay small.
//   - block (internal): a fixed-size run of up to 1024 lines. Blocks
//     form a doubly-linked list addressing the whole history range; a
//     one-entry locate cache keeps sequential scans (clears, moves,
//     reflow) from degrading to a linear walk of every block.
//   - [Grid]: the facade - cell/region read-write, scrollback, history
//     collection, duplication, and introspection.
//   - reflow (internal, driven by [Grid.Reflow]): rewraps lines to a new
//     width on resize, splitting over-long lines and rejoining wrapped
//     fragments, repairing a caller-supplied cursor row in place.
//     History far enough behind the visible region is marked for lazy
//     rewriting rather than reflowed eagerly on every keystroke.
//
// # Colors and Attributes
//
// A [Color] is a small tagged union: ANSI-16, xterm-256, or 24-bit RGB,
// with value 8 reserved as the "terminal default" sentinel in ANSI mode
// ([DefaultColor]). [Attr] is a bitset of rendering attributes (bright,
// dim, italics, underscore, blink, reverse, hidden, strikethrough, and a
// charset-shift marker); [CellFlags] is a separate, smaller bitset of
// structural per-cell state (padding, extended, 256-color hints).
//
// # History
//
// A [Grid] carries hsize history rows above its sy visible rows.
// [Grid.ScrollHistory] promotes the top visible row into history;
// [Grid.CollectHistory] trims the oldest 10% (minimum one row) once
// hsize reaches hlimit. [Grid.SetHistoryLimit] applies a new hlimit and
// immediately triggers collection if the grid is already at or over it.
//
// # Concurrency
//
// A Grid is not safe for concurrent use. It's owned by exactly one
// logical screen at a time; serialize access the same way you'd
// serialize access to any other single-owner mutable structure.
package termgrid
