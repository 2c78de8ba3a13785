package main

import (
	"strconv"
	"strings"

	"github.com/danielgatis/go-termgrid"
)

// driver feeds raw PTY bytes into a grid by hand-parsing the handful of
// control sequences a demo shell actually emits: single-byte characters,
// CR, LF, BS, and a minimal CSI subset (cursor position, SGR, erase line,
// erase display). Every other byte is written as one cell; UTF-8
// sequences are not decoded. It is not a VT parser (spec.md §1 puts that out of
// scope for the grid itself) - just enough plumbing to watch the grid
// facade receive real shell output.
type driver struct {
	g    *termgrid.Grid
	row  int
	col  int
	attr termgrid.Attr
	fg   termgrid.Color
	bg   termgrid.Color

	state  int
	params []int
	cur    strings.Builder
}

const (
	stateGround = iota
	stateEsc
	stateCSI
)

func newDriver(g *termgrid.Grid) *driver {
	return &driver{
		g:  g,
		fg: termgrid.DefaultColor,
		bg: termgrid.DefaultColor,
	}
}

// Write implements io.Writer so a driver can sit directly on a PTY's
// output side.
func (d *driver) Write(p []byte) (int, error) {
	for _, b := range p {
		d.feed(b)
	}
	return len(p), nil
}

func (d *driver) feed(b byte) {
	switch d.state {
	case stateEsc:
		if b == '[' {
			d.state = stateCSI
			d.params = d.params[:0]
			d.cur.Reset()
			return
		}
		d.state = stateGround
		return

	case stateCSI:
		switch {
		case b >= '0' && b <= '9':
			d.cur.WriteByte(b)
			return
		case b == ';':
			d.params = append(d.params, d.intParam())
			d.cur.Reset()
			return
		default:
			d.params = append(d.params, d.intParam())
			d.cur.Reset()
			d.runCSI(b)
			d.state = stateGround
			return
		}
	}

	switch b {
	case 0x1b:
		d.state = stateEsc
	case '\r':
		d.col = 0
	case '\n':
		d.newline()
	case '\b':
		if d.col > 0 {
			d.col--
		}
	default:
		d.putRune(rune(b))
	}
}

func (d *driver) intParam() int {
	if d.cur.Len() == 0 {
		return 0
	}
	n, _ := strconv.Atoi(d.cur.String())
	return n
}

func (d *driver) param(i, def int) int {
	if i >= len(d.params) || d.params[i] == 0 {
		return def
	}
	return d.params[i]
}

func (d *driver) putRune(r rune) {
	w := termgrid.StringWidth(string(r))
	if w < 1 {
		w = 1
	}
	if d.col+w > d.g.SX() {
		d.newline()
	}
	d.g.SetCell(d.col, d.row, termgrid.Cell{
		Text: string(r), Width: uint8(w), Attr: d.attr, Fg: d.fg, Bg: d.bg,
	})
	d.col += w
}

func (d *driver) newline() {
	d.col = 0
	if d.row+1 < d.g.SY() {
		d.row++
		return
	}
	d.g.MoveLines(0, 1, d.g.SY()-1, termgrid.DefaultColor)
	d.g.ClearLines(d.g.SY()-1, 1, termgrid.DefaultColor)
}

// runCSI dispatches a completed CSI sequence ending in final byte b.
func (d *driver) runCSI(b byte) {
	switch b {
	case 'H', 'f': // cursor position
		row := d.param(0, 1) - 1
		col := d.param(1, 1) - 1
		d.row = clampRow(row, d.g.SY())
		d.col = clampCol(col, d.g.SX())
	case 'A': // cursor up
		d.row = clampRow(d.row-d.param(0, 1), d.g.SY())
	case 'B': // cursor down
		d.row = clampRow(d.row+d.param(0, 1), d.g.SY())
	case 'C': // cursor forward
		d.col = clampCol(d.col+d.param(0, 1), d.g.SX())
	case 'D': // cursor back
		d.col = clampCol(d.col-d.param(0, 1), d.g.SX())
	case 'K': // erase in line
		d.eraseLine(d.param(0, 0))
	case 'J': // erase in display
		d.eraseDisplay(d.param(0, 0))
	case 'm': // SGR
		d.applySGR()
	}
}

func (d *driver) eraseLine(mode int) {
	switch mode {
	case 0:
		d.g.Clear(d.col, d.row, d.g.SX()-d.col, 1, d.bg)
	case 1:
		d.g.Clear(0, d.row, d.col+1, 1, d.bg)
	case 2:
		d.g.Clear(0, d.row, d.g.SX(), 1, d.bg)
	}
}

func (d *driver) eraseDisplay(mode int) {
	switch mode {
	case 0:
		d.eraseLine(0)
		d.g.Clear(0, d.row+1, d.g.SX(), d.g.SY()-d.row-1, d.bg)
	case 1:
		d.g.Clear(0, 0, d.g.SX(), d.row, d.bg)
		d.eraseLine(1)
	case 2:
		d.g.Clear(0, 0, d.g.SX(), d.g.SY(), d.bg)
	}
}

func (d *driver) applySGR() {
	if len(d.params) == 0 {
		d.params = []int{0}
	}
	for i := 0; i < len(d.params); i++ {
		switch p := d.params[i]; {
		case p == 0:
			d.attr = 0
			d.fg = termgrid.DefaultColor
			d.bg = termgrid.DefaultColor
		case p == 1:
			d.attr |= termgrid.AttrBright
		case p == 2:
			d.attr |= termgrid.AttrDim
		case p == 3:
			d.attr |= termgrid.AttrItalics
		case p == 4:
			d.attr |= termgrid.AttrUnderscore
		case p == 5:
			d.attr |= termgrid.AttrBlink
		case p == 7:
			d.attr |= termgrid.AttrReverse
		case p == 8:
			d.attr |= termgrid.AttrHidden
		case p == 9:
			d.attr |= termgrid.AttrStrikethrough
		case p >= 30 && p <= 37:
			d.fg = termgrid.ANSIColor(uint8(p - 30))
		case p == 39:
			d.fg = termgrid.DefaultColor
		case p >= 40 && p <= 47:
			d.bg = termgrid.ANSIColor(uint8(p - 40))
		case p == 49:
			d.bg = termgrid.DefaultColor
		case p >= 90 && p <= 97:
			d.attr |= termgrid.AttrBright
			d.fg = termgrid.ANSIColor(uint8(p - 90))
		case p >= 100 && p <= 107:
			d.bg = termgrid.ANSIColor(uint8(p - 100))
		case p == 38 || p == 48:
			i = d.applyExtendedColor(p == 38, i)
		}
	}
}

// applyExtendedColor handles the 38/48;5;n and 38/48;2;r;g;b forms,
// returning the index of the last parameter it consumed.
func (d *driver) applyExtendedColor(foreground bool, i int) int {
	if i+1 >= len(d.params) {
		return i
	}
	switch d.params[i+1] {
	case 5:
		if i+2 >= len(d.params) {
			return i + 1
		}
		c := termgrid.Palette256Color(uint8(d.params[i+2]))
		if foreground {
			d.fg = c
		} else {
			d.bg = c
		}
		return i + 2
	case 2:
		if i+4 >= len(d.params) {
			return len(d.params) - 1
		}
		c := termgrid.RGBColor(uint8(d.params[i+2]), uint8(d.params[i+3]), uint8(d.params[i+4]))
		if foreground {
			d.fg = c
		} else {
			d.bg = c
		}
		return i + 4
	}
	return i + 1
}

func clampRow(row, sy int) int {
	if row < 0 {
		return 0
	}
	if row >= sy {
		return sy - 1
	}
	return row
}

func clampCol(col, sx int) int {
	if col < 0 {
		return 0
	}
	if col >= sx {
		return sx - 1
	}
	return col
}
