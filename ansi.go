package termgrid

import (
	"strconv"
	"strings"
)

// sgrAttrMask is every Attr bit with a corresponding SGR code. AttrCharset
// is deliberately excluded: it has no SGR code of its own and survives
// the zero-reset below (spec.md §6's Sentinels note), so it's handled
// separately via SO/SI.
const sgrAttrMask = AttrBright | AttrDim | AttrItalics | AttrUnderscore |
	AttrBlink | AttrReverse | AttrHidden | AttrStrikethrough

var sgrCodeOrder = []struct {
	bit  Attr
	code string
}{
	{AttrBright, "1"},
	{AttrDim, "2"},
	{AttrItalics, "3"},
	{AttrUnderscore, "4"},
	{AttrBlink, "5"},
	{AttrReverse, "7"},
	{AttrHidden, "8"},
	{AttrStrikethrough, "9"},
}

// fgCode returns the SGR parameter(s) selecting c as a foreground color
// (spec.md §6). bright selects the 90+n bright-ANSI form over 30+n;
// ANSI indices 9-15 always use the bright form.
func fgCode(c Color, bright bool) string {
	switch c.Mode {
	case ColorModeRGB:
		r, g, b := c.RGB()
		return "38;2;" + strconv.Itoa(int(r)) + ";" + strconv.Itoa(int(g)) + ";" + strconv.Itoa(int(b))
	case ColorMode256:
		return "38;5;" + strconv.Itoa(int(c.Value))
	default:
		if c.IsDefault() {
			return "39"
		}
		if c.Value > ColorDefault {
			return strconv.Itoa(90 + int(c.Value) - 8)
		}
		if bright {
			return strconv.Itoa(90 + int(c.Value))
		}
		return strconv.Itoa(30 + int(c.Value))
	}
}

// bgCode is fgCode's background analogue: base 40/49, bright 100+n.
func bgCode(c Color, bright bool) string {
	switch c.Mode {
	case ColorModeRGB:
		r, g, b := c.RGB()
		return "48;2;" + strconv.Itoa(int(r)) + ";" + strconv.Itoa(int(g)) + ";" + strconv.Itoa(int(b))
	case ColorMode256:
		return "48;5;" + strconv.Itoa(int(c.Value))
	default:
		if c.IsDefault() {
			return "49"
		}
		if c.Value > ColorDefault {
			return strconv.Itoa(100 + int(c.Value) - 8)
		}
		if bright {
			return strconv.Itoa(100 + int(c.Value))
		}
		return strconv.Itoa(40 + int(c.Value))
	}
}

// LastCell anchors the running render state string_cells diffs against
// (spec.md §6's `last_cell` IN/OUT parameter). A caller starting a fresh
// render pass should seed Fg and Bg with DefaultColor, matching the
// grid's own default cell; the Go zero value's Color{} is ANSI index 0
// (black), not the default sentinel, so a bare `LastCell{}` forces a
// spurious color code on the first cell.
type LastCell struct {
	Attr Attr
	Fg   Color
	Bg   Color
}

// StringCellsOptions controls string_cells' output shape (spec.md §6).
type StringCellsOptions struct {
	WithCodes bool // emit SGR/charset-shift escape sequences
	EscapeC0  bool // backslash-escape control bytes and literal backslashes
	Trim      bool // strip trailing spaces from the result
}

const (
	escC0SO = "\x0e"
	escC0SI = "\x0f"
)

func escapeByte(b byte) string {
	switch b {
	case 0x1b:
		return `\033`
	case 0x0e:
		return `\016`
	case 0x0f:
		return `\017`
	case '\\':
		return `\\`
	default:
		if b < 0x20 {
			s := strconv.FormatInt(int64(b), 8)
			return `\` + strings.Repeat("0", 3-len(s)) + s
		}
		return string(b)
	}
}

func escapeText(s string, escapeC0 bool) string {
	if !escapeC0 {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == '\\' {
			b.WriteString(escapeByte(c))
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// StringCells renders nx cells starting at (px, py) to a byte string,
// emitting the minimal SGR transitions between consecutive cells'
// styles (spec.md §6). last is read and updated in place, so a caller
// rendering successive rows can thread style state across calls.
func StringCells(g *Grid, px, py, nx int, last *LastCell, opts StringCellsOptions) string {
	var out strings.Builder

	for i := 0; i < nx; i++ {
		c := g.GetCell(px+i, py)
		if c.Flags&FlagPadding != 0 {
			continue
		}

		if opts.WithCodes {
			writeTransition(&out, last, c, opts.EscapeC0)
		} else {
			last.Attr, last.Fg, last.Bg = c.Attr, c.Fg, c.Bg
		}

		out.WriteString(escapeText(c.Text, opts.EscapeC0))
	}

	result := out.String()
	if opts.Trim {
		result = strings.TrimRight(result, " ")
	}
	return result
}

// writeTransition emits the SGR/charset-shift sequence needed to move
// rendering state from *last to c's style, then updates *last.
func writeTransition(out *strings.Builder, last *LastCell, c Cell, escapeC0 bool) {
	prevCharset := last.Attr&AttrCharset != 0
	curCharset := c.Attr&AttrCharset != 0

	reset := last.Attr&sgrAttrMask&^c.Attr != 0

	var codes []string
	if reset {
		codes = append(codes, "0")
	}

	newlySet := c.Attr & sgrAttrMask
	if !reset {
		newlySet &^= last.Attr
	}
	for _, a := range sgrCodeOrder {
		if newlySet&a.bit != 0 {
			codes = append(codes, a.code)
		}
	}

	bright := c.Attr&AttrBright != 0
	if reset || c.Fg != last.Fg {
		codes = append(codes, fgCode(c.Fg, bright))
	}
	if reset || c.Bg != last.Bg {
		codes = append(codes, bgCode(c.Bg, bright))
	}

	if len(codes) > 0 {
		if escapeC0 {
			out.WriteString(`\033`)
		} else {
			out.WriteByte(0x1b)
		}
		out.WriteByte('[')
		out.WriteString(strings.Join(codes, ";"))
		out.WriteByte('m')
	}

	if curCharset != prevCharset {
		shift := escC0SO
		if !curCharset {
			shift = escC0SI
		}
		if escapeC0 {
			out.WriteString(escapeByte(shift[0]))
		} else {
			out.WriteString(shift)
		}
	}

	last.Attr, last.Fg, last.Bg = c.Attr, c.Fg, c.Bg
}

