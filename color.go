package termgrid

// ColorMode distinguishes how a Color's Value field is interpreted.
type ColorMode uint8

const (
	// ColorModeANSI treats Value as one of the 16 standard ANSI indices,
	// or ColorDefault (8) for "terminal default".
	ColorModeANSI ColorMode = iota
	// ColorMode256 treats Value as an xterm 256-color palette index (0-255).
	ColorMode256
	// ColorModeRGB treats Value as a packed 24-bit 0xRRGGBB value.
	ColorModeRGB
)

// ColorDefault is the sentinel ANSI-mode value meaning "terminal default",
// matching spec.md §3's "Default is sentinel 8".
const ColorDefault uint32 = 8

// Color is a cell foreground or background color: a small integer plus
// flag bits distinguishing ANSI-16, xterm-256, and 24-bit RGB (spec.md §3).
type Color struct {
	Mode  ColorMode
	Value uint32
}

// DefaultColor is the zero-cost "use the terminal default" sentinel.
var DefaultColor = Color{Mode: ColorModeANSI, Value: ColorDefault}

// IsDefault reports whether c refers to the terminal's default color.
func (c Color) IsDefault() bool {
	return c.Mode == ColorModeANSI && c.Value == ColorDefault
}

// ANSIColor builds a standard 16-color (0-15) Color.
func ANSIColor(index uint8) Color {
	return Color{Mode: ColorModeANSI, Value: uint32(index)}
}

// Palette256Color builds a 256-palette Color.
func Palette256Color(index uint8) Color {
	return Color{Mode: ColorMode256, Value: uint32(index)}
}

// RGBColor builds a 24-bit true-color Color from individual channels.
func RGBColor(r, g, b uint8) Color {
	return Color{Mode: ColorModeRGB, Value: uint32(r)<<16 | uint32(g)<<8 | uint32(b)}
}

// RGB splits a ColorModeRGB Value back into its channels. Only valid
// when c.Mode == ColorModeRGB.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c.Value >> 16), uint8(c.Value >> 8), uint8(c.Value)
}

// RGBTriple holds resolved 8-bit-per-channel color, used by the default palette.
type RGBTriple struct {
	R, G, B uint8
}

// DefaultPalette is the standard 256-color palette: 16 named colors (0-15),
// a 216-entry color cube (16-231), and 24 grayscale steps (232-255).
// Generated the same way the teacher's colors.go builds its DefaultPalette.
var DefaultPalette = [256]RGBTriple{
	{0, 0, 0},       // Black
	{205, 49, 49},   // Red
	{13, 188, 121},  // Green
	{229, 229, 16},  // Yellow
	{36, 114, 200},  // Blue
	{188, 63, 188},  // Magenta
	{17, 168, 205},  // Cyan
	{229, 229, 229}, // White

	{102, 102, 102}, // Bright Black
	{241, 76, 76},   // Bright Red
	{35, 209, 139},  // Bright Green
	{245, 245, 67},  // Bright Yellow
	{59, 142, 234},  // Bright Blue
	{214, 112, 214}, // Bright Magenta
	{41, 184, 219},  // Bright Cyan
	{255, 255, 255}, // Bright White
}

func init() {
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				DefaultPalette[i] = RGBTriple{R: uint8(r * 51), G: uint8(g * 51), B: uint8(b * 51)}
				i++
			}
		}
	}

	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		DefaultPalette[232+j] = RGBTriple{gray, gray, gray}
	}
}

// Resolve converts a Color to concrete RGB, using fallback for the default
// sentinel (ColorModeANSI with Value == ColorDefault).
func (c Color) Resolve(fallback RGBTriple) RGBTriple {
	switch c.Mode {
	case ColorModeRGB:
		r, g, b := c.RGB()
		return RGBTriple{r, g, b}
	case ColorMode256:
		if c.Value < 256 {
			return DefaultPalette[c.Value]
		}
		return fallback
	default: // ColorModeANSI
		if c.Value == ColorDefault || c.Value >= 16 {
			return fallback
		}
		return DefaultPalette[c.Value]
	}
}

// Attr is a bitset of rendering attributes (spec.md §3's "attr" field).
type Attr uint16

const (
	AttrBright Attr = 1 << iota
	AttrDim
	AttrItalics
	AttrUnderscore
	AttrBlink
	AttrReverse
	AttrHidden
	AttrStrikethrough
	// AttrCharset marks line-drawing charset shift state (SO/SI), preserved
	// across SGR resets per spec.md §6's sentinel note.
	AttrCharset
)

// CellFlags is a bitset of per-cell structural flags, distinct from the
// rendering Attr bitset (spec.md §3).
type CellFlags uint8

const (
	// FlagPadding marks the right half of a wide (2-column) glyph.
	FlagPadding CellFlags = 1 << iota
	// FlagExtended marks a dense CellEntry whose data lives in the line's
	// extended side table rather than inline.
	FlagExtended
	// FlagFg256 hints that the foreground index should be read as a
	// 256-palette index rather than an ANSI-16 index.
	FlagFg256
	// FlagBg256 is the background analogue of FlagFg256.
	FlagBg256
)
