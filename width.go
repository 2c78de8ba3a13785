package termgrid

import "github.com/unilibs/uniwidth"

// runeWidth returns the display width of r: 2 for wide characters (CJK,
// emoji), 1 for normal runes, 0 for zero-width (combining marks, controls).
func runeWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

// isWideRune reports whether r occupies two display columns.
func isWideRune(r rune) bool {
	return uniwidth.RuneWidth(r) == 2
}

// StringWidth returns the total display width of s (sum of rune widths).
func StringWidth(s string) int {
	return uniwidth.StringWidth(s)
}
