// Package text prepares quote text for rendering: Arabic glyph shaping,
// word wrapping and size fitting.
package text

import (
	"unicode"

	"github.com/abdullahdiaa/garabic"
)

// ContainsArabic reports whether s has at least one rune from the Arabic
// script.
func ContainsArabic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
	}
	return false
}

// Shape converts logical-order Arabic text into the visual form a simple
// left-to-right glyph renderer can draw. garabic.Shape substitutes
// contextual letter forms and emits the result in visual order, so its
// output needs no further reordering. Text without Arabic runes is
// returned unchanged, so shaping already-shaped output is a no-op.
func Shape(s string) string {
	if !ContainsArabic(s) || isShaped(s) {
		return s
	}
	return garabic.Shape(s)
}

// isShaped reports whether s already carries Arabic presentation forms,
// which only appear in shaper output.
func isShaped(s string) bool {
	for _, r := range s {
		if (r >= 0xFB50 && r <= 0xFDFF) || (r >= 0xFE70 && r <= 0xFEFF) {
			return true
		}
	}
	return false
}
