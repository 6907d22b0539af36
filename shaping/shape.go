// Package shaping converts logical Unicode text into the visual form expected by a
// left-to-right glyph drawing routine: Arabic letters are replaced by their contextual
// presentation forms and mixed-direction runs are reordered per the bidi algorithm.
package shaping

import (
	"strings"

	"github.com/go-text/typesetting/language"
)

// Shape returns text ready to be drawn left-to-right. Each line is shaped on its own.
// Input without right-to-left characters is returned unchanged.
func Shape(text string) string {
	if text == "" {
		return ""
	}
	if !strings.ContainsRune(text, '\n') {
		return shapeLine(text)
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = shapeLine(line)
	}
	return strings.Join(lines, "\n")
}

func shapeLine(line string) string {
	line = strings.TrimSuffix(line, "\r")
	runes := []rune(line)
	if hasArabic(runes) {
		runes = reshape(runes)
	}
	if !hasRTL(runes) {
		return string(runes)
	}
	base := paragraphLevel(runes)
	return string(reorder(runes, resolveLevels(runes, base)))
}

func hasArabic(runes []rune) bool {
	for _, r := range runes {
		if language.LookupScript(r) == language.Arabic {
			return true
		}
	}
	return false
}
