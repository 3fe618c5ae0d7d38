// Package wrap breaks caption text into display lines of bounded width.
package wrap

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Lines greedily packs the whitespace-separated words of text into lines of at
// most maxWidth characters. Any run of Unicode whitespace, including embedded
// newlines, separates words. A word longer than maxWidth is placed on its own
// line without being split. Blank text yields no lines. Text is NFC-normalized
// before measuring so a composed character counts once.
func Lines(text string, maxWidth int) []string {
	if maxWidth < 1 {
		maxWidth = 1
	}
	words := strings.Fields(norm.NFC.String(text))
	if len(words) == 0 {
		return nil
	}

	lines := make([]string, 0, 1)
	var current strings.Builder
	currentWidth := 0
	for _, word := range words {
		width := utf8.RuneCountInString(word)
		if currentWidth > 0 && currentWidth+1+width <= maxWidth {
			current.WriteByte(' ')
			current.WriteString(word)
			currentWidth += 1 + width
			continue
		}
		if currentWidth > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		current.WriteString(word)
		currentWidth = width
	}
	lines = append(lines, current.String())
	return lines
}

// Width reports the display width of a line as counted by Lines.
func Width(line string) int {
	return utf8.RuneCountInString(norm.NFC.String(line))
}

// Overlong reports whether line exceeds maxWidth. Such lines are always a
// single unsplittable word.
func Overlong(line string, maxWidth int) bool {
	return Width(line) > maxWidth
}
