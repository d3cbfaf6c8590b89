package pdf

import (
	"strings"
	"unicode/utf8"
)

// helveticaFactor approximates the average glyph advance of Helvetica as a
// fraction of the font size. The documents embed only the two standard
// Helvetica fonts, so all width and wrap math uses this one approximation;
// mixing it with true font metrics would misalign right-aligned cells.
const helveticaFactor = 0.5

// textWidth estimates the rendered width of s at the given font size.
func textWidth(s string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * size * helveticaFactor
}

// wrapText breaks text into lines no wider than maxWidth at the given font
// size. Runs of whitespace collapse to single spaces. Words are packed
// greedily; a single word wider than maxWidth is hard-split into fitting rune
// chunks rather than overflowing the column. Blank input yields no lines.
func wrapText(text string, maxWidth, size float64) []string {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return nil
	}

	var lines []string
	var current string
	for _, word := range strings.Split(normalized, " ") {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if textWidth(candidate, size) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		if textWidth(word, size) > maxWidth {
			chunks := chunkWord(word, maxWidth, size)
			lines = append(lines, chunks[:len(chunks)-1]...)
			current = chunks[len(chunks)-1]
		} else {
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// chunkWord splits a single word into rune chunks that each fit in maxWidth.
func chunkWord(word string, maxWidth, size float64) []string {
	maxRunes := int(maxWidth / (size * helveticaFactor))
	if maxRunes < 1 {
		maxRunes = 1
	}
	runes := []rune(word)
	var chunks []string
	for len(runes) > maxRunes {
		chunks = append(chunks, string(runes[:maxRunes]))
		runes = runes[maxRunes:]
	}
	return append(chunks, string(runes))
}
