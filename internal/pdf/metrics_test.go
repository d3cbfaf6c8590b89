package pdf

import (
	"strings"
	"testing"
)

func TestTextWidth(t *testing.T) {
	tests := []struct {
		text string
		size float64
		want float64
	}{
		{"", 11, 0},
		{"abcd", 10, 20},
		{"Total", 11, 27.5},
		{"€100", 10, 20}, // runes, not bytes
	}
	for _, tt := range tests {
		if got := textWidth(tt.text, tt.size); got != tt.want {
			t.Errorf("textWidth(%q, %v) = %v, want %v", tt.text, tt.size, got, tt.want)
		}
	}
}

func TestWrapText_Empty(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t  \n"} {
		if lines := wrapText(input, 200, 10); len(lines) != 0 {
			t.Errorf("wrapText(%q) = %v, want no lines", input, lines)
		}
	}
}

func TestWrapText_NormalizesWhitespace(t *testing.T) {
	lines := wrapText("  hello   world \n again ", 500, 10)
	if len(lines) != 1 || lines[0] != "hello world again" {
		t.Errorf("wrapText = %v, want [hello world again]", lines)
	}
}

func TestWrapText_LinesFitWidth(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog and keeps on running"
	for _, maxWidth := range []float64{60, 90, 150, 300} {
		for _, line := range wrapText(text, maxWidth, 10) {
			if w := textWidth(line, 10); w > maxWidth {
				t.Errorf("maxWidth %v: line %q is %v wide", maxWidth, line, w)
			}
		}
	}
}

// Wrapping must never lose or duplicate characters: joining the lines back
// with single spaces reproduces the normalized input (spaces inserted by
// hard-splitting aside, which only ever land inside overlong words).
func TestWrapText_Completeness(t *testing.T) {
	tests := []string{
		"one two three four five six seven eight nine ten",
		"short",
		"a b c d e f g h i j k l m n o p",
		"word supercalifragilisticexpialidocious word",
		"https://example.com/some/extremely/long/path/without/any/spaces/at/all",
	}
	for _, text := range tests {
		normalized := strings.Join(strings.Fields(text), " ")
		lines := wrapText(text, 80, 10)
		joined := strings.Join(lines, " ")
		if strings.ReplaceAll(joined, " ", "") != strings.ReplaceAll(normalized, " ", "") {
			t.Errorf("characters lost or duplicated: %q -> %v", text, lines)
		}
	}
}

func TestWrapText_JoinRoundTrip(t *testing.T) {
	// Without overlong words the join reproduces the normalized text exactly.
	text := "pay within thirty days of the invoice date"
	lines := wrapText(text, 100, 10)
	if got := strings.Join(lines, " "); got != text {
		t.Errorf("join = %q, want %q", got, text)
	}
}

func TestWrapText_HardSplitsOverlongWords(t *testing.T) {
	// 40 chars at size 10 is 200pt; a 60pt column forces chunks of 12 runes.
	word := strings.Repeat("x", 40)
	lines := wrapText(word, 60, 10)
	if len(lines) < 2 {
		t.Fatalf("expected hard split, got %v", lines)
	}
	for _, line := range lines {
		if w := textWidth(line, 10); w > 60 {
			t.Errorf("chunk %q is %v wide, exceeds 60", line, w)
		}
	}
	if strings.Join(lines, "") != word {
		t.Errorf("chunks %v do not reassemble into %q", lines, word)
	}
}

func TestChunkWord_TinyWidth(t *testing.T) {
	// A width too small for a single rune still makes progress.
	chunks := chunkWord("abc", 1, 10)
	if strings.Join(chunks, "") != "abc" {
		t.Errorf("chunkWord = %v", chunks)
	}
}
