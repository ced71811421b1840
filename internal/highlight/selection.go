package highlight

import (
	"strings"
	"unicode"
)

// Word is the byte range [Start, End) of a whitespace-delimited word.
type Word struct {
	Start int
	End   int
}

// Words returns the word ranges of content in reading order.
func Words(content string) []Word {
	var words []Word
	start := -1
	for i, r := range content {
		if unicode.IsSpace(r) {
			if start >= 0 {
				words = append(words, Word{Start: start, End: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, Word{Start: start, End: len(content)})
	}
	return words
}

// Selection is a keyboard selection over word indices. Anchor is where the
// selection started and Cursor where it currently ends; either may be the
// larger index.
type Selection struct {
	Anchor int
	Cursor int
}

// Bounds returns the first and last selected word index.
func (s Selection) Bounds() (int, int) {
	if s.Anchor <= s.Cursor {
		return s.Anchor, s.Cursor
	}
	return s.Cursor, s.Anchor
}

// Contains reports whether word index i is inside the selection.
func (s Selection) Contains(i int) bool {
	lo, hi := s.Bounds()
	return i >= lo && i <= hi
}

// Capture returns the source text covered by the selection, verbatim from
// the first selected word to the end of the last one, including any
// whitespace and line breaks in between. It reports false when the
// selection is out of range or the text is blank.
func Capture(content string, words []Word, sel Selection) (string, bool) {
	lo, hi := sel.Bounds()
	if lo < 0 || hi >= len(words) {
		return "", false
	}
	text := content[words[lo].Start:words[hi].End]
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}
