// Package highlight turns story text plus an ordered list of highlights into
// paragraphs of plain and marked spans, and captures new highlight text from
// a word selection.
package highlight

import (
	"fmt"
	"strings"
)

// Color is a highlight marker color.
type Color string

const (
	Yellow Color = "yellow"
	Green  Color = "green"
	Pink   Color = "pink"
)

// Colors returns all highlight colors in display order.
func Colors() []Color {
	return []Color{Yellow, Green, Pink}
}

// Valid reports whether c is one of the known colors.
func (c Color) Valid() bool {
	switch c {
	case Yellow, Green, Pink:
		return true
	}
	return false
}

// ParseColor converts a color name to a Color.
func ParseColor(s string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown highlight color %q", s)
	}
	return c, nil
}

// Highlight is a user-created marker on a phrase of the story.
type Highlight struct {
	ID    string
	Text  string
	Color Color
}

// Span is a run of paragraph text. Color is empty for plain text.
type Span struct {
	Text        string
	Color       Color
	HighlightID string
}

// Marked reports whether the span carries a highlight.
func (s Span) Marked() bool { return s.Color != "" }

// Paragraph is one line of story content. Break paragraphs come from
// blank lines and carry no spans.
type Paragraph struct {
	Spans []Span
	Break bool
}

// Render splits content into paragraphs on "\n" and applies highlights in
// order. Each highlight marks every literal occurrence of its text inside
// the still-plain parts of a paragraph. Parts marked by an earlier
// highlight are never split again, so an overlapping later highlight only
// matches where its whole text is still plain. Matching never crosses a
// paragraph boundary.
func Render(content string, highlights []Highlight) []Paragraph {
	lines := strings.Split(content, "\n")
	out := make([]Paragraph, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			out = append(out, Paragraph{Break: true})
			continue
		}
		out = append(out, Paragraph{Spans: renderLine(line, highlights)})
	}
	return out
}

func renderLine(line string, highlights []Highlight) []Span {
	spans := []Span{{Text: line}}
	for _, h := range highlights {
		if h.Text == "" {
			continue
		}
		next := make([]Span, 0, len(spans))
		for _, s := range spans {
			if s.Marked() {
				next = append(next, s)
				continue
			}
			parts := strings.Split(s.Text, h.Text)
			for i, p := range parts {
				if p != "" {
					next = append(next, Span{Text: p})
				}
				if i < len(parts)-1 {
					next = append(next, Span{Text: h.Text, Color: h.Color, HighlightID: h.ID})
				}
			}
		}
		spans = next
	}
	return spans
}

// Markup renders paragraphs as plain text with marked spans written as
// [color:text]. Break paragraphs become empty lines.
func Markup(paragraphs []Paragraph) string {
	var b strings.Builder
	for i, p := range paragraphs {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, s := range p.Spans {
			if s.Marked() {
				fmt.Fprintf(&b, "[%s:%s]", s.Color, s.Text)
				continue
			}
			b.WriteString(s.Text)
		}
	}
	return b.String()
}
