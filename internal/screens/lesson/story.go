package lesson

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyling/internal/highlight"
	"github.com/abhisek/storyling/internal/ui/theme"
)

// storyView tracks the word cursor and selection over the story text.
type storyView struct {
	content string
	words   []highlight.Word
	cursor  int
	anchor  int // -1 when not selecting
}

func newStoryView() storyView {
	return storyView{anchor: -1}
}

// load points the view at new content and resets the cursor.
func (v *storyView) load(content string) {
	v.content = content
	v.words = highlight.Words(content)
	v.cursor = 0
	v.anchor = -1
}

func (v *storyView) move(delta int) {
	if len(v.words) == 0 {
		return
	}
	v.cursor = min(max(v.cursor+delta, 0), len(v.words)-1)
}

func (v *storyView) jump(i int) {
	v.cursor = 0
	v.move(i)
}

// toggle starts a selection at the cursor, or drops the current one.
func (v *storyView) toggle() {
	if v.selecting() {
		v.anchor = -1
		return
	}
	v.anchor = v.cursor
}

func (v *storyView) cancel() { v.anchor = -1 }

func (v storyView) selecting() bool { return v.anchor >= 0 }

// selection returns the active selection, or the cursor word alone.
func (v storyView) selection() highlight.Selection {
	if v.selecting() {
		return highlight.Selection{Anchor: v.anchor, Cursor: v.cursor}
	}
	return highlight.Selection{Anchor: v.cursor, Cursor: v.cursor}
}

// capture returns the story text under the selection.
func (v storyView) capture() (string, bool) {
	return highlight.Capture(v.content, v.words, v.selection())
}

type mark uint8

const (
	markNone mark = iota
	markSelected
	markCursor
)

// marks labels every byte of content with its cursor or selection state.
func (v storyView) marks(showCursor bool) []mark {
	out := make([]mark, len(v.content))
	if !showCursor || len(v.words) == 0 {
		return out
	}
	if v.selecting() {
		sel := v.selection()
		for i, w := range v.words {
			if sel.Contains(i) {
				for b := w.Start; b < w.End; b++ {
					out[b] = markSelected
				}
			}
		}
	}
	w := v.words[v.cursor]
	for b := w.Start; b < w.End; b++ {
		out[b] = markCursor
	}
	return out
}

// render draws paragraphs, which must come from highlight.Render over the
// loaded content, wrapped to width.
func (v storyView) render(paragraphs []highlight.Paragraph, width int, showCursor bool) string {
	marks := v.marks(showCursor)
	lines := strings.Split(v.content, "\n")
	wrap := lipgloss.NewStyle().Width(max(width, 10))

	out := make([]string, 0, len(paragraphs))
	offset := 0
	for i, p := range paragraphs {
		if i > 0 {
			offset += len(lines[i-1]) + 1
		}
		if p.Break {
			out = append(out, "")
			continue
		}
		var b strings.Builder
		pos := offset
		for _, span := range p.Spans {
			base := theme.Body
			if span.Marked() {
				base = theme.Marker(span.Color)
			}
			writeSpan(&b, span.Text, marks[pos:pos+len(span.Text)], base)
			pos += len(span.Text)
		}
		out = append(out, wrap.Render(b.String()))
	}
	return strings.Join(out, "\n")
}

// writeSpan styles text in runs of equal marks. Marks only change at word
// boundaries, so runs never split a rune.
func writeSpan(b *strings.Builder, text string, marks []mark, base lipgloss.Style) {
	start := 0
	for i := 1; i <= len(text); i++ {
		if i < len(text) && marks[i] == marks[start] {
			continue
		}
		style := base
		switch marks[start] {
		case markSelected:
			style = theme.Selecting
		case markCursor:
			style = theme.Cursor.Inherit(base)
		}
		b.WriteString(style.Render(text[start:i]))
		start = i
	}
}
