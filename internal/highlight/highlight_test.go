package highlight

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRender_OverlappingHighlightOnlyMatchesPlainText(t *testing.T) {
	hs := []Highlight{
		{ID: "h1", Text: "cat", Color: Yellow},
		{ID: "h2", Text: "cat sat", Color: Green},
	}
	got := Markup(Render("the cat sat down", hs))
	want := "the [yellow:cat] sat down"
	if got != want {
		t.Errorf("Markup = %q, want %q", got, want)
	}
}

func TestRender_WholeLineHighlightKeepsOtherLines(t *testing.T) {
	got := Markup(Render("Line one.\nLine two.", []Highlight{{ID: "h1", Text: "Line one.", Color: Yellow}}))
	want := "[yellow:Line one.]\nLine two."
	if got != want {
		t.Errorf("Markup = %q, want %q", got, want)
	}
}

func TestRender_SpanStructure(t *testing.T) {
	hs := []Highlight{{ID: "h1", Text: "cat", Color: Pink}}
	got := Render("a cat and a cat", hs)
	want := []Paragraph{{Spans: []Span{
		{Text: "a "},
		{Text: "cat", Color: Pink, HighlightID: "h1"},
		{Text: " and a "},
		{Text: "cat", Color: Pink, HighlightID: "h1"},
	}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_BlankLinesBecomeBreaks(t *testing.T) {
	got := Render("First line.\n\n   \nSecond line.", []Highlight{{ID: "h", Text: "line", Color: Yellow}})
	want := []Paragraph{
		{Spans: []Span{{Text: "First "}, {Text: "line", Color: Yellow, HighlightID: "h"}, {Text: "."}}},
		{Break: true},
		{Break: true},
		{Spans: []Span{{Text: "Second "}, {Text: "line", Color: Yellow, HighlightID: "h"}, {Text: "."}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_Markup(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		highlights []Highlight
		want       string
	}{
		{
			name:    "no highlights",
			content: "Once upon a time.",
			want:    "Once upon a time.",
		},
		{
			name:       "whole paragraph",
			content:    "Hello there",
			highlights: []Highlight{{Text: "Hello there", Color: Green}},
			want:       "[green:Hello there]",
		},
		{
			name:    "disjoint highlights in order",
			content: "the cat sat on the mat",
			highlights: []Highlight{
				{Text: "cat", Color: Yellow},
				{Text: "mat", Color: Pink},
			},
			want: "the [yellow:cat] sat on the [pink:mat]",
		},
		{
			name:    "later highlight inside earlier one is ignored",
			content: "the black cat",
			highlights: []Highlight{
				{Text: "black cat", Color: Green},
				{Text: "cat", Color: Yellow},
			},
			want: "the [green:black cat]",
		},
		{
			name:       "text across a line break never matches",
			content:    "the cat\nsat down",
			highlights: []Highlight{{Text: "cat\nsat", Color: Yellow}},
			want:       "the cat\nsat down",
		},
		{
			name:       "empty highlight text is ignored",
			content:    "abc",
			highlights: []Highlight{{Text: "", Color: Yellow}},
			want:       "abc",
		},
		{
			name:       "match in every paragraph",
			content:    "tea time\n\ntea party",
			highlights: []Highlight{{Text: "tea", Color: Pink}},
			want:       "[pink:tea] time\n\n[pink:tea] party",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Markup(Render(tt.content, tt.highlights))
			if got != tt.want {
				t.Errorf("Markup = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	for _, c := range Colors() {
		got, err := ParseColor(" " + string(c) + " ")
		if err != nil {
			t.Fatalf("ParseColor(%q) error: %v", c, err)
		}
		if got != c {
			t.Errorf("ParseColor(%q) = %q", c, got)
		}
	}
	if _, err := ParseColor("blue"); err == nil {
		t.Error("expected error for unknown color")
	}
	if Color("").Valid() {
		t.Error("empty color should not be valid")
	}
}
