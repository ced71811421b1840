package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestRenderHeader(t *testing.T) {
	got := RenderHeader("Lesson", "READING", 100)
	for _, want := range []string{"Storyling", "Lesson", "READING"} {
		if !strings.Contains(got, want) {
			t.Errorf("header missing %q:\n%s", want, got)
		}
	}
	if w := lipgloss.Width(got); w != 100 {
		t.Errorf("header width = %d, want 100", w)
	}
}

func TestRenderFrame_FillsHeight(t *testing.T) {
	header := RenderHeader("Lesson", "", 80)
	footer := RenderFooter([]KeyHint{{Key: "ctrl+c", Description: "Quit"}}, 80)

	frame := RenderFrame(header, "body", footer, 80, 30)
	if h := lipgloss.Height(frame); h != 30 {
		t.Errorf("frame height = %d, want 30", h)
	}
	if !strings.Contains(frame, "Quit") {
		t.Error("frame missing footer hint")
	}
}

func TestSplitWidths(t *testing.T) {
	tests := []struct {
		width       int
		story, side int
	}{
		{width: 80, story: 80, side: 80},
		{width: 120, story: 71, side: 48},
		{width: 110, story: 65, side: 44},
	}
	for _, tt := range tests {
		story, side := SplitWidths(tt.width)
		if story != tt.story || side != tt.side {
			t.Errorf("SplitWidths(%d) = %d, %d; want %d, %d", tt.width, story, side, tt.story, tt.side)
		}
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(79, 24) || !IsTooSmall(80, 23) {
		t.Error("expected below-minimum sizes to be too small")
	}
	if IsTooSmall(80, 24) {
		t.Error("80x24 should fit")
	}
}

func TestRenderFooter_DropsHintsThatDoNotFit(t *testing.T) {
	hints := []KeyHint{
		{Key: "Ctrl+S", Description: "Submit"},
		{Key: "Tab", Description: "Story"},
		{Key: "Ctrl+N", Description: "Notes"},
		{Key: "Ctrl+R", Description: "New story"},
	}
	got := RenderFooter(hints, 40)
	if !strings.Contains(got, "Submit") {
		t.Errorf("first hint missing:\n%s", got)
	}
	if strings.Contains(got, "New story") {
		t.Errorf("overflowing hint rendered:\n%s", got)
	}
	if h := lipgloss.Height(got); h != FooterHeight {
		t.Errorf("footer height = %d, want %d", h, FooterHeight)
	}
}

func TestRenderHeader_LongTitleKeepsOneLine(t *testing.T) {
	got := RenderHeader(strings.Repeat("very long title ", 10), "Questions · Question 2/4", 80)
	if h := lipgloss.Height(got); h != HeaderHeight {
		t.Errorf("header height = %d, want %d", h, HeaderHeight)
	}
}
