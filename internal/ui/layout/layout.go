// Package layout composes the header, body and footer of every frame.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyling/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	// HeaderHeight and FooterHeight are one line of text plus a border.
	HeaderHeight = 3
	FooterHeight = 3

	// Below this width the lesson stacks the story above the side panel.
	CompactWidthThreshold = 110

	// MinSideWidth keeps the feedback cards readable next to the story.
	MinSideWidth = 40
)

const appName = "Storyling"

// KeyHint is a key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func (h KeyHint) render() string {
	return lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
		" " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
}

// IsCompactWidth reports whether the panes must be stacked.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// ContentHeight returns the height left for the active screen.
func ContentHeight(totalHeight int) int {
	return max(totalHeight-HeaderHeight-FooterHeight, 0)
}

// SplitWidths divides width between the story pane and the side panel,
// leaving one column of gutter. Compact widths give both the full width.
func SplitWidths(width int) (story, side int) {
	if IsCompactWidth(width) {
		return width, width
	}
	side = max(width*2/5, MinSideWidth)
	return width - side - 1, side
}

// RenderMinSizeMessage asks for a larger terminal.
func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("The cat needs more room.\n\nResize to at least %d x %d\n(now %d x %d)",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(msg))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderHeader shows the app name on the left, the screen title centred
// and status (the lesson phase) on the right. The title is cut to fit.
func RenderHeader(title, status string, width int) string {
	inner := max(width-4, 0)

	name := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(" " + appName)
	right := lipgloss.NewStyle().Foreground(theme.TextDim).Render(status)

	// Equal side columns keep the title centred on the bar.
	side := max(lipgloss.Width(name), lipgloss.Width(right))
	mid := max(inner-2*side, 0)
	center := lipgloss.NewStyle().Foreground(theme.Text).MaxWidth(mid).Render(title)

	line := lipgloss.PlaceHorizontal(side, lipgloss.Left, name) +
		lipgloss.PlaceHorizontal(mid, lipgloss.Center, center) +
		lipgloss.PlaceHorizontal(side, lipgloss.Right, right)
	return bar(width).Render(line)
}

// RenderFooter shows as many key hints as fit in width, in order.
func RenderFooter(hints []KeyHint, width int) string {
	const sep = "   "
	avail := max(width-6, 0)

	var b strings.Builder
	b.WriteString("  ")
	used := 0
	for i, h := range hints {
		part := h.render()
		w := lipgloss.Width(part)
		if i > 0 {
			w += len(sep)
		}
		if used+w > avail {
			break
		}
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(part)
		used += w
	}
	return bar(width).Render(b.String())
}

// RenderFrame stacks header, content and footer, padding the content to
// fill height.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content = lipgloss.NewStyle().Width(width).Height(body).MaxHeight(body).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}
