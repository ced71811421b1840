package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyling/internal/session"
	"github.com/abhisek/storyling/internal/ui/theme"
)

const catNeutral = ` /\_/\
( o.o )
 > ^ <`

const catHappy = ` /\_/\
( ^.^ ) ♪
 > ω <`

const catSad = ` /\_/\
( ;.; )
 > n <`

const catThinking = ` /\_/\  ?
( -.- )
 > ~ <`

const catWaiting = ` /\_/\
( o.o ) …
 (> <)`

// CatArt returns the black cat drawing for a mood.
func CatArt(mood session.Mood) string {
	switch mood {
	case session.MoodHappy:
		return catHappy
	case session.MoodSadEncouraging:
		return catSad
	case session.MoodThinking:
		return catThinking
	case session.MoodWaiting:
		return catWaiting
	default:
		return catNeutral
	}
}

func catColor(mood session.Mood) lipgloss.Style {
	switch mood {
	case session.MoodHappy:
		return lipgloss.NewStyle().Foreground(theme.Success)
	case session.MoodSadEncouraging:
		return lipgloss.NewStyle().Foreground(theme.Secondary)
	case session.MoodThinking, session.MoodWaiting:
		return lipgloss.NewStyle().Foreground(theme.Accent)
	default:
		return lipgloss.NewStyle().Foreground(theme.Primary)
	}
}

// RenderMascot draws the cat with its message in a speech bubble to the
// right. width bounds the bubble.
func RenderMascot(m session.Mascot, width int) string {
	cat := catColor(m.Mood).Bold(true).Render(CatArt(m.Mood))
	if m.Message == "" {
		return cat
	}
	bubbleWidth := max(width-lipgloss.Width(cat)-3, 12)
	bubble := theme.Card.
		Width(bubbleWidth).
		Foreground(theme.Text).
		Render(m.Message)
	return lipgloss.JoinHorizontal(lipgloss.Center, cat, "  ", bubble)
}
