package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyling/internal/ui/theme"
)

const bannerArt = `
 ╔═╗╔╦╗╔═╗╦═╗╦ ╦╦  ╦╔╗╔╔═╗
 ╚═╗ ║ ║ ║╠╦╝╚╦╝║  ║║║║║ ╦
 ╚═╝ ╩ ╚═╝╩╚═ ╩ ╩═╝╩╝╚╝╚═╝`

const bannerCompact = "S T O R Y L I N G"

// RenderBanner returns the STORYLING banner in the accent color, or a
// spaced-out word below 30 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	if width < 30 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
