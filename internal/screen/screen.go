// Package screen defines the contract between the router and the screens
// it stacks.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/storyling/internal/ui/layout"
)

// Screen is implemented by every view the router can show.
type Screen interface {
	// Init returns an initial command when the screen is first shown.
	Init() tea.Cmd

	// Update handles messages and returns the updated screen.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body, excluding header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer is told when the screen above it is popped. Screens use it to
// restart tick chains the covering screen swallowed.
type Resumer interface {
	Resume() tea.Cmd
}

// StatusProvider lets a screen put a short status (the lesson phase, for
// example) on the right side of the header.
type StatusProvider interface {
	Status() string
}
