package components

import (
	"github.com/abhisek/storyling/internal/ui/theme"
)

// Button renders a call to action. The owning screen decides which key
// presses it.
type Button struct {
	Label    string
	Key      string
	Disabled bool
}

// NewButton creates a button showing label and the key that triggers it.
func NewButton(label, key string) Button {
	return Button{Label: label, Key: key}
}

// View renders the button.
func (b Button) View() string {
	label := " ▸ " + b.Label + " "
	if b.Key != "" {
		label += "(" + b.Key + ") "
	}
	if b.Disabled {
		return theme.ButtonInactive.Render(label)
	}
	return theme.ButtonActive.Render(label)
}
