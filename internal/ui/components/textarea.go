package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyling/internal/ui/theme"
)

// TextArea is a multi-line editor for reformulations, answers and notes.
// Enter inserts a newline; the owning screen binds its own submit key.
type TextArea struct {
	Model textarea.Model
	Label string
}

// NewTextArea creates an editor with the given label and placeholder.
func NewTextArea(label, placeholder string) TextArea {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.Prompt = "┃ "
	ta.CharLimit = 4000
	ta.SetHeight(5)

	styles := ta.Styles()
	styles.Cursor.Blink = false
	styles.Focused.CursorLine = lipgloss.NewStyle()
	styles.Focused.Prompt = lipgloss.NewStyle().Foreground(theme.Secondary)
	styles.Blurred.Prompt = lipgloss.NewStyle().Foreground(theme.Border)
	ta.SetStyles(styles)
	return TextArea{Model: ta, Label: label}
}

// Focus gives the editor keyboard focus.
func (t *TextArea) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes keyboard focus.
func (t *TextArea) Blur() {
	t.Model.Blur()
}

// Focused reports whether the editor has focus.
func (t TextArea) Focused() bool {
	return t.Model.Focused()
}

// SetSize resizes the editor.
func (t *TextArea) SetSize(width, height int) {
	t.Model.SetWidth(max(width, 10))
	t.Model.SetHeight(max(height, 1))
}

// SetValue replaces the contents.
func (t *TextArea) SetValue(s string) {
	t.Model.SetValue(s)
}

// Value returns the raw contents.
func (t TextArea) Value() string {
	return t.Model.Value()
}

// Reset clears the contents.
func (t *TextArea) Reset() {
	t.Model.Reset()
}

// Update forwards messages to the underlying editor.
func (t TextArea) Update(msg tea.Msg) (TextArea, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label above the editor.
func (t TextArea) View() string {
	label := theme.Hint.Render(t.Label)
	if t.Focused() {
		label = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(t.Label)
	}
	if t.Label == "" {
		return t.Model.View()
	}
	return label + "\n" + t.Model.View()
}
