// Package notes is the "My Notes & Vocabulary" screen. Edits are written
// to the session as they are typed.
package notes

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/storyling/internal/router"
	"github.com/abhisek/storyling/internal/screen"
	"github.com/abhisek/storyling/internal/session"
	"github.com/abhisek/storyling/internal/ui/components"
	"github.com/abhisek/storyling/internal/ui/layout"
	"github.com/abhisek/storyling/internal/ui/theme"
)

// NotesScreen edits the session notes and lists the highlighted phrases.
type NotesScreen struct {
	ctrl   *session.Controller
	editor components.TextArea
}

var (
	_ screen.Screen          = (*NotesScreen)(nil)
	_ screen.KeyHintProvider = (*NotesScreen)(nil)
)

// New creates a notes screen prefilled with the session's notes.
func New(ctrl *session.Controller) *NotesScreen {
	ed := components.NewTextArea("My Notes & Vocabulary", "New words, phrases, anything worth keeping…")
	ed.SetValue(ctrl.Snapshot().Notes)
	ed.SetSize(60, 10)
	return &NotesScreen{ctrl: ctrl, editor: ed}
}

func (n *NotesScreen) Init() tea.Cmd { return n.editor.Focus() }

func (n *NotesScreen) Title() string { return "Notes" }

func (n *NotesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+S", Description: "Done"},
	}
}

func (n *NotesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := layout.ContentHeight(msg.Height)
		n.editor.SetSize(min(msg.Width-4, 100), max(h-12, 4))
		return n, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+s" {
			return n, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}

	var cmd tea.Cmd
	n.editor, cmd = n.editor.Update(msg)
	n.ctrl.SetNotes(n.editor.Value())
	return n, cmd
}

func (n *NotesScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(n.editor.View())

	snap := n.ctrl.Snapshot()
	if len(snap.Highlights) > 0 {
		b.WriteString("\n\n")
		b.WriteString(theme.Heading.Render("Highlighted"))
		for _, h := range snap.Highlights {
			b.WriteString("\n  ")
			b.WriteString(theme.Marker(h.Color).Render(h.Text))
		}
	}
	return "\n" + b.String()
}
