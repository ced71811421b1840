// Package app wires the router, the screens and the session controller
// into the root Bubble Tea model.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/storyling/internal/router"
	"github.com/abhisek/storyling/internal/screen"
	"github.com/abhisek/storyling/internal/screens/lesson"
	"github.com/abhisek/storyling/internal/screens/welcome"
	"github.com/abhisek/storyling/internal/session"
	"github.com/abhisek/storyling/internal/ui/layout"
)

// Options holds the dependencies of the TUI.
type Options struct {
	Controller     *session.Controller
	Themes         []string
	SurpriseThemes []string
	Timeout        time.Duration
	Logger         *zap.Logger
	// SkipWelcome opens the lesson directly.
	SkipWelcome bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	ctrl   *session.Controller
	log    *zap.Logger
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	newLesson := func() screen.Screen {
		return lesson.New(lesson.Options{
			Controller:     opts.Controller,
			Themes:         opts.Themes,
			SurpriseThemes: opts.SurpriseThemes,
			Timeout:        opts.Timeout,
		})
	}

	first := newLesson()
	if !opts.SkipWelcome {
		first = welcome.New(newLesson)
	}
	return AppModel{
		router: router.New(first),
		ctrl:   opts.Controller,
		log:    log,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}

	case session.Result:
		// Resolved here so results land even while notes cover the lesson.
		m.ctrl.Resolve(msg)

	case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg:
		// The new top screen has not seen the terminal size yet.
		return m, tea.Batch(m.router.Update(msg), m.resize())
	}

	return m, m.router.Update(msg)
}

func (m AppModel) resize() tea.Cmd {
	if m.width == 0 || m.height == 0 {
		return nil
	}
	size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
	return func() tea.Msg { return size }
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	var title, status string
	if active != nil {
		title = active.Title()
	}
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}
	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.keyHints(active), m.width)

	content := m.router.View(m.width, layout.ContentHeight(m.height))
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m AppModel) keyHints(active screen.Screen) []layout.KeyHint {
	if kp, ok := active.(screen.KeyHintProvider); ok {
		if hints := kp.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Any key", Description: "Start"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Controller == nil {
		return errors.New("app: no session controller")
	}
	m := newAppModel(opts)
	m.log.Info("tui started", zap.String("session_id", opts.Controller.SessionID()))

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	m.log.Info("tui stopped")
	return nil
}
