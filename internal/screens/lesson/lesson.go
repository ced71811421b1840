// Package lesson is the main screen. It renders every session phase and
// turns key presses into controller intents.
package lesson

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyling/internal/highlight"
	"github.com/abhisek/storyling/internal/router"
	"github.com/abhisek/storyling/internal/screen"
	"github.com/abhisek/storyling/internal/screens/notes"
	"github.com/abhisek/storyling/internal/session"
	"github.com/abhisek/storyling/internal/ui/components"
	"github.com/abhisek/storyling/internal/ui/layout"
	"github.com/abhisek/storyling/internal/ui/theme"
)

const defaultTimeout = 60 * time.Second

// Options configures a LessonScreen.
type Options struct {
	Controller     *session.Controller
	Themes         []string
	SurpriseThemes []string
	// Timeout bounds each generation call. Zero means one minute.
	Timeout time.Duration
	// Pick returns a random index in [0, n). Defaults to rand.IntN.
	Pick func(n int) int
}

type focus int

const (
	focusPanel  focus = iota // story cursor and phase actions
	focusEditor              // reformulation or answer editor
	focusCustom              // custom theme input
)

// LessonScreen implements screen.Screen for a reading session.
type LessonScreen struct {
	ctrl     *session.Controller
	themes   []string
	surprise []string
	timeout  time.Duration
	pick     func(n int) int

	menu    components.Menu
	custom  components.TextInput
	editor  components.TextArea
	story   storyView
	spinner spinner.Model
	focus   focus
	notice  string

	// seenPhase and seenIndex are what the editor was last prepared for.
	seenPhase session.Phase
	seenIndex int
	prepared  bool

	width  int
	height int
}

var (
	_ screen.Screen          = (*LessonScreen)(nil)
	_ screen.KeyHintProvider = (*LessonScreen)(nil)
	_ screen.StatusProvider  = (*LessonScreen)(nil)
)

// New creates the lesson screen over opts.Controller.
func New(opts Options) *LessonScreen {
	s := &LessonScreen{
		ctrl:     opts.Controller,
		themes:   opts.Themes,
		surprise: opts.SurpriseThemes,
		timeout:  opts.Timeout,
		pick:     opts.Pick,
		custom:   components.NewTextInput("Type any theme…", 60),
		editor:   components.NewTextArea("", ""),
		story:    newStoryView(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
		),
	}
	if s.timeout <= 0 {
		s.timeout = defaultTimeout
	}
	if s.pick == nil {
		s.pick = rand.IntN
	}
	s.menu = s.themeMenu()
	s.sync()
	return s
}

func (s *LessonScreen) Init() tea.Cmd { return nil }

func (s *LessonScreen) Title() string { return "Lesson" }

// Status shows the current phase in the header.
func (s *LessonScreen) Status() string {
	status := phaseTitle(s.ctrl.Phase())
	if label := s.ctrl.Snapshot().Progress().Label(); label != "" && s.inQuestions() {
		status += " · " + label
	}
	return status
}

func (s *LessonScreen) inQuestions() bool {
	switch s.ctrl.Phase() {
	case session.PhaseQuestionAnswering, session.PhaseQuestionFeedback:
		return true
	}
	return false
}

type themeChosenMsg struct{ theme string }

type surpriseMsg struct{}

type customThemeMsg struct{}

func (s *LessonScreen) themeMenu() components.Menu {
	send := func(msg tea.Msg) func() tea.Cmd {
		return func() tea.Cmd { return func() tea.Msg { return msg } }
	}
	items := make([]components.MenuItem, 0, len(s.themes)+2)
	for _, t := range s.themes {
		items = append(items, components.MenuItem{Label: t, Action: send(themeChosenMsg{theme: t})})
	}
	items = append(items,
		components.MenuItem{
			Label:    "Surprise me!",
			Hint:     "a random theme",
			Action:   send(surpriseMsg{}),
			Disabled: len(s.surprise) == 0,
		},
		components.MenuItem{Label: "Custom theme…", Action: send(customThemeMsg{})},
	)
	return components.NewMenu(items)
}

// Resume restarts the spinner when a covering screen ate its ticks. A
// second chain is harmless: the spinner drops ticks with a stale tag.
func (s *LessonScreen) Resume() tea.Cmd {
	if !s.ctrl.Busy() {
		return nil
	}
	return s.spinner.Tick
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.sync()
	cmd := s.update(msg)
	s.sync()
	return s, cmd
}

func (s *LessonScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.resize(msg.Width, layout.ContentHeight(msg.Height))
		return nil

	case session.Result:
		// Resolved by the app; sync has already picked up the new phase.
		return nil

	case themeChosenMsg:
		return s.start(msg.theme)

	case surpriseMsg:
		if len(s.surprise) == 0 {
			return nil
		}
		return s.start(s.surprise[s.pick(len(s.surprise))])

	case customThemeMsg:
		s.focus = focusCustom
		s.custom.Reset()
		return s.custom.Focus()

	case spinner.TickMsg:
		if !s.ctrl.Busy() {
			return nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s.forward(msg)
}

// forward passes non-key messages to the focused input.
func (s *LessonScreen) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch s.focus {
	case focusEditor:
		s.editor, cmd = s.editor.Update(msg)
	case focusCustom:
		s.custom, cmd = s.custom.Update(msg)
	}
	return cmd
}

func (s *LessonScreen) resize(width, height int) {
	s.width, s.height = width, height
	_, side := layout.SplitWidths(width)
	s.editor.SetSize(side-4, max(height/4, 3))
	s.custom.SetWidth(side - 8)
}

// sync prepares the inputs when the phase or question changes underneath
// the screen, whether from a key press or a resolved call.
func (s *LessonScreen) sync() {
	snap := s.ctrl.Snapshot()
	content := ""
	if snap.Story != nil {
		content = snap.Story.Content
	}
	if content != s.story.content {
		s.story.load(content)
		s.notice = ""
	}

	if s.prepared && snap.Phase == s.seenPhase && snap.CurrentIndex == s.seenIndex {
		return
	}
	s.prepared = true
	s.seenPhase, s.seenIndex = snap.Phase, snap.CurrentIndex

	switch snap.Phase {
	case session.PhaseReformulationInput:
		s.openEditor("Explain the story in your own words", "What happened? Who? Why does it matter?")
	case session.PhaseQuestionAnswering:
		s.openEditor("Your answer", "Answer in full sentences…")
	case session.PhaseSetup:
		s.menu = s.themeMenu()
		s.custom.Reset()
		s.custom.Blur()
		s.editor.Blur()
		s.focus = focusPanel
	default:
		s.editor.Blur()
		s.focus = focusPanel
	}
}

func (s *LessonScreen) openEditor(label, placeholder string) {
	s.editor.Label = label
	s.editor.Model.Placeholder = placeholder
	s.editor.Reset()
	s.editor.Focus()
	s.focus = focusEditor
}

// run executes call off the event loop. The result comes back as a
// session.Result message for the app to resolve.
func (s *LessonScreen) run(call *session.Call) tea.Cmd {
	if call == nil {
		return nil
	}
	timeout := s.timeout
	return tea.Batch(
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			return call.Run(ctx)
		},
		s.spinner.Tick,
	)
}

func (s *LessonScreen) start(name string) tea.Cmd {
	return s.run(s.ctrl.StartStory(name))
}

func (s *LessonScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "ctrl+r":
		s.ctrl.Reset()
		s.story.cancel()
		s.notice = ""
		return nil
	case "ctrl+n":
		n := notes.New(s.ctrl)
		return func() tea.Msg { return router.PushScreenMsg{Screen: n} }
	case "esc":
		switch {
		case s.focus == focusCustom:
			s.custom.Blur()
			s.focus = focusPanel
		case s.story.selecting():
			s.story.cancel()
		default:
			s.notice = ""
			s.ctrl.DismissError()
		}
		return nil
	}

	switch s.focus {
	case focusCustom:
		if key == "enter" {
			name := strings.TrimSpace(s.custom.Value())
			if name == "" {
				return nil
			}
			return s.start(name)
		}
		var cmd tea.Cmd
		s.custom, cmd = s.custom.Update(msg)
		return cmd

	case focusEditor:
		switch key {
		case "ctrl+s":
			return s.submit()
		case "tab":
			s.editor.Blur()
			s.focus = focusPanel
			return nil
		}
		var cmd tea.Cmd
		s.editor, cmd = s.editor.Update(msg)
		return cmd
	}

	return s.panelKey(msg)
}

// panelKey handles keys while the story and phase actions have focus.
func (s *LessonScreen) panelKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch s.ctrl.Phase() {
	case session.PhaseSetup:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return cmd

	case session.PhaseStoryLoading, session.PhaseQuestionsLoading:
		return nil

	case session.PhaseStoryReading:
		if key == "enter" {
			s.ctrl.ReadyToExplain()
			return nil
		}

	case session.PhaseReformulationInput, session.PhaseQuestionAnswering:
		switch key {
		case "tab":
			s.focus = focusEditor
			return s.editor.Focus()
		case "ctrl+s":
			return s.submit()
		}

	case session.PhaseReformulationFeedback:
		if key == "enter" {
			return s.run(s.ctrl.StartQuestions())
		}

	case session.PhaseQuestionFeedback:
		if key == "enter" {
			s.ctrl.NextQuestion()
			return nil
		}

	case session.PhaseComplete:
		if key == "enter" {
			s.ctrl.Reset()
			return nil
		}
	}

	s.storyKey(key)
	return nil
}

func (s *LessonScreen) storyKey(key string) {
	switch key {
	case "h", "left":
		s.story.move(-1)
	case "l", "right":
		s.story.move(1)
	case "b":
		s.story.move(-5)
	case "w":
		s.story.move(5)
	case "home", "0":
		s.story.jump(0)
	case "end", "$":
		s.story.jump(len(s.story.words) - 1)
	case "v":
		s.story.toggle()
	case "y":
		s.mark(highlight.Yellow)
	case "g":
		s.mark(highlight.Green)
	case "p":
		s.mark(highlight.Pink)
	}
}

// mark highlights the selection, or the word under the cursor.
func (s *LessonScreen) mark(color highlight.Color) {
	text, ok := s.story.capture()
	if !ok {
		return
	}
	if strings.Contains(text, "\n") {
		s.notice = "Highlights stay inside one paragraph."
		return
	}
	if _, ok := s.ctrl.AddHighlight(text, color); ok {
		s.notice = ""
		s.story.cancel()
	}
}

func (s *LessonScreen) submit() tea.Cmd {
	text := s.editor.Value()
	switch s.ctrl.Phase() {
	case session.PhaseReformulationInput:
		return s.run(s.ctrl.SubmitReformulation(text))
	case session.PhaseQuestionAnswering:
		return s.run(s.ctrl.SubmitAnswer(text))
	}
	return nil
}
