// Package welcome is the splash screen: the cat wakes up, the banner
// appears, and any key opens the lesson.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyling/internal/router"
	"github.com/abhisek/storyling/internal/screen"
	"github.com/abhisek/storyling/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	wakeAt       = 500 * time.Millisecond
	bannerAt     = 1200 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

const catAsleep = `      /\_/\
     ( -.- )  z
    /  >ω<  \   z
   (__|___|__)`

const catAwake = `      /\_/\
     ( o.o )
    /  >ω<  \
   (__|___|__)`

const catBlink = `      /\_/\
     ( -.o )
    /  >ω<  \
   (__|___|__)`

type tickMsg time.Time

// WelcomeScreen shows the splash animation. It never transitions on its
// own.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with next() on the
// first key press.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.elapsed = min(w.elapsed+tickInterval, totalDur)
		w.tickCount++
		return w, tick()
	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (w *WelcomeScreen) cat() string {
	switch {
	case w.elapsed < wakeAt:
		return catAsleep
	case w.tickCount%25 == 0:
		return catBlink
	default:
		return catAwake
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(w.cat()),
	}

	if w.elapsed >= bannerAt {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
				Render("Read a story, then tell it in your own words."),
			"",
			theme.Hint.Render("press any key to start"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n"))
}
