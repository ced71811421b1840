package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyling/internal/ui/theme"
)

// Step is the state of one question in a StepBar.
type Step int

const (
	StepPending Step = iota
	StepCurrent
	StepCorrect
	StepPartial
	StepIncorrect
)

func (s Step) style() lipgloss.Style {
	switch s {
	case StepCurrent:
		return lipgloss.NewStyle().Background(theme.Secondary)
	case StepCorrect:
		return lipgloss.NewStyle().Background(theme.Success)
	case StepPartial:
		return lipgloss.NewStyle().Background(theme.Warning)
	case StepIncorrect:
		return lipgloss.NewStyle().Background(theme.Error)
	}
	return theme.ProgressEmpty
}

// StepBar shows one segment per question, coloured by how it went.
type StepBar struct {
	Label string
	Steps []Step
	Width int
}

// NewStepBar creates a step bar width columns wide, label included.
func NewStepBar(label string, steps []Step, width int) StepBar {
	return StepBar{Label: label, Steps: steps, Width: width}
}

func (b StepBar) View() string {
	var out strings.Builder
	if b.Label != "" {
		out.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(b.Label))
		out.WriteString("  ")
	}
	n := len(b.Steps)
	if n == 0 {
		return out.String()
	}

	// One column of gap between segments.
	avail := b.Width - lipgloss.Width(out.String()) - (n - 1)
	seg := max(avail/n, 1)
	for i, s := range b.Steps {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(s.style().Render(strings.Repeat(" ", seg)))
	}
	return out.String()
}
