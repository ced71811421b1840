package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/storyling/internal/session"
	"github.com/abhisek/storyling/internal/tutor"
	"github.com/abhisek/storyling/internal/ui/components"
	"github.com/abhisek/storyling/internal/ui/layout"
	"github.com/abhisek/storyling/internal/ui/theme"
)

// phaseTitle is the human name of a phase, shown in the header.
func phaseTitle(p session.Phase) string {
	switch p {
	case session.PhaseSetup:
		return "Choose a theme"
	case session.PhaseStoryLoading:
		return "Writing your story"
	case session.PhaseStoryReading:
		return "Reading"
	case session.PhaseReformulationInput:
		return "Explain it"
	case session.PhaseReformulationFeedback:
		return "Feedback"
	case session.PhaseQuestionsLoading:
		return "Preparing questions"
	case session.PhaseQuestionAnswering:
		return "Questions"
	case session.PhaseQuestionFeedback:
		return "Answer feedback"
	case session.PhaseComplete:
		return "Finished"
	}
	return p.String()
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	switch s.focus {
	case focusCustom:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Cancel"},
		}
	case focusEditor:
		return []layout.KeyHint{
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Tab", Description: "Story"},
			{Key: "Ctrl+N", Description: "Notes"},
			{Key: "Ctrl+R", Description: "New story"},
		}
	}

	story := []layout.KeyHint{
		{Key: "h/l", Description: "Move"},
		{Key: "v", Description: "Select"},
		{Key: "y/g/p", Description: "Highlight"},
		{Key: "Ctrl+N", Description: "Notes"},
	}
	switch s.ctrl.Phase() {
	case session.PhaseSetup:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	case session.PhaseStoryLoading, session.PhaseQuestionsLoading:
		return []layout.KeyHint{
			{Key: "Ctrl+R", Description: "Start over"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	case session.PhaseStoryReading:
		return append(story, layout.KeyHint{Key: "Enter", Description: "Explain"})
	case session.PhaseReformulationInput, session.PhaseQuestionAnswering:
		return append(story, layout.KeyHint{Key: "Tab", Description: "Write"})
	case session.PhaseReformulationFeedback:
		return append(story, layout.KeyHint{Key: "Enter", Description: "Questions"})
	case session.PhaseQuestionFeedback:
		label := "Next"
		if s.ctrl.Snapshot().Progress().Last() {
			label = "Finish"
		}
		return append(story, layout.KeyHint{Key: "Enter", Description: label})
	case session.PhaseComplete:
		return []layout.KeyHint{
			{Key: "Enter", Description: "New story"},
			{Key: "Ctrl+N", Description: "Notes"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return nil
}

func (s *LessonScreen) View(width, height int) string {
	snap := s.ctrl.Snapshot()
	storyWidth, sideWidth := layout.SplitWidths(width)

	if snap.Story == nil {
		side := s.renderSide(snap, min(width, 72))
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, side)
	}

	storyPane := s.renderStory(snap, storyWidth)
	side := s.renderSide(snap, sideWidth)
	if layout.IsCompactWidth(width) {
		return lipgloss.NewStyle().MaxHeight(height).
			Render(lipgloss.JoinVertical(lipgloss.Left, side, "", storyPane))
	}

	left := lipgloss.NewStyle().Width(storyWidth).MaxHeight(height).Render(storyPane)
	right := lipgloss.NewStyle().Width(sideWidth).MaxHeight(height).Render(side)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (s *LessonScreen) renderStory(snap session.Snapshot, width int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render(snap.Story.Title))
	if snap.Story.Theme != "" {
		b.WriteString("  " + theme.Hint.Render(snap.Story.Theme))
	}
	b.WriteString("\n\n")

	showCursor := s.focus == focusPanel && snap.Phase != session.PhaseComplete
	b.WriteString(s.story.render(snap.Paragraphs(), width-2, showCursor))

	if s.notice != "" {
		b.WriteString("\n\n" + lipgloss.NewStyle().Foreground(theme.Warning).Render(s.notice))
	}
	if n := len(snap.Highlights); n > 0 {
		b.WriteString("\n\n" + theme.Hint.Render(fmt.Sprintf("%d highlight(s)", n)))
	}
	return b.String()
}

// renderSide stacks the mascot, the error banner and the phase panel.
func (s *LessonScreen) renderSide(snap session.Snapshot, width int) string {
	parts := []string{components.RenderMascot(snap.Mascot, width)}
	if snap.Error != "" {
		parts = append(parts, theme.Banner.Render(snap.Error)+" "+theme.Hint.Render("esc"))
	}
	parts = append(parts, s.renderPanel(snap, width))
	return strings.Join(parts, "\n\n")
}

func (s *LessonScreen) renderPanel(snap session.Snapshot, width int) string {
	switch snap.Phase {
	case session.PhaseSetup:
		return s.renderSetup()

	case session.PhaseStoryLoading:
		return s.spinner.View() + " " + theme.Body.Render("Writing a story just for you…")

	case session.PhaseStoryReading:
		return theme.Body.Width(width).Render("Read carefully. Move with h/l, select with v and highlight with y, g or p.") +
			"\n\n" + components.NewButton("I'm ready to explain", "enter").View()

	case session.PhaseReformulationInput:
		return s.renderEditor(snap, "Check my explanation")

	case session.PhaseReformulationFeedback:
		return renderReformulation(snap, width) +
			"\n\n" + components.NewButton("Go to questions", "enter").View()

	case session.PhaseQuestionsLoading:
		return s.spinner.View() + " " + theme.Body.Render("Creating questions…")

	case session.PhaseQuestionAnswering:
		return renderQuestion(snap, width) + "\n\n" + s.renderEditor(snap, "Check answer")

	case session.PhaseQuestionFeedback:
		label := "Next question"
		if snap.Progress().Last() {
			label = "Finish"
		}
		return renderQuestion(snap, width) + "\n\n" + renderAnswer(snap, width) +
			"\n\n" + components.NewButton(label, "enter").View()

	case session.PhaseComplete:
		return renderSummary(session.BuildSummary(snap), width) +
			"\n\n" + components.NewButton("New story", "enter").View()
	}
	return ""
}

func (s *LessonScreen) renderSetup() string {
	out := theme.Heading.Render("What should today's story be about?") + "\n\n" + s.menu.View()
	if s.focus == focusCustom {
		out += "\n" + s.custom.View()
	}
	return out
}

func (s *LessonScreen) renderEditor(snap session.Snapshot, action string) string {
	if snap.Busy {
		return s.editor.View() + "\n\n" + s.spinner.View() + " " + theme.Hint.Render("Checking…")
	}
	button := components.NewButton(action, "ctrl+s")
	button.Disabled = strings.TrimSpace(s.editor.Value()) == ""
	return s.editor.View() + "\n\n" + button.View()
}

func field(label, value string, width int) string {
	if value == "" {
		return ""
	}
	return theme.Hint.Render(label) + "\n" + theme.Body.Width(width).Render(value)
}

func joinFields(fields ...string) string {
	var kept []string
	for _, f := range fields {
		if f != "" {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, "\n\n")
}

func renderReformulation(snap session.Snapshot, width int) string {
	fb := snap.Reformulation
	if fb == nil {
		return ""
	}
	inner := width - 4
	verdict := theme.Partial.Render("Almost there")
	if fb.IsGood {
		verdict = theme.Correct.Render("Well explained")
	}
	return theme.Card.Width(width).Render(joinFields(
		verdict,
		field("Your version", snap.ReformulationText, inner),
		field("Better version", fb.ImprovedVersion, inner),
		field("Corrections", fb.Correction, inner),
		field("Teacher's note", fb.Explanation, inner),
	))
}

// questionSteps colours answered questions by status and marks the
// current one.
func questionSteps(snap session.Snapshot) []components.Step {
	steps := make([]components.Step, len(snap.Questions))
	for i := range steps {
		fb, answered := snap.Feedbacks[i]
		switch {
		case answered && fb.Status == tutor.StatusCorrect:
			steps[i] = components.StepCorrect
		case answered && fb.Status == tutor.StatusPartial:
			steps[i] = components.StepPartial
		case answered:
			steps[i] = components.StepIncorrect
		case i == snap.CurrentIndex:
			steps[i] = components.StepCurrent
		}
	}
	return steps
}

func renderQuestion(snap session.Snapshot, width int) string {
	bar := components.NewStepBar(snap.Progress().Label(), questionSteps(snap), width).View()
	q, ok := snap.CurrentQuestion()
	if !ok {
		return bar
	}
	return bar + "\n\n" + theme.Heading.Width(width).Render(q.Text)
}

func statusLabel(status tutor.AnswerStatus) string {
	switch status {
	case tutor.StatusCorrect:
		return theme.Correct.Render("Correct")
	case tutor.StatusPartial:
		return theme.Partial.Render("Partly right")
	default:
		return theme.Incorrect.Render("Not quite")
	}
}

func renderAnswer(snap session.Snapshot, width int) string {
	fb, ok := snap.CurrentFeedback()
	if !ok {
		return ""
	}
	inner := width - 4
	return theme.Card.Width(width).Render(joinFields(
		statusLabel(fb.Status),
		field("Your answer", snap.Answers[snap.CurrentIndex], inner),
		field("Correction", fb.Correction, inner),
		field("More natural", fb.NaturalVersion, inner),
	))
}

func renderSummary(sum *session.Summary, width int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render("Session complete"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %d   %s %d   %s %d  of %d\n",
		theme.Correct.Render("✓"), sum.Correct,
		theme.Partial.Render("~"), sum.Partial,
		theme.Incorrect.Render("✗"), sum.Incorrect,
		sum.Total)
	for i, r := range sum.Results {
		fmt.Fprintf(&b, "\n%d. %s  %s", i+1,
			theme.Body.Width(max(width-20, 10)).Render(r.Question.Text),
			statusLabel(r.Feedback.Status))
	}
	return b.String()
}
