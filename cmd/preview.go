package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/storyling/internal/session"
	"github.com/abhisek/storyling/internal/tutor"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Run a session in plain text (no database, no TUI)",
	Long: `Run one reading session on stdin/stdout.

This is a stateless developer tool: requests are not written to the
database. Useful for trying prompts and providers without the TUI.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("theme", "", "Story theme (asked interactively when empty)")
}

func runPreview(cmd *cobra.Command, _ []string) error {
	theme, _ := cmd.Flags().GetString("theme")

	gen, err := newTutor(cmd.Context(), nil)
	if err != nil {
		return err
	}

	p := &previewer{
		ctrl:    session.New(gen, rt.log.Named("session")),
		in:      bufio.NewScanner(cmd.InOrStdin()),
		out:     cmd.OutOrStdout(),
		themes:  rt.cfg.Themes,
		timeout: rt.cfg.LLM.Timeout,
	}
	return p.run(cmd.Context(), theme)
}

// previewer drives a session controller from a line-oriented terminal.
type previewer struct {
	ctrl    *session.Controller
	in      *bufio.Scanner
	out     io.Writer
	themes  []string
	timeout time.Duration
}

// run loops until the session completes or input ends.
func (p *previewer) run(ctx context.Context, theme string) error {
	lastQuestion := -1
	for {
		snap := p.ctrl.Snapshot()
		if snap.Error != "" {
			p.printf("\n! %s\n\n", snap.Error)
			p.ctrl.DismissError()
		}

		switch snap.Phase {
		case session.PhaseSetup:
			if theme == "" {
				var ok bool
				if theme, ok = p.chooseTheme(); !ok {
					return nil
				}
			}
			p.await(ctx, p.ctrl.StartStory(theme))
			theme = ""

		case session.PhaseStoryLoading, session.PhaseQuestionsLoading:
			// await resolves every call, so nothing can be in flight here.
			return fmt.Errorf("preview: no call in flight during %s", snap.Phase)

		case session.PhaseStoryReading:
			p.printf("── %s ──\n\n%s\n\n", snap.Story.Title, snap.Story.Content)
			if _, ok := p.ask("Press Enter when you are ready to explain"); !ok {
				return nil
			}
			p.ctrl.ReadyToExplain()

		case session.PhaseReformulationInput:
			text, ok := p.ask("Explain the story in your own words")
			if !ok {
				return nil
			}
			p.await(ctx, p.ctrl.SubmitReformulation(text))

		case session.PhaseReformulationFeedback:
			p.printReformulation(snap)
			if _, ok := p.ask("Press Enter for the questions"); !ok {
				return nil
			}
			p.await(ctx, p.ctrl.StartQuestions())

		case session.PhaseQuestionAnswering:
			q, _ := snap.CurrentQuestion()
			if snap.CurrentIndex != lastQuestion {
				p.printf("\n── %s ──\n%s\n", snap.Progress().Label(), q.Text)
				lastQuestion = snap.CurrentIndex
			}
			answer, ok := p.ask("Your answer")
			if !ok {
				return nil
			}
			p.await(ctx, p.ctrl.SubmitAnswer(answer))

		case session.PhaseQuestionFeedback:
			p.printAnswer(snap)
			p.ctrl.NextQuestion()

		case session.PhaseComplete:
			p.printSummary(session.BuildSummary(snap))
			return nil
		}
	}
}

// chooseTheme lists the themes and reads a number or free text. A blank
// line picks the default theme.
func (p *previewer) chooseTheme() (string, bool) {
	p.printf("Themes:\n")
	for i, t := range p.themes {
		p.printf("  %d) %s\n", i+1, t)
	}
	answer, ok := p.ask("Theme (number or your own)")
	if !ok {
		return "", false
	}
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(p.themes) {
		return p.themes[n-1], true
	}
	if answer == "" {
		return tutor.DefaultTheme, true
	}
	return answer, true
}

// await runs call to completion and hands the result to the controller.
func (p *previewer) await(ctx context.Context, call *session.Call) {
	if call == nil {
		return
	}
	p.printf("…\n")
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	p.ctrl.Resolve(call.Run(ctx))

	m := p.ctrl.Snapshot().Mascot
	p.printf("(=^.^=) [%s] %s\n\n", m.Mood, m.Message)
}

func (p *previewer) ask(prompt string) (string, bool) {
	p.printf("%s: ", prompt)
	if !p.in.Scan() {
		p.printf("\n(input closed)\n")
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

func (p *previewer) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *previewer) printReformulation(snap session.Snapshot) {
	fb := snap.Reformulation
	if fb == nil {
		return
	}
	verdict := "~ Almost there"
	if fb.IsGood {
		verdict = "✓ Well explained"
	}
	p.printf("%s\n", verdict)
	p.field("Better version", fb.ImprovedVersion)
	p.field("Corrections", fb.Correction)
	p.field("Teacher's note", fb.Explanation)
}

func (p *previewer) printAnswer(snap session.Snapshot) {
	fb, ok := snap.CurrentFeedback()
	if !ok {
		return
	}
	p.printf("%s %s\n", statusMark(fb.Status), fb.Status)
	p.field("Correction", fb.Correction)
	p.field("More natural", fb.NaturalVersion)
}

func (p *previewer) field(label, value string) {
	if value != "" {
		p.printf("%s: %s\n", label, value)
	}
}

func (p *previewer) printSummary(sum *session.Summary) {
	p.printf("\n── Summary: %d correct, %d partly right, %d not quite (of %d) ──\n",
		sum.Correct, sum.Partial, sum.Incorrect, sum.Total)
	for i, r := range sum.Results {
		p.printf("%d. %s %s\n", i+1, statusMark(r.Feedback.Status), r.Question.Text)
	}
}

func statusMark(s tutor.AnswerStatus) string {
	switch s {
	case tutor.StatusCorrect:
		return "✓"
	case tutor.StatusPartial:
		return "~"
	}
	return "✗"
}
