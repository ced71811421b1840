// Package session drives a reading session through its phases: story,
// reformulation, comprehension questions and completion. The Controller owns
// all exercise data; the presentation reads it through Snapshot and changes
// it only through intent methods.
package session

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/storyling/internal/highlight"
	"github.com/abhisek/storyling/internal/tutor"
)

// TransientError is the only failure message the student sees.
const TransientError = "Connection glitch! Let's try that again."

// Generator produces the session's content. *tutor.Service implements it.
type Generator interface {
	GenerateStory(ctx context.Context, theme string) (*tutor.Story, error)
	EvaluateReformulation(ctx context.Context, story *tutor.Story, text string) (*tutor.ReformulationFeedback, error)
	GenerateQuestions(ctx context.Context, story *tutor.Story) ([]tutor.Question, error)
	EvaluateAnswer(ctx context.Context, story *tutor.Story, question tutor.Question, answer string) (*tutor.AnswerFeedback, error)
}

// Controller is the session phase machine. It is not safe for concurrent
// use: intents and Resolve must run on one goroutine, while the returned
// Calls may run anywhere.
type Controller struct {
	gen Generator
	log *zap.Logger

	sessionID string
	token     uint64
	busy      bool
	errMsg    string
	s         state
}

// New creates a controller in SETUP. A nil logger disables logging.
func New(gen Generator, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		gen:       gen,
		log:       log,
		sessionID: uuid.NewString(),
		s:         newState(MascotFor(EventStart, "")),
	}
}

// Snapshot returns a copy of the current session.
func (c *Controller) Snapshot() Snapshot {
	snap := c.s.snapshot()
	snap.SessionID = c.sessionID
	snap.Busy = c.busy
	snap.Error = c.errMsg
	return snap
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.s.phase }

// Busy reports whether a call is in flight.
func (c *Controller) Busy() bool { return c.busy }

// SessionID identifies the session in the request log.
func (c *Controller) SessionID() string { return c.sessionID }

// StartStory asks for a new story. Any previous exercise data is discarded.
// It returns nil unless the session is in SETUP with nothing in flight.
func (c *Controller) StartStory(theme string) *Call {
	if c.busy || c.s.phase != PhaseSetup {
		return nil
	}
	c.s = newState(MascotFor(EventStoryRequested, ""))
	c.s.phase = PhaseStoryLoading

	gen := c.gen
	return c.issue(CallStory, func(ctx context.Context) Result {
		story, err := gen.GenerateStory(ctx, theme)
		return Result{Story: story, Err: err}
	})
}

// ReadyToExplain moves from reading to writing the reformulation.
func (c *Controller) ReadyToExplain() bool {
	if c.busy || c.s.phase != PhaseStoryReading {
		return false
	}
	c.s.phase = PhaseReformulationInput
	return true
}

// SubmitReformulation sends the student's rewrite for evaluation. Blank
// text is ignored.
func (c *Controller) SubmitReformulation(text string) *Call {
	if c.busy || c.s.phase != PhaseReformulationInput || c.s.story == nil || blank(text) {
		return nil
	}
	c.s.reformulationText = text
	c.s.mascot = MascotFor(EventReformulationSubmitted, "")

	gen, story := c.gen, c.s.story
	return c.issue(CallReformulation, func(ctx context.Context) Result {
		fb, err := gen.EvaluateReformulation(ctx, story, text)
		return Result{Reformulation: fb, Err: err}
	})
}

// StartQuestions asks for the comprehension questions.
func (c *Controller) StartQuestions() *Call {
	if c.busy || c.s.phase != PhaseReformulationFeedback || c.s.story == nil {
		return nil
	}
	c.s.phase = PhaseQuestionsLoading
	c.s.mascot = MascotFor(EventQuestionsRequested, "")

	gen, story := c.gen, c.s.story
	return c.issue(CallQuestions, func(ctx context.Context) Result {
		qs, err := gen.GenerateQuestions(ctx, story)
		return Result{Questions: qs, Err: err}
	})
}

// SubmitAnswer sends the answer to the current question for evaluation.
// Blank answers are ignored.
func (c *Controller) SubmitAnswer(text string) *Call {
	if c.busy || c.s.phase != PhaseQuestionAnswering || c.s.story == nil || blank(text) {
		return nil
	}
	idx := c.s.currentIndex
	if idx < 0 || idx >= len(c.s.questions) {
		return nil
	}
	c.s.mascot = MascotFor(EventAnswerSubmitted, "")

	gen, story := c.gen, c.s.story
	question := c.s.questions[idx]
	return c.issue(CallAnswer, func(ctx context.Context) Result {
		fb, err := gen.EvaluateAnswer(ctx, story, question, text)
		return Result{Answer: fb, Index: idx, Text: text, Err: err}
	})
}

// NextQuestion advances past the answer feedback. After the last question
// the session is complete.
func (c *Controller) NextQuestion() bool {
	if c.busy || c.s.phase != PhaseQuestionFeedback {
		return false
	}
	if c.s.currentIndex+1 < len(c.s.questions) {
		c.s.currentIndex++
		c.s.phase = PhaseQuestionAnswering
		c.s.mascot = MascotFor(EventNextQuestion, "")
		return true
	}
	c.s.phase = PhaseComplete
	c.s.mascot = MascotFor(EventComplete, "")
	return true
}

// Reset discards the session and returns to SETUP. Results of calls issued
// before the reset are ignored by Resolve.
func (c *Controller) Reset() {
	c.token++
	c.busy = false
	c.errMsg = ""
	c.sessionID = uuid.NewString()
	c.s = newState(MascotFor(EventReset, ""))
}

// AddHighlight marks text in the story. It requires a story, non-blank
// text and a known color.
func (c *Controller) AddHighlight(text string, color highlight.Color) (highlight.Highlight, bool) {
	if c.s.story == nil || blank(text) || !color.Valid() {
		return highlight.Highlight{}, false
	}
	h := highlight.Highlight{ID: uuid.NewString(), Text: text, Color: color}
	c.s.highlights = append(c.s.highlights, h)
	return h, true
}

// SetNotes replaces the student's notes.
func (c *Controller) SetNotes(text string) {
	c.s.notes = text
}

// DismissError clears the transient failure message.
func (c *Controller) DismissError() {
	c.errMsg = ""
}

// Resolve applies the result of the outstanding call. It returns false and
// changes nothing when the result is stale or nothing is in flight.
func (c *Controller) Resolve(r Result) bool {
	if !c.busy || r.Token != c.token {
		c.log.Debug("discarding stale result",
			zap.Stringer("call", r.Kind),
			zap.Uint64("token", r.Token),
			zap.Uint64("current", c.token))
		return false
	}
	c.busy = false

	if err := validate(r); err != nil {
		c.fail(r, err)
		return true
	}

	switch r.Kind {
	case CallStory:
		c.s.story = r.Story
		c.s.phase = PhaseStoryReading
		c.s.mascot = MascotFor(EventStoryReady, "")
	case CallReformulation:
		c.s.reformulation = r.Reformulation
		c.s.phase = PhaseReformulationFeedback
		if r.Reformulation.IsGood {
			c.s.mascot = MascotFor(EventReformulationGood, "")
		} else {
			c.s.mascot = MascotFor(EventReformulationWeak, "")
		}
	case CallQuestions:
		c.s.questions = r.Questions
		c.s.currentIndex = 0
		c.s.answers = make(map[int]string)
		c.s.feedbacks = make(map[int]tutor.AnswerFeedback)
		c.s.phase = PhaseQuestionAnswering
		c.s.mascot = MascotFor(EventQuestionsReady, "")
	case CallAnswer:
		c.s.answers[r.Index] = r.Text
		c.s.feedbacks[r.Index] = *r.Answer
		c.s.phase = PhaseQuestionFeedback
		if r.Answer.Status == tutor.StatusCorrect {
			c.s.mascot = MascotFor(EventAnswerCorrect, r.Answer.FeedbackMessage)
		} else {
			c.s.mascot = MascotFor(EventAnswerIncorrect, r.Answer.FeedbackMessage)
		}
	}
	return true
}

// fail lands the session in the stable phase for the failed call.
func (c *Controller) fail(r Result, err error) {
	c.log.Warn("generation failed",
		zap.Stringer("call", r.Kind),
		zap.Uint64("token", r.Token),
		zap.String("session_id", c.sessionID),
		zap.Error(err))

	c.errMsg = TransientError
	c.s.mascot = MascotFor(EventFailure, "")

	switch r.Kind {
	case CallStory:
		c.s.phase = PhaseSetup
	case CallReformulation:
		c.s.phase = PhaseReformulationInput
	case CallQuestions:
		c.s.phase = PhaseReformulationFeedback
	case CallAnswer:
		c.s.phase = PhaseQuestionAnswering
	}
}

func (c *Controller) issue(kind CallKind, run func(ctx context.Context) Result) *Call {
	c.token++
	c.busy = true
	c.errMsg = ""
	return &Call{Token: c.token, Kind: kind, sessionID: c.sessionID, run: run}
}

var errMissingPayload = errors.New("result has no payload")

// validate checks that a successful result carries what its kind needs.
func validate(r Result) error {
	if r.Err != nil {
		return r.Err
	}
	switch r.Kind {
	case CallStory:
		if r.Story == nil {
			return errMissingPayload
		}
	case CallReformulation:
		if r.Reformulation == nil {
			return errMissingPayload
		}
	case CallQuestions:
		if len(r.Questions) == 0 {
			return tutor.ErrNoQuestions
		}
	case CallAnswer:
		if r.Answer == nil {
			return errMissingPayload
		}
	default:
		return errMissingPayload
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
