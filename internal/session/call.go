package session

import (
	"context"

	"github.com/abhisek/storyling/internal/llm"
	"github.com/abhisek/storyling/internal/tutor"
)

// CallKind identifies which generation call a Call performs.
type CallKind int

const (
	CallStory CallKind = iota
	CallReformulation
	CallQuestions
	CallAnswer
)

func (k CallKind) String() string {
	switch k {
	case CallStory:
		return "story"
	case CallReformulation:
		return "reformulation"
	case CallQuestions:
		return "questions"
	case CallAnswer:
		return "answer"
	}
	return "unknown"
}

// Call is one outstanding request to the generator. Run performs the
// network request and may be called from any goroutine; its Result must be
// handed back to Controller.Resolve on the goroutine that owns the
// controller.
type Call struct {
	Token uint64
	Kind  CallKind

	sessionID string
	run       func(ctx context.Context) Result
}

// Run executes the call. It never touches controller state.
func (c *Call) Run(ctx context.Context) Result {
	ctx = llm.WithSession(ctx, c.sessionID)
	r := c.run(ctx)
	r.Token = c.Token
	r.Kind = c.Kind
	return r
}

// Result is the outcome of a Call. Exactly one of the payload fields is set
// on success; Err is set on failure.
type Result struct {
	Token uint64
	Kind  CallKind

	Story         *tutor.Story
	Reformulation *tutor.ReformulationFeedback
	Questions     []tutor.Question
	Answer        *tutor.AnswerFeedback

	// Index and Text identify the answered question for CallAnswer.
	Index int
	Text  string

	Err error
}
