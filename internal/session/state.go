package session

import (
	"maps"
	"slices"

	"github.com/abhisek/storyling/internal/highlight"
	"github.com/abhisek/storyling/internal/tutor"
)

// state is the exercise data of one session. It is owned by the Controller
// and only changed through its intent methods.
type state struct {
	phase             Phase
	story             *tutor.Story
	highlights        []highlight.Highlight
	notes             string
	reformulationText string
	reformulation     *tutor.ReformulationFeedback
	questions         []tutor.Question
	currentIndex      int
	answers           map[int]string
	feedbacks         map[int]tutor.AnswerFeedback
	mascot            Mascot
}

func newState(mascot Mascot) state {
	return state{
		phase:     PhaseSetup,
		answers:   make(map[int]string),
		feedbacks: make(map[int]tutor.AnswerFeedback),
		mascot:    mascot,
	}
}

// Snapshot is a read-only copy of the session for presentation.
type Snapshot struct {
	SessionID string
	Phase     Phase
	Busy      bool

	// Error is the transient failure message, empty when there is none.
	Error string

	Story             *tutor.Story
	Highlights        []highlight.Highlight
	Notes             string
	ReformulationText string
	Reformulation     *tutor.ReformulationFeedback
	Questions         []tutor.Question
	CurrentIndex      int
	Answers           map[int]string
	Feedbacks         map[int]tutor.AnswerFeedback
	Mascot            Mascot
}

func (s state) snapshot() Snapshot {
	snap := Snapshot{
		Phase:             s.phase,
		Highlights:        slices.Clone(s.highlights),
		Notes:             s.notes,
		ReformulationText: s.reformulationText,
		Questions:         slices.Clone(s.questions),
		CurrentIndex:      s.currentIndex,
		Answers:           maps.Clone(s.answers),
		Feedbacks:         maps.Clone(s.feedbacks),
		Mascot:            s.mascot,
	}
	if s.story != nil {
		story := *s.story
		snap.Story = &story
	}
	if s.reformulation != nil {
		fb := *s.reformulation
		snap.Reformulation = &fb
	}
	return snap
}

// CurrentQuestion returns the question being answered, if any.
func (s Snapshot) CurrentQuestion() (tutor.Question, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return tutor.Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// CurrentFeedback returns the evaluation of the current question, if any.
func (s Snapshot) CurrentFeedback() (tutor.AnswerFeedback, bool) {
	fb, ok := s.Feedbacks[s.CurrentIndex]
	return fb, ok
}

// Paragraphs renders the story with its highlights.
func (s Snapshot) Paragraphs() []highlight.Paragraph {
	if s.Story == nil {
		return nil
	}
	return highlight.Render(s.Story.Content, s.Highlights)
}
