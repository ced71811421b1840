package session

import "fmt"

// Phase is the step of a reading session.
type Phase int

const (
	PhaseSetup                 Phase = iota // Choosing a theme
	PhaseStoryLoading                       // Waiting for the story
	PhaseStoryReading                       // Reading, highlighting and taking notes
	PhaseReformulationInput                 // Writing the summary
	PhaseReformulationFeedback              // Reviewing the summary feedback
	PhaseQuestionsLoading                   // Waiting for the questions
	PhaseQuestionAnswering                  // Answering the current question
	PhaseQuestionFeedback                   // Reviewing the answer feedback
	PhaseComplete                           // All questions answered
)

var phaseNames = [...]string{
	PhaseSetup:                 "SETUP",
	PhaseStoryLoading:          "STORY_LOADING",
	PhaseStoryReading:          "STORY_READING",
	PhaseReformulationInput:    "REFORMULATION_INPUT",
	PhaseReformulationFeedback: "REFORMULATION_FEEDBACK",
	PhaseQuestionsLoading:      "QUESTIONS_LOADING",
	PhaseQuestionAnswering:     "QUESTION_ANSWERING",
	PhaseQuestionFeedback:      "QUESTION_FEEDBACK",
	PhaseComplete:              "SESSION_COMPLETE",
}

// Phases returns every phase in session order.
func Phases() []Phase {
	out := make([]Phase, len(phaseNames))
	for i := range out {
		out[i] = Phase(i)
	}
	return out
}

// Valid reports whether p is one of the nine phases.
func (p Phase) Valid() bool {
	return p >= PhaseSetup && p <= PhaseComplete
}

func (p Phase) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Loading reports whether the phase only exists while a call is in flight.
func (p Phase) Loading() bool {
	return p == PhaseStoryLoading || p == PhaseQuestionsLoading
}
