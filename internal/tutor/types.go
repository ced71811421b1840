package tutor

// Story is a generated reading text.
type Story struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Theme   string `json:"theme"`
}

// ReformulationFeedback is the evaluation of the student's rewrite of the
// story in their own words.
type ReformulationFeedback struct {
	Correction      string `json:"correction"`
	ImprovedVersion string `json:"improvedVersion"`
	Explanation     string `json:"explanation"`
	IsGood          bool   `json:"isGood"`
}

// Question is one comprehension question about the story.
type Question struct {
	ID   int    `json:"id"`
	Text string `json:"question"`
}

// AnswerStatus grades an answer.
type AnswerStatus string

const (
	// StatusCorrect means good understanding and grammar.
	StatusCorrect AnswerStatus = "CORRECT"
	// StatusPartial means understood, with grammar errors or a missed nuance.
	StatusPartial AnswerStatus = "PARTIAL"
	// StatusIncorrect means the information is wrong.
	StatusIncorrect AnswerStatus = "INCORRECT"
)

// Valid reports whether s is a known status.
func (s AnswerStatus) Valid() bool {
	switch s {
	case StatusCorrect, StatusPartial, StatusIncorrect:
		return true
	}
	return false
}

// AnswerFeedback is the evaluation of one answer.
type AnswerFeedback struct {
	Status          AnswerStatus `json:"status"`
	Correction      string       `json:"correction"`
	NaturalVersion  string       `json:"naturalVersion"`
	FeedbackMessage string       `json:"feedbackMessage"`
}
