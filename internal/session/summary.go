package session

import "github.com/abhisek/storyling/internal/tutor"

// QuestionResult is one answered question.
type QuestionResult struct {
	Question tutor.Question
	Answer   string
	Feedback tutor.AnswerFeedback
}

// Summary holds the data shown when the session is complete.
type Summary struct {
	Total     int
	Correct   int
	Partial   int
	Incorrect int
	Results   []QuestionResult
}

// BuildSummary collects the evaluated answers in question order.
func BuildSummary(s Snapshot) *Summary {
	sum := &Summary{Total: len(s.Questions)}
	for i, q := range s.Questions {
		fb, ok := s.Feedbacks[i]
		if !ok {
			continue
		}
		switch fb.Status {
		case tutor.StatusCorrect:
			sum.Correct++
		case tutor.StatusPartial:
			sum.Partial++
		case tutor.StatusIncorrect:
			sum.Incorrect++
		}
		sum.Results = append(sum.Results, QuestionResult{
			Question: q,
			Answer:   s.Answers[i],
			Feedback: fb,
		})
	}
	return sum
}
