package session

import "fmt"

// Progress tracks how far the student is through the questions.
type Progress struct {
	Index int // zero-based current question
	Total int
}

// Progress returns question progress for the snapshot.
func (s Snapshot) Progress() Progress {
	return Progress{
		Index: s.CurrentIndex,
		Total: len(s.Questions),
	}
}

// Label returns "Question i/n", or an empty string before questions exist.
func (p Progress) Label() string {
	if p.Total == 0 {
		return ""
	}
	return fmt.Sprintf("Question %d/%d", p.Index+1, p.Total)
}

// Last reports whether the current question is the final one.
func (p Progress) Last() bool {
	return p.Total > 0 && p.Index == p.Total-1
}
