package domain

import (
	"fmt"
	"time"
)

// Answer is the single stored response of a user to a question.
// At most one Answer exists per (UserID, QuestionID).
type Answer struct {
	ID           string
	UserID       string
	QuestionID   string
	ChosenOption string
	IsCorrect    bool
	AnsweredAt   time.Time
}

// AnswerOutcome describes what a submission did to the stored answer.
type AnswerOutcome string

const (
	OutcomeInserted  AnswerOutcome = "inserted"  // first answer for the pair
	OutcomeUpgraded  AnswerOutcome = "upgraded"  // incorrect replaced by correct
	OutcomeRefreshed AnswerOutcome = "refreshed" // incorrect replaced by another incorrect
	OutcomeUnchanged AnswerOutcome = "unchanged" // stored answer was already correct
)

// Changed reports whether the stored row was written.
func (o AnswerOutcome) Changed() bool {
	return o != OutcomeUnchanged
}

// AnswerResult is returned by a submission. Answer is always the row as stored.
type AnswerResult struct {
	Answer    *Answer
	Outcome   AnswerOutcome
	Submitted string // the label that was submitted, which may differ from Answer.ChosenOption
}

// AnsweredQuestion joins an answer with the metadata of its question.
type AnsweredQuestion struct {
	Answer
	Statement     string
	CorrectOption string
	Areas         []string
	Subtopics     []string
	SourceExam    string
}

// AnswerRecord is the minimal projection used for leaderboards.
type AnswerRecord struct {
	UserID     string
	IsCorrect  bool
	AnsweredAt time.Time
}

// AnswerStatus is a user's relationship to a question.
type AnswerStatus string

const (
	StatusUnanswered AnswerStatus = "unanswered"
	StatusCorrect    AnswerStatus = "correct"
	StatusIncorrect  AnswerStatus = "incorrect"
)

// ParseAnswerStatus accepts the canonical names.
func ParseAnswerStatus(s string) (AnswerStatus, error) {
	switch AnswerStatus(s) {
	case StatusUnanswered, StatusCorrect, StatusIncorrect:
		return AnswerStatus(s), nil
	}
	return "", fmt.Errorf("unknown answer status %q", s)
}

// StatusOf returns the status implied by an optional stored answer.
func StatusOf(a *Answer) AnswerStatus {
	switch {
	case a == nil:
		return StatusUnanswered
	case a.IsCorrect:
		return StatusCorrect
	default:
		return StatusIncorrect
	}
}

// ReviewFilter narrows the list of answered questions shown for review.
// Empty fields do not filter.
type ReviewFilter struct {
	Status AnswerStatus // correct or incorrect
	Area   string
	Exam   string
}
