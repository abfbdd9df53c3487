package domain

import "time"

// ConceptExplanation is an AI-written explanation shared by every user.
// It is immutable once stored.
type ConceptExplanation struct {
	ID          string
	Title       string
	Explanation string // markdown
	Areas       []string
	Embedding   []float32
	CreatedBy   string
	CreatedAt   time.Time
}

// ConceptStatus tells the caller how a lookup was satisfied.
type ConceptStatus string

const (
	ConceptFound   ConceptStatus = "found"
	ConceptCreated ConceptStatus = "created"
	ConceptFailed  ConceptStatus = "failed"
)

// ConceptLookup is the result of a wiki search. When Status is ConceptFailed,
// Concept carries the failure reason in its Explanation and was not stored.
type ConceptLookup struct {
	Status  ConceptStatus
	Message string
	Concept *ConceptExplanation
}

// ConceptView is one entry of a user's search history.
type ConceptView struct {
	ConceptID string
	Title     string
	ViewedAt  time.Time
}
