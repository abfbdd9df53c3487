package domain

import (
	"context"
	"time"
)

// Repositories return (nil, nil) when a single record is not found.
// Every other failure is returned as an error and must not be read as "empty".

type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	SetPasswordHash(ctx context.Context, userID, hash string) error
}

// TagField selects one of the multi-valued tag columns of a question.
type TagField string

const (
	TagArea     TagField = "areas"
	TagSubtopic TagField = "subtopics"
)

type QuestionRepository interface {
	GetQuestionByID(ctx context.Context, id string) (*Question, error)
	GetQuestionByStatement(ctx context.Context, statement string) (*Question, error)
	ListQuestions(ctx context.Context) ([]*Question, error)
	// ListQuestionsByTag returns questions whose tag column contains term as a substring.
	ListQuestionsByTag(ctx context.Context, field TagField, term string) ([]*Question, error)
	ListExamSources(ctx context.Context) ([]string, error)
	CreateQuestion(ctx context.Context, q *Question) error
	UpdateQuestion(ctx context.Context, q *Question) error
}

type AnswerRepository interface {
	GetAnswer(ctx context.Context, userID, questionID string) (*Answer, error)
	// UpsertAnswer inserts the first answer for the pair, or overwrites a stored
	// incorrect answer. A stored correct answer is never modified. It returns the
	// row as stored after the write and what happened to it.
	UpsertAnswer(ctx context.Context, a *Answer) (*Answer, AnswerOutcome, error)
	ListAnswersByUser(ctx context.Context, userID string) ([]*Answer, error)
	ListAnsweredQuestions(ctx context.Context, userID string) ([]AnsweredQuestion, error)
	ListAnswerRecordsSince(ctx context.Context, since time.Time) ([]AnswerRecord, error)
}

type ConceptRepository interface {
	GetConceptByID(ctx context.Context, id string) (*ConceptExplanation, error)
	// FindConceptByTitle matches the whole title case-insensitively.
	FindConceptByTitle(ctx context.Context, title string) (*ConceptExplanation, error)
	SearchConceptsByTitle(ctx context.Context, fragment string) ([]*ConceptExplanation, error)
	ListConceptsWithEmbeddings(ctx context.Context) ([]*ConceptExplanation, error)
	ListConceptTitles(ctx context.Context) ([]string, error)
	CreateConcept(ctx context.Context, c *ConceptExplanation) error
	// RecordView links a user to a concept; repeating it only refreshes the timestamp.
	RecordView(ctx context.Context, userID, conceptID string, at time.Time) error
	ListViewedConcepts(ctx context.Context, userID string) ([]ConceptView, error)
}

// TransactionManager runs fn inside a single database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
