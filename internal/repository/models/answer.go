package models

import (
	"database/sql"
	"time"
)

// Answer is the single row kept per (user_id, question_id).
type Answer struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	QuestionID   string    `db:"question_id"`
	ChosenOption string    `db:"chosen_option"`
	IsCorrect    bool      `db:"is_correct"`
	AnsweredAt   time.Time `db:"answered_at"`
}

// AnsweredQuestion is an answer joined with the question metadata used by reports.
type AnsweredQuestion struct {
	Answer
	Statement     string         `db:"statement"`
	CorrectOption string         `db:"correct_option"`
	Areas         TagSet         `db:"areas"`
	Subtopics     TagSet         `db:"subtopics"`
	SourceExam    sql.NullString `db:"source_exam"`
}

type AnswerRecord struct {
	UserID     string    `db:"user_id"`
	IsCorrect  bool      `db:"is_correct"`
	AnsweredAt time.Time `db:"answered_at"`
}
