package models

import (
	"database/sql"
	"time"
)

type Question struct {
	ID            string         `db:"id"`
	Statement     string         `db:"statement"`
	Options       LabelMap       `db:"options"`
	Commentary    LabelMap       `db:"commentary"`
	CorrectOption string         `db:"correct_option"`
	Areas         TagSet         `db:"areas"`
	Subtopics     TagSet         `db:"subtopics"`
	SourceExam    sql.NullString `db:"source_exam"`
	CreatedAt     time.Time      `db:"created_at"`
}
