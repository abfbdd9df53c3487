package models

import (
	"database/sql"
	"time"
)

type Concept struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Explanation string         `db:"explanation"`
	Areas       TagSet         `db:"areas"`
	Embedding   Vector         `db:"embedding"`
	CreatedBy   sql.NullString `db:"created_by"`
	CreatedAt   time.Time      `db:"created_at"`
}

type ConceptView struct {
	ConceptID string    `db:"concept_id"`
	Title     string    `db:"title"`
	ViewedAt  time.Time `db:"viewed_at"`
}
