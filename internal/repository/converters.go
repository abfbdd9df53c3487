package repository

import (
	"database/sql"
	"time"

	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/repository/models"
)

// Timestamps are stored in UTC so that text-encoded columns compare correctly.
func utc(t time.Time) time.Time {
	return t.UTC()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash.String,
		CreatedAt:    m.CreatedAt,
	}
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: nullString(u.PasswordHash),
		CreatedAt:    utc(u.CreatedAt),
	}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	return &domain.Question{
		ID:            m.ID,
		Statement:     m.Statement,
		Options:       map[string]string(m.Options),
		Commentary:    map[string]string(m.Commentary),
		CorrectOption: m.CorrectOption,
		Areas:         []string(m.Areas),
		Subtopics:     []string(m.Subtopics),
		SourceExam:    m.SourceExam.String,
		CreatedAt:     m.CreatedAt,
	}
}

func fromDomainQuestion(q *domain.Question) *models.Question {
	if q == nil {
		return nil
	}
	return &models.Question{
		ID:            q.ID,
		Statement:     q.Statement,
		Options:       models.LabelMap(q.Options),
		Commentary:    models.LabelMap(q.Commentary),
		CorrectOption: q.CorrectOption,
		Areas:         models.TagSet(domain.CleanTags(q.Areas)),
		Subtopics:     models.TagSet(domain.CleanTags(q.Subtopics)),
		SourceExam:    nullString(q.SourceExam),
		CreatedAt:     utc(q.CreatedAt),
	}
}

func toDomainAnswer(m *models.Answer) *domain.Answer {
	if m == nil {
		return nil
	}
	return &domain.Answer{
		ID:           m.ID,
		UserID:       m.UserID,
		QuestionID:   m.QuestionID,
		ChosenOption: m.ChosenOption,
		IsCorrect:    m.IsCorrect,
		AnsweredAt:   m.AnsweredAt,
	}
}

func fromDomainAnswer(a *domain.Answer) *models.Answer {
	return &models.Answer{
		ID:           a.ID,
		UserID:       a.UserID,
		QuestionID:   a.QuestionID,
		ChosenOption: a.ChosenOption,
		IsCorrect:    a.IsCorrect,
		AnsweredAt:   utc(a.AnsweredAt),
	}
}

func toDomainAnsweredQuestion(m *models.AnsweredQuestion) domain.AnsweredQuestion {
	return domain.AnsweredQuestion{
		Answer:        *toDomainAnswer(&m.Answer),
		Statement:     m.Statement,
		CorrectOption: m.CorrectOption,
		Areas:         []string(m.Areas),
		Subtopics:     []string(m.Subtopics),
		SourceExam:    m.SourceExam.String,
	}
}

func toDomainConcept(m *models.Concept) *domain.ConceptExplanation {
	if m == nil {
		return nil
	}
	return &domain.ConceptExplanation{
		ID:          m.ID,
		Title:       m.Title,
		Explanation: m.Explanation,
		Areas:       []string(m.Areas),
		Embedding:   []float32(m.Embedding),
		CreatedBy:   m.CreatedBy.String,
		CreatedAt:   m.CreatedAt,
	}
}

func fromDomainConcept(c *domain.ConceptExplanation) *models.Concept {
	return &models.Concept{
		ID:          c.ID,
		Title:       c.Title,
		Explanation: c.Explanation,
		Areas:       models.TagSet(domain.CleanTags(c.Areas)),
		Embedding:   models.Vector(c.Embedding),
		CreatedBy:   nullString(c.CreatedBy),
		CreatedAt:   utc(c.CreatedAt),
	}
}
