package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/logger"
	"github.com/mcunha12/medstudent/internal/util"

	"go.uber.org/zap"
)

// ImportFile is one exam file: a JSON question or a JSON array of questions.
type ImportFile struct {
	Name string
	Data []byte
}

// ImportReport counts what an import did.
type ImportReport struct {
	Files     int `json:"files"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
}

type importRecord struct {
	QuestionID    string            `json:"question_id"`
	Statement     string            `json:"enunciado"`
	Options       map[string]string `json:"alternativas"`
	Commentary    map[string]string `json:"comentarios"`
	CorrectOption string            `json:"alternativa_correta"`
	Areas         []string          `json:"areas_principais"`
	Subtopics     []string          `json:"subtopicos"`
}

// ExamNameFromFilename keeps the stem up to its second hyphen, so
// "ENARE-2024-R1.json" belongs to exam "ENARE-2024".
func ExamNameFromFilename(name string) string {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	first := strings.Index(stem, "-")
	if first == -1 {
		return stem
	}
	second := strings.Index(stem[first+1:], "-")
	if second == -1 {
		return stem
	}
	return stem[:first+1+second]
}

func decodeImportRecords(data []byte) ([]importRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	if trimmed[0] == '[' {
		var records []importRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
		return records, nil
	}
	var record importRecord
	if err := json.Unmarshal(trimmed, &record); err != nil {
		return nil, err
	}
	return []importRecord{record}, nil
}

func (s *questionServiceImpl) ImportQuestions(ctx context.Context, files []ImportFile) (*ImportReport, error) {
	report := &ImportReport{}
	l := logger.Get()

	for _, f := range files {
		records, err := decodeImportRecords(f.Data)
		if err != nil {
			return report, domain.NewInvalidInputError(fmt.Sprintf("file %s is not valid question JSON: %v", f.Name, err))
		}
		exam := ExamNameFromFilename(f.Name)
		l.Info("Importing exam file",
			zap.String("file", f.Name), zap.String("exam", exam), zap.Int("records", len(records)))

		err = s.tm.WithTransaction(ctx, func(txCtx context.Context) error {
			for _, rec := range records {
				if err := s.importRecord(txCtx, rec, exam, report); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return report, domain.NewStorageError(fmt.Sprintf("Failed to import %s", f.Name), err)
		}
		report.Files++
	}
	return report, nil
}

func (s *questionServiceImpl) importRecord(ctx context.Context, rec importRecord, exam string, report *ImportReport) error {
	if strings.TrimSpace(rec.Statement) == "" {
		logger.Get().Warn("Skipping question without statement", zap.String("exam", exam))
		report.Skipped++
		return nil
	}

	incoming := &domain.Question{
		ID:            strings.TrimSpace(rec.QuestionID),
		Statement:     rec.Statement,
		Options:       rec.Options,
		Commentary:    rec.Commentary,
		CorrectOption: strings.ToUpper(strings.TrimSpace(rec.CorrectOption)),
		Areas:         domain.CleanTags(rec.Areas),
		Subtopics:     domain.CleanTags(rec.Subtopics),
		SourceExam:    exam,
	}
	if err := incoming.Validate(); err != nil {
		logger.Get().Warn("Skipping invalid question",
			zap.String("exam", exam), zap.String("questionID", incoming.ID), zap.Error(err))
		report.Skipped++
		return nil
	}

	existing, err := s.findExisting(ctx, incoming)
	if err != nil {
		return err
	}

	if existing == nil {
		if incoming.ID == "" {
			incoming.ID = util.NewULID()
		}
		incoming.CreatedAt = s.now()
		if err := s.questionRepo.CreateQuestion(ctx, incoming); err != nil {
			return err
		}
		report.Created++
		return nil
	}

	if existing.SameContent(incoming) {
		report.Unchanged++
		return nil
	}
	incoming.ID = existing.ID
	incoming.CreatedAt = existing.CreatedAt
	if err := s.questionRepo.UpdateQuestion(ctx, incoming); err != nil {
		return err
	}
	report.Updated++
	return nil
}

// findExisting matches by explicit id first, then by exact statement.
func (s *questionServiceImpl) findExisting(ctx context.Context, q *domain.Question) (*domain.Question, error) {
	if q.ID != "" {
		existing, err := s.questionRepo.GetQuestionByID(ctx, q.ID)
		if err != nil || existing != nil {
			return existing, err
		}
	}
	return s.questionRepo.GetQuestionByStatement(ctx, q.Statement)
}
