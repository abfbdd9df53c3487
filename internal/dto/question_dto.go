package dto

import (
	"time"

	"github.com/mcunha12/medstudent/internal/domain"
)

// SelectQuestionsRequest filters the practice pool. Statuses accepts
// "unanswered", "correct" and "incorrect".
type SelectQuestionsRequest struct {
	Statuses    []string `json:"statuses"`
	Specialty   string   `json:"specialty,omitempty"`
	ExamSources []string `json:"exam_sources,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	SampleSize  int      `json:"sample_size"`
}

// QuestionResponse represents a question in the API response.
type QuestionResponse struct {
	ID            string            `json:"id"`
	Statement     string            `json:"statement"`
	Options       map[string]string `json:"options"`
	Commentary    map[string]string `json:"commentary,omitempty"`
	CorrectOption string            `json:"correct_option"`
	Areas         []string          `json:"areas"`
	Subtopics     []string          `json:"subtopics"`
	SourceExam    string            `json:"source_exam"`
	Generated     bool              `json:"generated,omitempty"`
}

// QuestionListResponse wraps a selection result. An empty list means no
// question matched the filters.
type QuestionListResponse struct {
	Questions []QuestionResponse `json:"questions"`
	Total     int                `json:"total"`
}

// SimuladoResponse is a mock exam, possibly completed with AI questions.
type SimuladoResponse struct {
	Questions      []QuestionResponse `json:"questions"`
	GeneratedCount int                `json:"generated_count"`
	Notice         string             `json:"notice,omitempty"`
}

// StringListResponse is used for specialties and exam sources.
type StringListResponse struct {
	Items []string `json:"items"`
}

// NewQuestionResponse converts a domain question.
func NewQuestionResponse(q *domain.Question) QuestionResponse {
	return QuestionResponse{
		ID:            q.ID,
		Statement:     q.Statement,
		Options:       q.Options,
		Commentary:    q.Commentary,
		CorrectOption: q.CorrectOption,
		Areas:         nonNil(q.Areas),
		Subtopics:     nonNil(q.Subtopics),
		SourceExam:    q.SourceExam,
		Generated:     q.SourceExam == domain.SourceExamAI,
	}
}

// NewQuestionListResponse converts a slice, keeping an empty slice as [].
func NewQuestionListResponse(questions []*domain.Question) QuestionListResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, NewQuestionResponse(q))
	}
	return QuestionListResponse{Questions: out, Total: len(out)}
}

// SubmitAnswerRequest is the body of POST /answers.
type SubmitAnswerRequest struct {
	QuestionID   string `json:"question_id"`
	ChosenOption string `json:"chosen_option"`
}

// AnswerResponse reports the stored answer after a submission. When the stored
// answer was already correct, ChosenOption may differ from Submitted.
type AnswerResponse struct {
	QuestionID   string    `json:"question_id"`
	Submitted    string    `json:"submitted"`
	ChosenOption string    `json:"chosen_option"`
	IsCorrect    bool      `json:"is_correct"`
	Outcome      string    `json:"outcome"`
	AnsweredAt   time.Time `json:"answered_at"`
}

// NewAnswerResponse converts a submission result.
func NewAnswerResponse(r *domain.AnswerResult) AnswerResponse {
	return AnswerResponse{
		QuestionID:   r.Answer.QuestionID,
		Submitted:    r.Submitted,
		ChosenOption: r.Answer.ChosenOption,
		IsCorrect:    r.Answer.IsCorrect,
		Outcome:      string(r.Outcome),
		AnsweredAt:   r.Answer.AnsweredAt,
	}
}

// ReviewQuery holds the query parameters of GET /answers.
type ReviewQuery struct {
	Status string `query:"status"`
	Area   string `query:"area"`
	Exam   string `query:"exam"`
}

// AnsweredQuestionItem is one row of the review list.
type AnsweredQuestionItem struct {
	QuestionID    string    `json:"question_id"`
	Statement     string    `json:"statement"`
	ChosenOption  string    `json:"chosen_option"`
	CorrectOption string    `json:"correct_option"`
	IsCorrect     bool      `json:"is_correct"`
	Areas         []string  `json:"areas"`
	Subtopics     []string  `json:"subtopics"`
	SourceExam    string    `json:"source_exam"`
	AnsweredAt    time.Time `json:"answered_at"`
}

// AnsweredQuestionsResponse wraps the review list.
type AnsweredQuestionsResponse struct {
	Items []AnsweredQuestionItem `json:"items"`
	Total int                    `json:"total"`
}

// NewAnsweredQuestionsResponse converts review rows.
func NewAnsweredQuestionsResponse(rows []domain.AnsweredQuestion) AnsweredQuestionsResponse {
	items := make([]AnsweredQuestionItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, AnsweredQuestionItem{
			QuestionID:    r.QuestionID,
			Statement:     r.Statement,
			ChosenOption:  r.ChosenOption,
			CorrectOption: r.CorrectOption,
			IsCorrect:     r.IsCorrect,
			Areas:         nonNil(r.Areas),
			Subtopics:     nonNil(r.Subtopics),
			SourceExam:    r.SourceExam,
			AnsweredAt:    r.AnsweredAt,
		})
	}
	return AnsweredQuestionsResponse{Items: items, Total: len(items)}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
