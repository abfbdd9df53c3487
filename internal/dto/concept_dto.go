package dto

import (
	"time"

	"github.com/mcunha12/medstudent/internal/domain"
)

// ConceptSearchRequest is the body of POST /concepts/search.
type ConceptSearchRequest struct {
	Query string `json:"query"`
}

type ConceptResponse struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Explanation string    `json:"explanation"`
	Areas       []string  `json:"areas"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// ConceptLookupResponse carries the lookup status. For status "failed" the
// concept explanation holds the reason and the concept has no ID.
type ConceptLookupResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Concept ConceptResponse `json:"concept"`
}

type ConceptHistoryItem struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	ViewedAt time.Time `json:"viewed_at"`
}

type ConceptHistoryResponse struct {
	Items []ConceptHistoryItem `json:"items"`
}

func NewConceptResponse(c *domain.ConceptExplanation) ConceptResponse {
	return ConceptResponse{
		ID:          c.ID,
		Title:       c.Title,
		Explanation: c.Explanation,
		Areas:       nonNil(c.Areas),
		CreatedAt:   c.CreatedAt,
	}
}

func NewConceptLookupResponse(l *domain.ConceptLookup) ConceptLookupResponse {
	return ConceptLookupResponse{
		Status:  string(l.Status),
		Message: l.Message,
		Concept: NewConceptResponse(l.Concept),
	}
}

func NewConceptHistoryResponse(views []domain.ConceptView) ConceptHistoryResponse {
	items := make([]ConceptHistoryItem, 0, len(views))
	for _, v := range views {
		items = append(items, ConceptHistoryItem{ID: v.ConceptID, Title: v.Title, ViewedAt: v.ViewedAt})
	}
	return ConceptHistoryResponse{Items: items}
}
