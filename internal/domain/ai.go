package domain

import (
	"context"
	"fmt"
)

// GenerationRequest is a single-turn prompt for a text generation backend.
type GenerationRequest struct {
	System      string
	Prompt      string
	Temperature float64
	JSON        bool // ask the backend for a JSON-only reply
}

// TextGenerator produces free text from a prompt.
// Implementations return *ErrContentBlocked, *ErrProviderUnavailable or
// *ErrMalformedAIResponse so callers can explain failures to the user.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// EmbeddingService turns text into a vector for similarity search.
type EmbeddingService interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}

// QuestionGenerator writes a new question modelled on a seed question.
type QuestionGenerator interface {
	GenerateFromSeed(ctx context.Context, seed *Question) (*Question, error)
}

// ErrContentBlocked means the provider refused to answer, usually by a safety filter.
type ErrContentBlocked struct {
	Reason string
}

func (e *ErrContentBlocked) Error() string {
	if e.Reason == "" {
		return "AI response blocked: reason not specified"
	}
	return fmt.Sprintf("AI response blocked: %s", e.Reason)
}

// ErrProviderUnavailable covers transport errors, timeouts and 5xx replies.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("AI provider unavailable: %v", e.Err)
	}
	return "AI provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMalformedAIResponse means the reply did not have the expected shape.
type ErrMalformedAIResponse struct {
	Raw string
	Err error
}

func (e *ErrMalformedAIResponse) Error() string {
	return fmt.Sprintf("malformed AI response: %v", e.Err)
}

func (e *ErrMalformedAIResponse) Unwrap() error { return e.Err }
