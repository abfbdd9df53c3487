package service

import (
	"errors"
	"fmt"

	"github.com/mcunha12/medstudent/internal/domain"
)

// errAIDisabled stands in for a generator that was never configured.
var errAIDisabled = &domain.ErrProviderUnavailable{Err: errors.New("AI generation is not configured")}

// describeAIFailure turns a generation error into a message that can be shown
// in place of the missing AI content.
func describeAIFailure(err error) string {
	var (
		blocked     *domain.ErrContentBlocked
		unavailable *domain.ErrProviderUnavailable
		malformed   *domain.ErrMalformedAIResponse
	)
	switch {
	case errors.As(err, &blocked):
		reason := blocked.Reason
		if reason == "" {
			reason = "not specified"
		}
		return fmt.Sprintf("The AI did not generate a response. Likely reason: %s. Medication and clinical topics are sometimes blocked by the provider's safety filters.", reason)
	case errors.As(err, &unavailable):
		return "The AI service is unavailable right now. Please try again later."
	case errors.As(err, &malformed):
		return "The AI returned a response in an unexpected format. Please try again."
	default:
		return fmt.Sprintf("The AI request failed: %v", err)
	}
}
