package textgen

import (
	"errors"
	"strings"
	"time"

	"github.com/mcunha12/medstudent/internal/domain"
)

const defaultTimeout = 60 * time.Second

func withDefaultTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultTimeout
	}
	return d
}

// StripThinking removes a leading <think>...</think> block emitted by reasoning models.
func StripThinking(s string) string {
	cleaned := strings.TrimSpace(s)
	if start := strings.Index(cleaned, "<think>"); start != -1 {
		if end := strings.Index(cleaned, "</think>"); end > start {
			cleaned = cleaned[:start] + cleaned[end+len("</think>"):]
		}
	}
	return strings.TrimSpace(cleaned)
}

// ExtractJSONObject returns the outermost {...} span of s, tolerating code fences
// and prose around it.
func ExtractJSONObject(s string) (string, error) {
	cleaned := StripThinking(s)
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return "", &domain.ErrMalformedAIResponse{Raw: s, Err: errors.New("no JSON object found")}
	}
	return cleaned[start : end+1], nil
}
