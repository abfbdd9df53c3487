package textgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcunha12/medstudent/internal/config"
	"github.com/mcunha12/medstudent/internal/domain"
)

// ErrDisabled is returned by New when AI generation is switched off.
var ErrDisabled = errors.New("AI generation disabled")

// New builds the generator selected by cfg.Provider.
func New(ctx context.Context, cfg config.AIConfig) (domain.TextGenerator, error) {
	var (
		gen domain.TextGenerator
		err error
	)
	switch cfg.Provider {
	case "gemini", "":
		gen, err = NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model, cfg.Timeout)
	case "ollama":
		gen, err = NewOllamaGenerator(cfg.ServerURL, cfg.Model, cfg.Timeout)
	case "openai":
		gen, err = NewOpenAIGenerator(cfg.APIKey, cfg.Model, cfg.Timeout)
	case "none":
		return nil, ErrDisabled
	default:
		return nil, fmt.Errorf("unknown AI provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return gen, nil
}
