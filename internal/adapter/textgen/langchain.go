package textgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// LangchainGenerator implements domain.TextGenerator over any langchaingo model.
type LangchainGenerator struct {
	llm     llms.Model
	timeout time.Duration
}

func NewLangchainGenerator(llm llms.Model, timeout time.Duration) *LangchainGenerator {
	return &LangchainGenerator{llm: llm, timeout: withDefaultTimeout(timeout)}
}

func NewOllamaGenerator(serverURL, model string, timeout time.Duration) (*LangchainGenerator, error) {
	if serverURL == "" || model == "" {
		return nil, fmt.Errorf("ollama server URL and model are required")
	}
	llm, err := ollama.New(ollama.WithServerURL(serverURL), ollama.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return NewLangchainGenerator(llm, timeout), nil
}

func NewOpenAIGenerator(apiKey, model string, timeout time.Duration) (*LangchainGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	opts := []openai.Option{openai.WithToken(apiKey)}
	if model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	return NewLangchainGenerator(llm, timeout), nil
}

func (g *LangchainGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	l := logger.Get()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var messages []llms.MessageContent
	if req.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt))

	opts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.JSON {
		opts = append(opts, llms.WithJSONMode())
	}

	resp, err := g.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.Error(err))
		} else {
			l.Error("LLM call failed", zap.Error(err))
		}
		return "", &domain.ErrProviderUnavailable{Err: err}
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", &domain.ErrMalformedAIResponse{Err: errors.New("response has no choices")}
	}

	choice := resp.Choices[0]
	if strings.EqualFold(choice.StopReason, "content_filter") {
		return "", &domain.ErrContentBlocked{Reason: choice.StopReason}
	}

	text := StripThinking(choice.Content)
	if text == "" {
		return "", &domain.ErrMalformedAIResponse{Raw: choice.Content, Err: errors.New("response has no text")}
	}
	return text, nil
}

var _ domain.TextGenerator = (*LangchainGenerator)(nil)
