package textgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/logger"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiGenerator implements domain.TextGenerator with the Google Gen AI SDK.
type GeminiGenerator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model, timeout: withDefaultTimeout(timeout)}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), buildGeminiConfig(req))
	if err != nil {
		logger.Get().Error("Gemini request failed", zap.String("model", g.model), zap.Error(err))
		return "", mapGeminiError(err)
	}
	return interpretGeminiResponse(result)
}

func buildGeminiConfig(req domain.GenerationRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config.Temperature = &temp
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}
	return config
}

// interpretGeminiResponse turns prompt-level and candidate-level safety blocks
// into *domain.ErrContentBlocked and returns the text otherwise.
func interpretGeminiResponse(result *genai.GenerateContentResponse) (string, error) {
	if result == nil {
		return "", &domain.ErrMalformedAIResponse{Err: errors.New("empty response")}
	}

	if fb := result.PromptFeedback; fb != nil && fb.BlockReason != "" {
		reason := string(fb.BlockReason)
		if fb.BlockReasonMessage != "" {
			reason = fmt.Sprintf("%s (%s)", reason, fb.BlockReasonMessage)
		}
		return "", &domain.ErrContentBlocked{Reason: reason}
	}

	if len(result.Candidates) == 0 {
		return "", &domain.ErrContentBlocked{}
	}

	switch reason := string(result.Candidates[0].FinishReason); reason {
	case "SAFETY", "PROHIBITED_CONTENT", "BLOCKLIST", "SPII", "RECITATION":
		return "", &domain.ErrContentBlocked{Reason: reason}
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", &domain.ErrMalformedAIResponse{Err: errors.New("response has no text")}
	}
	return text, nil
}

func mapGeminiError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest {
		return &domain.ErrMalformedAIResponse{Err: err}
	}
	return &domain.ErrProviderUnavailable{Err: err}
}

var _ domain.TextGenerator = (*GeminiGenerator)(nil)
