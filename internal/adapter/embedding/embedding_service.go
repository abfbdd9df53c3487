package embedding

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/mcunha12/medstudent/internal/cache"
	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/logger"

	"github.com/tmc/langchaingo/embeddings"
	ollamaLLM "github.com/tmc/langchaingo/llms/ollama"
	openaiLLM "github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultOpenAIModel = "text-embedding-3-small"
	defaultCacheTTL    = 7 * 24 * time.Hour
)

// Service implements domain.EmbeddingService over any langchaingo embedder.
// Vectors are cached per model and text hash, and concurrent requests for the
// same text share one upstream call.
type Service struct {
	embedder embeddings.Embedder
	model    string
	cache    domain.Cache // optional
	ttl      time.Duration
	sfGroup  singleflight.Group
}

// NewService wraps an embedder. cache may be nil.
func NewService(embedder embeddings.Embedder, model string, c domain.Cache, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Service{embedder: embedder, model: model, cache: c, ttl: ttl}
}

// NewOllamaEmbeddingService creates a Service backed by an Ollama server.
func NewOllamaEmbeddingService(serverURL, modelName string, c domain.Cache, ttl time.Duration) (*Service, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}

	llm, err := ollamaLLM.New(
		ollamaLLM.WithModel(modelName),
		ollamaLLM.WithServerURL(serverURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama LLM client for embedder: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create generic embedder from Ollama LLM: %w", err)
	}
	return NewService(embedder, modelName, c, ttl), nil
}

// NewOpenAIEmbeddingService creates a Service backed by the OpenAI embeddings API.
func NewOpenAIEmbeddingService(apiKey, modelName string, c domain.Cache, ttl time.Duration) (*Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if modelName == "" {
		modelName = defaultOpenAIModel
	}

	llm, err := openaiLLM.New(
		openaiLLM.WithToken(apiKey),
		openaiLLM.WithEmbeddingModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI LLM client for embedder: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create generic embedder from OpenAI LLM: %w", err)
	}
	return NewService(embedder, modelName, c, ttl), nil
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Generate returns the embedding of text, using the cache when possible.
func (s *Service) Generate(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("input text cannot be empty for embedding")
	}

	cacheKey := cache.EmbeddingKey(s.model, hashString(text))
	if vec, ok := s.fromCache(ctx, cacheKey); ok {
		return vec, nil
	}

	res, err, _ := s.sfGroup.Do(cacheKey, func() (interface{}, error) {
		vec, err := s.embedder.EmbedQuery(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embedding: %w", err)
		}
		if len(vec) == 0 {
			return nil, fmt.Errorf("embedder returned an empty vector")
		}
		s.toCache(ctx, cacheKey, vec)
		return vec, nil
	})
	if err != nil {
		return nil, err
	}

	vec, ok := res.([]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight.Do for embedding: %T", res)
	}
	return vec, nil
}

func (s *Service) fromCache(ctx context.Context, key string) ([]float32, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Embedding cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var vec []float32
	if err := gob.NewDecoder(bytes.NewReader([]byte(raw))).Decode(&vec); err != nil {
		logger.Get().Warn("Discarding undecodable cached embedding", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return vec, true
}

func (s *Service) toCache(ctx context.Context, key string, vec []float32) {
	if s.cache == nil {
		return
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(vec); err != nil {
		logger.Get().Warn("Failed to encode embedding for cache", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, buf.String(), s.ttl); err != nil {
		logger.Get().Warn("Failed to cache embedding", zap.String("key", key), zap.Error(err))
	}
}

var _ domain.EmbeddingService = (*Service)(nil)
