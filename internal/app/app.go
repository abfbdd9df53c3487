// Package app wires configuration, storage, AI adapters and services into
// one container shared by the API server and the admin CLI.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcunha12/medstudent/internal/adapter"
	"github.com/mcunha12/medstudent/internal/adapter/embedding"
	"github.com/mcunha12/medstudent/internal/adapter/quizgen"
	"github.com/mcunha12/medstudent/internal/adapter/textgen"
	"github.com/mcunha12/medstudent/internal/cache"
	"github.com/mcunha12/medstudent/internal/config"
	"github.com/mcunha12/medstudent/internal/database"
	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/logger"
	"github.com/mcunha12/medstudent/internal/repository"
	"github.com/mcunha12/medstudent/internal/service"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds every long-lived dependency. Optional parts (Redis, embeddings,
// text generation) are nil when not configured or unreachable.
type App struct {
	Config *config.Config
	DB     *sqlx.DB
	Redis  *redis.Client
	Cache  domain.Cache

	Auth        service.AuthService
	Questions   service.QuestionService
	Answers     service.AnswerService
	Performance service.PerformanceService
	Ranking     service.RankingService
	Concepts    service.ConceptService
	Dosage      service.DosageService
}

// New connects to the database, applies migrations and builds the services.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.Get()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	driverName, _ := database.DriverName(cfg.DB.Driver)
	if err := database.MigrateUp(db.DB, driverName); err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{Config: cfg, DB: db}

	var appCache domain.Cache
	if cfg.Redis.Address != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, running without cache", zap.Error(err))
		} else {
			a.Redis = client
			appCache = adapter.NewRedisCacheAdapter(client)
			a.Cache = appCache
			log.Info("Connected to Redis", zap.String("address", cfg.Redis.Address))
		}
	}

	embedder, err := newEmbedder(cfg.Embedding, appCache)
	if err != nil {
		log.Warn("Embeddings disabled", zap.Error(err))
	}

	var (
		textGen   domain.TextGenerator
		questions domain.QuestionGenerator
	)
	if gen, err := textgen.New(ctx, cfg.AI); err != nil {
		log.Warn("AI text generation disabled", zap.String("provider", cfg.AI.Provider), zap.Error(err))
	} else {
		textGen = gen
		questions = quizgen.NewSeedQuestionGenerator(gen)
		log.Info("AI text generation enabled", zap.String("provider", cfg.AI.Provider), zap.String("model", cfg.AI.Model))
	}

	userRepo := repository.NewSQLXUserRepository(db)
	questionRepo := repository.NewSQLXQuestionRepository(db)
	answerRepo := repository.NewSQLXAnswerRepository(db)
	conceptRepo := repository.NewSQLXConceptRepository(db)
	tm := repository.NewTransactionManagerAdapter(db)

	a.Auth, err = service.NewAuthService(userRepo, cfg.JWT)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}
	a.Performance = service.NewPerformanceService(answerRepo, appCache, cfg)
	a.Ranking = service.NewRankingService(answerRepo)
	a.Answers = service.NewAnswerService(questionRepo, answerRepo, a.Performance)
	a.Questions = service.NewQuestionService(questionRepo, answerRepo, questions, tm, cfg)
	a.Concepts = service.NewConceptService(conceptRepo, questionRepo, textGen, embedder, cfg)
	a.Dosage = service.NewDosageService(textGen)

	return a, nil
}

func newEmbedder(cfg config.EmbeddingConfig, c domain.Cache) (domain.EmbeddingService, error) {
	switch cfg.Source {
	case "ollama":
		svc, err := embedding.NewOllamaEmbeddingService(cfg.ServerURL, cfg.Model, c, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case "openai":
		svc, err := embedding.NewOpenAIEmbeddingService(cfg.APIKey, cfg.Model, c, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case "none", "":
		return nil, errors.New("no embedding source configured")
	default:
		return nil, fmt.Errorf("unsupported embedding source %q", cfg.Source)
	}
}

// Close releases the database and Redis connections.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Get().Warn("Failed to close Redis client", zap.Error(err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			logger.Get().Warn("Failed to close database", zap.Error(err))
		}
	}
}
