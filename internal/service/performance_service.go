package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mcunha12/medstudent/internal/analytics"
	"github.com/mcunha12/medstudent/internal/cache"
	"github.com/mcunha12/medstudent/internal/config"
	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/logger"

	"go.uber.org/zap"
)

const (
	performanceReportField = "report"
	defaultPerformanceTTL  = 10 * time.Minute

	day              = 24 * time.Hour
	reviewWindow     = 7 * day
	reviewTopicLimit = 5
	dailyWindow      = 30 * day
)

// PerformanceService builds the per-user dashboard and owns its cache.
type PerformanceService interface {
	GetPerformance(ctx context.Context, userID string) (*domain.PerformanceReport, error)
	// Invalidate drops every cached view for the user.
	Invalidate(ctx context.Context, userID string) error
}

type performanceServiceImpl struct {
	answerRepo domain.AnswerRepository
	cache      domain.Cache // optional
	ttl        time.Duration
	loc        *time.Location
	now        func() time.Time
}

// NewPerformanceService creates a PerformanceService. c may be nil, in which
// case every request is computed from storage.
func NewPerformanceService(answerRepo domain.AnswerRepository, c domain.Cache, cfg *config.Config) PerformanceService {
	ttl := defaultPerformanceTTL
	if cfg != nil && cfg.Cache.PerformanceTTL > 0 {
		ttl = cfg.Cache.PerformanceTTL
	}
	return &performanceServiceImpl{
		answerRepo: answerRepo,
		cache:      c,
		ttl:        ttl,
		loc:        time.Local,
		now:        time.Now,
	}
}

func (s *performanceServiceImpl) GetPerformance(ctx context.Context, userID string) (*domain.PerformanceReport, error) {
	if userID == "" {
		return nil, domain.NewInvalidInputError("user id is required")
	}

	if report := s.fromCache(ctx, userID); report != nil {
		return report, nil
	}

	rows, err := s.answerRepo.ListAnsweredQuestions(ctx, userID)
	if err != nil {
		return nil, domain.NewStorageError("Failed to load answers", err)
	}

	report := buildPerformanceReport(userID, rows, s.now(), s.loc)
	s.storeInCache(ctx, report)
	return report, nil
}

func (s *performanceServiceImpl) Invalidate(ctx context.Context, userID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, cache.PerformanceReportKey(userID))
}

func (s *performanceServiceImpl) fromCache(ctx context.Context, userID string) *domain.PerformanceReport {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.HGet(ctx, cache.PerformanceReportKey(userID), performanceReportField)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Performance cache read failed, recomputing",
				zap.String("userID", userID), zap.Error(err))
		}
		return nil
	}
	var report domain.PerformanceReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		logger.Get().Warn("Discarding unreadable performance cache entry",
			zap.String("userID", userID), zap.Error(err))
		return nil
	}
	return &report
}

func (s *performanceServiceImpl) storeInCache(ctx context.Context, report *domain.PerformanceReport) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		logger.Get().Error("Failed to marshal performance report", zap.Error(err))
		return
	}
	key := cache.PerformanceReportKey(report.UserID)
	if err := s.cache.HSet(ctx, key, performanceReportField, string(payload)); err != nil {
		logger.Get().Warn("Failed to cache performance report", zap.String("userID", report.UserID), zap.Error(err))
		return
	}
	if err := s.cache.Expire(ctx, key, s.ttl); err != nil {
		logger.Get().Warn("Failed to set performance cache expiry", zap.String("userID", report.UserID), zap.Error(err))
	}
}

// buildPerformanceReport is the whole dashboard for one user. A user without
// rows gets HasData=false and empty breakdowns.
func buildPerformanceReport(userID string, rows []domain.AnsweredQuestion, now time.Time, loc *time.Location) *domain.PerformanceReport {
	report := &domain.PerformanceReport{
		UserID:       userID,
		HasData:      len(rows) > 0,
		Weekly:       []domain.PeriodMetrics{},
		Daily:        []domain.PeriodMetrics{},
		Areas:        []domain.TagMetrics{},
		Subtopics:    []domain.TagMetrics{},
		ReviewTopics: []domain.ReviewTopic{},
		GeneratedAt:  now.UTC(),
	}
	if !report.HasData {
		return report
	}

	report.AllTime = analytics.ComputeMetrics(rows, 0, now)
	report.Last7Days = analytics.ComputeMetrics(rows, 7*day, now)
	report.Last30Days = analytics.ComputeMetrics(rows, 30*day, now)
	report.Weekly = analytics.AggregateByPeriod(rows, domain.PeriodWeek, loc)
	report.Daily = analytics.AggregateByPeriod(analytics.FilterWindow(rows, dailyWindow, now), domain.PeriodDay, loc)
	report.Areas = analytics.AggregateByTag(rows, domain.TagArea)
	report.Subtopics = analytics.AggregateByTag(rows, domain.TagSubtopic)
	report.ReviewTopics = analytics.TopicsToReview(rows, reviewWindow, now, reviewTopicLimit)
	return report
}
