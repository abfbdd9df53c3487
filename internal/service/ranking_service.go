package service

import (
	"context"
	"time"

	"github.com/mcunha12/medstudent/internal/analytics"
	"github.com/mcunha12/medstudent/internal/domain"
)

// RankingService places a user on the daily or weekly leaderboard.
type RankingService interface {
	GetRanking(ctx context.Context, userID string, period domain.Period) (*domain.Ranking, error)
}

type rankingServiceImpl struct {
	answerRepo domain.AnswerRepository
	loc        *time.Location
	now        func() time.Time
}

func NewRankingService(answerRepo domain.AnswerRepository) RankingService {
	return &rankingServiceImpl{answerRepo: answerRepo, loc: time.Local, now: time.Now}
}

func (s *rankingServiceImpl) GetRanking(ctx context.Context, userID string, period domain.Period) (*domain.Ranking, error) {
	if userID == "" {
		return nil, domain.NewInvalidInputError("user id is required")
	}
	if _, err := domain.ParsePeriod(string(period)); err != nil {
		return nil, domain.NewInvalidInputError(err.Error())
	}

	now := s.now()
	records, err := s.answerRepo.ListAnswerRecordsSince(ctx, analytics.PeriodStart(now, period, s.loc))
	if err != nil {
		return nil, domain.NewStorageError("Failed to load leaderboard answers", err)
	}

	ranking := analytics.RankUser(records, period, userID, now, s.loc)
	return &ranking, nil
}
