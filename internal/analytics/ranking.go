package analytics

import (
	"sort"
	"time"

	"github.com/mcunha12/medstudent/internal/domain"
)

// Standing is one leaderboard line.
type Standing struct {
	UserID string
	domain.Metrics
}

// Leaderboard groups records answered since the start of the current period by
// user and orders them by accuracy, then volume, then user id.
func Leaderboard(records []domain.AnswerRecord, period domain.Period, now time.Time, loc *time.Location) []Standing {
	start := PeriodStart(now, period, loc)

	type counts struct{ answered, correct int }
	byUser := make(map[string]*counts)
	for _, rec := range records {
		if rec.AnsweredAt.Before(start) {
			continue
		}
		c, ok := byUser[rec.UserID]
		if !ok {
			c = &counts{}
			byUser[rec.UserID] = c
		}
		c.answered++
		if rec.IsCorrect {
			c.correct++
		}
	}

	board := make([]Standing, 0, len(byUser))
	for userID, c := range byUser {
		board = append(board, Standing{UserID: userID, Metrics: domain.NewMetrics(c.answered, c.correct)})
	}
	sort.Slice(board, func(i, j int) bool {
		a, b := board[i], board[j]
		// Compare the exact ratios so float rounding cannot reorder equal accuracies.
		if l, r := a.Correct*b.Answered, b.Correct*a.Answered; l != r {
			return l > r
		}
		if a.Answered != b.Answered {
			return a.Answered > b.Answered
		}
		return a.UserID < b.UserID
	})
	return board
}

// RankUser returns the 1-based position of userID in the period leaderboard.
// A user without answers in the period gets nil Rank and Percentile.
func RankUser(records []domain.AnswerRecord, period domain.Period, userID string, now time.Time, loc *time.Location) domain.Ranking {
	board := Leaderboard(records, period, now, loc)
	ranking := domain.Ranking{Period: period, TotalParticipants: len(board)}

	for i, s := range board {
		if s.UserID != userID {
			continue
		}
		rank := i + 1
		percentile := 100 * float64(rank) / float64(len(board))
		ranking.Rank = &rank
		ranking.Percentile = &percentile
		break
	}
	return ranking
}
