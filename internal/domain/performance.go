package domain

import (
	"fmt"
	"time"
)

// Metrics summarizes a set of answers. Accuracy is a percentage in [0, 100].
type Metrics struct {
	Answered int     `json:"answered"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// NewMetrics builds Metrics from raw counts. Accuracy is 0 when nothing was answered.
func NewMetrics(answered, correct int) Metrics {
	m := Metrics{Answered: answered, Correct: correct}
	if answered > 0 {
		m.Accuracy = 100 * float64(correct) / float64(answered)
	}
	return m
}

// Period is a calendar bucket size.
type Period string

const (
	PeriodDay  Period = "day"
	PeriodWeek Period = "week"
)

func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDay, PeriodWeek:
		return Period(s), nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// PeriodMetrics is one row of a temporal breakdown.
type PeriodMetrics struct {
	PeriodStart time.Time `json:"period_start"`
	Metrics
}

// TagMetrics is one row of a per-area or per-subtopic breakdown.
type TagMetrics struct {
	Tag string `json:"tag"`
	Metrics
}

// ReviewTopic is a subtopic the user recently got wrong.
type ReviewTopic struct {
	Subtopic  string `json:"subtopic"`
	Incorrect int    `json:"incorrect"`
}

// PerformanceReport is the dashboard view for one user. HasData is false for a
// user without answers; that is not an error.
type PerformanceReport struct {
	UserID       string          `json:"user_id"`
	HasData      bool            `json:"has_data"`
	AllTime      Metrics         `json:"all_time"`
	Last7Days    Metrics         `json:"last_7_days"`
	Last30Days   Metrics         `json:"last_30_days"`
	Weekly       []PeriodMetrics `json:"weekly"`
	Daily        []PeriodMetrics `json:"daily"`
	Areas        []TagMetrics    `json:"areas"`
	Subtopics    []TagMetrics    `json:"subtopics"`
	ReviewTopics []ReviewTopic   `json:"review_topics"`
	GeneratedAt  time.Time       `json:"generated_at"`
}

// Ranking is a user's leaderboard position. Rank and Percentile are nil when
// the user has no answers in the period.
type Ranking struct {
	Period            Period   `json:"period"`
	Rank              *int     `json:"rank"`
	TotalParticipants int      `json:"total_participants"`
	Percentile        *float64 `json:"percentile"`
}

// Ranked reports whether the user holds a position.
func (r Ranking) Ranked() bool {
	return r.Rank != nil
}
