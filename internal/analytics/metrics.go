// Package analytics computes performance metrics and leaderboards from answer
// rows. Every function is pure; callers pass the clock and location.
package analytics

import (
	"sort"
	"time"

	"github.com/mcunha12/medstudent/internal/domain"
)

// FilterWindow keeps rows answered at or after now-window. A zero window keeps everything.
func FilterWindow(rows []domain.AnsweredQuestion, window time.Duration, now time.Time) []domain.AnsweredQuestion {
	if window <= 0 {
		return rows
	}
	cutoff := now.Add(-window)
	out := make([]domain.AnsweredQuestion, 0, len(rows))
	for _, r := range rows {
		if !r.AnsweredAt.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

// ComputeMetrics counts answered and correct rows inside the window.
func ComputeMetrics(rows []domain.AnsweredQuestion, window time.Duration, now time.Time) domain.Metrics {
	var answered, correct int
	for _, r := range FilterWindow(rows, window, now) {
		answered++
		if r.IsCorrect {
			correct++
		}
	}
	return domain.NewMetrics(answered, correct)
}

// PeriodStart truncates t to the start of its day or ISO week (Monday) in loc.
func PeriodStart(t time.Time, period domain.Period, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	if period != domain.PeriodWeek {
		return day
	}
	// time.Sunday == 0; shift so Monday is the first day.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// AggregateByPeriod buckets rows by day or week, oldest bucket first. Only
// buckets with at least one answer are returned.
func AggregateByPeriod(rows []domain.AnsweredQuestion, period domain.Period, loc *time.Location) []domain.PeriodMetrics {
	type counts struct{ answered, correct int }
	buckets := make(map[int64]*counts)
	starts := make(map[int64]time.Time)

	for _, r := range rows {
		start := PeriodStart(r.AnsweredAt, period, loc)
		key := start.Unix()
		c, ok := buckets[key]
		if !ok {
			c = &counts{}
			buckets[key] = c
			starts[key] = start
		}
		c.answered++
		if r.IsCorrect {
			c.correct++
		}
	}

	out := make([]domain.PeriodMetrics, 0, len(buckets))
	for key, c := range buckets {
		out = append(out, domain.PeriodMetrics{PeriodStart: starts[key], Metrics: domain.NewMetrics(c.answered, c.correct)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodStart.Before(out[j].PeriodStart) })
	return out
}

func tagsOf(r domain.AnsweredQuestion, field domain.TagField) []string {
	if field == domain.TagSubtopic {
		return domain.CleanTags(r.Subtopics)
	}
	return domain.CleanTags(r.Areas)
}

// AggregateByTag fans every row out to each of its tags before counting, so a
// question tagged with two areas counts fully toward both. Rows are ordered by
// volume, then tag name.
func AggregateByTag(rows []domain.AnsweredQuestion, field domain.TagField) []domain.TagMetrics {
	type counts struct{ answered, correct int }
	byTag := make(map[string]*counts)

	for _, r := range rows {
		for _, tag := range tagsOf(r, field) {
			c, ok := byTag[tag]
			if !ok {
				c = &counts{}
				byTag[tag] = c
			}
			c.answered++
			if r.IsCorrect {
				c.correct++
			}
		}
	}

	out := make([]domain.TagMetrics, 0, len(byTag))
	for tag, c := range byTag {
		out = append(out, domain.TagMetrics{Tag: tag, Metrics: domain.NewMetrics(c.answered, c.correct)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Answered != out[j].Answered {
			return out[i].Answered > out[j].Answered
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// TopicsToReview returns up to limit subtopics with the most incorrect answers
// inside the window. Ties are broken by name.
func TopicsToReview(rows []domain.AnsweredQuestion, window time.Duration, now time.Time, limit int) []domain.ReviewTopic {
	incorrect := make(map[string]int)
	for _, r := range FilterWindow(rows, window, now) {
		if r.IsCorrect {
			continue
		}
		for _, tag := range tagsOf(r, domain.TagSubtopic) {
			incorrect[tag]++
		}
	}

	out := make([]domain.ReviewTopic, 0, len(incorrect))
	for tag, n := range incorrect {
		out = append(out, domain.ReviewTopic{Subtopic: tag, Incorrect: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Incorrect != out[j].Incorrect {
			return out[i].Incorrect > out[j].Incorrect
		}
		return out[i].Subtopic < out[j].Subtopic
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
