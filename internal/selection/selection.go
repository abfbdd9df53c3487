// Package selection builds practice pools from the question bank and draws
// random samples from them.
package selection

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/util"
)

// Criteria narrows the question bank for one practice session.
// Statuses are OR'd; every other non-empty filter is AND'ed with them.
type Criteria struct {
	Statuses    []domain.AnswerStatus
	Specialty   string
	ExamSources []string
	Keywords    []string
	SampleSize  int
}

// Validate rejects criteria that can never select anything useful.
func (c Criteria) Validate() error {
	var errs domain.ValidationErrors
	if len(c.Statuses) == 0 {
		errs = append(errs, domain.ValidationError{Field: "statuses", Message: "at least one status filter is required"})
	}
	for _, s := range c.Statuses {
		if _, err := domain.ParseAnswerStatus(string(s)); err != nil {
			errs = append(errs, domain.ValidationError{Field: "statuses", Message: err.Error()})
		}
	}
	if c.SampleSize <= 0 {
		errs = append(errs, domain.NewMustBePositiveError("sample_size", float64(c.SampleSize)))
	}
	return errs.OrNil()
}

// BuildPool returns the questions matching c, in bank order and without
// duplicates. answers maps question id to the user's stored answer.
func BuildPool(questions []*domain.Question, answers map[string]*domain.Answer, c Criteria) []*domain.Question {
	if len(c.Statuses) == 0 {
		return nil
	}
	wanted := make(map[domain.AnswerStatus]bool, len(c.Statuses))
	for _, s := range c.Statuses {
		wanted[s] = true
	}

	specialty := util.NormalizeForSearch(c.Specialty)
	exams := make(map[string]bool, len(c.ExamSources))
	for _, e := range c.ExamSources {
		if e = strings.TrimSpace(e); e != "" {
			exams[e] = true
		}
	}
	keywords := normalizedTerms(c.Keywords)

	seen := make(map[string]bool, len(questions))
	var pool []*domain.Question
	for _, q := range questions {
		if q == nil || seen[q.ID] {
			continue
		}
		if !wanted[domain.StatusOf(answers[q.ID])] {
			continue
		}
		if specialty != "" && !matchesAnyTag(q.Areas, specialty) {
			continue
		}
		if len(exams) > 0 && !exams[q.SourceExam] {
			continue
		}
		if len(keywords) > 0 && !matchesAnyKeyword(q, keywords) {
			continue
		}
		seen[q.ID] = true
		pool = append(pool, q)
	}
	return pool
}

func normalizedTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if n := util.NormalizeForSearch(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func matchesAnyTag(tags []string, normalized string) bool {
	for _, t := range tags {
		if strings.Contains(util.NormalizeForSearch(t), normalized) {
			return true
		}
	}
	return false
}

func matchesAnyKeyword(q *domain.Question, keywords []string) bool {
	text := util.NormalizeForSearch(q.SearchText())
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// Sample draws min(n, len(pool)) distinct questions uniformly at random.
// pool is not modified.
func Sample(pool []*domain.Question, n int, rng *rand.Rand) []*domain.Question {
	if n <= 0 || len(pool) == 0 {
		return []*domain.Question{}
	}
	if n > len(pool) {
		n = len(pool)
	}
	idx := rng.Perm(len(pool))[:n]
	out := make([]*domain.Question, n)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}

// Specialties returns the distinct areas of the bank in alphabetical order.
func Specialties(questions []*domain.Question) []string {
	set := make(map[string]struct{})
	for _, q := range questions {
		for _, a := range domain.CleanTags(q.Areas) {
			set[a] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
