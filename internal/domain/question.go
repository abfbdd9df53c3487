package domain

import (
	"sort"
	"strings"
	"time"
)

// SourceExamAI marks questions produced by the AI generator instead of a real exam.
const SourceExamAI = "IA"

// Question is one multiple-choice item from the question bank.
type Question struct {
	ID            string
	Statement     string
	Options       map[string]string // label -> text
	Commentary    map[string]string // label -> explanation
	CorrectOption string
	Areas         []string
	Subtopics     []string
	SourceExam    string
	CreatedAt     time.Time
}

// Validate checks the structural invariants of a question.
func (q *Question) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(q.Statement) == "" {
		errs = append(errs, NewMissingFieldError("statement"))
	}
	if len(q.Options) == 0 {
		errs = append(errs, NewMissingFieldError("options"))
	}
	if q.CorrectOption == "" {
		errs = append(errs, NewMissingFieldError("correct_option"))
	} else if _, ok := q.Options[q.CorrectOption]; !ok && len(q.Options) > 0 {
		errs = append(errs, ValidationError{Field: "correct_option", Message: "must be one of the option labels"})
	}
	return errs.OrNil()
}

// IsCorrect reports whether label is the right answer.
func (q *Question) IsCorrect(label string) bool {
	return label != "" && label == q.CorrectOption
}

// OptionLabels returns the option labels in lexical order.
func (q *Question) OptionLabels() []string {
	labels := make([]string, 0, len(q.Options))
	for l := range q.Options {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// SearchText concatenates every free-text field used for keyword matching.
func (q *Question) SearchText() string {
	var b strings.Builder
	b.WriteString(q.Statement)
	for _, l := range q.OptionLabels() {
		b.WriteString(" ")
		b.WriteString(q.Options[l])
		if c, ok := q.Commentary[l]; ok {
			b.WriteString(" ")
			b.WriteString(c)
		}
	}
	for _, t := range q.Areas {
		b.WriteString(" ")
		b.WriteString(t)
	}
	for _, t := range q.Subtopics {
		b.WriteString(" ")
		b.WriteString(t)
	}
	b.WriteString(" ")
	b.WriteString(q.SourceExam)
	return b.String()
}

// SameContent reports whether two questions differ only in ID and timestamps.
func (q *Question) SameContent(other *Question) bool {
	if other == nil {
		return false
	}
	return q.Statement == other.Statement &&
		q.CorrectOption == other.CorrectOption &&
		q.SourceExam == other.SourceExam &&
		sameMap(q.Options, other.Options) &&
		sameMap(q.Commentary, other.Commentary) &&
		sameTags(q.Areas, other.Areas) &&
		sameTags(q.Subtopics, other.Subtopics)
}

func sameMap(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}

// sameTags compares tag sets ignoring order and duplicates.
func sameTags(a, b []string) bool {
	set := func(tags []string) map[string]struct{} {
		m := make(map[string]struct{}, len(tags))
		for _, t := range tags {
			m[t] = struct{}{}
		}
		return m
	}
	sa, sb := set(a), set(b)
	if len(sa) != len(sb) {
		return false
	}
	for t := range sa {
		if _, ok := sb[t]; !ok {
			return false
		}
	}
	return true
}

// CleanTags trims, drops empties and removes duplicates while keeping first-seen order.
func CleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
