package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/dto"
	"github.com/mcunha12/medstudent/internal/selection"
)

const (
	maxSampleSize     = 100
	maxConceptQuery   = 500
	maxFilterTerms    = 20
	maxFilterTermSize = 100
)

var validULID = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSelectQuestionsRequest checks the practice filters and converts them.
func (v *Validator) ValidateSelectQuestionsRequest(req *dto.SelectQuestionsRequest) (selection.Criteria, domain.ValidationErrors) {
	var errors domain.ValidationErrors
	c := selection.Criteria{
		Specialty:   strings.TrimSpace(req.Specialty),
		ExamSources: req.ExamSources,
		Keywords:    req.Keywords,
		SampleSize:  req.SampleSize,
	}

	if len(req.Statuses) == 0 {
		errors = append(errors, domain.NewMissingFieldError("statuses"))
	}
	for _, raw := range req.Statuses {
		status, err := domain.ParseAnswerStatus(strings.ToLower(strings.TrimSpace(raw)))
		if err != nil {
			errors = append(errors, domain.NewInvalidFormatError("statuses", raw))
			continue
		}
		c.Statuses = append(c.Statuses, status)
	}

	if req.SampleSize <= 0 || req.SampleSize > maxSampleSize {
		errors = append(errors, domain.NewOutOfRangeError("sample_size", req.SampleSize, 1, maxSampleSize))
	}
	errors = append(errors, validateTerms("exam_sources", req.ExamSources)...)
	errors = append(errors, validateTerms("keywords", req.Keywords)...)

	return c, errors
}

// ValidateSimuladoRequest is like ValidateSelectQuestionsRequest but lets the
// service pick the size when none is given.
func (v *Validator) ValidateSimuladoRequest(req *dto.SelectQuestionsRequest) (selection.Criteria, domain.ValidationErrors) {
	if req.SampleSize != 0 {
		return v.ValidateSelectQuestionsRequest(req)
	}
	withSize := *req
	withSize.SampleSize = 1
	c, errors := v.ValidateSelectQuestionsRequest(&withSize)
	c.SampleSize = 0
	return c, errors
}

// ValidateSubmitAnswerRequest validates the answer submission
func (v *Validator) ValidateSubmitAnswerRequest(req *dto.SubmitAnswerRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.QuestionID) == "" {
		errors = append(errors, domain.NewMissingFieldError("question_id"))
	}

	label := strings.TrimSpace(req.ChosenOption)
	if label == "" {
		errors = append(errors, domain.NewMissingFieldError("chosen_option"))
	} else if len(label) > 1 {
		errors = append(errors, domain.NewInvalidFormatError("chosen_option", req.ChosenOption))
	}

	return errors
}

// ValidateReviewQuery converts the review list query parameters.
func (v *Validator) ValidateReviewQuery(q *dto.ReviewQuery) (domain.ReviewFilter, domain.ValidationErrors) {
	var errors domain.ValidationErrors
	filter := domain.ReviewFilter{Area: strings.TrimSpace(q.Area), Exam: strings.TrimSpace(q.Exam)}

	if s := strings.ToLower(strings.TrimSpace(q.Status)); s != "" {
		switch domain.AnswerStatus(s) {
		case domain.StatusCorrect, domain.StatusIncorrect:
			filter.Status = domain.AnswerStatus(s)
		default:
			errors = append(errors, domain.NewInvalidFormatError("status", q.Status))
		}
	}
	return filter, errors
}

// ValidatePeriod accepts "day" and "week"; empty means week.
func (v *Validator) ValidatePeriod(raw string) (domain.Period, domain.ValidationErrors) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return domain.PeriodWeek, nil
	}
	p, err := domain.ParsePeriod(raw)
	if err != nil {
		return "", domain.ValidationErrors{domain.NewInvalidFormatError("period", raw)}
	}
	return p, nil
}

// ValidateConceptQuery validates a wiki search.
func (v *Validator) ValidateConceptQuery(query string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	query = strings.TrimSpace(query)
	if query == "" {
		errors = append(errors, domain.NewMissingFieldError("query"))
	} else if n := utf8.RuneCountInString(query); n > maxConceptQuery {
		errors = append(errors, domain.NewOutOfRangeError("query", n, 1, maxConceptQuery))
	}
	return errors
}

// ValidateConceptID validates a concept id path parameter.
func (v *Validator) ValidateConceptID(id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("id")}
	}
	if !isValidULID(id) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("id", id)}
	}
	return nil
}

// ValidateCredentials checks the presence of login fields. Format rules for
// new accounts live in the auth service.
func (v *Validator) ValidateCredentials(email, password string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(email) == "" {
		errors = append(errors, domain.NewMissingFieldError("email"))
	}
	if password == "" {
		errors = append(errors, domain.NewMissingFieldError("password"))
	}
	return errors
}

func validateTerms(field string, terms []string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if len(terms) > maxFilterTerms {
		errors = append(errors, domain.NewOutOfRangeError(field, len(terms), 0, maxFilterTerms))
	}
	for _, t := range terms {
		if utf8.RuneCountInString(t) > maxFilterTermSize {
			errors = append(errors, domain.NewInvalidFormatError(field, t))
		}
	}
	return errors
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	return validULID.MatchString(s)
}
