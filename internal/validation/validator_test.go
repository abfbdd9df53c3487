package validation

import (
	"strings"
	"testing"

	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSelectQuestionsRequest(t *testing.T) {
	v := NewValidator()

	c, errs := v.ValidateSelectQuestionsRequest(&dto.SelectQuestionsRequest{
		Statuses:   []string{"Unanswered", " incorrect "},
		Specialty:  " Cardiologia ",
		SampleSize: 10,
	})
	require.Empty(t, errs)
	assert.Equal(t, []domain.AnswerStatus{domain.StatusUnanswered, domain.StatusIncorrect}, c.Statuses)
	assert.Equal(t, "Cardiologia", c.Specialty)

	_, errs = v.ValidateSelectQuestionsRequest(&dto.SelectQuestionsRequest{SampleSize: 0})
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	assert.True(t, fields["statuses"])
	assert.True(t, fields["sample_size"])

	_, errs = v.ValidateSelectQuestionsRequest(&dto.SelectQuestionsRequest{Statuses: []string{"skipped"}, SampleSize: 1})
	assert.Len(t, errs, 1)
}

func TestValidateSimuladoRequest_AllowsDefaultSize(t *testing.T) {
	c, errs := NewValidator().ValidateSimuladoRequest(&dto.SelectQuestionsRequest{Statuses: []string{"unanswered"}})
	assert.Empty(t, errs)
	assert.Zero(t, c.SampleSize)
}

func TestValidateSubmitAnswerRequest(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.ValidateSubmitAnswerRequest(&dto.SubmitAnswerRequest{QuestionID: "q1", ChosenOption: "a"}))
	assert.Len(t, v.ValidateSubmitAnswerRequest(&dto.SubmitAnswerRequest{}), 2)
	assert.Len(t, v.ValidateSubmitAnswerRequest(&dto.SubmitAnswerRequest{QuestionID: "q1", ChosenOption: "AB"}), 1)
}

func TestValidateReviewQuery(t *testing.T) {
	v := NewValidator()
	f, errs := v.ValidateReviewQuery(&dto.ReviewQuery{Status: "Incorrect", Area: " Pediatria "})
	assert.Empty(t, errs)
	assert.Equal(t, domain.ReviewFilter{Status: domain.StatusIncorrect, Area: "Pediatria"}, f)

	_, errs = v.ValidateReviewQuery(&dto.ReviewQuery{Status: "unanswered"})
	assert.Len(t, errs, 1)
}

func TestValidatePeriod(t *testing.T) {
	v := NewValidator()
	p, errs := v.ValidatePeriod("")
	assert.Empty(t, errs)
	assert.Equal(t, domain.PeriodWeek, p)

	p, errs = v.ValidatePeriod("DAY")
	assert.Empty(t, errs)
	assert.Equal(t, domain.PeriodDay, p)

	_, errs = v.ValidatePeriod("month")
	assert.Len(t, errs, 1)
}

func TestValidateConceptInputs(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.ValidateConceptQuery("Asma"))
	assert.Len(t, v.ValidateConceptQuery("  "), 1)
	assert.Len(t, v.ValidateConceptQuery(strings.Repeat("a", 501)), 1)

	assert.Empty(t, v.ValidateConceptID("01ARZ3NDEKTSV4RRFFQ69G5FAV"))
	assert.Len(t, v.ValidateConceptID("not-a-ulid"), 1)
	assert.Len(t, v.ValidateConceptID(""), 1)
}

func TestValidateCredentials(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.ValidateCredentials("a@b.com", "x"))
	assert.Len(t, v.ValidateCredentials("", ""), 2)
}
