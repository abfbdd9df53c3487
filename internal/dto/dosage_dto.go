package dto

import "github.com/mcunha12/medstudent/internal/domain"

// DosageRequest is the body of POST /dosage.
type DosageRequest struct {
	Medication           string  `json:"medication"`
	WeightKg             float64 `json:"weight_kg"`
	AgeYears             float64 `json:"age_years"`
	MgPerKg              float64 `json:"mg_per_kg"`
	IntervalHours        float64 `json:"interval_hours"`
	ConcentrationMgPerMl float64 `json:"concentration_mg_per_ml"`
	Comorbidities        string  `json:"comorbidities,omitempty"`
}

func (r DosageRequest) ToDomain() domain.DosageRequest {
	return domain.DosageRequest{
		Medication:           r.Medication,
		WeightKg:             r.WeightKg,
		AgeYears:             r.AgeYears,
		MgPerKg:              r.MgPerKg,
		IntervalHours:        r.IntervalHours,
		ConcentrationMgPerMl: r.ConcentrationMgPerMl,
		Comorbidities:        r.Comorbidities,
	}
}

// DosageResponse always carries the dose. Notes may be missing when the AI
// call failed; NotesMessage then explains why.
type DosageResponse struct {
	DoseMl         float64 `json:"dose_ml"`
	TotalMg        float64 `json:"total_mg"`
	IntervalHours  float64 `json:"interval_hours"`
	ClinicalNotes  string  `json:"clinical_notes,omitempty"`
	NotesAvailable bool    `json:"notes_available"`
	NotesMessage   string  `json:"notes_message,omitempty"`
}

func NewDosageResponse(a *domain.DosageAdvice) DosageResponse {
	return DosageResponse{
		DoseMl:         a.DoseMl,
		TotalMg:        a.TotalMg,
		IntervalHours:  a.IntervalHours,
		ClinicalNotes:  a.ClinicalNotes,
		NotesAvailable: a.NotesAvailable,
		NotesMessage:   a.NotesMessage,
	}
}
