package domain

import "strings"

// DosageRequest is the patient context entered for a dose calculation.
type DosageRequest struct {
	Medication           string
	WeightKg             float64
	AgeYears             float64
	MgPerKg              float64
	IntervalHours        float64
	ConcentrationMgPerMl float64
	Comorbidities        string
}

// Validate requires a medication name and every numeric field to be strictly positive.
func (r DosageRequest) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(r.Medication) == "" {
		errs = append(errs, NewMissingFieldError("medication"))
	}
	if r.WeightKg <= 0 {
		errs = append(errs, NewMustBePositiveError("weight_kg", r.WeightKg))
	}
	if r.AgeYears <= 0 {
		errs = append(errs, NewMustBePositiveError("age_years", r.AgeYears))
	}
	if r.MgPerKg <= 0 {
		errs = append(errs, NewMustBePositiveError("mg_per_kg", r.MgPerKg))
	}
	if r.IntervalHours <= 0 {
		errs = append(errs, NewMustBePositiveError("interval_hours", r.IntervalHours))
	}
	if r.ConcentrationMgPerMl <= 0 {
		errs = append(errs, NewMustBePositiveError("concentration_mg_per_ml", r.ConcentrationMgPerMl))
	}
	return errs.OrNil()
}

// DosageAdvice pairs the computed dose with optional AI clinical notes.
// NotesAvailable is false when the AI call failed; NotesMessage then says why.
type DosageAdvice struct {
	DoseMl         float64
	TotalMg        float64
	IntervalHours  float64
	ClinicalNotes  string
	NotesAvailable bool
	NotesMessage   string
}

// ComputeDose returns the volume in mL per dose:
// weight_kg * mg_per_kg / concentration_mg_per_ml.
func ComputeDose(weightKg, mgPerKg, concentrationMgPerMl float64) (float64, error) {
	var errs ValidationErrors
	if weightKg <= 0 {
		errs = append(errs, NewMustBePositiveError("weight_kg", weightKg))
	}
	if mgPerKg <= 0 {
		errs = append(errs, NewMustBePositiveError("mg_per_kg", mgPerKg))
	}
	if concentrationMgPerMl <= 0 {
		errs = append(errs, NewMustBePositiveError("concentration_mg_per_ml", concentrationMgPerMl))
	}
	if len(errs) > 0 {
		return 0, errs
	}
	return weightKg * mgPerKg / concentrationMgPerMl, nil
}
