package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/logger"

	"go.uber.org/zap"
)

// DosageService computes weight-based doses and asks the AI for clinical notes.
type DosageService interface {
	// Advise always returns the dose when the request is valid; a failed AI
	// call only leaves the notes empty.
	Advise(ctx context.Context, req domain.DosageRequest) (*domain.DosageAdvice, error)
}

type dosageServiceImpl struct {
	generator domain.TextGenerator // optional
}

func NewDosageService(generator domain.TextGenerator) DosageService {
	return &dosageServiceImpl{generator: generator}
}

func (s *dosageServiceImpl) Advise(ctx context.Context, req domain.DosageRequest) (*domain.DosageAdvice, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	doseMl, err := domain.ComputeDose(req.WeightKg, req.MgPerKg, req.ConcentrationMgPerMl)
	if err != nil {
		return nil, err
	}
	advice := &domain.DosageAdvice{
		DoseMl:        doseMl,
		TotalMg:       req.WeightKg * req.MgPerKg,
		IntervalHours: req.IntervalHours,
	}

	if s.generator == nil {
		advice.NotesMessage = "Clinical notes are disabled."
		return advice, nil
	}

	notes, err := s.generator.Generate(ctx, domain.GenerationRequest{
		System:      dosageSystemPrompt,
		Prompt:      buildDosagePrompt(req),
		Temperature: 0.3,
	})
	if err != nil {
		logger.Get().Warn("Dosage notes generation failed",
			zap.String("medication", req.Medication), zap.Error(err))
		advice.NotesMessage = describeAIFailure(err)
		return advice, nil
	}
	notes = strings.TrimSpace(notes)
	if notes == "" {
		advice.NotesMessage = describeAIFailure(&domain.ErrContentBlocked{})
		return advice, nil
	}
	advice.ClinicalNotes = notes
	advice.NotesAvailable = true
	return advice, nil
}

const dosageSystemPrompt = "Você é um médico sênior e educador. Responda a estudantes de medicina com relatórios curtos e didáticos."

func buildDosagePrompt(req domain.DosageRequest) string {
	comorbidities := strings.TrimSpace(req.Comorbidities)
	if comorbidities == "" {
		comorbidities = "Nenhuma informada"
	}
	caseData, _ := json.Marshal(map[string]interface{}{
		"medicamento":            req.Medication,
		"peso_kg":                req.WeightKg,
		"idade_anos":             req.AgeYears,
		"dosagem_mg_por_kg":      req.MgPerKg,
		"intervalo_horas":        req.IntervalHours,
		"concentracao_mg_por_ml": req.ConcentrationMgPerMl,
		"comorbidades":           comorbidities,
	})
	return fmt.Sprintf(`Caso hipotético: %s

Escreva um relatório educacional sucinto cobrindo:
1. Análise clínica: impacto das comorbidades na escolha e na posologia do medicamento.
2. Contexto prático: um cenário clínico típico para esta prescrição.
3. Pontos de atenção: um ou dois sinais de alerta ou efeitos adversos a monitorar.

Não repita o cálculo da dose. Destaque termos importantes em negrito. Responda apenas com o relatório.`, caseData)
}
