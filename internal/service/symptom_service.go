package service

import (
	"math/rand"
	"strings"

	"healthmate-be/internal/domain"
	"healthmate-be/pkg/errors"
	"healthmate-be/pkg/logger"
)

// symptomService simulates symptom analysis. The classification is a random
// placeholder, not a medical model; the response shape matches what a real
// analysis backend would return.
type symptomService struct {
	roll   func() float64
	logger *logger.Logger
}

// NewSymptomService creates the simulated symptom checker
func NewSymptomService(logger *logger.Logger) SymptomService {
	return &symptomService{
		roll:   rand.Float64,
		logger: logger,
	}
}

// Analyze produces a placeholder analysis for a free-text symptom description
func (s *symptomService) Analyze(symptoms string) (*domain.SymptomAnalysis, error) {
	if strings.TrimSpace(symptoms) == "" {
		return nil, errors.NewValidationError("Symptoms description is required", nil)
	}

	severity := severityFor(s.roll(), s.roll())

	analysis := &domain.SymptomAnalysis{
		Severity: severity,
		Urgency:  urgencyFor(severity),
		PossibleConditions: []string{
			"Common cold",
			"Seasonal allergies",
			"Stress-related symptoms",
		},
		Recommendations: []string{
			"Rest and stay hydrated",
			"Monitor symptoms for 24-48 hours",
			"Contact doctor if symptoms worsen",
		},
		Emergency: severity == domain.SeverityHigh,
	}

	s.logger.WithFields(map[string]interface{}{
		"severity": string(analysis.Severity),
		"urgency":  analysis.Urgency,
	}).Debug("Symptom analysis produced")

	return analysis, nil
}

// severityFor classifies from two independent rolls: the first above 0.7 is
// high, otherwise the second above 0.4 is medium, else low
func severityFor(first, second float64) domain.Severity {
	switch {
	case first > 0.7:
		return domain.SeverityHigh
	case second > 0.4:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

func urgencyFor(severity domain.Severity) string {
	switch severity {
	case domain.SeverityHigh:
		return "immediate"
	case domain.SeverityMedium:
		return "soon"
	default:
		return "routine"
	}
}

// Categories returns the symptom categories with their common symptoms
func (s *symptomService) Categories() []SymptomCategory {
	return []SymptomCategory{
		{ID: "general", Name: "General", Symptoms: []string{"Fever", "Fatigue", "Body aches", "Loss of appetite", "Night sweats"}},
		{ID: "head", Name: "Head & Neck", Symptoms: []string{"Headache", "Dizziness", "Nausea", "Vision problems", "Neck pain"}},
		{ID: "chest", Name: "Chest & Heart", Symptoms: []string{"Chest pain", "Shortness of breath", "Cough", "Heart palpitations", "Back pain"}},
		{ID: "stomach", Name: "Stomach", Symptoms: []string{"Abdominal pain", "Nausea", "Vomiting", "Diarrhea", "Bloating"}},
		{ID: "eyes", Name: "Eyes", Symptoms: []string{"Eye pain", "Blurred vision", "Redness", "Itching", "Sensitivity to light"}},
		{ID: "ears", Name: "Ears", Symptoms: []string{"Ear pain", "Hearing loss", "Ringing", "Drainage", "Pressure"}},
	}
}
