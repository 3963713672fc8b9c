package domain

// Severity classifies a symptom analysis result
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SymptomAnalysis is the simulated analysis returned by the symptom checker.
// The classification is placeholder logic, not medical advice.
type SymptomAnalysis struct {
	Severity           Severity `json:"severity"`
	Urgency            string   `json:"urgency"`
	PossibleConditions []string `json:"possible_conditions"`
	Recommendations    []string `json:"recommendations"`
	Emergency          bool     `json:"emergency"`
}
