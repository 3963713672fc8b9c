package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthmate-be/internal/domain"
	"healthmate-be/pkg/logger"
)

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

func rolls(values ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := values[i%len(values)]
		i++
		return v
	}
}

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		name   string
		first  float64
		second float64
		want   domain.Severity
	}{
		{"first roll above threshold is high", 0.71, 0.0, domain.SeverityHigh},
		{"first roll at threshold is not high", 0.7, 0.0, domain.SeverityLow},
		{"second roll above threshold is medium", 0.5, 0.41, domain.SeverityMedium},
		{"second roll at threshold is not medium", 0.5, 0.4, domain.SeverityLow},
		{"both low rolls", 0.1, 0.1, domain.SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, severityFor(tt.first, tt.second))
		})
	}
}

func TestAnalyzeRequiresSymptoms(t *testing.T) {
	svc := &symptomService{roll: rolls(0.5), logger: testLogger()}

	_, err := svc.Analyze("   ")
	assert.Error(t, err)
}

func TestAnalyzeHighSeverityIsEmergency(t *testing.T) {
	svc := &symptomService{roll: rolls(0.9), logger: testLogger()}

	analysis, err := svc.Analyze("severe chest pain")
	require.NoError(t, err)

	assert.Equal(t, domain.SeverityHigh, analysis.Severity)
	assert.Equal(t, "immediate", analysis.Urgency)
	assert.True(t, analysis.Emergency)
}

func TestAnalyzeLowSeverity(t *testing.T) {
	svc := &symptomService{roll: rolls(0.1), logger: testLogger()}

	analysis, err := svc.Analyze("mild headache")
	require.NoError(t, err)

	assert.Equal(t, domain.SeverityLow, analysis.Severity)
	assert.Equal(t, "routine", analysis.Urgency)
	assert.False(t, analysis.Emergency)
	assert.NotEmpty(t, analysis.PossibleConditions)
	assert.NotEmpty(t, analysis.Recommendations)
}

func TestCategories(t *testing.T) {
	svc := NewSymptomService(testLogger())

	categories := svc.Categories()
	require.Len(t, categories, 6)
	assert.Equal(t, "general", categories[0].ID)
	for _, category := range categories {
		assert.NotEmpty(t, category.Symptoms)
	}
}
