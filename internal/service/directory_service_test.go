package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterMatchesEverythingByDefault(t *testing.T) {
	svc := NewDirectoryService()
	assert.Len(t, svc.Filter("", "", 0), len(doctorDirectory))
}

func TestFilterBySearchTerm(t *testing.T) {
	svc := NewDirectoryService()

	byName := svc.Filter("sarah", "", 0)
	require.Len(t, byName, 1)
	assert.Equal(t, "Dr. Sarah Johnson", byName[0].Name)

	bySpecialty := svc.Filter("cardio", "", 0)
	require.Len(t, bySpecialty, 1)
	assert.Equal(t, "Cardiology", bySpecialty[0].Specialty)
}

func TestFilterBySpecialty(t *testing.T) {
	svc := NewDirectoryService()

	matched := svc.Filter("", "Psychiatry", 0)
	require.Len(t, matched, 1)
	assert.Equal(t, "Dr. Suresh Menon", matched[0].Name)
}

func TestFilterByMinimumRating(t *testing.T) {
	svc := NewDirectoryService()

	for _, doctor := range svc.Filter("", "", 4.7) {
		assert.GreaterOrEqual(t, doctor.Rating, 4.7)
	}
	assert.Len(t, svc.Filter("", "", 4.7), 3)
}

func TestFilterCombined(t *testing.T) {
	svc := NewDirectoryService()

	matched := svc.Filter("dr.", "Cardiology", 4.9)
	assert.Empty(t, matched)
}

func TestSpecialtiesSortedDistinct(t *testing.T) {
	svc := NewDirectoryService()

	specialties := svc.Specialties()
	require.Len(t, specialties, 6)
	assert.Equal(t, []string{
		"Cardiology", "Dermatology", "Neurology",
		"Orthopedics", "Pediatrics", "Psychiatry",
	}, specialties)
}
