package service

import (
	"context"

	"healthmate-be/internal/domain"
)

// SymptomService defines the interface for the simulated symptom checker
type SymptomService interface {
	// Analyze produces a placeholder analysis for a free-text symptom
	// description
	Analyze(symptoms string) (*domain.SymptomAnalysis, error)

	// Categories returns the symptom categories with their common symptoms
	Categories() []SymptomCategory
}

// ChatService defines the interface for the anonymous support chat
type ChatService interface {
	// StartConversation opens a new anonymous conversation and returns its id
	// with the opening bot message
	StartConversation(ctx context.Context) (string, *domain.ChatMessage, error)

	// SendMessage appends a user message and the scripted bot reply
	SendMessage(ctx context.Context, conversationID, text string) (*domain.ChatMessage, *domain.ChatMessage, error)

	// Transcript returns the conversation so far, oldest first
	Transcript(ctx context.Context, conversationID string) ([]domain.ChatMessage, error)
}

// DirectoryService defines the interface for the doctor directory
type DirectoryService interface {
	// Filter returns doctors matching a search term, specialty and minimum
	// rating; empty arguments match everything
	Filter(search, specialty string, minRating float64) []domain.Doctor

	// Specialties returns the distinct specialties in the directory
	Specialties() []string
}

// WellnessService defines the interface for the mental health page
type WellnessService interface {
	// Resources returns the hardcoded self-help resources
	Resources() []domain.MentalHealthResource

	// MoodOptions returns the selectable moods
	MoodOptions() []domain.MoodOption

	// LogMood persists a mood entry as a health record for the user
	LogMood(ctx context.Context, userID string, entry domain.MoodEntry) error

	// RecentMoods returns the user's mood history, newest first
	RecentMoods(ctx context.Context, userID string) ([]domain.MoodEntry, error)
}

// HealthRecordCapability is the slice of the data capability the wellness
// service consumes
type HealthRecordCapability interface {
	ListHealthRecords(ctx context.Context, userID string) ([]domain.HealthRecord, error)
	CreateHealthRecord(ctx context.Context, record *domain.HealthRecord) (*domain.HealthRecord, error)
}

// SymptomCategory groups common symptoms shown on the checker page
type SymptomCategory struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Symptoms []string `json:"symptoms"`
}

// Services aggregates all service interfaces
type Services struct {
	Symptom   SymptomService
	Chat      ChatService
	Directory DirectoryService
	Wellness  WellnessService
}
