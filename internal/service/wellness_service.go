package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"healthmate-be/internal/domain"
	"healthmate-be/pkg/errors"
	"healthmate-be/pkg/logger"
)

// moodRecordType is the health_records record_type used for mood check-ins
const moodRecordType = "mood"

// wellnessService serves the mental health page: hardcoded resources plus
// mood tracking persisted through the data capability.
type wellnessService struct {
	records HealthRecordCapability
	logger  *logger.Logger
}

// NewWellnessService creates the mental health service
func NewWellnessService(records HealthRecordCapability, logger *logger.Logger) WellnessService {
	return &wellnessService{records: records, logger: logger}
}

// Resources returns the hardcoded self-help resources
func (s *wellnessService) Resources() []domain.MentalHealthResource {
	return mentalHealthResources
}

// MoodOptions returns the selectable moods
func (s *wellnessService) MoodOptions() []domain.MoodOption {
	return moodOptions
}

// LogMood persists a mood entry as a health record for the user
func (s *wellnessService) LogMood(ctx context.Context, userID string, entry domain.MoodEntry) error {
	if !validMood(entry.Mood) {
		return errors.NewValidationError("Unknown mood", map[string]interface{}{"mood": entry.Mood})
	}
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal mood entry: %w", err)
	}

	record := &domain.HealthRecord{
		UserID:     userID,
		RecordType: moodRecordType,
		Data:       string(data),
	}
	if _, err := s.records.CreateHealthRecord(ctx, record); err != nil {
		return fmt.Errorf("failed to persist mood entry: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"mood":    entry.Mood,
	}).Debug("Mood logged")
	return nil
}

// RecentMoods returns the user's mood history, newest first
func (s *wellnessService) RecentMoods(ctx context.Context, userID string) ([]domain.MoodEntry, error) {
	records, err := s.records.ListHealthRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list health records: %w", err)
	}

	entries := make([]domain.MoodEntry, 0, len(records))
	for _, record := range records {
		if record.RecordType != moodRecordType {
			continue
		}
		var entry domain.MoodEntry
		if err := json.Unmarshal([]byte(record.Data), &entry); err != nil {
			s.logger.WithError(err).WithField("record_id", record.ID).Warn("Skipping malformed mood record")
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func validMood(mood string) bool {
	for _, option := range moodOptions {
		if option.Value == mood {
			return true
		}
	}
	return false
}

var moodOptions = []domain.MoodOption{
	{Value: "happy", Label: "Happy", Icon: "😊"},
	{Value: "sad", Label: "Sad", Icon: "😢"},
	{Value: "anxious", Label: "Anxious", Icon: "😰"},
	{Value: "angry", Label: "Angry", Icon: "😠"},
	{Value: "neutral", Label: "Neutral", Icon: "😐"},
}

var mentalHealthResources = []domain.MentalHealthResource{
	{ID: "1", Title: "Understanding Anxiety: A Complete Guide", Category: "article", Description: "Learn what anxiety is, how it shows up, and evidence-based ways to manage it.", Duration: "10 min read"},
	{ID: "2", Title: "Mindfulness Meditation for Beginners", Category: "meditation", Description: "A gentle introduction to mindfulness practice.", Duration: "15 min"},
	{ID: "3", Title: "Deep Breathing Exercise", Category: "exercise", Description: "A short guided breathing exercise to calm the nervous system.", Duration: "5 min"},
	{ID: "4", Title: "Progressive Muscle Relaxation", Category: "exercise", Description: "Release physical tension one muscle group at a time.", Duration: "12 min"},
	{ID: "5", Title: "Sleep Hygiene: Better Sleep Habits", Category: "article", Description: "Practical habits for falling asleep faster and sleeping deeper.", Duration: "8 min read"},
	{ID: "6", Title: "Cognitive Behavioral Therapy Basics", Category: "course", Description: "An introduction to CBT techniques you can practice on your own.", Duration: "20 min"},
}
