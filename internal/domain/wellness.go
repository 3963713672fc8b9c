package domain

import "time"

// MentalHealthResource is a hardcoded self-help resource
type MentalHealthResource struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

// MoodOption is a selectable mood on the mental health page
type MoodOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// MoodEntry is a single mood check-in, persisted as a health record
type MoodEntry struct {
	Mood     string    `json:"mood"`
	Note     string    `json:"note,omitempty"`
	LoggedAt time.Time `json:"logged_at"`
}
