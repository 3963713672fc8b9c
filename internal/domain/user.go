package domain

import "time"

// User represents an authenticated identity, bound 1:1 to a session
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserProfile is the user-editable health/identity record stored in the
// profiles table, keyed by the owning user's id. Created lazily, never as a
// sign-up side effect.
type UserProfile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name,omitempty"`
	Username    string    `json:"username,omitempty"`
	BloodType   string    `json:"blood_type,omitempty"`
	Age         int       `json:"age,omitempty"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfileUpdate carries the fields of a partial profile upsert.
// Nil fields are left untouched by the capability's merge semantics.
type ProfileUpdate struct {
	FullName    *string `json:"full_name,omitempty"`
	Username    *string `json:"username,omitempty"`
	BloodType   *string `json:"blood_type,omitempty"`
	Age         *int    `json:"age,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
}

// HealthRecord is a single entry in the health_records table
type HealthRecord struct {
	ID         string    `json:"id,omitempty"`
	UserID     string    `json:"user_id"`
	RecordType string    `json:"record_type"`
	Data       string    `json:"data"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}
