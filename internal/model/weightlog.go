package model

import "time"

// LogDateFormat is the calendar-day format used for weight log dates
const LogDateFormat = "2006-01-02"

// Weight bounds in kilograms
const (
	MinWeightKg = 20.0
	MaxWeightKg = 500.0
)

// MaxWeightNoteLength bounds the optional note on a weight log
const MaxWeightNoteLength = 500

// Pagination bounds for weight log listings
const (
	DefaultWeightLogLimit = 30
	MaxWeightLogLimit     = 100
)

// WeightLog represents a single weigh-in for a user.
// At most one log exists per user per calendar day.
type WeightLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	WeightKg  float64   `json:"weight_kg"`
	Note      *string   `json:"note,omitempty"`
	LogDate   string    `json:"log_date"` // YYYY-MM-DD
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// CreateWeightLogRequest represents a request to record a weigh-in
type CreateWeightLogRequest struct {
	WeightKg float64 `json:"weight_kg"`
	Note     *string `json:"note,omitempty"`
	LogDate  *string `json:"log_date,omitempty"` // YYYY-MM-DD, defaults to today
}

// GetLogDate returns the requested date, defaulting to today in UTC
func (r *CreateWeightLogRequest) GetLogDate(now time.Time) string {
	if r.LogDate == nil || *r.LogDate == "" {
		return now.UTC().Format(LogDateFormat)
	}
	return *r.LogDate
}

// Validate checks if the create request is valid
func (r *CreateWeightLogRequest) Validate() []FieldError {
	var errors []FieldError

	if r.WeightKg < MinWeightKg || r.WeightKg > MaxWeightKg {
		errors = append(errors, FieldError{Field: "weight_kg", Message: "weight_kg must be between 20 and 500"})
	}
	if r.Note != nil && len(*r.Note) > MaxWeightNoteLength {
		errors = append(errors, FieldError{Field: "note", Message: "note must be 500 characters or less"})
	}
	if r.LogDate != nil && *r.LogDate != "" {
		if _, err := time.Parse(LogDateFormat, *r.LogDate); err != nil {
			errors = append(errors, FieldError{Field: "log_date", Message: "log_date must be in YYYY-MM-DD format"})
		}
	}

	return errors
}

// UpdateWeightLogRequest represents a request to amend a weigh-in
type UpdateWeightLogRequest struct {
	WeightKg *float64 `json:"weight_kg,omitempty"`
	Note     *string  `json:"note,omitempty"`
}

// Validate checks if the update request is valid
func (r *UpdateWeightLogRequest) Validate() []FieldError {
	var errors []FieldError

	if r.WeightKg != nil && (*r.WeightKg < MinWeightKg || *r.WeightKg > MaxWeightKg) {
		errors = append(errors, FieldError{Field: "weight_kg", Message: "weight_kg must be between 20 and 500"})
	}
	if r.Note != nil && len(*r.Note) > MaxWeightNoteLength {
		errors = append(errors, FieldError{Field: "note", Message: "note must be 500 characters or less"})
	}

	return errors
}

// ProgressEntry is one participant's standing on the leaderboard
type ProgressEntry struct {
	UserID           string   `json:"user_id"`
	DisplayName      string   `json:"display_name"`
	StartingWeightKg float64  `json:"starting_weight_kg"`
	CurrentWeightKg  *float64 `json:"current_weight_kg,omitempty"`
	ChangeKg         *float64 `json:"change_kg,omitempty"`
	ChangePercent    *float64 `json:"change_percent,omitempty"`
	LogCount         int      `json:"log_count"`
	Rank             int      `json:"rank"`
}

// ChallengeProgress is the leaderboard for a challenge
type ChallengeProgress struct {
	ChallengeID string          `json:"challenge_id"`
	GeneratedOn time.Time       `json:"generated_on"`
	Entries     []ProgressEntry `json:"entries"`
}
