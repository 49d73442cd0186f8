package model

import "time"

// ChallengeStatus represents the lifecycle stage of a challenge
type ChallengeStatus string

const (
	ChallengeStatusUpcoming  ChallengeStatus = "upcoming"  // Start date not reached
	ChallengeStatusActive    ChallengeStatus = "active"    // Between start and end date
	ChallengeStatusCompleted ChallengeStatus = "completed" // End date passed
	ChallengeStatusCancelled ChallengeStatus = "cancelled" // Creator cancelled
)

// ChallengeVisibility represents who can join the challenge
type ChallengeVisibility string

const (
	ChallengeVisibilityPublic  ChallengeVisibility = "public"  // Anyone can join directly
	ChallengeVisibilityPrivate ChallengeVisibility = "private" // Join requires approval
)

// Challenge represents a group weight-loss challenge
type Challenge struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Description     *string             `json:"description,omitempty"`
	CreatorID       string              `json:"creator_id"`
	StartDate       time.Time           `json:"start_date"`
	EndDate         time.Time           `json:"end_date"`
	Visibility      ChallengeVisibility `json:"visibility"`
	Status          ChallengeStatus     `json:"status"`
	MaxParticipants int                 `json:"max_participants"`
	// Denormalized count, maintained atomically with membership writes
	ParticipantCount int `json:"participant_count"`
	// Timestamps
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// IsCancelled returns whether the challenge has been cancelled
func (c *Challenge) IsCancelled() bool {
	return c.Status == ChallengeStatusCancelled
}

// IsPrivate returns whether joining requires creator approval
func (c *Challenge) IsPrivate() bool {
	return c.Visibility == ChallengeVisibilityPrivate
}

// IsFull returns whether the challenge has reached its participant cap
func (c *Challenge) IsFull() bool {
	return c.ParticipantCount >= c.MaxParticipants
}

// StatusAt derives the lifecycle status from the challenge dates.
// Cancelled is sticky and never recomputed.
func (c *Challenge) StatusAt(now time.Time) ChallengeStatus {
	if c.Status == ChallengeStatusCancelled {
		return ChallengeStatusCancelled
	}
	switch {
	case now.Before(c.StartDate):
		return ChallengeStatusUpcoming
	case now.After(c.EndDate):
		return ChallengeStatusCompleted
	default:
		return ChallengeStatusActive
	}
}

// MembershipRole represents a user's role within a challenge
type MembershipRole string

const (
	MembershipRoleCreator     MembershipRole = "creator"
	MembershipRoleParticipant MembershipRole = "participant"
)

// Membership represents a user's participation in a challenge
type Membership struct {
	ID               string         `json:"id"`
	UserID           string         `json:"user_id"`
	ChallengeID      string         `json:"challenge_id"`
	Role             MembershipRole `json:"role"`
	StartingWeightKg float64        `json:"starting_weight_kg"`
	GoalWeightKg     *float64       `json:"goal_weight_kg,omitempty"`
	JoinedOn         time.Time      `json:"joined_on"`
	UpdatedOn        time.Time      `json:"updated_on"`
}

// Participant is the membership joined with user info for listings
type Participant struct {
	UserID           string         `json:"user_id"`
	DisplayName      string         `json:"display_name"`
	Role             MembershipRole `json:"role"`
	StartingWeightKg float64        `json:"starting_weight_kg"`
	GoalWeightKg     *float64       `json:"goal_weight_kg,omitempty"`
	JoinedOn         time.Time      `json:"joined_on"`
}

// Constraints
const (
	MaxChallengeNameLength = 100
	MaxChallengeDescLength = 500
	MaxChallengesPerUser   = 10
	MinParticipants        = 2
	MaxParticipantsLimit   = 100
	DefaultMaxParticipants = 20
	DefaultDiscoverLimit   = 20
	MaxDiscoverLimit       = 100
)

// CreateChallengeRequest represents a request to create a challenge
type CreateChallengeRequest struct {
	Name             string   `json:"name"`
	Description      *string  `json:"description,omitempty"`
	StartDate        string   `json:"start_date"` // RFC3339 format
	EndDate          string   `json:"end_date"`   // RFC3339 format
	Visibility       string   `json:"visibility,omitempty"`
	MaxParticipants  *int     `json:"max_participants,omitempty"`
	StartingWeightKg float64  `json:"starting_weight_kg"`
	GoalWeightKg     *float64 `json:"goal_weight_kg,omitempty"`
}

// GetVisibility returns the requested visibility, defaulting to public
func (r *CreateChallengeRequest) GetVisibility() ChallengeVisibility {
	if r.Visibility == "" {
		return ChallengeVisibilityPublic
	}
	return ChallengeVisibility(r.Visibility)
}

// GetMaxParticipants returns the requested cap, defaulting when omitted
func (r *CreateChallengeRequest) GetMaxParticipants() int {
	if r.MaxParticipants == nil {
		return DefaultMaxParticipants
	}
	return *r.MaxParticipants
}

// Validate checks if the create request is valid
func (r *CreateChallengeRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > MaxChallengeNameLength {
		errors = append(errors, FieldError{Field: "name", Message: "name must be 100 characters or less"})
	}
	if r.Description != nil && len(*r.Description) > MaxChallengeDescLength {
		errors = append(errors, FieldError{Field: "description", Message: "description must be 500 characters or less"})
	}
	if r.StartDate == "" {
		errors = append(errors, FieldError{Field: "start_date", Message: "start_date is required"})
	}
	if r.EndDate == "" {
		errors = append(errors, FieldError{Field: "end_date", Message: "end_date is required"})
	}
	if r.Visibility != "" {
		v := ChallengeVisibility(r.Visibility)
		if v != ChallengeVisibilityPublic && v != ChallengeVisibilityPrivate {
			errors = append(errors, FieldError{Field: "visibility", Message: "visibility must be 'public' or 'private'"})
		}
	}
	if r.MaxParticipants != nil {
		if *r.MaxParticipants < MinParticipants || *r.MaxParticipants > MaxParticipantsLimit {
			errors = append(errors, FieldError{Field: "max_participants", Message: "max_participants must be between 2 and 100"})
		}
	}
	if r.StartingWeightKg < MinWeightKg || r.StartingWeightKg > MaxWeightKg {
		errors = append(errors, FieldError{Field: "starting_weight_kg", Message: "starting_weight_kg must be between 20 and 500"})
	}
	if r.GoalWeightKg != nil && (*r.GoalWeightKg < MinWeightKg || *r.GoalWeightKg > MaxWeightKg) {
		errors = append(errors, FieldError{Field: "goal_weight_kg", Message: "goal_weight_kg must be between 20 and 500"})
	}

	return errors
}

// UpdateChallengeRequest represents a request to update challenge details
type UpdateChallengeRequest struct {
	Name            *string `json:"name,omitempty"`
	Description     *string `json:"description,omitempty"`
	StartDate       *string `json:"start_date,omitempty"` // RFC3339 format
	EndDate         *string `json:"end_date,omitempty"`   // RFC3339 format
	Visibility      *string `json:"visibility,omitempty"`
	MaxParticipants *int    `json:"max_participants,omitempty"`
}

// Validate checks if the update request is valid
func (r *UpdateChallengeRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name != nil {
		if *r.Name == "" {
			errors = append(errors, FieldError{Field: "name", Message: "name cannot be empty"})
		} else if len(*r.Name) > MaxChallengeNameLength {
			errors = append(errors, FieldError{Field: "name", Message: "name must be 100 characters or less"})
		}
	}
	if r.Description != nil && len(*r.Description) > MaxChallengeDescLength {
		errors = append(errors, FieldError{Field: "description", Message: "description must be 500 characters or less"})
	}
	if r.Visibility != nil {
		v := ChallengeVisibility(*r.Visibility)
		if v != ChallengeVisibilityPublic && v != ChallengeVisibilityPrivate {
			errors = append(errors, FieldError{Field: "visibility", Message: "visibility must be 'public' or 'private'"})
		}
	}
	if r.MaxParticipants != nil {
		if *r.MaxParticipants < MinParticipants || *r.MaxParticipants > MaxParticipantsLimit {
			errors = append(errors, FieldError{Field: "max_participants", Message: "max_participants must be between 2 and 100"})
		}
	}

	return errors
}

// JoinChallengeRequest represents a request to join a public challenge
type JoinChallengeRequest struct {
	StartingWeightKg float64  `json:"starting_weight_kg"`
	GoalWeightKg     *float64 `json:"goal_weight_kg,omitempty"`
}

// Validate checks if the join request is valid
func (r *JoinChallengeRequest) Validate() []FieldError {
	var errors []FieldError

	if r.StartingWeightKg < MinWeightKg || r.StartingWeightKg > MaxWeightKg {
		errors = append(errors, FieldError{Field: "starting_weight_kg", Message: "starting_weight_kg must be between 20 and 500"})
	}
	if r.GoalWeightKg != nil && (*r.GoalWeightKg < MinWeightKg || *r.GoalWeightKg > MaxWeightKg) {
		errors = append(errors, FieldError{Field: "goal_weight_kg", Message: "goal_weight_kg must be between 20 and 500"})
	}

	return errors
}

// UpdateMembershipRequest represents a request to change membership settings
type UpdateMembershipRequest struct {
	GoalWeightKg *float64 `json:"goal_weight_kg,omitempty"`
}

// Validate checks if the membership update is valid
func (r *UpdateMembershipRequest) Validate() []FieldError {
	var errors []FieldError

	if r.GoalWeightKg != nil && (*r.GoalWeightKg < MinWeightKg || *r.GoalWeightKg > MaxWeightKg) {
		errors = append(errors, FieldError{Field: "goal_weight_kg", Message: "goal_weight_kg must be between 20 and 500"})
	}

	return errors
}
