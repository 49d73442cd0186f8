package model

import "time"

// JoinRequestStatus represents the state of a join request or invite
type JoinRequestStatus string

const (
	JoinRequestStatusPending   JoinRequestStatus = "pending"   // Awaiting creator decision
	JoinRequestStatusApproved  JoinRequestStatus = "approved"  // Creator approved, membership created
	JoinRequestStatusRejected  JoinRequestStatus = "rejected"  // Creator rejected
	JoinRequestStatusWithdrawn JoinRequestStatus = "withdrawn" // Requester withdrew before a decision
	JoinRequestStatusInvited   JoinRequestStatus = "invited"   // Creator invited, awaiting invitee
	JoinRequestStatusDeclined  JoinRequestStatus = "declined"  // Invitee declined
)

// IsOpen returns whether the request still awaits a decision
func (s JoinRequestStatus) IsOpen() bool {
	return s == JoinRequestStatusPending || s == JoinRequestStatusInvited
}

// JoinRequest represents a request to join a private challenge,
// or an invitation issued by the challenge creator
type JoinRequest struct {
	ID          string            `json:"id"`
	ChallengeID string            `json:"challenge_id"`
	UserID      string            `json:"user_id"`
	Message     *string           `json:"message,omitempty"`
	Status      JoinRequestStatus `json:"status"`
	// Weights proposed by the requester, applied to the membership on
	// approval. Empty on invites until the invitee accepts.
	StartingWeightKg *float64   `json:"starting_weight_kg,omitempty"`
	GoalWeightKg     *float64   `json:"goal_weight_kg,omitempty"`
	CreatedOn        time.Time  `json:"created_on"`
	RespondedOn      *time.Time `json:"responded_on,omitempty"`
	RespondedBy      *string    `json:"responded_by,omitempty"` // User ID of the decider
}

// MaxJoinMessageLength bounds the optional message on a join request
const MaxJoinMessageLength = 300

// CreateJoinRequestRequest represents a request to join a private challenge
type CreateJoinRequestRequest struct {
	Message          *string  `json:"message,omitempty"`
	StartingWeightKg float64  `json:"starting_weight_kg"`
	GoalWeightKg     *float64 `json:"goal_weight_kg,omitempty"`
}

// Validate checks if the join request is valid
func (r *CreateJoinRequestRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Message != nil && len(*r.Message) > MaxJoinMessageLength {
		errors = append(errors, FieldError{Field: "message", Message: "message must be 300 characters or less"})
	}
	if r.StartingWeightKg < MinWeightKg || r.StartingWeightKg > MaxWeightKg {
		errors = append(errors, FieldError{Field: "starting_weight_kg", Message: "starting_weight_kg must be between 20 and 500"})
	}
	if r.GoalWeightKg != nil && (*r.GoalWeightKg < MinWeightKg || *r.GoalWeightKg > MaxWeightKg) {
		errors = append(errors, FieldError{Field: "goal_weight_kg", Message: "goal_weight_kg must be between 20 and 500"})
	}

	return errors
}

// InviteRequest represents a creator inviting a user by email
type InviteRequest struct {
	Email   string  `json:"email"`
	Message *string `json:"message,omitempty"`
}

// Validate checks if the invite is valid
func (r *InviteRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Email == "" {
		errors = append(errors, FieldError{Field: "email", Message: "email is required"})
	}
	if r.Message != nil && len(*r.Message) > MaxJoinMessageLength {
		errors = append(errors, FieldError{Field: "message", Message: "message must be 300 characters or less"})
	}

	return errors
}

// AcceptInviteRequest represents an invitee accepting an invitation
type AcceptInviteRequest struct {
	StartingWeightKg float64  `json:"starting_weight_kg"`
	GoalWeightKg     *float64 `json:"goal_weight_kg,omitempty"`
}

// Validate checks if the acceptance is valid
func (r *AcceptInviteRequest) Validate() []FieldError {
	var errors []FieldError

	if r.StartingWeightKg < MinWeightKg || r.StartingWeightKg > MaxWeightKg {
		errors = append(errors, FieldError{Field: "starting_weight_kg", Message: "starting_weight_kg must be between 20 and 500"})
	}
	if r.GoalWeightKg != nil && (*r.GoalWeightKg < MinWeightKg || *r.GoalWeightKg > MaxWeightKg) {
		errors = append(errors, FieldError{Field: "goal_weight_kg", Message: "goal_weight_kg must be between 20 and 500"})
	}

	return errors
}
