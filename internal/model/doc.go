// Package model defines domain entities and data structures for the SlimSquad API.
//
// The model package contains all struct definitions for domain objects,
// request/response types, and error definitions. Models are used across all
// layers of the application.
//
// # Domain Entities
//
// Core domain entities include:
//
//   - User: Application user with authentication credentials
//   - Challenge: Group weight-loss competition with dates and a participant limit
//   - Membership: Participation relation linking a user to a challenge
//   - JoinRequest: Pending request or invitation to join a private challenge
//   - WeightLog: A dated weight entry for a user
//
// # JSON Serialization
//
// All models use json struct tags for API serialization:
//
//	type Challenge struct {
//	    ID          string `json:"id"`
//	    Name        string `json:"name"`
//	    Description string `json:"description,omitempty"`
//	}
//
// # Validation Constants
//
// The package defines validation constants:
//
//	const (
//	    MaxChallengeNameLength = 100
//	    MaxChallengesPerUser   = 10
//	    DefaultMaxParticipants = 20
//	)
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string `json:"type"`
//	    Title   string `json:"title"`
//	    Status  int    `json:"status"`
//	    Detail  string `json:"detail"`
//	}
package model
