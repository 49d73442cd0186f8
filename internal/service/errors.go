package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
)

// ===== Token Errors =====
var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")
)

// ===== Challenge Errors =====
var (
	ErrChallengeNotFound      = errors.New("challenge not found")
	ErrChallengeNotEditable   = errors.New("challenge can no longer be modified")
	ErrChallengeNotJoinable   = errors.New("challenge is not open for joining")
	ErrChallengeCancelled     = errors.New("challenge has been cancelled")
	ErrNotChallengeCreator    = errors.New("not the creator of this challenge")
	ErrNotParticipant         = errors.New("not a participant of this challenge")
	ErrAlreadyParticipant     = errors.New("already a participant of this challenge")
	ErrChallengeFull          = errors.New("challenge has reached its participant limit")
	ErrMaxChallengesReached   = errors.New("maximum number of active challenges reached")
	ErrCreatorCannotLeave     = errors.New("creator cannot leave while others participate")
	ErrChallengeIsPrivate     = errors.New("challenge is private, a join request is required")
	ErrCapacityBelowCount     = errors.New("participant limit cannot be below current count")
)

// ===== Join Request Errors =====
var (
	ErrJoinRequestNotFound = errors.New("join request not found")
	ErrJoinRequestNotOpen  = errors.New("join request is no longer open")
	ErrOpenRequestExists   = errors.New("an open request already exists for this challenge")
	ErrNotRequestOwner     = errors.New("not the owner of this join request")
	ErrNotInviteRecipient  = errors.New("not the recipient of this invite")
	ErrInviteRequired      = errors.New("only invites can be accepted or declined")
	ErrRequestRequired     = errors.New("only join requests can be approved or rejected")
)

// ===== Weight Log Errors =====
var (
	ErrWeightLogNotFound = errors.New("weight log not found")
	ErrLogExistsForDate  = errors.New("a log already exists for this date")
	ErrLogDateInFuture   = errors.New("log date cannot be in the future")
	ErrNotLogOwner       = errors.New("not the owner of this weight log")
)
