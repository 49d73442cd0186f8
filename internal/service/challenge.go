package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slimsquad/api/internal/database"
	"github.com/slimsquad/api/internal/model"
)

// ChallengeRepository defines the interface for challenge storage
type ChallengeRepository interface {
	CreateWithCreator(ctx context.Context, challenge *model.Challenge, startingWeightKg float64, goalWeightKg *float64) error
	GetByID(ctx context.Context, id string) (*model.Challenge, error)
	Update(ctx context.Context, challenge *model.Challenge) error
	SetStatus(ctx context.Context, id string, status model.ChallengeStatus) error
	Delete(ctx context.Context, id string) error
	Discover(ctx context.Context, status model.ChallengeStatus, limit, start int) ([]*model.Challenge, error)
	GetChallengesForUser(ctx context.Context, userID string) ([]*model.Challenge, error)
	CountChallengesForUser(ctx context.Context, userID string) (int, error)
	AddParticipant(ctx context.Context, challengeID, userID string, role model.MembershipRole, startingWeightKg float64, goalWeightKg *float64) error
	RemoveParticipant(ctx context.Context, challengeID, userID string) error
	IsParticipant(ctx context.Context, userID, challengeID string) (bool, error)
	GetMembership(ctx context.Context, userID, challengeID string) (*model.Membership, error)
	UpdateMembershipGoal(ctx context.Context, userID, challengeID string, goalWeightKg *float64) error
	GetParticipants(ctx context.Context, challengeID string) ([]*model.Participant, error)
}

// ChallengeService handles challenge business logic
type ChallengeService struct {
	repo ChallengeRepository
	now  func() time.Time
}

// ChallengeServiceConfig holds configuration for the challenge service
type ChallengeServiceConfig struct {
	ChallengeRepo ChallengeRepository
	Now           func() time.Time // Defaults to time.Now
}

// NewChallengeService creates a new challenge service
func NewChallengeService(cfg ChallengeServiceConfig) *ChallengeService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ChallengeService{
		repo: cfg.ChallengeRepo,
		now:  cfg.Now,
	}
}

// ChallengeDetails is a challenge with its participant list
type ChallengeDetails struct {
	Challenge    *model.Challenge     `json:"challenge"`
	Participants []*model.Participant `json:"participants"`
}

// Create creates a new challenge with the caller as its creator-participant
func (s *ChallengeService) Create(ctx context.Context, userID string, req *model.CreateChallengeRequest) (*model.Challenge, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return nil, model.NewValidationError([]model.FieldError{
			{Field: "start_date", Message: "must be RFC 3339 formatted"},
		})
	}
	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return nil, model.NewValidationError([]model.FieldError{
			{Field: "end_date", Message: "must be RFC 3339 formatted"},
		})
	}
	if !endDate.After(startDate) {
		return nil, model.NewValidationError([]model.FieldError{
			{Field: "end_date", Message: "end_date must be after start_date"},
		})
	}

	// Enforce the per-user cap across upcoming and active challenges
	count, err := s.repo.CountChallengesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count challenges: %w", err)
	}
	if count >= model.MaxChallengesPerUser {
		return nil, ErrMaxChallengesReached
	}

	challenge := &model.Challenge{
		Name:            req.Name,
		Description:     req.Description,
		CreatorID:       userID,
		StartDate:       startDate,
		EndDate:         endDate,
		Visibility:      req.GetVisibility(),
		MaxParticipants: req.GetMaxParticipants(),
	}
	challenge.Status = challenge.StatusAt(s.now())

	if err := s.repo.CreateWithCreator(ctx, challenge, req.StartingWeightKg, req.GoalWeightKg); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	return challenge, nil
}

// GetByID retrieves a challenge with its participants.
// Private challenges are only visible to their participants and report
// not found to everyone else.
func (s *ChallengeService) GetByID(ctx context.Context, id, userID string) (*ChallengeDetails, error) {
	challenge, err := s.getVisible(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	participants, err := s.repo.GetParticipants(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	return &ChallengeDetails{
		Challenge:    challenge,
		Participants: participants,
	}, nil
}

// ListForUser lists the challenges the user participates in
func (s *ChallengeService) ListForUser(ctx context.Context, userID string) ([]*model.Challenge, error) {
	challenges, err := s.repo.GetChallengesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	return challenges, nil
}

// Discover lists public challenges, optionally filtered by status
func (s *ChallengeService) Discover(ctx context.Context, status string, limit, offset int) ([]*model.Challenge, error) {
	if status != "" {
		st := model.ChallengeStatus(status)
		if st != model.ChallengeStatusUpcoming && st != model.ChallengeStatusActive && st != model.ChallengeStatusCompleted {
			return nil, model.NewValidationError([]model.FieldError{
				{Field: "status", Message: "status must be 'upcoming', 'active' or 'completed'"},
			})
		}
	}
	if limit <= 0 || limit > model.MaxDiscoverLimit {
		limit = model.DefaultDiscoverLimit
	}
	if offset < 0 {
		offset = 0
	}

	challenges, err := s.repo.Discover(ctx, model.ChallengeStatus(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to discover challenges: %w", err)
	}
	return challenges, nil
}

// Update modifies challenge details. Creator only.
func (s *ChallengeService) Update(ctx context.Context, id, userID string, req *model.UpdateChallengeRequest) (*model.Challenge, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	challenge, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	if challenge.CreatorID != userID {
		return nil, ErrNotChallengeCreator
	}

	status := challenge.StatusAt(s.now())
	if status == model.ChallengeStatusCancelled || status == model.ChallengeStatusCompleted {
		return nil, ErrChallengeNotEditable
	}

	if req.Name != nil {
		challenge.Name = *req.Name
	}
	if req.Description != nil {
		challenge.Description = req.Description
	}
	if req.StartDate != nil {
		startDate, err := time.Parse(time.RFC3339, *req.StartDate)
		if err != nil {
			return nil, model.NewValidationError([]model.FieldError{
				{Field: "start_date", Message: "must be RFC 3339 formatted"},
			})
		}
		challenge.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := time.Parse(time.RFC3339, *req.EndDate)
		if err != nil {
			return nil, model.NewValidationError([]model.FieldError{
				{Field: "end_date", Message: "must be RFC 3339 formatted"},
			})
		}
		challenge.EndDate = endDate
	}
	if !challenge.EndDate.After(challenge.StartDate) {
		return nil, model.NewValidationError([]model.FieldError{
			{Field: "end_date", Message: "end_date must be after start_date"},
		})
	}
	if req.Visibility != nil {
		challenge.Visibility = model.ChallengeVisibility(*req.Visibility)
	}
	if req.MaxParticipants != nil {
		if *req.MaxParticipants < challenge.ParticipantCount {
			return nil, ErrCapacityBelowCount
		}
		challenge.MaxParticipants = *req.MaxParticipants
	}

	// Date edits can move the derived status
	challenge.Status = challenge.StatusAt(s.now())

	if err := s.repo.Update(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to update challenge: %w", err)
	}
	return challenge, nil
}

// Cancel marks a challenge as cancelled. Creator only, sticky.
func (s *ChallengeService) Cancel(ctx context.Context, id, userID string) (*model.Challenge, error) {
	challenge, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	if challenge.CreatorID != userID {
		return nil, ErrNotChallengeCreator
	}

	status := challenge.StatusAt(s.now())
	if status == model.ChallengeStatusCompleted {
		return nil, ErrChallengeNotEditable
	}
	if status == model.ChallengeStatusCancelled {
		return challenge, nil
	}

	if err := s.repo.SetStatus(ctx, id, model.ChallengeStatusCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel challenge: %w", err)
	}
	challenge.Status = model.ChallengeStatusCancelled
	return challenge, nil
}

// Delete removes a challenge along with its memberships and join requests.
// Creator only.
func (s *ChallengeService) Delete(ctx context.Context, id, userID string) error {
	challenge, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return ErrChallengeNotFound
	}
	if challenge.CreatorID != userID {
		return ErrNotChallengeCreator
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	return nil
}

// Join adds the caller to a public challenge
func (s *ChallengeService) Join(ctx context.Context, id, userID string, req *model.JoinChallengeRequest) (*model.Membership, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	challenge, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}

	if err := s.checkJoinable(ctx, challenge, userID); err != nil {
		return nil, err
	}
	if challenge.IsPrivate() {
		return nil, ErrChallengeIsPrivate
	}

	if err := s.repo.AddParticipant(ctx, id, userID, model.MembershipRoleParticipant, req.StartingWeightKg, req.GoalWeightKg); err != nil {
		return nil, mapDuplicateMembership(err)
	}

	membership, err := s.repo.GetMembership(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return membership, nil
}

// Leave removes the caller from a challenge. The creator cannot leave.
func (s *ChallengeService) Leave(ctx context.Context, id, userID string) error {
	challenge, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return ErrChallengeNotFound
	}

	membership, err := s.repo.GetMembership(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to get membership: %w", err)
	}
	if membership == nil {
		return ErrNotParticipant
	}
	if membership.Role == model.MembershipRoleCreator {
		return ErrCreatorCannotLeave
	}

	if err := s.repo.RemoveParticipant(ctx, id, userID); err != nil {
		return fmt.Errorf("failed to leave challenge: %w", err)
	}
	return nil
}

// Participants lists a challenge's members, honoring visibility rules
func (s *ChallengeService) Participants(ctx context.Context, id, userID string) ([]*model.Participant, error) {
	if _, err := s.getVisible(ctx, id, userID); err != nil {
		return nil, err
	}

	participants, err := s.repo.GetParticipants(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	return participants, nil
}

// UpdateMembership sets or clears the caller's goal weight in a challenge
func (s *ChallengeService) UpdateMembership(ctx context.Context, id, userID string, req *model.UpdateMembershipRequest) (*model.Membership, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	membership, err := s.repo.GetMembership(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if membership == nil {
		return nil, ErrNotParticipant
	}

	if err := s.repo.UpdateMembershipGoal(ctx, userID, id, req.GoalWeightKg); err != nil {
		return nil, fmt.Errorf("failed to update membership: %w", err)
	}
	membership.GoalWeightKg = req.GoalWeightKg
	return membership, nil
}

// IsParticipant reports whether the user belongs to the challenge
func (s *ChallengeService) IsParticipant(ctx context.Context, userID, challengeID string) (bool, error) {
	return s.repo.IsParticipant(ctx, userID, challengeID)
}

// IsVisible reports whether the user may learn that the challenge exists:
// public challenges always, private ones only for their participants.
func (s *ChallengeService) IsVisible(ctx context.Context, userID, challengeID string) (bool, error) {
	challenge, err := s.repo.GetByID(ctx, challengeID)
	if err != nil {
		return false, fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return false, nil
	}
	if !challenge.IsPrivate() {
		return true, nil
	}
	return s.repo.IsParticipant(ctx, userID, challengeID)
}

// getVisible fetches a challenge and hides private ones from non-participants
func (s *ChallengeService) getVisible(ctx context.Context, id, userID string) (*model.Challenge, error) {
	challenge, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}

	if challenge.IsPrivate() {
		isParticipant, err := s.repo.IsParticipant(ctx, userID, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check membership: %w", err)
		}
		if !isParticipant {
			return nil, ErrChallengeNotFound
		}
	}
	return challenge, nil
}

// checkJoinable enforces the shared preconditions for gaining membership:
// the challenge accepts new participants, the caller is not already in, and
// the caller has room under the per-user cap.
func (s *ChallengeService) checkJoinable(ctx context.Context, challenge *model.Challenge, userID string) error {
	status := challenge.StatusAt(s.now())
	if status == model.ChallengeStatusCancelled || status == model.ChallengeStatusCompleted {
		return ErrChallengeNotJoinable
	}

	isParticipant, err := s.repo.IsParticipant(ctx, userID, challenge.ID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if isParticipant {
		return ErrAlreadyParticipant
	}

	if challenge.IsFull() {
		return ErrChallengeFull
	}

	count, err := s.repo.CountChallengesForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to count challenges: %w", err)
	}
	if count >= model.MaxChallengesPerUser {
		return ErrMaxChallengesReached
	}
	return nil
}

// mapDuplicateMembership converts the unique index violation on the
// membership relation into the domain error
func mapDuplicateMembership(err error) error {
	if errors.Is(err, database.ErrDuplicate) {
		return ErrAlreadyParticipant
	}
	return fmt.Errorf("failed to join challenge: %w", err)
}
