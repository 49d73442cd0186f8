package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/slimsquad/api/internal/database"
	"github.com/slimsquad/api/internal/model"
)

// JoinRequestRepository defines the interface for join request storage
type JoinRequestRepository interface {
	Create(ctx context.Context, req *model.JoinRequest) error
	GetByID(ctx context.Context, id string) (*model.JoinRequest, error)
	GetOpenForUser(ctx context.Context, challengeID, userID string) (*model.JoinRequest, error)
	ListForChallenge(ctx context.Context, challengeID string, status model.JoinRequestStatus) ([]*model.JoinRequest, error)
	ListForUser(ctx context.Context, userID string) ([]*model.JoinRequest, error)
	SetStatus(ctx context.Context, id string, status model.JoinRequestStatus, decidedBy string) error
	ApproveAndJoin(ctx context.Context, req *model.JoinRequest, decidedBy string, status model.JoinRequestStatus, startingWeightKg float64, goalWeightKg *float64) error
}

// JoinRequestUserRepository resolves invitees by email
type JoinRequestUserRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// JoinRequestService handles join requests and invitations for
// private challenges
type JoinRequestService struct {
	repo             JoinRequestRepository
	userRepo         JoinRequestUserRepository
	challengeService *ChallengeService
}

// JoinRequestServiceConfig holds configuration for the join request service
type JoinRequestServiceConfig struct {
	JoinRequestRepo  JoinRequestRepository
	UserRepo         JoinRequestUserRepository
	ChallengeService *ChallengeService
}

// NewJoinRequestService creates a new join request service
func NewJoinRequestService(cfg JoinRequestServiceConfig) *JoinRequestService {
	return &JoinRequestService{
		repo:             cfg.JoinRequestRepo,
		userRepo:         cfg.UserRepo,
		challengeService: cfg.ChallengeService,
	}
}

// Create files a join request against a private challenge
func (s *JoinRequestService) Create(ctx context.Context, challengeID, userID string, req *model.CreateJoinRequestRequest) (*model.JoinRequest, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	challenge, err := s.challengeService.repo.GetByID(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	if !challenge.IsPrivate() {
		// Public challenges are joined directly
		return nil, ErrChallengeNotJoinable
	}

	if err := s.challengeService.checkJoinable(ctx, challenge, userID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetOpenForUser(ctx, challengeID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check open requests: %w", err)
	}
	if existing != nil {
		return nil, ErrOpenRequestExists
	}

	starting := req.StartingWeightKg
	joinRequest := &model.JoinRequest{
		ChallengeID:      challengeID,
		UserID:           userID,
		Message:          req.Message,
		Status:           model.JoinRequestStatusPending,
		StartingWeightKg: &starting,
		GoalWeightKg:     req.GoalWeightKg,
	}

	if err := s.repo.Create(ctx, joinRequest); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrOpenRequestExists
		}
		return nil, fmt.Errorf("failed to create join request: %w", err)
	}
	return joinRequest, nil
}

// ListForChallenge lists pending requests on a challenge. Creator only.
func (s *JoinRequestService) ListForChallenge(ctx context.Context, challengeID, userID string) ([]*model.JoinRequest, error) {
	challenge, err := s.challengeService.repo.GetByID(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	if challenge.CreatorID != userID {
		return nil, ErrNotChallengeCreator
	}

	requests, err := s.repo.ListForChallenge(ctx, challengeID, model.JoinRequestStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list join requests: %w", err)
	}
	return requests, nil
}

// ListForUser lists the caller's own requests and invitations
func (s *JoinRequestService) ListForUser(ctx context.Context, userID string) ([]*model.JoinRequest, error) {
	requests, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list join requests: %w", err)
	}
	return requests, nil
}

// Approve grants a pending join request. Creator only. The membership and
// participant count move with the status update in one atomic batch.
func (s *JoinRequestService) Approve(ctx context.Context, requestID, userID string) (*model.JoinRequest, error) {
	request, challenge, err := s.getRequestWithChallenge(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if challenge.CreatorID != userID {
		return nil, ErrNotChallengeCreator
	}
	if request.Status != model.JoinRequestStatusPending {
		if request.Status == model.JoinRequestStatusInvited {
			return nil, ErrRequestRequired
		}
		return nil, ErrJoinRequestNotOpen
	}

	if err := s.challengeService.checkJoinable(ctx, challenge, request.UserID); err != nil {
		return nil, err
	}

	starting := 0.0
	if request.StartingWeightKg != nil {
		starting = *request.StartingWeightKg
	}

	if err := s.repo.ApproveAndJoin(ctx, request, userID, model.JoinRequestStatusApproved, starting, request.GoalWeightKg); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrAlreadyParticipant
		}
		return nil, fmt.Errorf("failed to approve join request: %w", err)
	}

	request.Status = model.JoinRequestStatusApproved
	return request, nil
}

// Reject declines a pending join request. Creator only.
func (s *JoinRequestService) Reject(ctx context.Context, requestID, userID string) (*model.JoinRequest, error) {
	request, challenge, err := s.getRequestWithChallenge(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if challenge.CreatorID != userID {
		return nil, ErrNotChallengeCreator
	}
	if request.Status != model.JoinRequestStatusPending {
		if request.Status == model.JoinRequestStatusInvited {
			return nil, ErrRequestRequired
		}
		return nil, ErrJoinRequestNotOpen
	}

	if err := s.repo.SetStatus(ctx, requestID, model.JoinRequestStatusRejected, userID); err != nil {
		return nil, fmt.Errorf("failed to reject join request: %w", err)
	}
	request.Status = model.JoinRequestStatusRejected
	return request, nil
}

// Withdraw retracts the caller's own pending request
func (s *JoinRequestService) Withdraw(ctx context.Context, requestID, userID string) error {
	request, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to get join request: %w", err)
	}
	if request == nil {
		return ErrJoinRequestNotFound
	}
	if request.UserID != userID {
		return ErrNotRequestOwner
	}
	if request.Status != model.JoinRequestStatusPending {
		return ErrJoinRequestNotOpen
	}

	if err := s.repo.SetStatus(ctx, requestID, model.JoinRequestStatusWithdrawn, userID); err != nil {
		return fmt.Errorf("failed to withdraw join request: %w", err)
	}
	return nil
}

// Invite creates an invitation for a user identified by email. Creator only.
func (s *JoinRequestService) Invite(ctx context.Context, challengeID, userID string, req *model.InviteRequest) (*model.JoinRequest, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	challenge, err := s.challengeService.repo.GetByID(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	if challenge.CreatorID != userID {
		return nil, ErrNotChallengeCreator
	}

	invitee, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		return nil, fmt.Errorf("failed to look up invitee: %w", err)
	}
	if invitee == nil {
		return nil, ErrUserNotFound
	}

	if err := s.challengeService.checkJoinable(ctx, challenge, invitee.ID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetOpenForUser(ctx, challengeID, invitee.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check open requests: %w", err)
	}
	if existing != nil {
		return nil, ErrOpenRequestExists
	}

	invite := &model.JoinRequest{
		ChallengeID: challengeID,
		UserID:      invitee.ID,
		Message:     req.Message,
		Status:      model.JoinRequestStatusInvited,
	}

	if err := s.repo.Create(ctx, invite); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrOpenRequestExists
		}
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}
	return invite, nil
}

// AcceptInvite joins the invitee to the challenge with their supplied weights
func (s *JoinRequestService) AcceptInvite(ctx context.Context, requestID, userID string, req *model.AcceptInviteRequest) (*model.JoinRequest, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	request, challenge, err := s.getRequestWithChallenge(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.UserID != userID {
		return nil, ErrNotInviteRecipient
	}
	if request.Status != model.JoinRequestStatusInvited {
		if request.Status == model.JoinRequestStatusPending {
			return nil, ErrInviteRequired
		}
		return nil, ErrJoinRequestNotOpen
	}

	if err := s.challengeService.checkJoinable(ctx, challenge, userID); err != nil {
		return nil, err
	}

	if err := s.repo.ApproveAndJoin(ctx, request, userID, model.JoinRequestStatusApproved, req.StartingWeightKg, req.GoalWeightKg); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrAlreadyParticipant
		}
		return nil, fmt.Errorf("failed to accept invite: %w", err)
	}

	request.Status = model.JoinRequestStatusApproved
	return request, nil
}

// DeclineInvite turns down an invitation
func (s *JoinRequestService) DeclineInvite(ctx context.Context, requestID, userID string) (*model.JoinRequest, error) {
	request, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get join request: %w", err)
	}
	if request == nil {
		return nil, ErrJoinRequestNotFound
	}
	if request.UserID != userID {
		return nil, ErrNotInviteRecipient
	}
	if request.Status != model.JoinRequestStatusInvited {
		if request.Status == model.JoinRequestStatusPending {
			return nil, ErrInviteRequired
		}
		return nil, ErrJoinRequestNotOpen
	}

	if err := s.repo.SetStatus(ctx, requestID, model.JoinRequestStatusDeclined, userID); err != nil {
		return nil, fmt.Errorf("failed to decline invite: %w", err)
	}
	request.Status = model.JoinRequestStatusDeclined
	return request, nil
}

// getRequestWithChallenge loads a request and its challenge together
func (s *JoinRequestService) getRequestWithChallenge(ctx context.Context, requestID string) (*model.JoinRequest, *model.Challenge, error) {
	request, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get join request: %w", err)
	}
	if request == nil {
		return nil, nil, ErrJoinRequestNotFound
	}

	challenge, err := s.challengeService.repo.GetByID(ctx, request.ChallengeID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if challenge == nil {
		return nil, nil, ErrChallengeNotFound
	}
	return request, challenge, nil
}
