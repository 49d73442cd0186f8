package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/slimsquad/api/internal/middleware"
	"github.com/slimsquad/api/internal/model"
	"github.com/slimsquad/api/internal/service"
)

// JoinRequestHandler handles join request and invite HTTP requests
type JoinRequestHandler struct {
	svc *service.JoinRequestService
}

// NewJoinRequestHandler creates a new join request handler
func NewJoinRequestHandler(svc *service.JoinRequestService) *JoinRequestHandler {
	return &JoinRequestHandler{svc: svc}
}

// Create handles POST /api/challenges/{challengeId}/join-requests - request to join a private challenge
func (h *JoinRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	challengeID := r.PathValue("challengeId")
	if challengeID == "" {
		WriteError(w, model.NewBadRequestError("challenge ID required"))
		return
	}

	var req model.CreateJoinRequestRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	request, err := h.svc.Create(ctx, challengeID, userID, &req)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, request, nil)
}

// ListForChallenge handles GET /api/challenges/{challengeId}/join-requests - pending requests, creator only
func (h *JoinRequestHandler) ListForChallenge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	challengeID := r.PathValue("challengeId")
	if challengeID == "" {
		WriteError(w, model.NewBadRequestError("challenge ID required"))
		return
	}

	requests, err := h.svc.ListForChallenge(ctx, challengeID, userID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusOK, requests, nil)
}

// ListOwn handles GET /api/join-requests - the caller's requests and invites
func (h *JoinRequestHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	requests, err := h.svc.ListForUser(ctx, userID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusOK, requests, nil)
}

// Approve handles POST /api/join-requests/{requestId}/approve - creator approves a pending request
func (h *JoinRequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.respondToRequest(w, r, h.svc.Approve)
}

// Reject handles POST /api/join-requests/{requestId}/reject - creator rejects a pending request
func (h *JoinRequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.respondToRequest(w, r, h.svc.Reject)
}

// Withdraw handles DELETE /api/join-requests/{requestId} - requester withdraws their own request
func (h *JoinRequestHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	requestID := r.PathValue("requestId")
	if requestID == "" {
		WriteError(w, model.NewBadRequestError("request ID required"))
		return
	}

	if err := h.svc.Withdraw(ctx, requestID, userID); err != nil {
		h.handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Invite handles POST /api/challenges/{challengeId}/invites - creator invites a user by email
func (h *JoinRequestHandler) Invite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	challengeID := r.PathValue("challengeId")
	if challengeID == "" {
		WriteError(w, model.NewBadRequestError("challenge ID required"))
		return
	}

	var req model.InviteRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	invite, err := h.svc.Invite(ctx, challengeID, userID, &req)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, invite, nil)
}

// AcceptInvite handles POST /api/join-requests/{requestId}/accept - invitee accepts an invite
func (h *JoinRequestHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	requestID := r.PathValue("requestId")
	if requestID == "" {
		WriteError(w, model.NewBadRequestError("request ID required"))
		return
	}

	var req model.AcceptInviteRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	request, err := h.svc.AcceptInvite(ctx, requestID, userID, &req)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusOK, request, nil)
}

// DeclineInvite handles POST /api/join-requests/{requestId}/decline - invitee declines an invite
func (h *JoinRequestHandler) DeclineInvite(w http.ResponseWriter, r *http.Request) {
	h.respondToRequest(w, r, h.svc.DeclineInvite)
}

// respondToRequest runs a state transition keyed only by request ID and caller
func (h *JoinRequestHandler) respondToRequest(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, requestID, userID string) (*model.JoinRequest, error)) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	requestID := r.PathValue("requestId")
	if requestID == "" {
		WriteError(w, model.NewBadRequestError("request ID required"))
		return
	}

	request, err := fn(ctx, requestID, userID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusOK, request, nil)
}

// handleError converts service errors to HTTP responses
func (h *JoinRequestHandler) handleError(w http.ResponseWriter, err error) {
	var problem *model.ProblemDetails
	if errors.As(err, &problem) {
		WriteError(w, problem)
		return
	}

	switch {
	case errors.Is(err, service.ErrJoinRequestNotFound):
		WriteError(w, model.NewNotFoundError("join request"))
	case errors.Is(err, service.ErrChallengeNotFound):
		WriteError(w, model.NewNotFoundError("challenge"))
	case errors.Is(err, service.ErrUserNotFound):
		WriteError(w, model.NewNotFoundError("user"))
	case errors.Is(err, service.ErrNotChallengeCreator):
		WriteError(w, model.NewForbiddenError("only the challenge creator can perform this action"))
	case errors.Is(err, service.ErrNotRequestOwner):
		WriteError(w, model.NewForbiddenError("not the owner of this join request"))
	case errors.Is(err, service.ErrNotInviteRecipient):
		WriteError(w, model.NewForbiddenError("not the recipient of this invite"))
	case errors.Is(err, service.ErrJoinRequestNotOpen):
		WriteError(w, model.NewConflictError("join request has already been decided"))
	case errors.Is(err, service.ErrOpenRequestExists):
		WriteError(w, model.NewConflictError("an open request already exists for this challenge"))
	case errors.Is(err, service.ErrInviteRequired):
		WriteError(w, model.NewConflictError("this operation applies to invites only"))
	case errors.Is(err, service.ErrRequestRequired):
		WriteError(w, model.NewConflictError("this operation applies to join requests only"))
	case errors.Is(err, service.ErrAlreadyParticipant):
		WriteError(w, model.NewConflictError("already a participant of this challenge"))
	case errors.Is(err, service.ErrChallengeFull):
		WriteError(w, model.NewConflictError("challenge is full"))
	case errors.Is(err, service.ErrChallengeNotJoinable):
		WriteError(w, model.NewConflictError("challenge can no longer be joined"))
	case errors.Is(err, service.ErrMaxChallengesReached):
		WriteError(w, model.NewLimitExceededError("challenges", model.MaxChallengesPerUser, model.MaxChallengesPerUser))
	default:
		WriteError(w, model.NewInternalError("join request operation failed"))
	}
}
