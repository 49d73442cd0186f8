package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/slimsquad/api/internal/middleware"
	"github.com/slimsquad/api/internal/model"
	"github.com/slimsquad/api/internal/service"
)

// ChallengeHandler handles challenge HTTP requests
type ChallengeHandler struct {
	svc *service.ChallengeService
}

// NewChallengeHandler creates a new challenge handler
func NewChallengeHandler(svc *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{svc: svc}
}

// List handles GET /api/challenges - list the caller's challenges
func (h *ChallengeHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	challenges, err := h.svc.ListForUser(ctx, userID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusOK, challenges, nil)
}

// Discover handles GET /api/challenges/discover - browse public challenges
func (h *ChallengeHandler) Discover(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	q := r.URL.Query()
	status := q.Get("status")
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	challenges, err := h.svc.Discover(ctx, status, limit, offset)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusOK, challenges, nil)
}

// Create handles POST /api/challenges - create a new challenge
func (h *ChallengeHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateChallengeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	challenge, err := h.svc.Create(ctx, userID, &req)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, challenge, map[string]string{
		"self": "/api/challenges/" + challenge.ID,
	})
}

// Get handles GET /api/challenges/{challengeId} - get challenge details
func (h *ChallengeHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	details, err := h.svc.GetByID(ctx, challengeID, userID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusOK, details, nil)
}

// Update handles PATCH /api/challenges/{challengeId} - update a challenge
func (h *ChallengeHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req model.UpdateChallengeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	challenge, err := h.svc.Update(ctx, challengeID, userID, &req)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusOK, challenge, nil)
}

// Cancel handles POST /api/challenges/{challengeId}/cancel - cancel a challenge
func (h *ChallengeHandler) Cancel(w http.ResponseWriter, r *http.Request) {
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

	challenge, err := h.svc.Cancel(ctx, challengeID, userID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusOK, challenge, nil)
}

// Delete handles DELETE /api/challenges/{challengeId} - delete a challenge
func (h *ChallengeHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.Delete(ctx, challengeID, userID); err != nil {
		h.handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Join handles POST /api/challenges/{challengeId}/join - join a public challenge
func (h *ChallengeHandler) Join(w http.ResponseWriter, r *http.Request) {
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

	var req model.JoinChallengeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	membership, err := h.svc.Join(ctx, challengeID, userID, &req)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, membership, nil)
}

// Leave handles POST /api/challenges/{challengeId}/leave - leave a challenge
func (h *ChallengeHandler) Leave(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.Leave(ctx, challengeID, userID); err != nil {
		h.handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Participants handles GET /api/challenges/{challengeId}/participants - list members
func (h *ChallengeHandler) Participants(w http.ResponseWriter, r *http.Request) {
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

	participants, err := h.svc.Participants(ctx, challengeID, userID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusOK, participants, nil)
}

// UpdateMembership handles PATCH /api/challenges/{challengeId}/membership - update own goal
func (h *ChallengeHandler) UpdateMembership(w http.ResponseWriter, r *http.Request) {
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

	var req model.UpdateMembershipRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	membership, err := h.svc.UpdateMembership(ctx, challengeID, userID, &req)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusOK, membership, nil)
}

// handleError converts service errors to HTTP responses
func (h *ChallengeHandler) handleError(w http.ResponseWriter, err error) {
	var problem *model.ProblemDetails
	if errors.As(err, &problem) {
		WriteError(w, problem)
		return
	}

	switch {
	case errors.Is(err, service.ErrChallengeNotFound):
		WriteError(w, model.NewNotFoundError("challenge"))
	case errors.Is(err, service.ErrNotChallengeCreator):
		WriteError(w, model.NewForbiddenError("only the challenge creator can perform this action"))
	case errors.Is(err, service.ErrNotParticipant):
		WriteError(w, model.NewForbiddenError("not a participant of this challenge"))
	case errors.Is(err, service.ErrCreatorCannotLeave):
		WriteError(w, model.NewForbiddenError("the creator cannot leave their own challenge"))
	case errors.Is(err, service.ErrChallengeIsPrivate):
		WriteError(w, model.NewForbiddenError("private challenges require a join request"))
	case errors.Is(err, service.ErrAlreadyParticipant):
		WriteError(w, model.NewConflictError("already a participant of this challenge"))
	case errors.Is(err, service.ErrChallengeFull):
		WriteError(w, model.NewConflictError("challenge is full"))
	case errors.Is(err, service.ErrChallengeNotJoinable):
		WriteError(w, model.NewConflictError("challenge can no longer be joined"))
	case errors.Is(err, service.ErrChallengeNotEditable):
		WriteError(w, model.NewConflictError("challenge can no longer be edited"))
	case errors.Is(err, service.ErrChallengeCancelled):
		WriteError(w, model.NewConflictError("challenge has been cancelled"))
	case errors.Is(err, service.ErrCapacityBelowCount):
		WriteError(w, model.NewConflictError("max_participants cannot be less than the current participant count"))
	case errors.Is(err, service.ErrMaxChallengesReached):
		WriteError(w, model.NewLimitExceededError("challenges", model.MaxChallengesPerUser, model.MaxChallengesPerUser))
	default:
		WriteError(w, model.NewInternalError("challenge operation failed"))
	}
}
