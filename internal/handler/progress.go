package handler

import (
	"errors"
	"net/http"

	"github.com/slimsquad/api/internal/middleware"
	"github.com/slimsquad/api/internal/model"
	"github.com/slimsquad/api/internal/service"
)

// ProgressHandler serves challenge leaderboards
type ProgressHandler struct {
	svc *service.ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(svc *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{svc: svc}
}

// Get handles GET /api/challenges/{challengeId}/progress - ranked progress for a challenge
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	progress, err := h.svc.GetChallengeProgress(ctx, challengeID, userID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusOK, progress, nil)
}

func (h *ProgressHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrChallengeNotFound):
		WriteError(w, model.NewNotFoundError("challenge"))
	case errors.Is(err, service.ErrNotParticipant):
		WriteError(w, model.NewForbiddenError("not a participant of this challenge"))
	default:
		WriteError(w, model.NewInternalError("failed to compute progress"))
	}
}
