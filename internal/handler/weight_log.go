package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/slimsquad/api/internal/middleware"
	"github.com/slimsquad/api/internal/model"
	"github.com/slimsquad/api/internal/service"
)

// WeightLogHandler handles weight log HTTP requests
type WeightLogHandler struct {
	svc *service.WeightLogService
}

// NewWeightLogHandler creates a new weight log handler
func NewWeightLogHandler(svc *service.WeightLogService) *WeightLogHandler {
	return &WeightLogHandler{svc: svc}
}

// Create handles POST /api/weight-logs - record a weigh-in
func (h *WeightLogHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateWeightLogRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	log, err := h.svc.Create(ctx, userID, &req)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, log, map[string]string{
		"self": "/api/weight-logs/" + log.ID,
	})
}

// List handles GET /api/weight-logs - the caller's weigh-in history
func (h *WeightLogHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	logs, err := h.svc.List(ctx, userID, q.Get("from"), q.Get("to"), limit, offset)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusOK, logs, nil)
}

// Get handles GET /api/weight-logs/{logId} - get a single weigh-in
func (h *WeightLogHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	logID := r.PathValue("logId")
	if logID == "" {
		WriteError(w, model.NewBadRequestError("log ID required"))
		return
	}

	log, err := h.svc.GetByID(ctx, logID, userID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusOK, log, nil)
}

// Update handles PATCH /api/weight-logs/{logId} - amend a weigh-in
func (h *WeightLogHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	logID := r.PathValue("logId")
	if logID == "" {
		WriteError(w, model.NewBadRequestError("log ID required"))
		return
	}

	var req model.UpdateWeightLogRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	log, err := h.svc.Update(ctx, logID, userID, &req)
	if err != nil {
		h.handleError(w, err)
		return
	}

	WriteData(w, http.StatusOK, log, nil)
}

// Delete handles DELETE /api/weight-logs/{logId} - remove a weigh-in
func (h *WeightLogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	logID := r.PathValue("logId")
	if logID == "" {
		WriteError(w, model.NewBadRequestError("log ID required"))
		return
	}

	if err := h.svc.Delete(ctx, logID, userID); err != nil {
		h.handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleError converts service errors to HTTP responses
func (h *WeightLogHandler) handleError(w http.ResponseWriter, err error) {
	var problem *model.ProblemDetails
	if errors.As(err, &problem) {
		WriteError(w, problem)
		return
	}

	switch {
	case errors.Is(err, service.ErrWeightLogNotFound):
		WriteError(w, model.NewNotFoundError("weight log"))
	case errors.Is(err, service.ErrLogExistsForDate):
		WriteError(w, model.NewConflictError("a weight log already exists for this date"))
	case errors.Is(err, service.ErrLogDateInFuture):
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "log_date", Message: "log date cannot be in the future"},
		}))
	default:
		WriteError(w, model.NewInternalError("weight log operation failed"))
	}
}
