package handler

import (
	"net/http"

	"github.com/slimsquad/api/internal/model"
	"github.com/slimsquad/api/internal/service"
)

// AdminHandler serves operator-only reporting endpoints
type AdminHandler struct {
	svc *service.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Stats handles GET /api/admin/stats - platform-wide counts
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		WriteError(w, model.NewInternalError("failed to gather platform stats"))
		return
	}

	WriteData(w, http.StatusOK, stats, nil)
}
