package handler

import (
	"net/http"

	"oha-portal/internal/domain"
	"oha-portal/internal/service"
	"oha-portal/pkg/apperr"
	"oha-portal/pkg/logger"
)

// Admin console actions.
const (
	ActionUpdateProposalStatus = "updateProposalStatus"
	ActionUpdateUserRole       = "updateUserRole"
)

// AdminHandler serves /api/admin.
type AdminHandler struct {
	admin *service.AdminService
	log   *logger.Logger
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(admin *service.AdminService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, log: log}
}

type adminActionRequest struct {
	Action   string `json:"action"`
	Passcode string `json:"passcode"`

	// updateProposalStatus
	ProposalID string `json:"proposalId"`
	Status     string `json:"status"`

	// updateUserRole
	UserIP    string   `json:"userIp"`
	Role      string   `json:"role"`
	Committee string   `json:"committee"`
	Tags      []string `json:"tags"`
}

// Snapshot handles GET /api/admin.
func (h *AdminHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.admin.GetSnapshot(r.Context()))
}

// Action handles POST /api/admin: a passcode check followed by an
// action dispatch.
func (h *AdminHandler) Action(w http.ResponseWriter, r *http.Request) {
	var req adminActionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	if err := h.admin.Authorize(req.Passcode); err != nil {
		respondError(w, h.log, err)
		return
	}

	switch req.Action {
	case ActionUpdateProposalStatus:
		proposal, err := h.admin.SetProposalStatus(r.Context(), req.ProposalID, domain.Status(req.Status))
		if err != nil {
			respondError(w, h.log, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"proposal": proposal,
		})

	case ActionUpdateUserRole:
		user, err := h.admin.SetUserFields(r.Context(), req.UserIP, req.Role, req.Committee, req.Tags)
		if err != nil {
			respondError(w, h.log, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"user":    user,
		})

	default:
		respondError(w, h.log, apperr.NewValidationError("Invalid action", map[string]interface{}{
			"action": req.Action,
		}))
	}
}
