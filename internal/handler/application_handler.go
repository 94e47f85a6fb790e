package handler

import (
	"net/http"

	"oha-portal/internal/identity"
	"oha-portal/internal/service"
	"oha-portal/pkg/logger"
)

// ApplicationHandler serves /api/membership-application.
type ApplicationHandler struct {
	applications *service.ApplicationService
	log          *logger.Logger
}

// NewApplicationHandler creates a membership-application handler.
func NewApplicationHandler(applications *service.ApplicationService, log *logger.Logger) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, log: log}
}

type applicationRequest struct {
	Name           string `json:"name"`
	PhoneNumber    string `json:"phoneNumber"`
	Email          string `json:"email"`
	AdditionalInfo string `json:"additionalInfo"`
}

// Create handles POST /api/membership-application.
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req applicationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	application, err := h.applications.Submit(r.Context(), identity.FromRequest(r), service.ApplicationInput{
		Name:           req.Name,
		PhoneNumber:    req.PhoneNumber,
		Email:          req.Email,
		AdditionalInfo: req.AdditionalInfo,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"message":       "Thank you for your application! We will be in touch soon.",
		"applicationId": application.ID,
	})
}

// List handles GET /api/membership-application.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"applications": h.applications.List(r.Context()),
	})
}
