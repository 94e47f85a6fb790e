package handler

import (
	"net/http"

	"oha-portal/internal/identity"
	"oha-portal/internal/service"
	"oha-portal/pkg/logger"
)

// RequestHandler serves /api/proposal-request.
type RequestHandler struct {
	requests *service.RequestService
	log      *logger.Logger
}

// NewRequestHandler creates a proposal-request handler.
func NewRequestHandler(requests *service.RequestService, log *logger.Logger) *RequestHandler {
	return &RequestHandler{requests: requests, log: log}
}

type submitRequestRequest struct {
	RequestText string `json:"requestText"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
}

// Create handles POST /api/proposal-request, with the same
// persisted=false tolerance as comments.
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req submitRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	request, persisted, err := h.requests.Submit(r.Context(), identity.FromRequest(r), service.SubmitRequestInput{
		RequestText: req.RequestText,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	message := "Proposal request submitted successfully. An admin will review it shortly."
	if !persisted {
		message = "Proposal request submitted (demo mode - not persisted)"
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"proposalRequest": request,
		"persisted":       persisted,
		"message":         message,
	})
}

// List handles GET /api/proposal-request with an optional status
// filter.
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.requests.List(r.Context(), r.URL.Query().Get("status")))
}
