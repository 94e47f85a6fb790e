package handler

import (
	"net/http"

	"oha-portal/internal/domain"
	"oha-portal/internal/identity"
	"oha-portal/internal/service"
	"oha-portal/pkg/logger"
)

// ProposalHandler serves /api/proposal.
type ProposalHandler struct {
	proposals *service.ProposalService
	log       *logger.Logger
}

// NewProposalHandler creates a proposal handler.
func NewProposalHandler(proposals *service.ProposalService, log *logger.Logger) *ProposalHandler {
	return &ProposalHandler{proposals: proposals, log: log}
}

type createProposalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
}

type updateProposalRequest struct {
	ProposalID string `json:"proposalId"`
	Status     string `json:"status"`
}

// List handles GET /api/proposal.
func (h *ProposalHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.proposals.List(r.Context()))
}

// Create handles POST /api/proposal.
func (h *ProposalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProposalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	proposal, err := h.proposals.Create(r.Context(), identity.FromRequest(r), service.CreateProposalInput{
		Title:       req.Title,
		Description: req.Description,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"proposal": proposal,
	})
}

// UpdateStatus handles PUT /api/proposal.
func (h *ProposalHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateProposalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	proposal, err := h.proposals.UpdateStatus(r.Context(), req.ProposalID, domain.Status(req.Status))
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"proposal": proposal,
	})
}
