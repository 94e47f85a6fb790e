package handler

import (
	"net/http"

	"oha-portal/internal/identity"
	"oha-portal/internal/service"
	"oha-portal/pkg/logger"
)

// VoteHandler serves /api/vote and /api/votes.
type VoteHandler struct {
	votes *service.VoteService
	log   *logger.Logger
}

// NewVoteHandler creates a vote handler.
func NewVoteHandler(votes *service.VoteService, log *logger.Logger) *VoteHandler {
	return &VoteHandler{votes: votes, log: log}
}

type castVoteRequest struct {
	ProposalID      string   `json:"proposalId"`
	Choice          string   `json:"choice"`
	QuestionID      string   `json:"questionId"`
	SelectedOptions []string `json:"selectedOptions"`
	Justification   string   `json:"justification"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
}

// Cast handles POST /api/vote.
func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	var req castVoteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	vote, totals, err := h.votes.Cast(r.Context(), identity.FromRequest(r), service.CastVoteInput{
		ProposalID:      req.ProposalID,
		Choice:          req.Choice,
		QuestionID:      req.QuestionID,
		SelectedOptions: req.SelectedOptions,
		Justification:   req.Justification,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"vote":    vote,
		"totals":  totals,
	})
}

// UserVotes handles GET /api/vote: the caller's own votes plus the
// full proposal list for a local join.
func (h *VoteHandler) UserVotes(w http.ResponseWriter, r *http.Request) {
	votes, proposals := h.votes.UserVotes(r.Context(), identity.FromRequest(r))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"userVotes": votes,
		"proposals": proposals,
	})
}

// List handles GET /api/votes with optional proposalId and questionId
// filters.
func (h *VoteHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	records := h.votes.ListVotes(r.Context(), query.Get("proposalId"), query.Get("questionId"))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"votes": records,
	})
}
