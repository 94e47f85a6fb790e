package handler

import (
	"net/http"

	"oha-portal/internal/identity"
	"oha-portal/internal/service"
	"oha-portal/pkg/logger"
)

// CommentHandler serves /api/comment.
type CommentHandler struct {
	comments *service.CommentService
	log      *logger.Logger
}

// NewCommentHandler creates a comment handler.
func NewCommentHandler(comments *service.CommentService, log *logger.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, log: log}
}

type addCommentRequest struct {
	ProposalID string `json:"proposalId"`
	Text       string `json:"text"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
}

// Create handles POST /api/comment. A failed store write still
// answers success, flagged with persisted=false.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req addCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	comment, persisted, err := h.comments.Add(r.Context(), identity.FromRequest(r), service.AddCommentInput{
		ProposalID: req.ProposalID,
		Text:       req.Text,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	message := "Comment posted successfully"
	if !persisted {
		message = "Comment posted (demo mode - not persisted)"
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"comment":   comment,
		"persisted": persisted,
		"message":   message,
	})
}

// List handles GET /api/comment with an optional proposalId filter.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.comments.List(r.Context(), r.URL.Query().Get("proposalId")))
}
