package domain

import "time"

// RequestStatus is the moderation state of a proposal request or a
// membership application.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// Valid reports whether s is a member of the request-status enum.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// ProposalRequest is a member's plain-text suggestion for a future
// proposal. The reviewer fields are part of the wire format but no
// operation performs the approve/reject transition yet.
type ProposalRequest struct {
	ID          string        `json:"id"`
	RequestText string        `json:"requestText"`
	Status      RequestStatus `json:"status"`
	CreatedBy   string        `json:"createdBy"`
	CreatedAt   time.Time     `json:"createdAt"`
	ReviewedBy  string        `json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time    `json:"reviewedAt,omitempty"`
	ProposalID  string        `json:"proposalId,omitempty"`
}

// ProposalRequests is the proposal-requests collection document.
type ProposalRequests map[string]*ProposalRequest
