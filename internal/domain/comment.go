package domain

import "time"

// Comment is a free-text comment tied to a proposal. Immutable once
// created; there is no edit or delete operation. The referenced
// proposal id is not checked, orphan comments are stored as-is.
type Comment struct {
	ID         string    `json:"id"`
	ProposalID string    `json:"proposalId"`
	UserIP     string    `json:"userIp"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
}

// Comments is the comments collection document, keyed by comment id.
type Comments map[string]*Comment
