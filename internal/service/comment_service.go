package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"oha-portal/internal/domain"
	"oha-portal/internal/store"
	"oha-portal/pkg/apperr"
	"oha-portal/pkg/logger"
)

// CommentService is the append-only comment ledger. Comments are never
// edited or deleted, and the referenced proposal id is not checked, so
// orphan comments are accepted.
type CommentService struct {
	store store.Store
	log   *logger.Logger
	now   func() time.Time
}

// NewCommentService creates a comment service.
func NewCommentService(st store.Store, log *logger.Logger) *CommentService {
	return &CommentService{store: st, log: log, now: time.Now}
}

// AddCommentInput is a comment submission.
type AddCommentInput struct {
	ProposalID string
	Text       string
	FirstName  string
	LastName   string
}

// Add appends a comment and links it to the author's record. Store
// failures are tolerated: the comment is still returned as accepted
// with persisted=false, so a deployment with a read-only store keeps
// working in demo mode.
func (s *CommentService) Add(ctx context.Context, identity string, in AddCommentInput) (*domain.Comment, bool, error) {
	if in.ProposalID == "" || in.Text == "" || in.FirstName == "" || in.LastName == "" {
		return nil, false, apperr.NewValidationError("Missing required fields", nil)
	}
	if blank(in.Text) {
		return nil, false, apperr.NewValidationError("Comment text cannot be empty", nil)
	}

	comment := &domain.Comment{
		ID:         domain.NewCommentID(),
		ProposalID: in.ProposalID,
		UserIP:     identity,
		Text:       trimmed(in.Text),
		Timestamp:  s.now().UTC(),
	}

	err := s.store.Update(ctx, func(tx *store.Txn) error {
		users, err := tx.Users()
		if err != nil {
			return err
		}
		comments, err := tx.Comments()
		if err != nil {
			return err
		}

		user := users.Upsert(identity, fullName(in.FirstName, in.LastName))
		comments[comment.ID] = comment
		user.Comments = append(user.Comments, comment.ID)

		tx.SetUsers(users)
		tx.SetComments(comments)
		return nil
	})
	if err != nil {
		var ae *apperr.AppError
		if errors.As(err, &ae) {
			return nil, false, err
		}
		s.log.WithError(err).WithField("comment_id", comment.ID).
			Warn("Comment write failed, accepting without persistence")
		return comment, false, nil
	}
	return comment, true, nil
}

// List returns comments, filtered by proposal id when given, oldest
// first. A linear scan over the whole collection; there is no index.
func (s *CommentService) List(ctx context.Context, proposalID string) []*domain.Comment {
	return sortedComments(s.store.ReadComments(ctx), proposalID)
}

func sortedComments(comments domain.Comments, proposalID string) []*domain.Comment {
	list := []*domain.Comment{}
	for _, c := range comments {
		if proposalID != "" && c.ProposalID != proposalID {
			continue
		}
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Timestamp.Equal(list[j].Timestamp) {
			return list[i].Timestamp.Before(list[j].Timestamp)
		}
		return list[i].ID < list[j].ID
	})
	return list
}
