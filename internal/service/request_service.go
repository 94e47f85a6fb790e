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

// RequestService is the pre-moderation intake for proposal
// suggestions. Requests carry a status field but the approve/reject
// promotion into a real proposal is not wired up yet; the reviewer
// fields exist on the wire only.
type RequestService struct {
	store store.Store
	log   *logger.Logger
	now   func() time.Time
}

// NewRequestService creates a proposal-request service.
func NewRequestService(st store.Store, log *logger.Logger) *RequestService {
	return &RequestService{store: st, log: log, now: time.Now}
}

// SubmitRequestInput is a proposal-request submission.
type SubmitRequestInput struct {
	RequestText string
	FirstName   string
	LastName    string
}

// Submit stores a pending proposal request. Like comments, store
// failures are tolerated and reported as persisted=false.
func (s *RequestService) Submit(ctx context.Context, identity string, in SubmitRequestInput) (*domain.ProposalRequest, bool, error) {
	if in.RequestText == "" || in.FirstName == "" || in.LastName == "" {
		return nil, false, apperr.NewValidationError("Missing required fields", nil)
	}
	if blank(in.RequestText) {
		return nil, false, apperr.NewValidationError("Request text cannot be empty", nil)
	}

	request := &domain.ProposalRequest{
		ID:          domain.NewRequestID(),
		RequestText: trimmed(in.RequestText),
		Status:      domain.RequestPending,
		CreatedBy:   identity,
		CreatedAt:   s.now().UTC(),
	}

	err := s.store.Update(ctx, func(tx *store.Txn) error {
		users, err := tx.Users()
		if err != nil {
			return err
		}
		requests, err := tx.Requests()
		if err != nil {
			return err
		}

		users.Upsert(identity, fullName(in.FirstName, in.LastName))
		requests[request.ID] = request

		tx.SetUsers(users)
		tx.SetRequests(requests)
		return nil
	})
	if err != nil {
		var ae *apperr.AppError
		if errors.As(err, &ae) {
			return nil, false, err
		}
		s.log.WithError(err).WithField("request_id", request.ID).
			Warn("Proposal request write failed, accepting without persistence")
		return request, false, nil
	}
	return request, true, nil
}

// List returns proposal requests, filtered by status when given,
// newest first. An unknown status simply matches nothing.
func (s *RequestService) List(ctx context.Context, status string) []*domain.ProposalRequest {
	requests := s.store.ReadRequests(ctx)

	list := []*domain.ProposalRequest{}
	for _, r := range requests {
		if status != "" && r.Status != domain.RequestStatus(status) {
			continue
		}
		list = append(list, r)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list
}
