package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"oha-portal/internal/domain"
	"oha-portal/internal/store"
	"oha-portal/pkg/apperr"
	"oha-portal/pkg/logger"
)

// ProposalService manages the proposal lifecycle: creation in draft
// state with a fixed lock-in horizon and guarded status transitions.
type ProposalService struct {
	store  store.Store
	lockIn time.Duration
	log    *logger.Logger
	now    func() time.Time
}

// NewProposalService creates a proposal service. lockIn is the voting
// window stamped on every new proposal.
func NewProposalService(st store.Store, lockIn time.Duration, log *logger.Logger) *ProposalService {
	return &ProposalService{
		store:  st,
		lockIn: lockIn,
		log:    log,
		now:    time.Now,
	}
}

// CreateProposalInput is the member-supplied proposal form.
type CreateProposalInput struct {
	Title       string
	Description string
	FirstName   string
	LastName    string
}

// Create validates the form, stores a new draft proposal with
// lockInDate = now + the configured period, and appends the id to the
// author's proposal list. The author's user record is created or its
// name refreshed as a side effect.
func (s *ProposalService) Create(ctx context.Context, identity string, in CreateProposalInput) (*domain.Proposal, error) {
	if in.Title == "" || in.Description == "" || in.FirstName == "" || in.LastName == "" {
		return nil, apperr.NewValidationError("Missing required fields", nil)
	}
	if blank(in.Title) || blank(in.Description) {
		return nil, apperr.NewValidationError("Title and description cannot be empty", nil)
	}

	var proposal *domain.Proposal
	err := s.store.Update(ctx, func(tx *store.Txn) error {
		users, err := tx.Users()
		if err != nil {
			return err
		}
		proposals, err := tx.Proposals()
		if err != nil {
			return err
		}

		user := users.Upsert(identity, fullName(in.FirstName, in.LastName))

		now := s.now().UTC()
		proposal = &domain.Proposal{
			ID:          domain.NewProposalID(),
			Title:       trimmed(in.Title),
			Description: trimmed(in.Description),
			Status:      domain.StatusDraft,
			CreatedBy:   identity,
			CreatedAt:   now,
			LockInDate:  now.Add(s.lockIn),
			Votes:       domain.VoteTotals{},
		}

		proposals[proposal.ID] = proposal
		user.Proposals = append(user.Proposals, proposal.ID)

		tx.SetUsers(users)
		tx.SetProposals(proposals)
		return nil
	})
	if err != nil {
		return nil, wrapStore("Failed to save proposal", err)
	}

	s.log.WithFields(map[string]interface{}{
		"proposal_id": proposal.ID,
		"created_by":  identity,
	}).Info("Proposal created")
	return proposal, nil
}

// UpdateStatus moves a proposal to a new lifecycle state. The target
// must be a member of the status enum and a legal transition from the
// current state; anything else leaves the proposal untouched.
func (s *ProposalService) UpdateStatus(ctx context.Context, proposalID string, status domain.Status) (*domain.Proposal, error) {
	if proposalID == "" || status == "" {
		return nil, apperr.NewValidationError("Missing required fields", nil)
	}
	if !status.Valid() {
		return nil, apperr.NewValidationError("Invalid status", map[string]interface{}{
			"status": status,
		})
	}

	var proposal *domain.Proposal
	err := s.store.Update(ctx, func(tx *store.Txn) error {
		proposals, err := tx.Proposals()
		if err != nil {
			return err
		}

		p, ok := proposals[proposalID]
		if !ok {
			return apperr.NewNotFoundError("Proposal not found")
		}
		if !p.Status.CanTransitionTo(status) {
			return apperr.NewInvalidStateError(
				fmt.Sprintf("Cannot move proposal from %s to %s", p.Status, status))
		}

		p.Status = status
		proposal = p
		tx.SetProposals(proposals)
		return nil
	})
	if err != nil {
		return nil, wrapStore("Failed to update proposal", err)
	}

	s.log.WithFields(map[string]interface{}{
		"proposal_id": proposalID,
		"status":      status,
	}).Info("Proposal status updated")
	return proposal, nil
}

// List returns all proposals regardless of status, newest first.
// Status filtering is the caller's concern.
func (s *ProposalService) List(ctx context.Context) []*domain.Proposal {
	return sortedProposals(s.store.ReadProposals(ctx))
}

func sortedProposals(proposals domain.Proposals) []*domain.Proposal {
	list := make([]*domain.Proposal, 0, len(proposals))
	for _, p := range proposals {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list
}
