package service

import (
	"context"
	"crypto/subtle"

	"oha-portal/internal/domain"
	"oha-portal/internal/store"
	"oha-portal/pkg/apperr"
	"oha-portal/pkg/logger"
)

// AdminService is the passcode-gated console: direct mutation of
// proposal status and user role/committee/tags, plus a full snapshot
// of the collections for the admin UI.
type AdminService struct {
	store     store.Store
	proposals *ProposalService
	passcode  string
	log       *logger.Logger
}

// NewAdminService creates an admin service gated by the shared
// passcode.
func NewAdminService(st store.Store, proposals *ProposalService, passcode string, log *logger.Logger) *AdminService {
	return &AdminService{
		store:     st,
		proposals: proposals,
		passcode:  passcode,
		log:       log,
	}
}

// Authorize checks the shared admin passcode.
func (s *AdminService) Authorize(passcode string) error {
	if subtle.ConstantTimeCompare([]byte(passcode), []byte(s.passcode)) != 1 {
		return apperr.NewAuthenticationError("Invalid admin passcode")
	}
	return nil
}

// Snapshot is the admin view over the collections. Users stay keyed by
// identity because the user-mutation actions address them by that key.
type Snapshot struct {
	Users     domain.Users      `json:"users"`
	Proposals []*domain.Proposal `json:"proposals"`
	Comments  []*domain.Comment  `json:"comments"`
}

// GetSnapshot returns users, proposals and comments in one read.
func (s *AdminService) GetSnapshot(ctx context.Context) *Snapshot {
	return &Snapshot{
		Users:     s.store.ReadUsers(ctx),
		Proposals: sortedProposals(s.store.ReadProposals(ctx)),
		Comments:  sortedComments(s.store.ReadComments(ctx), ""),
	}
}

// SetProposalStatus moves a proposal through the same guarded
// transition table members see.
func (s *AdminService) SetProposalStatus(ctx context.Context, proposalID string, status domain.Status) (*domain.Proposal, error) {
	return s.proposals.UpdateStatus(ctx, proposalID, status)
}

// SetUserFields overwrites a user's role, committee and tags. Empty
// fields are left unchanged; a nil tags slice means "keep tags".
func (s *AdminService) SetUserFields(ctx context.Context, identity, role, committee string, tags []string) (*domain.User, error) {
	if identity == "" {
		return nil, apperr.NewValidationError("Missing user identity", nil)
	}

	var user *domain.User
	err := s.store.Update(ctx, func(tx *store.Txn) error {
		users, err := tx.Users()
		if err != nil {
			return err
		}

		u, ok := users[identity]
		if !ok {
			return apperr.NewNotFoundError("User not found")
		}
		if role != "" {
			u.Role = role
		}
		if committee != "" {
			u.Committee = committee
		}
		if tags != nil {
			u.Tags = tags
		}

		user = u
		tx.SetUsers(users)
		return nil
	})
	if err != nil {
		return nil, wrapStore("Failed to update user", err)
	}

	s.log.WithField("user", identity).Info("User fields updated")
	return user, nil
}
