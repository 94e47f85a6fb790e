package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"oha-portal/internal/domain"
	"oha-portal/internal/store"
	"oha-portal/pkg/apperr"
	"oha-portal/pkg/logger"
)

// VoteService records votes and keeps proposal vote totals current.
// One entry per (user, proposal) in the flat schema, one per
// (user, proposal, question) in the question schema; resubmission
// overwrites, totals are recomputed by scanning every user.
type VoteService struct {
	store store.Store
	log   *logger.Logger
	now   func() time.Time
}

// NewVoteService creates a vote service.
func NewVoteService(st store.Store, log *logger.Logger) *VoteService {
	return &VoteService{store: st, log: log, now: time.Now}
}

// CastVoteInput is a vote submission. Choice is set for flat-schema
// votes; QuestionID plus SelectedOptions for question-schema votes.
type CastVoteInput struct {
	ProposalID      string
	Choice          string
	QuestionID      string
	SelectedOptions []string
	Justification   string
	FirstName       string
	LastName        string
}

// Cast validates and upserts the caller's vote, then recomputes the
// proposal's flat totals. The proposal must exist, be active, and be
// before its lock-in date; the justification must be non-blank.
func (s *VoteService) Cast(ctx context.Context, identity string, in CastVoteInput) (*domain.Vote, *domain.VoteTotals, error) {
	if in.ProposalID == "" || in.Justification == "" || in.FirstName == "" || in.LastName == "" {
		return nil, nil, apperr.NewValidationError("Missing required fields", nil)
	}
	if blank(in.Justification) {
		return nil, nil, apperr.NewValidationError("Invalid vote choice or missing justification", nil)
	}

	choice := domain.Choice(in.Choice)
	if in.QuestionID == "" {
		if !choice.Valid() {
			return nil, nil, apperr.NewValidationError("Invalid vote choice or missing justification", nil)
		}
	} else if len(in.SelectedOptions) == 0 {
		return nil, nil, apperr.NewValidationError("At least one option must be selected", nil)
	}

	var (
		vote   domain.Vote
		totals domain.VoteTotals
	)
	err := s.store.Update(ctx, func(tx *store.Txn) error {
		proposals, err := tx.Proposals()
		if err != nil {
			return err
		}
		users, err := tx.Users()
		if err != nil {
			return err
		}

		p, ok := proposals[in.ProposalID]
		if !ok {
			return apperr.NewNotFoundError("Proposal not found")
		}
		if p.Status != domain.StatusActive {
			return apperr.NewInvalidStateError("Proposal is not active for voting")
		}
		if p.Locked(s.now()) {
			return apperr.NewExpiredError("Voting has closed")
		}

		if in.QuestionID != "" {
			if err := validateSelection(p, in.QuestionID, in.SelectedOptions); err != nil {
				return err
			}
		}

		user := users.Upsert(identity, fullName(in.FirstName, in.LastName))

		vote = domain.Vote{
			Choice:          choice,
			QuestionID:      in.QuestionID,
			SelectedOptions: in.SelectedOptions,
			Justification:   in.Justification,
			Timestamp:       s.now().UTC(),
		}
		if in.QuestionID != "" {
			vote.Choice = ""
		}
		user.Votes[domain.VoteKey(in.ProposalID, in.QuestionID)] = vote
		tx.SetUsers(users)

		if in.QuestionID == "" {
			p.Votes = users.Tally(in.ProposalID)
			tx.SetProposals(proposals)
		}
		totals = p.Votes
		return nil
	})
	if err != nil {
		return nil, nil, wrapStore("Failed to save vote", err)
	}

	s.log.WithFields(map[string]interface{}{
		"proposal_id": in.ProposalID,
		"question_id": in.QuestionID,
		"voter":       identity,
	}).Info("Vote recorded")
	return &vote, &totals, nil
}

// validateSelection checks a question-schema selection against the
// proposal's declared questions and options.
func validateSelection(p *domain.Proposal, questionID string, selected []string) error {
	q := p.Question(questionID)
	if q == nil {
		return apperr.NewValidationError("Unknown question for this proposal", map[string]interface{}{
			"questionId": questionID,
		})
	}
	if q.Type == domain.QuestionSingleChoice && len(selected) != 1 {
		return apperr.NewValidationError("Single-choice questions take exactly one option", nil)
	}
	seen := map[string]bool{}
	for _, optionID := range selected {
		if !q.HasOption(optionID) {
			return apperr.NewValidationError("Unknown option for this question", map[string]interface{}{
				"optionId": optionID,
			})
		}
		if seen[optionID] {
			return apperr.NewValidationError("Options cannot be selected twice", map[string]interface{}{
				"optionId": optionID,
			})
		}
		seen[optionID] = true
	}
	return nil
}

// UserVotes returns the caller's vote map together with the full
// proposal list so the caller can join locally.
func (s *VoteService) UserVotes(ctx context.Context, identity string) (map[string]domain.Vote, []*domain.Proposal) {
	users := s.store.ReadUsers(ctx)
	proposals := sortedProposals(s.store.ReadProposals(ctx))

	votes := map[string]domain.Vote{}
	if u, ok := users[identity]; ok && u.Votes != nil {
		votes = u.Votes
	}
	return votes, proposals
}

// VoteRecord is one vote joined with its voter's display attributes,
// as served by the vote listing endpoint.
type VoteRecord struct {
	UserName        string        `json:"userName"`
	UserRole        string        `json:"userRole"`
	ProposalID      string        `json:"proposalId"`
	QuestionID      string        `json:"questionId,omitempty"`
	Choice          domain.Choice `json:"choice,omitempty"`
	SelectedOptions []string      `json:"selectedOptions,omitempty"`
	Justification   string        `json:"justification"`
	Timestamp       time.Time     `json:"timestamp"`
}

// ListVotes scans every user and returns the votes matching the
// optional proposal and question filters, most recent first. Ties on
// the timestamp order by voter name so the listing is stable.
func (s *VoteService) ListVotes(ctx context.Context, proposalID, questionID string) []VoteRecord {
	users := s.store.ReadUsers(ctx)

	records := []VoteRecord{}
	for _, u := range users {
		for key, vote := range u.Votes {
			if proposalID != "" && key != proposalID && !strings.HasPrefix(key, proposalID+"-") {
				continue
			}
			if questionID != "" && vote.QuestionID != questionID {
				continue
			}

			pid := key
			if vote.QuestionID != "" {
				pid = strings.TrimSuffix(key, "-"+vote.QuestionID)
			}
			records = append(records, VoteRecord{
				UserName:        u.Name,
				UserRole:        u.Role,
				ProposalID:      pid,
				QuestionID:      vote.QuestionID,
				Choice:          vote.Choice,
				SelectedOptions: vote.SelectedOptions,
				Justification:   vote.Justification,
				Timestamp:       vote.Timestamp,
			})
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].Timestamp.After(records[j].Timestamp)
		}
		return records[i].UserName < records[j].UserName
	})
	return records
}
