package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oha-portal/internal/domain"
	"oha-portal/internal/store"
	"oha-portal/pkg/apperr"
	"oha-portal/pkg/logger"
)

func newAdmin(t *testing.T) (store.Store, *AdminService) {
	t.Helper()
	_, st := newTestStore(t)
	proposals := NewProposalService(st, 7*24*time.Hour, logger.NewNop())
	return st, NewAdminService(st, proposals, "6526", logger.NewNop())
}

func TestAdminAuthorize(t *testing.T) {
	_, svc := newAdmin(t)

	assert.NoError(t, svc.Authorize("6526"))
	requireErrType(t, svc.Authorize("0000"), apperr.ErrorTypeAuthentication)
	requireErrType(t, svc.Authorize(""), apperr.ErrorTypeAuthentication)
}

func TestAdminSnapshot(t *testing.T) {
	st, svc := newAdmin(t)
	ctx := context.Background()

	seedProposal(t, st, activeProposal("prop1"))
	comments := NewCommentService(st, logger.NewNop())
	_, _, err := comments.Add(ctx, voterA, AddCommentInput{
		ProposalID: "prop1", Text: "hello", FirstName: "Anna", LastName: "Berg",
	})
	require.NoError(t, err)

	snap := svc.GetSnapshot(ctx)
	assert.Contains(t, snap.Users, voterA)
	require.Len(t, snap.Proposals, 1)
	require.Len(t, snap.Comments, 1)
}

func TestAdminSetProposalStatus(t *testing.T) {
	st, svc := newAdmin(t)
	ctx := context.Background()

	seedProposal(t, st, activeProposal("prop1"))

	p, err := svc.SetProposalStatus(ctx, "prop1", domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, p.Status)

	// the admin console goes through the same transition guard
	_, err = svc.SetProposalStatus(ctx, "prop1", domain.StatusActive)
	requireErrType(t, err, apperr.ErrorTypeInvalidState)
}

func TestAdminSetUserFields(t *testing.T) {
	st, svc := newAdmin(t)
	ctx := context.Background()

	err := st.Update(ctx, func(tx *store.Txn) error {
		users, err := tx.Users()
		if err != nil {
			return err
		}
		u := users.Upsert(voterA, "Anna Berg")
		u.Tags = []string{"founder"}
		tx.SetUsers(users)
		return nil
	})
	require.NoError(t, err)

	u, err := svc.SetUserFields(ctx, voterA, "Board Member", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Board Member", u.Role)
	assert.Equal(t, domain.DefaultCommittee, u.Committee)
	assert.Equal(t, []string{"founder"}, u.Tags)

	u, err = svc.SetUserFields(ctx, voterA, "", "Finance", []string{})
	require.NoError(t, err)
	assert.Equal(t, "Board Member", u.Role)
	assert.Equal(t, "Finance", u.Committee)
	assert.Empty(t, u.Tags)

	stored := st.ReadUsers(ctx)[voterA]
	assert.Equal(t, "Finance", stored.Committee)

	_, err = svc.SetUserFields(ctx, "192.0.2.200", "Member", "", nil)
	requireErrType(t, err, apperr.ErrorTypeNotFound)

	_, err = svc.SetUserFields(ctx, "", "Member", "", nil)
	requireErrType(t, err, apperr.ErrorTypeValidation)
}
