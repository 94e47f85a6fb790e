package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oha-portal/internal/domain"
	"oha-portal/pkg/logger"
)

func setupFileStore(t *testing.T) *FileStore {
	t.Helper()
	st, err := NewFileStore(t.TempDir(), logger.NewNop())
	require.NoError(t, err)
	return st
}

func TestFileStoreReadFailsOpen(t *testing.T) {
	st := setupFileStore(t)
	ctx := context.Background()

	assert.Empty(t, st.ReadUsers(ctx))
	assert.Empty(t, st.ReadProposals(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(st.dir, "comments.json"), []byte("{not json"), 0o644))
	assert.Empty(t, st.ReadComments(ctx))
}

func TestFileStoreRoundTrip(t *testing.T) {
	st := setupFileStore(t)
	ctx := context.Background()

	comments := domain.Comments{
		"comment1": {ID: "comment1", ProposalID: "prop1", UserIP: "203.0.113.7", Text: "Looks good"},
	}
	require.NoError(t, st.WriteComments(ctx, comments))

	got := st.ReadComments(ctx)
	require.Contains(t, got, "comment1")
	assert.Equal(t, "Looks good", got["comment1"].Text)
}

func TestFileStoreUpdate(t *testing.T) {
	st := setupFileStore(t)
	ctx := context.Background()

	require.NoError(t, st.WriteUsers(ctx, domain.Users{"203.0.113.7": domain.NewUser("Anna Berg")}))

	err := st.Update(ctx, func(tx *Txn) error {
		users, err := tx.Users()
		require.NoError(t, err)
		require.Contains(t, users, "203.0.113.7")

		users.Upsert("198.51.100.4", "Bo Dahl")
		tx.SetUsers(users)
		return nil
	})
	require.NoError(t, err)

	got := st.ReadUsers(ctx)
	assert.Len(t, got, 2)
	assert.Contains(t, got, "198.51.100.4")
}

func TestFileStoreUpdateCallbackErrorSkipsWrite(t *testing.T) {
	st := setupFileStore(t)
	ctx := context.Background()

	err := st.Update(ctx, func(tx *Txn) error {
		tx.SetUsers(domain.Users{"203.0.113.7": domain.NewUser("Anna Berg")})
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, st.ReadUsers(ctx))
}

func TestFileStoreHealth(t *testing.T) {
	st := setupFileStore(t)
	assert.NoError(t, st.Health(context.Background()))

	require.NoError(t, os.RemoveAll(st.dir))
	assert.Error(t, st.Health(context.Background()))
}
