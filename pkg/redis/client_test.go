package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestClient(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient("redis://"+mr.Addr(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient("not-a-url", zap.NewNop())
	assert.Error(t, err)
}

func TestGetSet(t *testing.T) {
	_, client := setupTestClient(t)
	ctx := context.Background()

	_, err := client.Get(ctx, "missing")
	assert.ErrorIs(t, err, Nil)

	require.NoError(t, client.Set(ctx, "doc", []byte(`{"a":1}`)))
	val, err := client.Get(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), val)
}

func TestWatchConflict(t *testing.T) {
	mr, client := setupTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "doc", []byte("v1")))

	err := client.Watch(ctx, func(tx *Tx) error {
		if _, err := tx.Get(ctx, "doc").Bytes(); err != nil {
			return err
		}
		require.NoError(t, mr.Set("doc", "v2"))

		_, err := tx.TxPipelined(ctx, func(pipe Pipeliner) error {
			pipe.Set(ctx, "doc", "v3", 0)
			return nil
		})
		return err
	}, "doc")
	assert.ErrorIs(t, err, TxFailedErr)

	// the conflicting write won
	val, err := client.Get(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), val)
}

func TestHealth(t *testing.T) {
	mr, client := setupTestClient(t)

	assert.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}
