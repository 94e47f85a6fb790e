package store

import (
	"context"
	"encoding/json"
	"fmt"

	"oha-portal/internal/domain"
	"oha-portal/pkg/logger"
	"oha-portal/pkg/redis"
)

// maxTxnAttempts bounds optimistic-transaction retries. Contention on
// four shared documents is low; conflicts beyond this indicate a store
// problem, not a busy portal.
const maxTxnAttempts = 5

// RedisStore keeps each collection as one JSON value in Redis and
// implements Update with WATCH/MULTI/EXEC over the collection keys.
type RedisStore struct {
	client *redis.Client
	keys   Keys
	log    *logger.Logger
}

// NewRedisStore creates a Redis-backed store namespaced by prefix.
func NewRedisStore(client *redis.Client, prefix string, log *logger.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		keys:   NewKeys(prefix),
		log:    log,
	}
}

// ReadUsers returns the users collection, empty on any failure.
func (s *RedisStore) ReadUsers(ctx context.Context) domain.Users {
	users := domain.Users{}
	s.readDoc(ctx, CollUsers, &users)
	return users
}

// ReadProposals returns the proposals collection, empty on any failure.
func (s *RedisStore) ReadProposals(ctx context.Context) domain.Proposals {
	proposals := domain.Proposals{}
	s.readDoc(ctx, CollProposals, &proposals)
	return proposals
}

// ReadComments returns the comments collection, empty on any failure.
func (s *RedisStore) ReadComments(ctx context.Context) domain.Comments {
	comments := domain.Comments{}
	s.readDoc(ctx, CollComments, &comments)
	return comments
}

// ReadRequests returns the proposal-requests collection, empty on any
// failure.
func (s *RedisStore) ReadRequests(ctx context.Context) domain.ProposalRequests {
	requests := domain.ProposalRequests{}
	s.readDoc(ctx, CollRequests, &requests)
	return requests
}

// readDoc loads one collection document into dst, failing open: a
// missing key, a transport error, or a corrupt document all leave dst
// untouched and are only logged.
func (s *RedisStore) readDoc(ctx context.Context, coll string, dst interface{}) {
	raw, err := s.client.Get(ctx, s.keys.For(coll))
	if err != nil {
		if err != redis.Nil {
			s.log.WithError(err).WithField("collection", coll).
				Warn("Failed to read collection, serving empty")
		}
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.WithError(err).WithField("collection", coll).
			Warn("Corrupt collection document, serving empty")
	}
}

// WriteUsers replaces the users collection document.
func (s *RedisStore) WriteUsers(ctx context.Context, users domain.Users) error {
	return s.writeDoc(ctx, CollUsers, users)
}

// WriteProposals replaces the proposals collection document.
func (s *RedisStore) WriteProposals(ctx context.Context, proposals domain.Proposals) error {
	return s.writeDoc(ctx, CollProposals, proposals)
}

// WriteComments replaces the comments collection document.
func (s *RedisStore) WriteComments(ctx context.Context, comments domain.Comments) error {
	return s.writeDoc(ctx, CollComments, comments)
}

// WriteRequests replaces the proposal-requests collection document.
func (s *RedisStore) WriteRequests(ctx context.Context, requests domain.ProposalRequests) error {
	return s.writeDoc(ctx, CollRequests, requests)
}

func (s *RedisStore) writeDoc(ctx context.Context, coll string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", coll, err)
	}
	return s.client.Set(ctx, s.keys.For(coll), raw)
}

// Update runs fn under WATCH on all four collection keys and commits
// the dirty documents in one MULTI/EXEC. A concurrent write to any
// collection aborts the EXEC and fn is retried against fresh state.
func (s *RedisStore) Update(ctx context.Context, fn func(tx *Txn) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxTxnAttempts; attempt++ {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			txn := newTxn(func(coll string) ([]byte, error) {
				raw, err := tx.Get(ctx, s.keys.For(coll)).Bytes()
				if err == redis.Nil {
					return nil, nil
				}
				return raw, err
			})

			if err := fn(txn); err != nil {
				return err
			}

			docs, err := txn.dirtyDocs()
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				return nil
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				for coll, raw := range docs {
					pipe.Set(ctx, s.keys.For(coll), raw, 0)
				}
				return nil
			})
			return err
		}, s.keys.All()...)

		if err == redis.TxFailedErr {
			lastErr = err
			s.log.WithField("attempt", attempt).Debug("Transaction conflict, retrying")
			continue
		}
		return err
	}
	return fmt.Errorf("update aborted after %d conflicting attempts: %w", maxTxnAttempts, lastErr)
}

// Health checks the Redis connection.
func (s *RedisStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
