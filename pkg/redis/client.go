package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Nil is returned by Get when the key does not exist.
const Nil = redis.Nil

// TxFailedErr is returned by Watch when a watched key changed before
// the transaction committed.
var TxFailedErr = redis.TxFailedErr

// Tx is re-exported so callers can run reads and pipelined writes
// inside a Watch callback without importing go-redis directly.
type Tx = redis.Tx

// Pipeliner is re-exported for the same reason.
type Pipeliner = redis.Pipeliner

// Client wraps the go-redis client with logging on every round trip.
// The portal stores each collection as a single JSON document, so the
// surface is intentionally small: plain GET/SET plus optimistic
// WATCH/MULTI transactions.
type Client struct {
	rdb *redis.Client
	log *zap.Logger
}

// NewClient creates a new Redis client
func NewClient(redisURL string, log *zap.Logger) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = 20
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, log: log}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Get retrieves a document from Redis. Returns Nil when the key is
// absent.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	val, err := c.rdb.Get(ctx, key).Bytes()
	dur := time.Since(start)
	if err != nil && err != redis.Nil {
		c.log.Info("redis_get",
			zap.String("key", key),
			zap.Duration("duration", dur),
			zap.Error(err))
	} else {
		c.log.Debug("redis_get",
			zap.String("key", key),
			zap.Int("bytes", len(val)),
			zap.Duration("duration", dur))
	}
	return val, err
}

// Set stores a document in Redis. Collection documents never expire.
func (c *Client) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := c.rdb.Set(ctx, key, value, 0).Err()
	dur := time.Since(start)
	if err != nil {
		c.log.Info("redis_set",
			zap.String("key", key),
			zap.Duration("duration", dur),
			zap.Error(err))
	} else {
		c.log.Debug("redis_set",
			zap.String("key", key),
			zap.Int("bytes", len(value)),
			zap.Duration("duration", dur))
	}
	return err
}

// Watch runs fn inside an optimistic transaction over the given keys.
// fn should read through the supplied Tx and queue its writes with
// Tx.TxPipelined; the commit fails with TxFailedErr if any watched key
// changed in the meantime.
func (c *Client) Watch(ctx context.Context, fn func(tx *Tx) error, keys ...string) error {
	start := time.Now()
	err := c.rdb.Watch(ctx, fn, keys...)
	dur := time.Since(start)
	if err != nil && err != redis.TxFailedErr {
		c.log.Info("redis_watch",
			zap.Int("keys", len(keys)),
			zap.Duration("duration", dur),
			zap.Error(err))
	} else {
		c.log.Debug("redis_watch",
			zap.Int("keys", len(keys)),
			zap.Duration("duration", dur),
			zap.Bool("conflict", err == redis.TxFailedErr))
	}
	return err
}

// Health checks the Redis connection
func (c *Client) Health(ctx context.Context) error {
	start := time.Now()
	err := c.rdb.Ping(ctx).Err()
	dur := time.Since(start)
	if err != nil {
		c.log.Info("redis_ping",
			zap.Duration("duration", dur),
			zap.Error(err))
	} else {
		c.log.Debug("redis_ping", zap.Duration("duration", dur))
	}
	return err
}
