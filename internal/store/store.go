// Package store persists the four portal collections. Each collection
// is one JSON document in the backing store: every read loads the whole
// document and every write replaces it. Mutations go through Update,
// which gives read-modify-write a per-request unit of consistency so
// two concurrent writers cannot silently drop each other's changes.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"oha-portal/internal/domain"
)

// Collection names. They double as Redis key suffixes and as file names
// in the development file store.
const (
	CollUsers     = "users"
	CollProposals = "proposals"
	CollComments  = "comments"
	CollRequests  = "proposal-requests"
)

// DefaultKeyPrefix namespaces the Redis keys ("oha:users", ...).
const DefaultKeyPrefix = "oha"

// Keys builds namespaced document keys for a collection.
type Keys struct {
	prefix string
}

// NewKeys returns a Keys with the given namespace prefix, falling back
// to DefaultKeyPrefix when empty.
func NewKeys(prefix string) Keys {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return Keys{prefix: prefix}
}

// For returns the document key for a collection.
func (k Keys) For(coll string) string {
	return k.prefix + ":" + coll
}

// All returns the document keys of every collection.
func (k Keys) All() []string {
	return []string{
		k.For(CollUsers),
		k.For(CollProposals),
		k.For(CollComments),
		k.For(CollRequests),
	}
}

// Store is the persistence boundary for the portal collections.
//
// The ReadX accessors fail open: any read or decode failure is logged
// and an empty collection is returned, never an error. The WriteX
// accessors and Update surface failures to the caller.
type Store interface {
	ReadUsers(ctx context.Context) domain.Users
	ReadProposals(ctx context.Context) domain.Proposals
	ReadComments(ctx context.Context) domain.Comments
	ReadRequests(ctx context.Context) domain.ProposalRequests

	WriteUsers(ctx context.Context, users domain.Users) error
	WriteProposals(ctx context.Context, proposals domain.Proposals) error
	WriteComments(ctx context.Context, comments domain.Comments) error
	WriteRequests(ctx context.Context, requests domain.ProposalRequests) error

	// Update runs fn as an optimistic read-modify-write transaction.
	// Collections read through the Txn reflect the state the commit is
	// conditioned on; collections marked dirty via SetX are written
	// back atomically. A conflicting concurrent write retries fn from
	// scratch, so fn must be side-effect free apart from the Txn.
	Update(ctx context.Context, fn func(tx *Txn) error) error

	Health(ctx context.Context) error
	Close() error
}

// Txn is the read-modify-write context handed to Update callbacks.
// Documents are loaded lazily so a mutation only conditions on and
// rewrites the collections it actually touches.
type Txn struct {
	load func(coll string) ([]byte, error)

	users     domain.Users
	proposals domain.Proposals
	comments  domain.Comments
	requests  domain.ProposalRequests

	dirty map[string]bool
}

func newTxn(load func(coll string) ([]byte, error)) *Txn {
	return &Txn{load: load, dirty: map[string]bool{}}
}

// Users loads the users collection. Unlike the fail-open ReadUsers,
// load failures abort the transaction: writing a mutation computed from
// a silently-empty document would clobber the real one.
func (t *Txn) Users() (domain.Users, error) {
	if t.users != nil {
		return t.users, nil
	}
	users := domain.Users{}
	if err := t.loadInto(CollUsers, &users); err != nil {
		return nil, err
	}
	t.users = users
	return users, nil
}

// SetUsers marks the users collection for write-back on commit.
func (t *Txn) SetUsers(users domain.Users) {
	t.users = users
	t.dirty[CollUsers] = true
}

// Proposals loads the proposals collection.
func (t *Txn) Proposals() (domain.Proposals, error) {
	if t.proposals != nil {
		return t.proposals, nil
	}
	proposals := domain.Proposals{}
	if err := t.loadInto(CollProposals, &proposals); err != nil {
		return nil, err
	}
	t.proposals = proposals
	return proposals, nil
}

// SetProposals marks the proposals collection for write-back on commit.
func (t *Txn) SetProposals(proposals domain.Proposals) {
	t.proposals = proposals
	t.dirty[CollProposals] = true
}

// Comments loads the comments collection.
func (t *Txn) Comments() (domain.Comments, error) {
	if t.comments != nil {
		return t.comments, nil
	}
	comments := domain.Comments{}
	if err := t.loadInto(CollComments, &comments); err != nil {
		return nil, err
	}
	t.comments = comments
	return comments, nil
}

// SetComments marks the comments collection for write-back on commit.
func (t *Txn) SetComments(comments domain.Comments) {
	t.comments = comments
	t.dirty[CollComments] = true
}

// Requests loads the proposal-requests collection.
func (t *Txn) Requests() (domain.ProposalRequests, error) {
	if t.requests != nil {
		return t.requests, nil
	}
	requests := domain.ProposalRequests{}
	if err := t.loadInto(CollRequests, &requests); err != nil {
		return nil, err
	}
	t.requests = requests
	return requests, nil
}

// SetRequests marks the proposal-requests collection for write-back.
func (t *Txn) SetRequests(requests domain.ProposalRequests) {
	t.requests = requests
	t.dirty[CollRequests] = true
}

func (t *Txn) loadInto(coll string, dst interface{}) error {
	raw, err := t.load(coll)
	if err != nil {
		return fmt.Errorf("load %s document: %w", coll, err)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s document: %w", coll, err)
	}
	return nil
}

// dirtyDocs marshals every collection marked dirty, keyed by collection
// name.
func (t *Txn) dirtyDocs() (map[string][]byte, error) {
	docs := make(map[string][]byte, len(t.dirty))
	for coll := range t.dirty {
		var v interface{}
		switch coll {
		case CollUsers:
			v = t.users
		case CollProposals:
			v = t.proposals
		case CollComments:
			v = t.comments
		case CollRequests:
			v = t.requests
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s document: %w", coll, err)
		}
		docs[coll] = raw
	}
	return docs, nil
}
