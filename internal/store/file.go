package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"oha-portal/internal/domain"
	"oha-portal/pkg/logger"
)

// FileStore keeps each collection as an indented JSON file in a data
// directory. It is the development backend; a process-wide mutex around
// Update stands in for the Redis store's optimistic transaction.
type FileStore struct {
	dir string
	mu  sync.Mutex
	log *logger.Logger
}

// NewFileStore creates a file-backed store rooted at dir, creating the
// directory when missing.
func NewFileStore(dir string, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{dir: dir, log: log}, nil
}

func (s *FileStore) path(coll string) string {
	return filepath.Join(s.dir, coll+".json")
}

// ReadUsers returns the users collection, empty on any failure.
func (s *FileStore) ReadUsers(ctx context.Context) domain.Users {
	users := domain.Users{}
	s.readDoc(CollUsers, &users)
	return users
}

// ReadProposals returns the proposals collection, empty on any failure.
func (s *FileStore) ReadProposals(ctx context.Context) domain.Proposals {
	proposals := domain.Proposals{}
	s.readDoc(CollProposals, &proposals)
	return proposals
}

// ReadComments returns the comments collection, empty on any failure.
func (s *FileStore) ReadComments(ctx context.Context) domain.Comments {
	comments := domain.Comments{}
	s.readDoc(CollComments, &comments)
	return comments
}

// ReadRequests returns the proposal-requests collection, empty on any
// failure.
func (s *FileStore) ReadRequests(ctx context.Context) domain.ProposalRequests {
	requests := domain.ProposalRequests{}
	s.readDoc(CollRequests, &requests)
	return requests
}

func (s *FileStore) readDoc(coll string, dst interface{}) {
	raw, err := s.readFile(coll)
	if err != nil {
		s.log.WithError(err).WithField("collection", coll).
			Warn("Failed to read collection file, serving empty")
		return
	}
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.WithError(err).WithField("collection", coll).
			Warn("Corrupt collection file, serving empty")
	}
}

func (s *FileStore) readFile(coll string) ([]byte, error) {
	raw, err := os.ReadFile(s.path(coll))
	if os.IsNotExist(err) {
		return nil, nil
	}
	return raw, err
}

// WriteUsers replaces the users collection file.
func (s *FileStore) WriteUsers(ctx context.Context, users domain.Users) error {
	return s.writeDoc(CollUsers, users)
}

// WriteProposals replaces the proposals collection file.
func (s *FileStore) WriteProposals(ctx context.Context, proposals domain.Proposals) error {
	return s.writeDoc(CollProposals, proposals)
}

// WriteComments replaces the comments collection file.
func (s *FileStore) WriteComments(ctx context.Context, comments domain.Comments) error {
	return s.writeDoc(CollComments, comments)
}

// WriteRequests replaces the proposal-requests collection file.
func (s *FileStore) WriteRequests(ctx context.Context, requests domain.ProposalRequests) error {
	return s.writeDoc(CollRequests, requests)
}

func (s *FileStore) writeDoc(coll string, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s document: %w", coll, err)
	}
	if err := os.WriteFile(s.path(coll), raw, 0o644); err != nil {
		return fmt.Errorf("write %s document: %w", coll, err)
	}
	return nil
}

// Update serializes read-modify-write cycles under a mutex; with a
// single process writing the files that is enough to rule out lost
// updates.
func (s *FileStore) Update(ctx context.Context, fn func(tx *Txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn := newTxn(s.readFile)
	if err := fn(txn); err != nil {
		return err
	}

	docs, err := txn.dirtyDocs()
	if err != nil {
		return err
	}
	for coll := range docs {
		var v interface{}
		switch coll {
		case CollUsers:
			v = txn.users
		case CollProposals:
			v = txn.proposals
		case CollComments:
			v = txn.comments
		case CollRequests:
			v = txn.requests
		}
		if err := s.writeDoc(coll, v); err != nil {
			return err
		}
	}
	return nil
}

// Health checks that the data directory is still there.
func (s *FileStore) Health(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}
