// Package local stores one TOML file per session under a per-scope
// directory. Records are published with write-to-temp-then-rename.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/rsessions/internal/adapters/storage/fsx"
	"github.com/bnema/rsessions/internal/domain"
	"github.com/bnema/rsessions/internal/ports"
	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

const recordExt = ".toml"

type Storage struct {
	root   string
	logger *log.Logger
}

var (
	_ ports.SessionStorage = (*Storage)(nil)
	_ ports.SessionCounter = (*Storage)(nil)
)

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.Mutex{}
)

type Option func(*Storage)

func WithLogger(logger *log.Logger) Option {
	return func(s *Storage) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewStorage(root string, opts ...Option) (*Storage, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("storage root is empty")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}

	s := &Storage{
		root:   filepath.Clean(absRoot),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *Storage) Root() string {
	return s.root
}

func (s *Storage) Create(ctx context.Context, scope domain.Scope, session domain.Session) error {
	const op = "create"
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.recordPath(op, scope, session.ID)
	if err != nil {
		return err
	}

	data, err := encodeRecord(session)
	if err != nil {
		return domain.NewStorageError(domain.ErrInvalidRecord, op, scope, session.ID, err)
	}

	if _, err := fsx.EnsureScopeDir(s.root, scope); err != nil {
		return domain.NewStorageError(fsx.Classify(err), op, scope, session.ID, err)
	}

	claimed, err := fsx.ClaimID(s.root, scope, session.ID)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return domain.NewStorageError(domain.ErrIDCollision, op, scope, session.ID, err)
		}
		return domain.NewStorageError(fsx.Classify(err), op, scope, session.ID, err)
	}

	if err := fsx.PublishFileExclusive(path, data, fsx.FileMode); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return domain.NewStorageError(domain.ErrIDCollision, op, scope, session.ID, nil)
		}
		if claimed {
			s.release(scope, session.ID)
		}
		return domain.NewStorageError(fsx.Classify(err), op, scope, session.ID, err)
	}

	return nil
}

func (s *Storage) Write(ctx context.Context, scope domain.Scope, session domain.Session) error {
	const op = "write"
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.recordPath(op, scope, session.ID)
	if err != nil {
		return err
	}

	mu := lockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	if err := s.writeLocked(op, scope, path, session); err != nil {
		return err
	}
	// Write places records verbatim, so an id held by another scope is
	// logged rather than refused.
	if _, err := fsx.ClaimID(s.root, scope, session.ID); err != nil {
		s.logger.Debug("session id claimed elsewhere", "scope", scope.Key, "id", session.ID, "error", err)
	}

	return nil
}

func (s *Storage) Read(ctx context.Context, scope domain.Scope, id domain.SessionID) (domain.Session, error) {
	const op = "read"
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	path, err := s.recordPath(op, scope, id)
	if err != nil {
		return domain.Session{}, err
	}

	return s.readRecord(op, scope, id, path)
}

// Update serializes read-modify-write cycles within this process. Writers in
// other processes are resolved by the last rename.
func (s *Storage) Update(ctx context.Context, scope domain.Scope, id domain.SessionID, fn func(*domain.Session) error) (domain.Session, error) {
	const op = "update"
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	path, err := s.recordPath(op, scope, id)
	if err != nil {
		return domain.Session{}, err
	}

	mu := lockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.readRecord(op, scope, id, path)
	if err != nil {
		return domain.Session{}, err
	}

	if err := fn(&session); err != nil {
		return domain.Session{}, err
	}
	session.ID = id

	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	if err := s.writeLocked(op, scope, path, session); err != nil {
		return domain.Session{}, err
	}

	return session, nil
}

func (s *Storage) Enumerate(ctx context.Context, scope domain.Scope) (iter.Seq[domain.Session], error) {
	const op = "enumerate"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !scope.Valid() {
		return nil, domain.NewStorageError(domain.ErrPermissionDenied, op, scope, "", fmt.Errorf("invalid scope key %q", scope.Key))
	}

	dir := filepath.Join(s.root, scope.Key)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return func(func(domain.Session) bool) {}, nil
		}
		return nil, domain.NewStorageError(fsx.Classify(err), op, scope, "", err)
	}

	return func(yield func(domain.Session) bool) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			s.logger.Warn("skipping unreadable scope", "scope", scope.Key, "error", err)
			return
		}

		for _, entry := range entries {
			if ctx.Err() != nil {
				return
			}

			id, ok := recordIDFromName(entry)
			if !ok {
				continue
			}

			session, err := s.readRecord(op, scope, id, filepath.Join(dir, entry.Name()))
			if err != nil {
				if !errors.Is(err, domain.ErrNotFound) {
					s.logger.Warn("skipping session record", "scope", scope.Key, "id", id, "error", err)
				}
				continue
			}

			if !yield(session) {
				return
			}
		}
	}, nil
}

func (s *Storage) Remove(ctx context.Context, scope domain.Scope, id domain.SessionID) error {
	const op = "remove"
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.recordPath(op, scope, id)
	if err != nil {
		return err
	}

	mu := lockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return domain.NewStorageError(fsx.Classify(err), op, scope, id, err)
	}
	s.release(scope, id)

	return nil
}

func (s *Storage) Scopes(ctx context.Context) ([]domain.Scope, error) {
	return fsx.ListScopes(ctx, s.root)
}

// Count applies the same decoding as Enumerate, so records that Enumerate
// skips are not counted, but builds no handles and logs nothing.
func (s *Storage) Count(ctx context.Context, scope domain.Scope) (int, error) {
	const op = "count"
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !scope.Valid() {
		return 0, domain.NewStorageError(domain.ErrPermissionDenied, op, scope, "", fmt.Errorf("invalid scope key %q", scope.Key))
	}

	entries, err := os.ReadDir(filepath.Join(s.root, scope.Key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, domain.NewStorageError(fsx.Classify(err), op, scope, "", err)
	}

	dir := filepath.Join(s.root, scope.Key)
	count := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		id, ok := recordIDFromName(entry)
		if !ok {
			continue
		}
		if _, err := s.readRecord(op, scope, id, filepath.Join(dir, entry.Name())); err == nil {
			count++
		}
	}

	return count, nil
}

func (s *Storage) recordPath(op string, scope domain.Scope, id domain.SessionID) (string, error) {
	if !scope.Valid() {
		return "", domain.NewStorageError(domain.ErrPermissionDenied, op, scope, id, fmt.Errorf("invalid scope key %q", scope.Key))
	}
	if !id.Valid() || string(id)+recordExt == fsx.ScopeMarkerName {
		return "", domain.NewStorageError(domain.ErrNotFound, op, scope, id, fmt.Errorf("invalid session id %q", id))
	}

	return filepath.Join(s.root, scope.Key, string(id)+recordExt), nil
}

func (s *Storage) writeLocked(op string, scope domain.Scope, path string, session domain.Session) error {
	data, err := encodeRecord(session)
	if err != nil {
		return domain.NewStorageError(domain.ErrInvalidRecord, op, scope, session.ID, err)
	}

	if _, err := fsx.EnsureScopeDir(s.root, scope); err != nil {
		return domain.NewStorageError(fsx.Classify(err), op, scope, session.ID, err)
	}

	if err := fsx.WriteFileAtomic(path, data, fsx.FileMode); err != nil {
		return domain.NewStorageError(fsx.Classify(err), op, scope, session.ID, err)
	}

	return nil
}

func (s *Storage) readRecord(op string, scope domain.Scope, id domain.SessionID, path string) (domain.Session, error) {
	// #nosec G304 -- path is built from validated scope and session ids.
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Session{}, domain.NewStorageError(fsx.Classify(err), op, scope, id, err)
	}

	session, err := decodeRecord(data, id)
	if err != nil {
		return domain.Session{}, domain.NewStorageError(domain.ErrCorruptRecord, op, scope, id, err)
	}

	return session, nil
}

func (s *Storage) release(scope domain.Scope, id domain.SessionID) {
	if err := fsx.ReleaseID(s.root, scope, id); err != nil {
		s.logger.Warn("release session id", "scope", scope.Key, "id", id, "error", err)
	}
}

func encodeRecord(session domain.Session) ([]byte, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}

	data, err := toml.Marshal(toSchema(session))
	if err != nil {
		return nil, fmt.Errorf("encode session record: %w", err)
	}

	return data, nil
}

func decodeRecord(data []byte, id domain.SessionID) (domain.Session, error) {
	var record recordSchema
	if err := toml.Unmarshal(data, &record); err != nil {
		return domain.Session{}, fmt.Errorf("decode session record: %w", err)
	}
	if err := record.validate(id); err != nil {
		return domain.Session{}, err
	}
	record.applyDefaults()

	return fromSchema(record)
}

func recordIDFromName(entry fs.DirEntry) (domain.SessionID, bool) {
	name := entry.Name()
	if entry.IsDir() || fsx.IsTempName(name) || name == fsx.ScopeMarkerName || !strings.HasSuffix(name, recordExt) {
		return "", false
	}

	id := domain.SessionID(strings.TrimSuffix(name, recordExt))
	return id, id.Valid()
}

func lockForPath(path string) *sync.Mutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.Mutex{}
	pathLockMap[path] = mu
	return mu
}
