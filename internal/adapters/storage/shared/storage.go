// Package shared stores session records on storage shared by several server
// nodes, where rename atomicity and immediate visibility cannot be assumed.
//
// Every write publishes a new immutable version file named by a monotonic
// sequence number. Creating the next sequence with O_EXCL is the
// compare-and-swap: the loser of a race re-reads and retries. Readers take the
// newest version that verifies, so a partially visible write falls back to the
// previous complete one. Concurrent writers to one id resolve as
// last-writer-wins by sequence number.
package shared

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/rsessions/internal/adapters/storage/fsx"
	"github.com/bnema/rsessions/internal/domain"
	"github.com/bnema/rsessions/internal/ports"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const (
	createdMarkerName = ".created"
	versionExt        = ".json"

	defaultWriteAttempts = 8
	defaultReadAttempts  = 3
	defaultReadBackoff   = 25 * time.Millisecond
	removeAttempts       = 3
	maxRelists           = 16
)

var errWriteContention = errors.New("too many concurrent writers")

type Storage struct {
	root          string
	node          string
	codec         *codec
	clock         ports.Clock
	logger        *log.Logger
	writeAttempts int
	readAttempts  int
	readBackoff   time.Duration
}

var _ ports.SessionStorage = (*Storage)(nil)

type Option func(*Storage)

func WithLogger(logger *log.Logger) Option {
	return func(s *Storage) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithNode names the server node recorded in every version this storage writes.
func WithNode(node string) Option {
	return func(s *Storage) {
		if node = strings.TrimSpace(node); node != "" {
			s.node = node
		}
	}
}

func WithClock(clock ports.Clock) Option {
	return func(s *Storage) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithWriteAttempts bounds how often a writer that lost a sequence race retries.
func WithWriteAttempts(attempts int) Option {
	return func(s *Storage) {
		if attempts > 0 {
			s.writeAttempts = attempts
		}
	}
}

// WithReadRetry sets how often a record whose versions all fail to verify is
// re-read before it is reported corrupt.
func WithReadRetry(attempts int, backoff time.Duration) Option {
	return func(s *Storage) {
		if attempts > 0 {
			s.readAttempts = attempts
		}
		if backoff >= 0 {
			s.readBackoff = backoff
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

	codec, err := newCodec()
	if err != nil {
		return nil, err
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	s := &Storage{
		root:          filepath.Clean(absRoot),
		node:          hostname,
		codec:         codec,
		clock:         ports.SystemClock{},
		logger:        log.New(io.Discard),
		writeAttempts: defaultWriteAttempts,
		readAttempts:  defaultReadAttempts,
		readBackoff:   defaultReadBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *Storage) Root() string {
	return s.root
}

func (s *Storage) Node() string {
	return s.node
}

func (s *Storage) Create(ctx context.Context, scope domain.Scope, session domain.Session) error {
	const op = "create"
	if err := ctx.Err(); err != nil {
		return err
	}

	dir, err := s.recordDir(op, scope, session.ID)
	if err != nil {
		return err
	}
	if err := session.Validate(); err != nil {
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
	fail := func(err error) error {
		if claimed {
			s.release(scope, session.ID)
		}
		return err
	}

	if err := os.MkdirAll(dir, fsx.DirMode); err != nil {
		return fail(domain.NewStorageError(fsx.Classify(err), op, scope, session.ID, err))
	}

	if err := fsx.CreateFileExclusive(filepath.Join(dir, createdMarkerName), []byte(s.node+"\n"), fsx.FileMode); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return domain.NewStorageError(domain.ErrIDCollision, op, scope, session.ID, nil)
		}
		return fail(domain.NewStorageError(fsx.Classify(err), op, scope, session.ID, err))
	}

	// Versions without a marker were published by a Write that predates it.
	versions, err := listVersions(dir)
	if err != nil {
		return domain.NewStorageError(fsx.Classify(err), op, scope, session.ID, err)
	}
	if len(versions) > 0 {
		return domain.NewStorageError(domain.ErrIDCollision, op, scope, session.ID, nil)
	}

	if err := s.publish(ctx, op, scope, dir, session); err != nil {
		_ = os.RemoveAll(dir)
		return fail(err)
	}

	return nil
}

func (s *Storage) Write(ctx context.Context, scope domain.Scope, session domain.Session) error {
	const op = "write"
	if err := ctx.Err(); err != nil {
		return err
	}

	dir, err := s.recordDir(op, scope, session.ID)
	if err != nil {
		return err
	}
	if err := session.Validate(); err != nil {
		return domain.NewStorageError(domain.ErrInvalidRecord, op, scope, session.ID, err)
	}

	if _, err := fsx.EnsureScopeDir(s.root, scope); err != nil {
		return domain.NewStorageError(fsx.Classify(err), op, scope, session.ID, err)
	}
	if err := os.MkdirAll(dir, fsx.DirMode); err != nil {
		return domain.NewStorageError(fsx.Classify(err), op, scope, session.ID, err)
	}

	// A record first brought into existence by Write is still created: a
	// later Create of the same id must collide.
	err = fsx.CreateFileExclusive(filepath.Join(dir, createdMarkerName), []byte(s.node+"\n"), fsx.FileMode)
	if err != nil && !errors.Is(err, fs.ErrExist) {
		return domain.NewStorageError(fsx.Classify(err), op, scope, session.ID, err)
	}
	if _, err := fsx.ClaimID(s.root, scope, session.ID); err != nil {
		s.logger.Debug("session id claimed elsewhere", "scope", scope.Key, "id", session.ID, "error", err)
	}

	return s.publish(ctx, op, scope, dir, session)
}

func (s *Storage) Read(ctx context.Context, scope domain.Scope, id domain.SessionID) (domain.Session, error) {
	const op = "read"
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	dir, err := s.recordDir(op, scope, id)
	if err != nil {
		return domain.Session{}, err
	}

	session, _, err := s.readLatest(ctx, op, scope, id, dir)
	return session, err
}

// Update retries the read-modify-write when another writer publishes the
// sequence it was about to claim.
func (s *Storage) Update(ctx context.Context, scope domain.Scope, id domain.SessionID, fn func(*domain.Session) error) (domain.Session, error) {
	const op = "update"
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	dir, err := s.recordDir(op, scope, id)
	if err != nil {
		return domain.Session{}, err
	}

	for range s.writeAttempts {
		session, latestSeq, err := s.readLatest(ctx, op, scope, id, dir)
		if err != nil {
			return domain.Session{}, err
		}

		if err := fn(&session); err != nil {
			return domain.Session{}, err
		}
		session.ID = id

		claimed, err := s.claim(ctx, op, scope, dir, session, latestSeq+1)
		if err != nil {
			return domain.Session{}, err
		}
		if claimed {
			s.prune(dir, latestSeq)
			return session, nil
		}
	}

	return domain.Session{}, domain.NewStorageError(domain.ErrStorageUnavailable, op, scope, id, errWriteContention)
}

func (s *Storage) Enumerate(ctx context.Context, scope domain.Scope) (iter.Seq[domain.Session], error) {
	const op = "enumerate"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !scope.Valid() {
		return nil, domain.NewStorageError(domain.ErrPermissionDenied, op, scope, "", fmt.Errorf("invalid scope key %q", scope.Key))
	}

	scopeDir := filepath.Join(s.root, scope.Key)
	if _, err := os.Stat(scopeDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return func(func(domain.Session) bool) {}, nil
		}
		return nil, domain.NewStorageError(fsx.Classify(err), op, scope, "", err)
	}

	return func(yield func(domain.Session) bool) {
		entries, err := os.ReadDir(scopeDir)
		if err != nil {
			s.logger.Warn("skipping unreadable scope", "scope", scope.Key, "error", err)
			return
		}

		for _, entry := range entries {
			if ctx.Err() != nil {
				return
			}
			if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}

			id := domain.SessionID(entry.Name())
			if !id.Valid() {
				continue
			}

			session, _, err := s.readLatest(ctx, op, scope, id, filepath.Join(scopeDir, entry.Name()))
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

// Remove deletes every version of a record. A writer on another node racing
// the removal can leave the directory non-empty, so removal is retried.
func (s *Storage) Remove(ctx context.Context, scope domain.Scope, id domain.SessionID) error {
	const op = "remove"
	if err := ctx.Err(); err != nil {
		return err
	}

	dir, err := s.recordDir(op, scope, id)
	if err != nil {
		return err
	}

	var lastErr error
	for range removeAttempts {
		lastErr = os.RemoveAll(dir)
		if lastErr == nil {
			s.release(scope, id)
			return nil
		}
	}

	return domain.NewStorageError(fsx.Classify(lastErr), op, scope, id, lastErr)
}

func (s *Storage) Scopes(ctx context.Context) ([]domain.Scope, error) {
	return fsx.ListScopes(ctx, s.root)
}

func (s *Storage) recordDir(op string, scope domain.Scope, id domain.SessionID) (string, error) {
	if !scope.Valid() {
		return "", domain.NewStorageError(domain.ErrPermissionDenied, op, scope, id, fmt.Errorf("invalid scope key %q", scope.Key))
	}
	if !id.Valid() || string(id) == fsx.ScopeMarkerName {
		return "", domain.NewStorageError(domain.ErrNotFound, op, scope, id, fmt.Errorf("invalid session id %q", id))
	}

	return filepath.Join(s.root, scope.Key, string(id)), nil
}

func (s *Storage) publish(ctx context.Context, op string, scope domain.Scope, dir string, session domain.Session) error {
	for range s.writeAttempts {
		latestSeq, err := s.latestSeq(op, scope, session.ID, dir)
		if err != nil {
			return err
		}

		claimed, err := s.claim(ctx, op, scope, dir, session, latestSeq+1)
		if err != nil {
			return err
		}
		if claimed {
			s.prune(dir, latestSeq)
			return nil
		}
	}

	return domain.NewStorageError(domain.ErrStorageUnavailable, op, scope, session.ID, errWriteContention)
}

// claim writes version seq. It reports false when another writer already
// holds that sequence number.
func (s *Storage) claim(ctx context.Context, op string, scope domain.Scope, dir string, session domain.Session, seq int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	data, err := s.codec.encode(session, seq, s.node, uuid.NewString(), s.clock.Now())
	if err != nil {
		return false, domain.NewStorageError(domain.ErrInvalidRecord, op, scope, session.ID, err)
	}

	if err := fsx.CreateFileExclusive(filepath.Join(dir, versionName(seq)), data, fsx.FileMode); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, domain.NewStorageError(fsx.Classify(err), op, scope, session.ID, err)
	}

	return true, nil
}

// readLatest returns the newest verifiable version and the highest sequence
// number present, verifiable or not. A version pruned between listing and
// reading triggers a fresh listing rather than a failed attempt.
func (s *Storage) readLatest(ctx context.Context, op string, scope domain.Scope, id domain.SessionID, dir string) (domain.Session, int64, error) {
	var lastErr error
	relists := 0
	for attempt := 0; attempt < s.readAttempts; {
		versions, err := listVersions(dir)
		if err != nil {
			return domain.Session{}, 0, domain.NewStorageError(fsx.Classify(err), op, scope, id, err)
		}
		if len(versions) == 0 {
			return domain.Session{}, 0, domain.NewStorageError(domain.ErrNotFound, op, scope, id, nil)
		}

		latestSeq := versions[0]
		pruned := false
		for _, seq := range versions {
			// #nosec G304 -- path is built from validated scope and session ids.
			data, err := os.ReadFile(filepath.Join(dir, versionName(seq)))
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) && relists < maxRelists {
					pruned = true
					break
				}
				lastErr = err
				continue
			}

			session, err := s.codec.decode(data, id, seq)
			if err != nil {
				lastErr = err
				continue
			}

			return session, latestSeq, nil
		}

		if pruned {
			relists++
			continue
		}

		attempt++
		if attempt < s.readAttempts {
			if err := sleepContext(ctx, s.readBackoff*time.Duration(attempt)); err != nil {
				return domain.Session{}, 0, err
			}
		}
	}

	return domain.Session{}, 0, domain.NewStorageError(domain.ErrCorruptRecord, op, scope, id, lastErr)
}

func (s *Storage) release(scope domain.Scope, id domain.SessionID) {
	if err := fsx.ReleaseID(s.root, scope, id); err != nil {
		s.logger.Warn("release session id", "scope", scope.Key, "id", id, "error", err)
	}
}

func (s *Storage) latestSeq(op string, scope domain.Scope, id domain.SessionID, dir string) (int64, error) {
	versions, err := listVersions(dir)
	if err != nil {
		return 0, domain.NewStorageError(fsx.Classify(err), op, scope, id, err)
	}
	if len(versions) == 0 {
		return 0, nil
	}

	return versions[0], nil
}

// prune keeps the version just published and the one before it.
func (s *Storage) prune(dir string, previousSeq int64) {
	versions, err := listVersions(dir)
	if err != nil {
		return
	}

	for _, seq := range versions {
		if seq >= previousSeq {
			continue
		}
		if err := os.Remove(filepath.Join(dir, versionName(seq))); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("prune session version", "dir", dir, "seq", seq, "error", err)
		}
	}
}

// listVersions returns the sequence numbers in dir, newest first.
func listVersions(dir string) ([]int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	versions := make([]int64, 0, len(entries))
	for _, entry := range entries {
		if seq, ok := parseVersionName(entry.Name()); ok && !entry.IsDir() {
			versions = append(versions, seq)
		}
	}

	slices.SortFunc(versions, func(a, b int64) int {
		return cmp.Compare(b, a)
	})

	return versions, nil
}

func versionName(seq int64) string {
	return fmt.Sprintf("%020d%s", seq, versionExt)
}

func parseVersionName(name string) (int64, bool) {
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, versionExt) {
		return 0, false
	}

	seq, err := strconv.ParseInt(strings.TrimSuffix(name, versionExt), 10, 64)
	if err != nil || seq < 1 {
		return 0, false
	}

	return seq, true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
