package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/rsessions/internal/domain"
	"github.com/bnema/rsessions/internal/ports"
)

const maxCreateAttempts = 16

var errIDSpaceExhausted = errors.New("no free session id after repeated collisions")

// Registry is the per-user view of the active session store.
type Registry struct {
	storage ports.SessionStorage
	scope   domain.Scope
	cfg     settings
}

func NewRegistry(storage ports.SessionStorage, scope domain.Scope, opts ...Option) *Registry {
	return &Registry{
		storage: storage,
		scope:   scope,
		cfg:     newSettings(opts),
	}
}

func (r *Registry) Scope() domain.Scope {
	return r.scope
}

type createSettings struct {
	label    string
	editor   string
	rVersion string
	shared   bool
}

type CreateOption func(*createSettings)

func WithLabel(label string) CreateOption {
	return func(s *createSettings) { s.label = label }
}

func WithEditor(editor string) CreateOption {
	return func(s *createSettings) {
		if strings.TrimSpace(editor) != "" {
			s.editor = editor
		}
	}
}

func WithRVersion(version string) CreateOption {
	return func(s *createSettings) { s.rVersion = version }
}

// WithShared makes the session visible to other users listing with project
// sharing enabled.
func WithShared(shared bool) CreateOption {
	return func(s *createSettings) { s.shared = shared }
}

// Create stores a new session and returns its freshly generated id. Id
// collisions are retried with a new id and never reach the caller.
func (r *Registry) Create(ctx context.Context, project, workingDir string, initial bool, opts ...CreateOption) (domain.SessionID, error) {
	cs := createSettings{editor: domain.DefaultEditor}
	for _, opt := range opts {
		opt(&cs)
	}

	now := r.cfg.clock.Now().UTC()
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		id := r.cfg.newID()
		session := domain.Session{
			ID:               id,
			Project:          project,
			WorkingDirectory: workingDir,
			Initial:          initial,
			Shared:           cs.shared,
			Label:            cs.label,
			Editor:           cs.editor,
			RVersion:         cs.rVersion,
			Created:          now,
			LastUsed:         now,
		}

		err := r.storage.Create(ctx, r.scope, session)
		if err == nil {
			r.cfg.logger.Debug("session created", "scope", r.scope.Key, "id", id)
			return id, nil
		}
		if !errors.Is(err, domain.ErrIDCollision) {
			return "", fmt.Errorf("create session: %w", err)
		}
		r.cfg.logger.Debug("session id collision", "scope", r.scope.Key, "id", id, "attempt", attempt+1)
	}

	return "", domain.NewStorageError(domain.ErrStorageUnavailable, "create", r.scope, "", errIDSpaceExhausted)
}

// List returns the sessions of the user whose home is userHomePath, or of
// the registry's own scope when the path is empty. With project sharing
// enabled, sessions other users marked shared are appended. Failures are
// logged and yield fewer entries, never an error.
func (r *Registry) List(ctx context.Context, userHomePath string, projectSharingEnabled bool) []*ActiveSession {
	scope := r.scopeFor(userHomePath)
	seen := map[domain.SessionID]struct{}{}

	sessions := r.collect(ctx, scope, false, seen, nil)
	if !projectSharingEnabled {
		return sessions
	}

	scopes, err := r.storage.Scopes(ctx)
	if err != nil {
		r.cfg.logger.Warn("list scopes for shared sessions", "error", err)
		return sessions
	}
	for _, other := range scopes {
		if other.Key == scope.Key {
			continue
		}
		sessions = r.collect(ctx, other, true, seen, sessions)
	}

	return sessions
}

// Count returns len(List(...)) and uses a cheaper storage count when the
// backend offers one and no merging is required.
func (r *Registry) Count(ctx context.Context, userHomePath string, projectSharingEnabled bool) int {
	if !projectSharingEnabled {
		if counter, ok := r.storage.(ports.SessionCounter); ok {
			scope := r.scopeFor(userHomePath)
			n, err := counter.Count(ctx, scope)
			if err == nil {
				return n
			}
			r.cfg.logger.Warn("count sessions", "scope", scope.Key, "error", err)
		}
	}

	return len(r.List(ctx, userHomePath, projectSharingEnabled))
}

// Get returns a handle on a stored session of the registry's scope.
func (r *Registry) Get(ctx context.Context, id domain.SessionID) (*ActiveSession, error) {
	record, err := r.storage.Read(ctx, r.scope, id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	return newActiveSession(r.storage, r.scope, record, r.cfg), nil
}

// EmptySession returns a placeholder handle for id without touching storage.
func (r *Registry) EmptySession(id domain.SessionID) *ActiveSession {
	return newActiveSession(r.storage, r.scope, domain.NewEmptySession(id), r.cfg)
}

// Remove deletes a session of the registry's scope.
func (r *Registry) Remove(ctx context.Context, id domain.SessionID) error {
	if err := r.storage.Remove(ctx, r.scope, id); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	r.cfg.logger.Debug("session removed", "scope", r.scope.Key, "id", id)

	return nil
}

func (r *Registry) scopeFor(userHomePath string) domain.Scope {
	if strings.TrimSpace(userHomePath) == "" {
		return r.scope
	}

	return domain.ScopeForHome(userHomePath)
}

func (r *Registry) collect(ctx context.Context, scope domain.Scope, sharedOnly bool, seen map[domain.SessionID]struct{}, sessions []*ActiveSession) []*ActiveSession {
	records, err := r.storage.Enumerate(ctx, scope)
	if err != nil {
		r.cfg.logger.Warn("enumerate sessions", "scope", scope.Key, "error", err)
		return sessions
	}

	for record := range records {
		if sharedOnly && !record.Shared {
			continue
		}
		if _, dup := seen[record.ID]; dup {
			continue
		}
		seen[record.ID] = struct{}{}
		sessions = append(sessions, newActiveSession(r.storage, scope, record, r.cfg))
	}

	return sessions
}
