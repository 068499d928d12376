package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/rsessions/internal/domain"
	"github.com/bnema/rsessions/internal/ports"
)

var errEmptySession = errors.New("session placeholder has no stored record")

// ActiveSession is a handle on one stored session. Accessors return the
// state observed at the last read or write; Refresh reloads it.
type ActiveSession struct {
	storage ports.SessionStorage
	scope   domain.Scope
	record  domain.Session
	clock   ports.Clock
	checker ports.LivenessChecker
	host    string
}

func newActiveSession(storage ports.SessionStorage, scope domain.Scope, record domain.Session, cfg settings) *ActiveSession {
	return &ActiveSession{
		storage: storage,
		scope:   scope,
		record:  record,
		clock:   cfg.clock,
		checker: cfg.checker,
		host:    cfg.host,
	}
}

func (s *ActiveSession) ID() domain.SessionID {
	return s.record.ID
}

// Scope is the scope the record is stored under, which for shared sessions
// may belong to another user.
func (s *ActiveSession) Scope() domain.Scope {
	return s.scope
}

// Record returns a copy of the last observed record.
func (s *ActiveSession) Record() domain.Session {
	return s.record
}

func (s *ActiveSession) Empty() bool {
	return s.record.Empty()
}

func (s *ActiveSession) Project() string          { return s.record.Project }
func (s *ActiveSession) WorkingDirectory() string { return s.record.WorkingDirectory }
func (s *ActiveSession) Initial() bool            { return s.record.Initial }
func (s *ActiveSession) Shared() bool             { return s.record.Shared }
func (s *ActiveSession) Label() string            { return s.record.Label }
func (s *ActiveSession) Editor() string           { return s.record.Editor }
func (s *ActiveSession) RVersion() string         { return s.record.RVersion }
func (s *ActiveSession) Created() time.Time       { return s.record.Created }
func (s *ActiveSession) LastUsed() time.Time      { return s.record.LastUsed }
func (s *ActiveSession) PID() int                 { return s.record.PID }
func (s *ActiveSession) Host() string             { return s.record.Host }

// IsNonProject reports whether the session is not bound to a project.
func (s *ActiveSession) IsNonProject() bool { return s.record.IsNonProject() }

// IsRunning reports the recorded running flag, cross-checked against the
// process table when the owning process lives on this host.
func (s *ActiveSession) IsRunning() bool {
	if s.record.Empty() || !s.record.Running {
		return false
	}
	if s.record.Host != "" && s.record.Host != s.host {
		return true
	}
	if s.record.PID <= 0 {
		return true
	}

	return s.checker.Alive(s.record.PID)
}

func (s *ActiveSession) Refresh(ctx context.Context) error {
	if s.record.Empty() {
		return domain.NewStorageError(domain.ErrNotFound, "refresh", s.scope, s.record.ID, errEmptySession)
	}

	record, err := s.storage.Read(ctx, s.scope, s.record.ID)
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	s.record = record

	return nil
}

func (s *ActiveSession) SetLastUsed(ctx context.Context, at time.Time) error {
	return s.update(ctx, "set last used", func(record *domain.Session) {
		record.LastUsed = at.UTC()
	})
}

// Touch stamps the session as used now.
func (s *ActiveSession) Touch(ctx context.Context) error {
	return s.SetLastUsed(ctx, s.clock.Now())
}

// MarkRunning records that pid on this host now serves the session.
func (s *ActiveSession) MarkRunning(ctx context.Context, pid int) error {
	now := s.clock.Now().UTC()
	return s.update(ctx, "mark running", func(record *domain.Session) {
		record.Running = true
		record.PID = pid
		record.Host = s.host
		record.LastUsed = now
	})
}

func (s *ActiveSession) MarkStopped(ctx context.Context) error {
	return s.update(ctx, "mark stopped", func(record *domain.Session) {
		record.Running = false
		record.PID = 0
		record.Host = ""
	})
}

func (s *ActiveSession) SetLabel(ctx context.Context, label string) error {
	return s.update(ctx, "set label", func(record *domain.Session) {
		record.Label = label
	})
}

func (s *ActiveSession) update(ctx context.Context, op string, mutate func(*domain.Session)) error {
	if s.record.Empty() {
		return domain.NewStorageError(domain.ErrNotFound, op, s.scope, s.record.ID, errEmptySession)
	}

	record, err := s.storage.Update(ctx, s.scope, s.record.ID, func(current *domain.Session) error {
		mutate(current)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.record = record

	return nil
}
