package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/rsessions/internal/domain"
	"github.com/bnema/rsessions/internal/ports"
)

// GlobalActiveSession is a session found by scanning every scope. Owner
// carries the home recorded for the scope when one is known.
type GlobalActiveSession struct {
	*ActiveSession
	Owner domain.Scope
}

// GlobalActiveSessions is the administrative view across all users.
type GlobalActiveSessions struct {
	storage  ports.SessionStorage
	cfg      settings
	progress func(ScanProgress)
}

// ScanProgress is reported after each scope a scan has visited.
type ScanProgress struct {
	Scopes   int
	Scanned  int
	Sessions int
}

func NewGlobalActiveSessions(storage ports.SessionStorage, opts ...Option) *GlobalActiveSessions {
	return &GlobalActiveSessions{storage: storage, cfg: newSettings(opts)}
}

// OnProgress returns a copy of g that reports scan progress to fn.
func (g *GlobalActiveSessions) OnProgress(fn func(ScanProgress)) *GlobalActiveSessions {
	scoped := *g
	scoped.progress = fn
	return &scoped
}

func (g *GlobalActiveSessions) report(scopes, scanned, sessions int) {
	if g.progress != nil {
		g.progress(ScanProgress{Scopes: scopes, Scanned: scanned, Sessions: sessions})
	}
}

// List returns every readable session of every scope. Unreadable scopes and
// records are logged and skipped.
func (g *GlobalActiveSessions) List(ctx context.Context) []*GlobalActiveSession {
	scopes, err := g.storage.Scopes(ctx)
	if err != nil {
		g.cfg.logger.Warn("list scopes", "error", err)
		return nil
	}

	var sessions []*GlobalActiveSession
	for i, scope := range scopes {
		records, err := g.storage.Enumerate(ctx, scope)
		if err != nil {
			g.cfg.logger.Warn("enumerate sessions", "scope", scope.Key, "error", err)
			g.report(len(scopes), i+1, len(sessions))
			continue
		}
		for record := range records {
			sessions = append(sessions, &GlobalActiveSession{
				ActiveSession: newActiveSession(g.storage, scope, record, g.cfg),
				Owner:         scope,
			})
		}
		g.report(len(scopes), i+1, len(sessions))
	}

	return sessions
}

// Get finds id in any scope. The first scope holding a readable record wins.
func (g *GlobalActiveSessions) Get(ctx context.Context, id domain.SessionID) (*GlobalActiveSession, error) {
	scopes, err := g.storage.Scopes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scopes: %w", err)
	}

	var lastErr error
	for i, scope := range scopes {
		record, err := g.storage.Read(ctx, scope, id)
		if err == nil {
			g.report(len(scopes), i+1, 1)
			return &GlobalActiveSession{
				ActiveSession: newActiveSession(g.storage, scope, record, g.cfg),
				Owner:         scope,
			}, nil
		}
		g.report(len(scopes), i+1, 0)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		g.cfg.logger.Warn("read session", "scope", scope.Key, "id", id, "error", err)
		lastErr = err
	}

	if lastErr != nil {
		return nil, fmt.Errorf("get session: %w", lastErr)
	}

	return nil, domain.NewStorageError(domain.ErrNotFound, "get", domain.Scope{}, id, nil)
}
