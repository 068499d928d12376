package ports

import (
	"context"
	"iter"

	"github.com/bnema/rsessions/internal/domain"
)

// SessionStorage persists session records partitioned by scope. Writes must
// appear atomic to readers. Failures are *domain.StorageError values.
type SessionStorage interface {
	// Create stores a new record and fails with domain.ErrIDCollision when
	// the id already exists in scope.
	Create(ctx context.Context, scope domain.Scope, session domain.Session) error
	Write(ctx context.Context, scope domain.Scope, session domain.Session) error
	Read(ctx context.Context, scope domain.Scope, id domain.SessionID) (domain.Session, error)
	// Update applies fn to the current record and publishes the result. fn
	// may run more than once when concurrent writers force a retry.
	Update(ctx context.Context, scope domain.Scope, id domain.SessionID, fn func(*domain.Session) error) (domain.Session, error)
	// Enumerate yields the readable records of scope. Each range over the
	// returned sequence rescans storage; corrupt entries are skipped.
	Enumerate(ctx context.Context, scope domain.Scope) (iter.Seq[domain.Session], error)
	// Remove deletes a record. Removing an absent id is not an error.
	Remove(ctx context.Context, scope domain.Scope, id domain.SessionID) error
	Scopes(ctx context.Context) ([]domain.Scope, error)
}

// SessionCounter is implemented by storages that can count a scope without
// decoding its records.
type SessionCounter interface {
	Count(ctx context.Context, scope domain.Scope) (int, error)
}
