package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("session not found")
	ErrStorageUnavailable = errors.New("session storage unavailable")
	ErrPermissionDenied   = errors.New("session storage permission denied")
	ErrCorruptRecord      = errors.New("corrupt session record")
	ErrIDCollision        = errors.New("session id collision")
	ErrInvalidRecord      = errors.New("invalid session record")
)

// StorageError carries the operation context of a storage failure. Kind is
// one of the sentinel errors above and is what callers branch on.
type StorageError struct {
	Kind  error
	Op    string
	Scope string
	ID    SessionID
	Err   error
}

func NewStorageError(kind error, op string, scope Scope, id SessionID, err error) *StorageError {
	return &StorageError{Kind: kind, Op: op, Scope: scope.Key, ID: id, Err: err}
}

func (e *StorageError) Error() string {
	parts := make([]string, 0, 3)
	if e.Scope != "" {
		parts = append(parts, "scope "+e.Scope)
	}
	if e.ID != "" {
		parts = append(parts, "session "+string(e.ID))
	}

	msg := e.Op
	if len(parts) > 0 {
		msg = fmt.Sprintf("%s %s", e.Op, strings.Join(parts, " "))
	}

	kind := "storage error"
	if e.Kind != nil {
		kind = e.Kind.Error()
	}

	if e.Err == nil {
		return fmt.Sprintf("%s: %s", msg, kind)
	}

	return fmt.Sprintf("%s: %s: %v", msg, kind, e.Err)
}

func (e *StorageError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}

// Retryable reports whether a caller may retry the failed operation.
func Retryable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}
