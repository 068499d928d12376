package domain

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageErrorMatchesKindAndCause(t *testing.T) {
	t.Parallel()

	scope := ScopeForKey("alice-1a2b3c4d")
	err := fmt.Errorf("get session: %w", NewStorageError(ErrNotFound, "read", scope, "a1b2c3d4", fs.ErrNotExist))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NotErrorIs(t, err, ErrCorruptRecord)

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "read", storageErr.Op)
	assert.Equal(t, "alice-1a2b3c4d", storageErr.Scope)
	assert.Equal(t, SessionID("a1b2c3d4"), storageErr.ID)
	assert.Equal(t, "get session: read scope alice-1a2b3c4d session a1b2c3d4: session not found: file does not exist", err.Error())
}

func TestStorageErrorMessageWithoutContext(t *testing.T) {
	t.Parallel()

	err := NewStorageError(ErrStorageUnavailable, "list scopes", Scope{}, "", nil)
	assert.Equal(t, "list scopes: session storage unavailable", err.Error())
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	assert.True(t, Retryable(NewStorageError(ErrStorageUnavailable, "write", Scope{}, "", errors.New("io timeout"))))
	assert.False(t, Retryable(NewStorageError(ErrPermissionDenied, "write", Scope{}, "", nil)))
	assert.False(t, Retryable(NewStorageError(ErrIDCollision, "create", Scope{}, "a1b2c3d4", nil)))
	assert.False(t, Retryable(nil))
}
