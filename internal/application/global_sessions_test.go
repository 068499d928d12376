package application

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/rsessions/internal/adapters/storage/shared"
	"github.com/bnema/rsessions/internal/domain"
	"github.com/bnema/rsessions/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalActiveSessionsListsEveryScope(t *testing.T) {
	t.Parallel()

	store := newLocalStorage(t)
	ctx := context.Background()
	aliceHome := filepath.Join(t.TempDir(), "alice")
	bobHome := filepath.Join(t.TempDir(), "bob")
	alice := NewRegistry(store, domain.ScopeForHome(aliceHome))
	bob := NewRegistry(store, domain.ScopeForHome(bobHome))

	a1, err := alice.Create(ctx, "proj1", filepath.Join(aliceHome, "proj1"), true)
	require.NoError(t, err)
	a2, err := alice.Create(ctx, "", aliceHome, false)
	require.NoError(t, err)
	b1, err := bob.Create(ctx, "", bobHome, false)
	require.NoError(t, err)

	global := NewGlobalActiveSessions(store)
	sessions := global.List(ctx)
	require.Len(t, sessions, 3)

	owners := map[domain.SessionID]string{}
	for _, session := range sessions {
		owners[session.ID()] = session.Owner.Home
	}
	assert.Equal(t, aliceHome, owners[a1])
	assert.Equal(t, aliceHome, owners[a2])
	assert.Equal(t, bobHome, owners[b1])
}

func TestGlobalActiveSessionsGetAcrossScopes(t *testing.T) {
	t.Parallel()

	store := newLocalStorage(t)
	ctx := context.Background()
	bob := NewRegistry(store, domain.ScopeForHome("/home/bob"))
	_, err := NewRegistry(store, domain.ScopeForHome("/home/alice")).Create(ctx, "", "/home/alice", false)
	require.NoError(t, err)

	id, err := bob.Create(ctx, "proj2", "/home/bob/proj2", false)
	require.NoError(t, err)

	global := NewGlobalActiveSessions(store)
	session, err := global.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "proj2", session.Project())
	assert.Equal(t, bob.Scope().Key, session.Owner.Key)

	_, err = global.Get(ctx, "missing1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGlobalActiveSessionsOverSharedStorage(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nodeA, err := shared.NewStorage(root, shared.WithNode("node-a"))
	require.NoError(t, err)
	nodeB, err := shared.NewStorage(root, shared.WithNode("node-b"))
	require.NoError(t, err)
	ctx := context.Background()

	onA, err := NewRegistry(nodeA, domain.ScopeForHome("/home/alice")).Create(ctx, "proj1", "/home/alice/proj1", false)
	require.NoError(t, err)
	onB, err := NewRegistry(nodeB, domain.ScopeForHome("/home/bob")).Create(ctx, "proj2", "/home/bob/proj2", false)
	require.NoError(t, err)

	ids := map[domain.SessionID]struct{}{}
	for _, session := range NewGlobalActiveSessions(nodeA).List(ctx) {
		ids[session.ID()] = struct{}{}
	}
	assert.Contains(t, ids, onA)
	assert.Contains(t, ids, onB)
}

func TestGlobalActiveSessionsScopeFailure(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockSessionStorage(t)
	unavailable := domain.NewStorageError(domain.ErrStorageUnavailable, "scopes", domain.Scope{}, "", os.ErrDeadlineExceeded)
	store.EXPECT().Scopes(mockAnyContext()).Return(nil, unavailable).Twice()

	global := NewGlobalActiveSessions(store)
	assert.Empty(t, global.List(context.Background()))

	_, err := global.Get(context.Background(), "abcd1234")
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestGlobalActiveSessionsGetSkipsCorruptScope(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockSessionStorage(t)
	broken := domain.ScopeForKey("broken-00000000")
	healthy := domain.Scope{Key: "alice-11111111", Home: "/home/alice"}
	id := domain.SessionID("abcd1234")

	store.EXPECT().Scopes(mockAnyContext()).Return([]domain.Scope{broken, healthy}, nil).Once()
	store.EXPECT().Read(mockAnyContext(), broken, id).
		Return(domain.Session{}, domain.NewStorageError(domain.ErrCorruptRecord, "read", broken, id, nil)).Once()
	store.EXPECT().Read(mockAnyContext(), healthy, id).
		Return(domain.Session{ID: id, Project: "proj1"}, nil).Once()

	session, err := NewGlobalActiveSessions(store).Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "/home/alice", session.Owner.Home)
	assert.Equal(t, "proj1", session.Project())
}

func TestGlobalActiveSessionsReportsScanProgress(t *testing.T) {
	t.Parallel()

	store := newLocalStorage(t)
	ctx := context.Background()
	for _, home := range []string{"/home/alice", "/home/bob", "/home/carol"} {
		_, err := NewRegistry(store, domain.ScopeForHome(home)).Create(ctx, "", home, false)
		require.NoError(t, err)
	}

	global := NewGlobalActiveSessions(store)
	var reports []ScanProgress
	sessions := global.OnProgress(func(p ScanProgress) { reports = append(reports, p) }).List(ctx)
	require.Len(t, sessions, 3)

	require.Len(t, reports, 3)
	for i, report := range reports {
		assert.Equal(t, 3, report.Scopes)
		assert.Equal(t, i+1, report.Scanned)
		assert.Equal(t, i+1, report.Sessions)
	}

	reports = nil
	global.List(ctx)
	assert.Empty(t, reports, "the original facade keeps no progress callback")
}
