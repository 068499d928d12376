package fsx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/bnema/rsessions/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomicReplacesContent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "record.toml")
	require.NoError(t, WriteFileAtomic(path, []byte("first"), FileMode))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), FileMode))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(FileMode), info.Mode().Perm())
	}

	assertNoTempFiles(t, filepath.Dir(path))
}

func TestPublishFileExclusiveRefusesExistingPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a1b2c3d4.toml")
	require.NoError(t, PublishFileExclusive(path, []byte("winner"), FileMode))

	err := PublishFileExclusive(path, []byte("loser"), FileMode)
	require.ErrorIs(t, err, fs.ErrExist)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "winner", string(data))
	assertNoTempFiles(t, filepath.Dir(path))
}

func TestPublishFileExclusiveHasSingleWinner(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "contended.toml")

	const writers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := PublishFileExclusive(path, []byte(fmt.Sprintf("writer-%d", i)), FileMode)
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, fs.ErrExist)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestCreateFileExclusive(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "00000000000000000001.json")
	require.NoError(t, CreateFileExclusive(path, []byte("{}"), FileMode))

	err := CreateFileExclusive(path, []byte("{}"), FileMode)
	require.ErrorIs(t, err, fs.ErrExist)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Classify(nil))
	assert.ErrorIs(t, Classify(fmt.Errorf("open: %w", fs.ErrNotExist)), domain.ErrNotFound)
	assert.ErrorIs(t, Classify(&fs.PathError{Op: "open", Path: "/x", Err: fs.ErrPermission}), domain.ErrPermissionDenied)
	assert.ErrorIs(t, Classify(errors.New("input/output error")), domain.ErrStorageUnavailable)
}

func TestIsTempName(t *testing.T) {
	t.Parallel()

	assert.True(t, IsTempName(".a1b2c3d4.toml.tmp-123456"))
	assert.False(t, IsTempName("a1b2c3d4.toml"))
	assert.False(t, IsTempName(".created"))
}

func TestEnsureScopeDirWritesMarkerOnce(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	scope := domain.ScopeForHome("/home/alice")

	dir, err := EnsureScopeDir(root, scope)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, scope.Key), dir)

	markerPath := filepath.Join(dir, ScopeMarkerName)
	before, err := os.Stat(markerPath)
	require.NoError(t, err)

	_, err = EnsureScopeDir(root, scope)
	require.NoError(t, err)
	after, err := os.Stat(markerPath)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())

	scopes, err := ListScopes(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, scopes, 1)
	assert.Equal(t, scope, scopes[0])
}

func TestListScopesToleratesMissingRootAndMarkers(t *testing.T) {
	t.Parallel()

	scopes, err := ListScopes(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, scopes)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "orphan-00000000"), DirMode))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".staging"), DirMode))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), FileMode))

	brokenDir := filepath.Join(root, "broken-11111111")
	require.NoError(t, os.MkdirAll(brokenDir, DirMode))
	require.NoError(t, os.WriteFile(filepath.Join(brokenDir, ScopeMarkerName), []byte("home = ["), FileMode))

	scopes, err = ListScopes(context.Background(), root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Scope{
		{Key: "broken-11111111"},
		{Key: "orphan-00000000"},
	}, scopes)
}

func TestListScopesHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ListScopes(ctx, t.TempDir())
	require.ErrorIs(t, err, context.Canceled)
}

func TestTimeRoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 2, 9, 30, 15, 123456789, time.FixedZone("CET", 3600))
	parsed, err := ParseTime(FormatTime(at))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(at))
	assert.Equal(t, time.UTC, parsed.Location())

	zero, err := ParseTime("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
	assert.Empty(t, FormatTime(time.Time{}))
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, IsTempName(entry.Name()), "leftover temp file %s", entry.Name())
	}
}

func TestClaimIDIsExclusiveAcrossScopes(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	alice := domain.ScopeForHome("/home/alice")
	bob := domain.ScopeForHome("/home/bob")

	claimed, err := ClaimID(root, alice, "deadbeef")
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = ClaimID(root, alice, "deadbeef")
	require.NoError(t, err)
	assert.False(t, claimed)

	_, err = ClaimID(root, bob, "deadbeef")
	require.ErrorIs(t, err, fs.ErrExist)

	require.NoError(t, ReleaseID(root, bob, "deadbeef"))
	_, err = ClaimID(root, bob, "deadbeef")
	require.ErrorIs(t, err, fs.ErrExist, "release by another scope must keep the claim")

	require.NoError(t, ReleaseID(root, alice, "deadbeef"))
	require.NoError(t, ReleaseID(root, alice, "deadbeef"))

	claimed, err = ClaimID(root, bob, "deadbeef")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestClaimIDDirectoryIsNotAScope(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	_, err := ClaimID(root, domain.ScopeForHome("/home/alice"), "a1b2c3d4")
	require.NoError(t, err)

	scopes, err := ListScopes(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, scopes)
}

func TestEnsureScopeDirFirstMarkerWins(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	scope := domain.ScopeForHome("/home/alice")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := EnsureScopeDir(root, scope)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	scopes, err := ListScopes(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []domain.Scope{scope}, scopes)
	assertNoTempFiles(t, filepath.Join(root, scope.Key))
}
