package fsx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/rsessions/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
)

// ScopeMarkerName is the per-scope file naming the owning home directory.
const ScopeMarkerName = "scope.toml"

type scopeMarker struct {
	Key  string `toml:"key"`
	Home string `toml:"home"`
}

// EnsureScopeDir creates the scope directory under root and records the
// owning home the first time it is seen. The first writer of the marker wins.
func EnsureScopeDir(root string, scope domain.Scope) (string, error) {
	dir := filepath.Join(root, scope.Key)
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return "", fmt.Errorf("create scope directory: %w", err)
	}

	if scope.Home == "" {
		return dir, nil
	}

	markerPath := filepath.Join(dir, ScopeMarkerName)
	if _, err := os.Stat(markerPath); err == nil {
		return dir, nil
	}

	data, err := toml.Marshal(scopeMarker{Key: scope.Key, Home: scope.Home})
	if err != nil {
		return "", fmt.Errorf("encode scope marker: %w", err)
	}
	if err := PublishFileExclusive(markerPath, data, FileMode); err != nil && !errors.Is(err, fs.ErrExist) {
		return "", fmt.Errorf("write scope marker: %w", err)
	}

	return dir, nil
}

// ListScopes returns the scope directories under root. A missing root has no
// scopes. Markers that cannot be read leave Home empty.
func ListScopes(ctx context.Context, root string) ([]domain.Scope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, domain.NewStorageError(Classify(err), "list scopes", domain.Scope{}, "", err)
	}

	scopes := make([]domain.Scope, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		scope := domain.ScopeForKey(entry.Name())
		scope.Home = readScopeHome(filepath.Join(root, entry.Name(), ScopeMarkerName))
		scopes = append(scopes, scope)
	}

	return scopes, nil
}

func readScopeHome(path string) string {
	// #nosec G304 -- marker path is derived from the storage root.
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	var marker scopeMarker
	if err := toml.Unmarshal(data, &marker); err != nil {
		return ""
	}

	return marker.Home
}
