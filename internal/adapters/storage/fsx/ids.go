package fsx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/rsessions/internal/domain"
)

// IDClaimDir holds one file per session id in use anywhere under the root.
// Each file names the scope owning the id.
const IDClaimDir = ".ids"

// ClaimID reserves id for scope across the whole storage root. It reports
// whether this call created the claim. A claim already held by scope is
// accepted; one held by another scope returns an error matching
// fs.ErrExist.
func ClaimID(root string, scope domain.Scope, id domain.SessionID) (bool, error) {
	dir := filepath.Join(root, IDClaimDir)
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return false, fmt.Errorf("create id claim directory: %w", err)
	}

	path := filepath.Join(dir, string(id))
	err := PublishFileExclusive(path, []byte(scope.Key+"\n"), FileMode)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return false, fmt.Errorf("claim session id: %w", err)
	}

	owner, err := readClaim(path)
	if err != nil {
		return false, err
	}
	if owner != scope.Key {
		return false, fmt.Errorf("session id %s is held by scope %s: %w", id, owner, fs.ErrExist)
	}

	return false, nil
}

// ReleaseID drops the claim on id when scope holds it.
func ReleaseID(root string, scope domain.Scope, id domain.SessionID) error {
	path := filepath.Join(root, IDClaimDir, string(id))

	owner, err := readClaim(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if owner != scope.Key {
		return nil
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("release session id: %w", err)
	}

	return nil
}

func readClaim(path string) (string, error) {
	// #nosec G304 -- path is built from the storage root and a validated id.
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read session id claim: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}
