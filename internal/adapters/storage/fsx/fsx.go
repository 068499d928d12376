// Package fsx holds the file primitives shared by the storage adapters:
// atomic publish, exclusive create, scope markers and error classification.
package fsx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/bnema/rsessions/internal/domain"
)

const (
	DirMode  = 0o700
	FileMode = 0o600
)

// WriteFileAtomic publishes content at path through a temp file in the same
// directory and a rename, so readers observe the old or the new content.
func WriteFileAtomic(path string, content []byte, mode os.FileMode) error {
	tempName, err := writeTemp(path, content, mode)
	if err != nil {
		return err
	}

	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if err := os.Rename(tempName, path); err != nil {
		if runtime.GOOS != "windows" {
			return fmt.Errorf("rename temp file: %w", err)
		}
		if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
			return fmt.Errorf("remove destination before rename: %w", removeErr)
		}
		if renameErr := os.Rename(tempName, path); renameErr != nil {
			return fmt.Errorf("rename temp file after remove: %w", renameErr)
		}
	}
	cleanup = false

	syncDirectory(filepath.Dir(path))
	return nil
}

// PublishFileExclusive publishes content at path only if path does not exist
// yet. The content is complete before the name becomes visible. It returns an
// error matching fs.ErrExist when path is taken.
func PublishFileExclusive(path string, content []byte, mode os.FileMode) error {
	tempName, err := writeTemp(path, content, mode)
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(tempName)
	}()

	if err := os.Link(tempName, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return err
		}
		return fmt.Errorf("link temp file: %w", err)
	}

	syncDirectory(filepath.Dir(path))
	return nil
}

// CreateFileExclusive creates path with O_EXCL and writes content into it.
// Unlike PublishFileExclusive the name is visible while content is written.
func CreateFileExclusive(path string, content []byte, mode os.FileMode) error {
	// #nosec G304 -- path is built from validated scope and session ids.
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return err
	}

	if _, err := file.Write(content); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write file: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return fmt.Errorf("sync file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}

	syncDirectory(filepath.Dir(path))
	return nil
}

// Classify maps an I/O failure to a storage error kind.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return domain.ErrNotFound
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.EROFS):
		return domain.ErrPermissionDenied
	default:
		return domain.ErrStorageUnavailable
	}
}

// IsTempName reports whether name is an in-flight temp file.
func IsTempName(name string) bool {
	return strings.HasPrefix(name, ".") && strings.Contains(name, ".tmp-")
}

func writeTemp(path string, content []byte, mode os.FileMode) (string, error) {
	parent := filepath.Dir(path)
	base := filepath.Base(path)

	tempFile, err := os.CreateTemp(parent, "."+base+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tempName := tempFile.Name()

	if _, err := tempFile.Write(content); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempName)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempName)
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err := tempFile.Chmod(mode); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempName)
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempName)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return tempName, nil
}

func syncDirectory(dir string) {
	// #nosec G304 -- dir is the parent of a path built by the storage adapter.
	if handle, err := os.Open(dir); err == nil {
		_ = handle.Sync()
		_ = handle.Close()
	}
}
