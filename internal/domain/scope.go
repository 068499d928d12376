package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"path/filepath"
	"strings"
)

const scopeHashLen = 8

// Scope is the storage namespace of one user home.
type Scope struct {
	Key  string
	Home string
}

// ScopeForHome derives the scope of a user home directory. The key is stable
// for a given cleaned absolute path and safe to use as a directory name.
func ScopeForHome(home string) Scope {
	cleaned := filepath.Clean(strings.TrimSpace(home))
	if abs, err := filepath.Abs(cleaned); err == nil {
		cleaned = abs
	}

	sum := sha1.Sum([]byte(cleaned))
	base := sanitizeScopeBase(filepath.Base(cleaned))

	return Scope{
		Key:  base + "-" + hex.EncodeToString(sum[:])[:scopeHashLen],
		Home: cleaned,
	}
}

// ScopeForKey wraps a key discovered on disk whose home is not yet known.
func ScopeForKey(key string) Scope {
	return Scope{Key: key}
}

func (s Scope) String() string {
	return s.Key
}

// Valid reports whether the key is usable as a single path element.
func (s Scope) Valid() bool {
	key := s.Key
	if key == "" || key == "." || key == ".." || strings.HasPrefix(key, ".") {
		return false
	}

	return !strings.ContainsAny(key, `/\:`)
}

func sanitizeScopeBase(base string) string {
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == '-' || r == '.':
			b.WriteRune('_')
		}
	}

	if b.Len() == 0 {
		return "root"
	}

	return b.String()
}
