package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultEditor is recorded when the launcher does not name a front end.
const DefaultEditor = "rstudio"

type SessionID string

func (id SessionID) String() string {
	return string(id)
}

// Valid reports whether id is usable as a single path element.
func (id SessionID) Valid() bool {
	s := string(id)
	if s == "" || s == "." || s == ".." {
		return false
	}

	return !strings.ContainsAny(s, `/\:`) && strings.TrimSpace(s) == s
}

// Session is the persisted metadata of one tracked R session. The owner is
// implied by the scope the record is stored under.
type Session struct {
	ID               SessionID
	Project          string
	WorkingDirectory string
	Initial          bool
	Shared           bool
	Label            string
	Editor           string
	RVersion         string
	Created          time.Time
	LastUsed         time.Time

	// Running is the last state reported by the owning process. PID and Host
	// locate that process for liveness checks.
	Running bool
	PID     int
	Host    string

	empty bool
}

// NewEmptySession returns a placeholder for id that has never been stored.
func NewEmptySession(id SessionID) Session {
	return Session{ID: id, empty: true}
}

// Empty reports whether s is a placeholder rather than a stored record.
func (s Session) Empty() bool {
	return s.empty
}

// IsNonProject reports whether the session is not bound to a project.
func (s Session) IsNonProject() bool {
	return strings.TrimSpace(s.Project) == ""
}

// Validate reports fields that cannot be stored. Text fields must be valid
// UTF-8 so they survive both record encodings unchanged.
func (s Session) Validate() error {
	if !s.ID.Valid() {
		return fmt.Errorf("%w: session id %q", ErrInvalidRecord, s.ID)
	}

	fields := []struct {
		name  string
		value string
	}{
		{"project", s.Project},
		{"working_dir", s.WorkingDirectory},
		{"label", s.Label},
		{"editor", s.Editor},
		{"r_version", s.RVersion},
		{"host", s.Host},
	}
	for _, field := range fields {
		if !utf8.ValidString(field.value) {
			return fmt.Errorf("%w: %s is not valid UTF-8: %q", ErrInvalidRecord, field.name, field.value)
		}
	}

	return nil
}
