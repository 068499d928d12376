package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionIDValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id    SessionID
		valid bool
	}{
		{id: "a1b2c3d4", valid: true},
		{id: "proj-session_01", valid: true},
		{id: "", valid: false},
		{id: ".", valid: false},
		{id: "..", valid: false},
		{id: "../escape", valid: false},
		{id: `dir\name`, valid: false},
		{id: "c:name", valid: false},
		{id: " padded", valid: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.id.Valid(), "id %q", tt.id)
	}
}

func TestEmptySessionPlaceholder(t *testing.T) {
	t.Parallel()

	placeholder := NewEmptySession("ghost001")
	assert.True(t, placeholder.Empty())
	assert.Equal(t, SessionID("ghost001"), placeholder.ID)
	assert.True(t, placeholder.IsNonProject())

	stored := Session{ID: "ghost001", Project: "proj1"}
	assert.False(t, stored.Empty())
	assert.False(t, stored.IsNonProject())
}

func TestSessionValidateRejectsInvalidText(t *testing.T) {
	t.Parallel()

	valid := Session{ID: "a1b2c3d4", Project: "proj\t1", WorkingDirectory: "/home/u/line\nbreak", Label: "café"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		session Session
	}{
		{name: "project", session: Session{ID: "a1b2c3d4", Project: "/home/u/caf\xe9"}},
		{name: "working_dir", session: Session{ID: "a1b2c3d4", WorkingDirectory: "/home/u/\xff"}},
		{name: "label", session: Session{ID: "a1b2c3d4", Label: "\xc3"}},
		{name: "id", session: Session{ID: "../x"}},
	}

	for _, tt := range tests {
		err := tt.session.Validate()
		assert.ErrorIs(t, err, ErrInvalidRecord, tt.name)
		assert.Contains(t, err.Error(), tt.name)
	}
}
