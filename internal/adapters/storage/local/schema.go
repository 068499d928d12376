package local

import (
	"fmt"

	"github.com/bnema/rsessions/internal/adapters/storage/fsx"
	"github.com/bnema/rsessions/internal/domain"
)

const currentSchemaVersion = 1

type recordSchema struct {
	Version    int    `toml:"version"`
	ID         string `toml:"id"`
	Project    string `toml:"project"`
	WorkingDir string `toml:"working_dir"`
	Initial    bool   `toml:"initial"`
	Shared     bool   `toml:"shared"`
	Label      string `toml:"label"`
	Editor     string `toml:"editor"`
	RVersion   string `toml:"r_version"`
	Created    string `toml:"created"`
	LastUsed   string `toml:"last_used"`
	Running    bool   `toml:"running"`
	PID        int    `toml:"pid"`
	Host       string `toml:"host"`
}

func (s *recordSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s recordSchema) validate(id domain.SessionID) error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported session schema version %d (current %d)", s.Version, currentSchemaVersion)
	}
	if s.ID == "" {
		return fmt.Errorf("session record has no id")
	}
	if domain.SessionID(s.ID) != id {
		return fmt.Errorf("session record id %q does not match file name %q", s.ID, id)
	}

	return nil
}

func toSchema(session domain.Session) recordSchema {
	return recordSchema{
		Version:    currentSchemaVersion,
		ID:         string(session.ID),
		Project:    session.Project,
		WorkingDir: session.WorkingDirectory,
		Initial:    session.Initial,
		Shared:     session.Shared,
		Label:      session.Label,
		Editor:     session.Editor,
		RVersion:   session.RVersion,
		Created:    fsx.FormatTime(session.Created),
		LastUsed:   fsx.FormatTime(session.LastUsed),
		Running:    session.Running,
		PID:        session.PID,
		Host:       session.Host,
	}
}

func fromSchema(schema recordSchema) (domain.Session, error) {
	created, err := fsx.ParseTime(schema.Created)
	if err != nil {
		return domain.Session{}, fmt.Errorf("parse created: %w", err)
	}
	lastUsed, err := fsx.ParseTime(schema.LastUsed)
	if err != nil {
		return domain.Session{}, fmt.Errorf("parse last_used: %w", err)
	}

	return domain.Session{
		ID:               domain.SessionID(schema.ID),
		Project:          schema.Project,
		WorkingDirectory: schema.WorkingDir,
		Initial:          schema.Initial,
		Shared:           schema.Shared,
		Label:            schema.Label,
		Editor:           schema.Editor,
		RVersion:         schema.RVersion,
		Created:          created,
		LastUsed:         lastUsed,
		Running:          schema.Running,
		PID:              schema.PID,
		Host:             schema.Host,
	}, nil
}
