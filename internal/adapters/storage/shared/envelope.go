package shared

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bnema/rsessions/internal/adapters/storage/fsx"
	"github.com/bnema/rsessions/internal/domain"
	"github.com/gowebpki/jcs"
	"github.com/kaptinlin/jsonschema"
)

const (
	currentEnvelopeVersion = 1
	digestPrefix           = "sha256:"
)

//go:embed envelope.schema.json
var envelopeSchemaJSON []byte

// envelope is one immutable version of a record. Digest covers the JCS
// canonical form of Record so a torn file never verifies.
type envelope struct {
	Version   int             `json:"version"`
	Seq       int64           `json:"seq"`
	Node      string          `json:"node"`
	Nonce     string          `json:"nonce,omitempty"`
	WrittenAt string          `json:"written_at"`
	Digest    string          `json:"digest"`
	Record    json.RawMessage `json:"record"`
}

type recordDoc struct {
	ID         string `json:"id"`
	Project    string `json:"project"`
	WorkingDir string `json:"working_dir"`
	Initial    bool   `json:"initial"`
	Shared     bool   `json:"shared"`
	Label      string `json:"label"`
	Editor     string `json:"editor"`
	RVersion   string `json:"r_version"`
	Created    string `json:"created,omitempty"`
	LastUsed   string `json:"last_used,omitempty"`
	Running    bool   `json:"running"`
	PID        int    `json:"pid"`
	Host       string `json:"host"`
}

type codec struct {
	schema *jsonschema.Schema
}

func newCodec() (*codec, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile(envelopeSchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("compile envelope schema: %w", err)
	}

	return &codec{schema: schema}, nil
}

func (c *codec) encode(session domain.Session, seq int64, node, nonce string, writtenAt time.Time) ([]byte, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}

	record, err := json.Marshal(toDoc(session))
	if err != nil {
		return nil, fmt.Errorf("encode session record: %w", err)
	}

	digest, err := digestRecord(record)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(envelope{
		Version:   currentEnvelopeVersion,
		Seq:       seq,
		Node:      node,
		Nonce:     nonce,
		WrittenAt: writtenAt.UTC().Format(time.RFC3339Nano),
		Digest:    digest,
		Record:    record,
	})
	if err != nil {
		return nil, fmt.Errorf("encode session envelope: %w", err)
	}

	return data, nil
}

func (c *codec) decode(data []byte, id domain.SessionID, seq int64) (domain.Session, error) {
	if result := c.schema.ValidateJSON(data); !result.IsValid() {
		return domain.Session{}, fmt.Errorf("session envelope failed schema validation: %v", result.Errors)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return domain.Session{}, fmt.Errorf("decode session envelope: %w", err)
	}
	if env.Version > currentEnvelopeVersion {
		return domain.Session{}, fmt.Errorf("unsupported envelope version %d (current %d)", env.Version, currentEnvelopeVersion)
	}
	if env.Seq != seq {
		return domain.Session{}, fmt.Errorf("envelope seq %d does not match file seq %d", env.Seq, seq)
	}

	digest, err := digestRecord(env.Record)
	if err != nil {
		return domain.Session{}, err
	}
	if digest != env.Digest {
		return domain.Session{}, fmt.Errorf("session record digest mismatch")
	}

	var doc recordDoc
	if err := json.Unmarshal(env.Record, &doc); err != nil {
		return domain.Session{}, fmt.Errorf("decode session record: %w", err)
	}
	if domain.SessionID(doc.ID) != id {
		return domain.Session{}, fmt.Errorf("session record id %q does not match directory %q", doc.ID, id)
	}

	return fromDoc(doc)
}

func digestRecord(record []byte) (string, error) {
	canonical, err := jcs.Transform(record)
	if err != nil {
		return "", fmt.Errorf("canonicalize session record: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return digestPrefix + hex.EncodeToString(sum[:]), nil
}

func toDoc(session domain.Session) recordDoc {
	return recordDoc{
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

func fromDoc(doc recordDoc) (domain.Session, error) {
	created, err := fsx.ParseTime(doc.Created)
	if err != nil {
		return domain.Session{}, fmt.Errorf("parse created: %w", err)
	}
	lastUsed, err := fsx.ParseTime(doc.LastUsed)
	if err != nil {
		return domain.Session{}, fmt.Errorf("parse last_used: %w", err)
	}

	return domain.Session{
		ID:               domain.SessionID(doc.ID),
		Project:          doc.Project,
		WorkingDirectory: doc.WorkingDir,
		Initial:          doc.Initial,
		Shared:           doc.Shared,
		Label:            doc.Label,
		Editor:           doc.Editor,
		RVersion:         doc.RVersion,
		Created:          created,
		LastUsed:         lastUsed,
		Running:          doc.Running,
		PID:              doc.PID,
		Host:             doc.Host,
	}, nil
}
