// Package store persists the résumé draft to a single local slot.
//
// The slot holds one JSON-serialized draft. Loading never fails from the
// caller's point of view: a missing, corrupt, or structurally incomplete
// slot falls back to the default draft, because the in-memory draft is
// authoritative and a broken slot must never block the wizard.
package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ronaldsalkes/cvmaster/internal/draft"
	"github.com/ronaldsalkes/cvmaster/internal/logging"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed draft_schema.json
var draftSchema []byte

// DefaultFileName is the slot file name under the storage directory.
const DefaultFileName = "draft.json"

// Store is the persistence adapter for the draft slot.
type Store interface {
	// Load returns the persisted draft, or the default draft when the slot
	// is absent or unusable. No partial hydration: the slot must carry every
	// expected field key to be accepted.
	Load(ctx context.Context) draft.Draft

	// Save overwrites the slot with the given draft.
	Save(ctx context.Context, d draft.Draft) error

	// Clear removes the slot entirely. Clearing an absent slot is not an error.
	Clear(ctx context.Context) error
}

// FileStore keeps the slot in a JSON file on disk.
type FileStore struct {
	path   string
	schema *gojsonschema.Schema
	log    logging.Logger
}

// NewFileStore creates a file-backed store writing to path. The parent
// directory is created on first save.
func NewFileStore(path string, log logging.Logger) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is empty")
	}
	if log == nil {
		log = logging.Nop{}
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(draftSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile draft schema: %w", err)
	}

	return &FileStore{path: path, schema: schema, log: log}, nil
}

// Path returns the slot file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and validates the slot. Any failure falls back to defaults.
func (s *FileStore) Load(ctx context.Context) draft.Draft {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn(ctx, "failed to read draft slot", "path", s.path, "error", err)
		}
		return draft.Default()
	}

	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		s.log.Warn(ctx, "draft slot is not valid JSON, using defaults", "path", s.path, "error", err)
		return draft.Default()
	}
	if !result.Valid() {
		s.log.Warn(ctx, "draft slot is structurally incomplete, using defaults",
			"path", s.path, "first_error", result.Errors()[0].String())
		return draft.Default()
	}

	var d draft.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		s.log.Warn(ctx, "failed to decode draft slot, using defaults", "path", s.path, "error", err)
		return draft.Default()
	}
	return d
}

// Save serializes the draft into the slot file.
func (s *FileStore) Save(ctx context.Context, d draft.Draft) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize draft: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write draft slot: %w", err)
	}
	s.log.Debug(ctx, "draft saved", "path", s.path)
	return nil
}

// Clear removes the slot file.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove draft slot: %w", err)
	}
	s.log.Debug(ctx, "draft slot cleared", "path", s.path)
	return nil
}

// DefaultPath returns the slot path under the user's home directory,
// falling back to the working directory when home cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cvmaster", DefaultFileName)
	}
	return filepath.Join(home, ".cvmaster", DefaultFileName)
}
