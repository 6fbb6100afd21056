package challenge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/ingenieras/internal/fsstore"
)

// MetadataStore keeps the ordered list of challenges in a single JSON document.
// All read-modify-write cycles go through mu, so concurrent publishes and deletes
// never overwrite each other.
type MetadataStore struct {
	path   string
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewMetadataStore constructs a store backed by the document at path.
// The parent directory is created if missing; the document itself is created on first save.
func NewMetadataStore(path string, logger zerolog.Logger) (*MetadataStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create metadata dir: %w", err)
		}
	}
	return &MetadataStore{
		path:   path,
		logger: logger.With().Str("component", "challenge_metadata").Logger(),
	}, nil
}

// Load returns every record in document order. A missing or malformed document reads as empty.
func (s *MetadataStore) Load() ([]Challenge, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Challenge{}, nil
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var records []Challenge
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("metadata document unreadable, treating as empty")
		return []Challenge{}, nil
	}
	if records == nil {
		records = []Challenge{}
	}
	return records, nil
}

// Save overwrites the document with records, indented and with non-ASCII text kept verbatim.
func (s *MetadataStore) Save(records []Challenge) error {
	if records == nil {
		records = []Challenge{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	return fsstore.WriteFileAtomic(s.path, buf.Bytes(), 0o644)
}

// Upsert updates title, desc and date of the record with the same id in place, or appends it.
// It reports whether a new record was appended.
func (s *MetadataStore) Upsert(record Challenge) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.Load()
	if err != nil {
		return false, err
	}

	for i := range records {
		if records[i].ID == record.ID {
			records[i].Title = record.Title
			records[i].Desc = record.Desc
			records[i].Date = record.Date
			if records[i].Path == "" {
				records[i].Path = record.Path
			}
			return false, s.Save(records)
		}
	}

	records = append(records, record)
	return true, s.Save(records)
}

// Remove drops the record with the given id. ErrNotFound leaves the document untouched.
func (s *MetadataStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.Load()
	if err != nil {
		return err
	}

	kept := make([]Challenge, 0, len(records))
	for _, rec := range records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return ErrNotFound
	}
	return s.Save(kept)
}
