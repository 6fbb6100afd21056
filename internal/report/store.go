package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/gokatarajesh/ingenieras/internal/fsstore"
)

const (
	maxSafeNameBytes = 64
	suffixBytes      = 8
)

// MaxChallengeIDBytes is the longest challenge id whose report filename still fits in one
// path segment next to the timestamp, the longest safe name and the suffix.
const MaxChallengeIDBytes = fsstore.MaxNameLength -
	(len(filenameTimeLayout) + maxSafeNameBytes + suffixBytes + 3*len(nameSeparator) + len(fileExt))

// ValidateChallengeID rejects ids that are unsafe as a path segment or too long for a report filename.
func ValidateChallengeID(id string) error {
	if err := fsstore.ValidateName(id); err != nil {
		return err
	}
	if len(id) > MaxChallengeIDBytes {
		return fmt.Errorf("%w: challenge id longer than %d bytes", fsstore.ErrInvalidName, MaxChallengeIDBytes)
	}
	return nil
}

// StoreOptions overrides the clock and the collision suffix, mostly for tests.
type StoreOptions struct {
	Now    func() time.Time
	Suffix func() string
}

// Store appends submissions as individual JSON files. Files are never rewritten.
type Store struct {
	dir    string
	now    func() time.Time
	suffix func() string
}

// NewStore ensures dir exists and returns an append-only store over it.
func NewStore(dir string, opts StoreOptions) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports dir: %w", err)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	suffix := opts.Suffix
	if suffix == nil {
		suffix = randomSuffix
	}
	return &Store{dir: dir, now: now, suffix: suffix}, nil
}

// Append stamps sub with the current time and writes it to a new file.
func (s *Store) Append(sub Submission) (Report, error) {
	if err := ValidateChallengeID(sub.ChallengeID); err != nil {
		return Report{}, err
	}

	ts := s.now()
	sub.Timestamp = ts.Format(TimestampLayout)
	if sub.Steps == nil {
		sub.Steps = []Step{}
	}

	filename := strings.Join([]string{
		ts.Format(filenameTimeLayout),
		SafeName(sub.StudentName),
		sub.ChallengeID,
		s.suffix(),
	}, nameSeparator) + fileExt

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(sub); err != nil {
		return Report{}, fmt.Errorf("encode submission: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(s.dir, filename), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Report{}, fmt.Errorf("create report file: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return Report{}, fmt.Errorf("write report file: %w", err)
	}
	if err := f.Close(); err != nil {
		return Report{}, fmt.Errorf("close report file: %w", err)
	}

	return Report{Submission: sub, Filename: filename}, nil
}

// SafeName keeps letters, digits and spaces, trims, and joins words with an underscore.
// Names with nothing left fall back to a placeholder.
func SafeName(name string) string {
	kept := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			return r
		}
		return -1
	}, name)
	words := strings.Fields(kept)
	if len(words) == 0 {
		return fallbackName
	}
	return truncate(strings.Join(words, nameSeparator), maxSafeNameBytes)
}

// truncate cuts s to at most maxBytes without splitting a rune.
func truncate(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := 0
	for i := range s {
		if i > maxBytes {
			break
		}
		cut = i
	}
	return s[:cut]
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixBytes]
}
