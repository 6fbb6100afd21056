package challenge

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gokatarajesh/ingenieras/internal/fsstore"
)

// Repository stores one directory per challenge, each holding a single HTML document.
type Repository struct {
	root string
}

// NewRepository ensures root exists and returns a repository rooted there.
func NewRepository(root string) (*Repository, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create challenges dir: %w", err)
	}
	return &Repository{root: root}, nil
}

// DocumentPath resolves where the document for id lives.
func (r *Repository) DocumentPath(id string) string {
	return filepath.Join(r.root, id, DocumentName)
}

// Publish writes html as the document for id, replacing any previous content.
func (r *Repository) Publish(id string, html []byte) (string, error) {
	if err := fsstore.ValidateName(id); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Join(r.root, id), 0o755); err != nil {
		return "", fmt.Errorf("create challenge dir: %w", err)
	}
	path := r.DocumentPath(id)
	if err := fsstore.WriteFileAtomic(path, html, 0o644); err != nil {
		return "", fmt.Errorf("write challenge document: %w", err)
	}
	return path, nil
}

// Fetch returns the document bytes for id.
func (r *Repository) Fetch(id string) ([]byte, error) {
	if err := fsstore.ValidateName(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.DocumentPath(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read challenge document: %w", err)
	}
	return data, nil
}

// Delete removes the whole challenge directory. A missing directory is not an error.
func (r *Repository) Delete(id string) error {
	if err := fsstore.ValidateName(id); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(r.root, id)); err != nil {
		return fmt.Errorf("remove challenge dir: %w", err)
	}
	return nil
}
