package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ContentStore keeps binary objects and hands back a URL they can be fetched from.
type ContentStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
	Delete(ctx context.Context, name string) error
}

// LocalStore writes objects to a directory that the HTTP server exposes under
// publicPrefix.
type LocalStore struct {
	dir          string
	baseURL      string
	publicPrefix string
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir, baseURL, publicPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &LocalStore{
		dir:          dir,
		baseURL:      strings.TrimRight(baseURL, "/"),
		publicPrefix: "/" + strings.Trim(publicPrefix, "/"),
	}, nil
}

// Dir is the directory objects are written to.
func (s *LocalStore) Dir() string { return s.dir }

// Save writes data under name and returns its public URL.
func (s *LocalStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := filepath.Base(name)
	if clean != name || clean == "." || clean == string(filepath.Separator) {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	if err := os.WriteFile(filepath.Join(s.dir, clean), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write object %s: %w", clean, err)
	}
	return s.baseURL + path.Join(s.publicPrefix, clean), nil
}

// Delete removes name; a missing object is not an error.
func (s *LocalStore) Delete(ctx context.Context, name string) error {
	if err := os.Remove(filepath.Join(s.dir, filepath.Base(name))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object %s: %w", name, err)
	}
	return nil
}

// ImageObjectName picks a random object name keeping a normalised image extension.
// Unknown extensions are stored as jpg.
func ImageObjectName(original string) string {
	ext := "jpg"
	switch strings.ToLower(filepath.Ext(original)) {
	case ".png":
		ext = "png"
	case ".gif":
		ext = "gif"
	case ".webp":
		ext = "webp"
	}
	return uuid.NewString() + "." + ext
}
