// Package storage persists uploaded post images on the local filesystem.
package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrUnsupportedType is returned for uploads outside the image whitelist.
// Callers treat it as "no file provided" rather than a request failure.
var ErrUnsupportedType = errors.New("unsupported image type")

var allowedTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

// ImageStore writes and removes image files under a configured directory.
type ImageStore struct {
	dir string
}

// NewImageStore creates an ImageStore rooted at dir, creating it if needed.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &ImageStore{dir: dir}, nil
}

// Save writes the upload to disk under a collision-resistant name derived
// from the current time plus the original filename, and returns the logical
// path clients use to reference the image.
func (s *ImageStore) Save(originalName, contentType string, r io.Reader) (string, error) {
	if !allowedTypes[contentType] {
		return "", ErrUnsupportedType
	}

	name := time.Now().UTC().Format("20060102150405") + "-" + uuid.NewString()[:8] + "-" + filepath.Base(originalName)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", err
	}
	return "images/" + name, nil
}

// Remove deletes the file behind a logical image path. It is best-effort:
// failures (a file already gone, permissions) are logged and swallowed, so
// cleanup never blocks or fails a user-facing mutation.
func (s *ImageStore) Remove(path string) {
	if path == "" {
		return
	}
	// Only the filename matters; the logical path carries an images/ prefix
	// and must not be allowed to escape the storage root.
	name := filepath.Base(strings.TrimPrefix(path, "/"))
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to remove image file")
	}
}

// Dir returns the storage root directory.
func (s *ImageStore) Dir() string { return s.dir }

// List returns the filenames currently present in the storage root.
func (s *ImageStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
