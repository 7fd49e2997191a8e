package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// uploadsSubdir is the only directory managed by the store; Delete refuses
// to touch anything outside it.
const uploadsSubdir = "products"

// MaxUploadSize caps uploaded images at 2 MB, matching the create form.
const MaxUploadSize = 2 << 20

// LocalStore keeps uploaded images on the local public disk. Stored paths
// are relative to the base dir (e.g. "products/4f2c....jpg") and are served
// under the configured public path by the HTTP layer.
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates the store and its uploads directory.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(abs, uploadsSubdir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}
	return &LocalStore{baseDir: abs}, nil
}

// BaseDir returns the absolute storage root.
func (s *LocalStore) BaseDir() string {
	return s.baseDir
}

// Store writes an uploaded image under the managed uploads directory with a
// generated name and returns its relative path.
func (s *LocalStore) Store(file *multipart.FileHeader) (string, error) {
	if file.Size > MaxUploadSize {
		return "", fmt.Errorf("file too large: %d bytes (max %d)", file.Size, MaxUploadSize)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	name := uuid.NewString() + ext
	rel := path.Join(uploadsSubdir, name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.baseDir, uploadsSubdir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return rel, nil
}

// Delete removes a previously stored image. Paths that resolve outside the
// managed uploads directory are rejected; a missing file is not an error.
func (s *LocalStore) Delete(relPath string) error {
	rel := path.Clean(relPath)
	if rel != relPath || !strings.HasPrefix(rel, uploadsSubdir+"/") {
		return fmt.Errorf("path %q is outside managed storage", relPath)
	}

	err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
