// Package storage provides the disk-backed upload file store.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// UploadStore keeps uploaded files in a single flat directory. Stored names
// are sanitized and prefixed with a nanosecond timestamp so repeated uploads
// of the same filename never collide.
type UploadStore struct {
	dir string
}

// NewUploadStore creates the upload directory if needed and returns the store.
func NewUploadStore(dir string) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &UploadStore{dir: dir}, nil
}

// Dir returns the upload directory path.
func (u *UploadStore) Dir() string {
	return u.dir
}

// Save writes r to a new file and returns the stored filename. maxBytes > 0
// limits how much is written; exceeding it is an error and the partial file
// is removed.
func (u *UploadStore) Save(filename string, r io.Reader, maxBytes int64) (string, error) {
	stored := fmt.Sprintf("%d-%s", time.Now().UnixNano(), sanitizeFilename(filename))
	path := filepath.Join(u.dir, stored)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if maxBytes > 0 {
		// Read one byte past the limit to distinguish "exactly at" from "over".
		n, err := io.Copy(f, io.LimitReader(r, maxBytes+1))
		if err != nil {
			_ = os.Remove(path)
			return "", fmt.Errorf("write upload file: %w", err)
		}
		if n > maxBytes {
			_ = os.Remove(path)
			return "", fmt.Errorf("file exceeds maximum size of %d bytes", maxBytes)
		}
	} else {
		if _, err := io.Copy(f, r); err != nil {
			_ = os.Remove(path)
			return "", fmt.Errorf("write upload file: %w", err)
		}
	}
	return stored, nil
}

// Path resolves a stored filename inside the upload directory. Names carrying
// path separators or traversal elements are rejected.
func (u *UploadStore) Path(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename is empty")
	}
	if filepath.Base(filename) != filename || strings.Contains(filename, "..") {
		return "", fmt.Errorf("invalid filename: %s", filename)
	}
	return filepath.Join(u.dir, filename), nil
}

// Exists reports whether a stored filename refers to a regular file.
func (u *UploadStore) Exists(filename string) bool {
	path, err := u.Path(filename)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// sanitizeFilename strips directory components and replaces characters that
// are unsafe in a flat upload directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 || b.String() == "." || b.String() == ".." {
		return "upload"
	}
	return b.String()
}
