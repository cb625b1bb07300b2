// Package upload stores uploaded images on local disk and serves them back
// under the public /uploads/ URL prefix.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the public path under which stored files are served.
const URLPrefix = "/uploads/"

var unsafeChars = regexp.MustCompile(`[^\w\-]+`)

// Storage writes uploaded files into a single directory.
type Storage struct {
	dir string
}

// NewStorage ensures dir exists and returns a Storage rooted there.
func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// Dir returns the directory files are stored in.
func (s *Storage) Dir() string { return s.dir }

// Save writes the uploaded file under a sanitized, uuid-suffixed name and
// returns its public URL.
func (s *Storage) Save(file *multipart.FileHeader, baseName string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	name := unsafeChars.ReplaceAllString(strings.TrimSpace(baseName), "_")
	if name == "" {
		name = "upload"
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".png"
	}
	filename := fmt.Sprintf("%s-%s%s", name, uuid.NewString(), ext)

	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return URLPrefix + filename, nil
}

// Remove deletes the file behind a public URL. URLs outside the uploads
// prefix (external images) and already-absent files are silently ignored.
func (s *Storage) Remove(url string) error {
	if !strings.HasPrefix(url, URLPrefix) {
		return nil
	}
	// path.Base strips any traversal the URL might smuggle in.
	name := path.Base(strings.TrimPrefix(url, URLPrefix))
	if name == "." || name == "/" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload: %w", err)
	}
	return nil
}
