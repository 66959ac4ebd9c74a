// Package storage holds the Uploader backends for document attachments.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	portssvc "github.com/SscSPs/disposal_backoffice/internal/core/ports/services"
)

// LocalUploader writes files into a directory that is served back under baseURL.
type LocalUploader struct {
	dir     string
	baseURL string
}

var _ portssvc.Uploader = (*LocalUploader)(nil)

// NewLocalUploader creates dir if needed.
func NewLocalUploader(dir, baseURL string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalUploader{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload stores r under name, which must be a bare file name. Existing files are never overwritten.
func (u *LocalUploader) Upload(ctx context.Context, name string, _ string, r io.Reader) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(u.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return u.baseURL + "/" + url.PathEscape(name), nil
}
