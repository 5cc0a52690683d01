// Package fs provides filesystem-backed blob storage for generated reports.
package fs

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/fwojciec/prospector"
)

// Ensure BlobStore implements prospector.BlobStore at compile time.
var _ prospector.BlobStore = (*BlobStore)(nil)

// BlobStore publishes files by copying them into a directory served over
// HTTP and returning the public URL.
type BlobStore struct {
	publicDir string
	baseURL   string
}

// NewBlobStore creates a BlobStore copying files into publicDir. baseURL is
// the URL prefix under which publicDir is served.
func NewBlobStore(publicDir, baseURL string) *BlobStore {
	return &BlobStore{publicDir: publicDir, baseURL: baseURL}
}

// Upload copies localPath into the public directory and returns its URL.
func (b *BlobStore) Upload(ctx context.Context, localPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := filepath.Base(localPath)
	if name == "." || name == string(filepath.Separator) {
		return "", prospector.Errorf(prospector.EINVALID, "invalid file path %q", localPath)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(b.publicDir, 0755); err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(b.publicDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	base, err := url.Parse(b.baseURL)
	if err != nil {
		return "", prospector.Errorf(prospector.EINVALID, "invalid base URL %q: %v", b.baseURL, err)
	}
	return base.JoinPath(name).String(), nil
}
