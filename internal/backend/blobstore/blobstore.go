package blobstore

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var ErrBlobNotFound = errors.New("blob not found")

// BlobStore persists opaque binary objects under generated relative paths.
type BlobStore interface {
	// Put stores data under namespace and returns the generated path "<namespace>/<name><ext>".
	Put(ctx context.Context, namespace string, data []byte) (string, error)
	// Get returns the stored bytes or ErrBlobNotFound.
	Get(ctx context.Context, blobPath string) ([]byte, error)
	// Delete removes the blob. It reports false without error when nothing was stored at path.
	Delete(ctx context.Context, blobPath string) (bool, error)
	Exists(ctx context.Context, blobPath string) (bool, error)
	// URLFor returns the public URL of the blob.
	URLFor(blobPath string) string
}

// newBlobPath generates a collision free name and derives the extension from the content.
func newBlobPath(namespace string, data []byte) string {
	extension := mimetype.Detect(data).Extension()
	return path.Join(strings.Trim(namespace, "/"), uuid.NewString()+extension)
}

// validBlobPath rejects absolute paths and paths leaving the store root.
func validBlobPath(blobPath string) bool {
	if blobPath == "" || strings.HasPrefix(blobPath, "/") {
		return false
	}
	cleaned := path.Clean(blobPath)
	return cleaned != "." && cleaned != ".." && !strings.HasPrefix(cleaned, "../")
}

func joinURL(prefix, blobPath string) string {
	return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(blobPath, "/")
}
