package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FilesystemStore keeps blobs below a root directory that is served statically at PublicPrefix.
type FilesystemStore struct {
	root         string
	publicPrefix string
}

func NewFilesystemStore(root, publicPrefix string) (*FilesystemStore, error) {
	if root == "" {
		return nil, errors.New("filesystem blob store requires a root directory")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FilesystemStore{root: root, publicPrefix: publicPrefix}, nil
}

// Root returns the directory blobs are written to.
func (s *FilesystemStore) Root() string {
	return s.root
}

func (s *FilesystemStore) PublicPrefix() string {
	return s.publicPrefix
}

func (s *FilesystemStore) Put(_ context.Context, namespace string, data []byte) (string, error) {
	blobPath := newBlobPath(namespace, data)
	target := s.absolute(blobPath)

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", err
	}
	return blobPath, nil
}

func (s *FilesystemStore) Get(_ context.Context, blobPath string) ([]byte, error) {
	if !validBlobPath(blobPath) {
		return nil, ErrBlobNotFound
	}
	data, err := os.ReadFile(s.absolute(blobPath))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrBlobNotFound
	}
	return data, err
}

func (s *FilesystemStore) Delete(_ context.Context, blobPath string) (bool, error) {
	if !validBlobPath(blobPath) {
		return false, fmt.Errorf("invalid blob path %q", blobPath)
	}
	err := os.Remove(s.absolute(blobPath))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *FilesystemStore) Exists(_ context.Context, blobPath string) (bool, error) {
	if !validBlobPath(blobPath) {
		return false, nil
	}
	info, err := os.Stat(s.absolute(blobPath))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

func (s *FilesystemStore) URLFor(blobPath string) string {
	return joinURL(s.publicPrefix, blobPath)
}

func (s *FilesystemStore) absolute(blobPath string) string {
	return filepath.Join(s.root, filepath.FromSlash(blobPath))
}
