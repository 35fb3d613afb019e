package blobstore

import (
	"bytes"
	"context"
	"sync"
)

type MemoryStore struct {
	mu           sync.RWMutex
	blobs        map[string][]byte
	publicPrefix string
}

func NewMemoryStore(publicPrefix string) *MemoryStore {
	return &MemoryStore{
		blobs:        make(map[string][]byte),
		publicPrefix: publicPrefix,
	}
}

func (s *MemoryStore) Put(_ context.Context, namespace string, data []byte) (string, error) {
	blobPath := newBlobPath(namespace, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[blobPath] = bytes.Clone(data)
	return blobPath, nil
}

func (s *MemoryStore) Get(_ context.Context, blobPath string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[blobPath]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return bytes.Clone(data), nil
}

func (s *MemoryStore) Delete(_ context.Context, blobPath string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[blobPath]; !ok {
		return false, nil
	}
	delete(s.blobs, blobPath)
	return true, nil
}

func (s *MemoryStore) Exists(_ context.Context, blobPath string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.blobs[blobPath]
	return ok, nil
}

func (s *MemoryStore) URLFor(blobPath string) string {
	return joinURL(s.publicPrefix, blobPath)
}

// Len returns the number of stored blobs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
