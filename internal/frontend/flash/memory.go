package flash

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	message string
	expires time.Time
}

// MemoryStore keeps messages in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, sessionID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()
	s.entries[sessionID] = memoryEntry{message: message, expires: s.now().Add(MessageTTL)}
	return nil
}

func (s *MemoryStore) Pop(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	if !ok {
		return "", nil
	}
	delete(s.entries, sessionID)
	if s.now().After(entry.expires) {
		return "", nil
	}
	return entry.message, nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) evictExpired() {
	now := s.now()
	for id, entry := range s.entries {
		if now.After(entry.expires) {
			delete(s.entries, id)
		}
	}
}
