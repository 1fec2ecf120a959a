package cache

import (
	"context"
	gosync "sync"
	"time"

	"github.com/ledgerlink/backend/internal/domain/sync"
)

// entry represents a suppressed (resource, category) pair with expiration
type entry struct {
	expiresAt time.Time
}

// InMemoryEchoStore implements sync.EchoSuppressor using an in-memory
// map with periodic eviction. Suitable for single-instance deployments
// and testing.
type InMemoryEchoStore struct {
	mu        gosync.RWMutex
	entries   map[string]entry
	stopChan  chan struct{}
	wg        gosync.WaitGroup
	closeOnce gosync.Once
}

// NewInMemoryEchoStore creates a new in-memory echo suppression store.
// It starts a background goroutine to clean up expired entries.
func NewInMemoryEchoStore() *InMemoryEchoStore {
	store := &InMemoryEchoStore{
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Register marks (resourceID, category) as a self-originated write
func (s *InMemoryEchoStore) Register(ctx context.Context, resourceID string, category sync.EventCategory, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[sync.EchoKey(resourceID, category)] = entry{
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// IsSuppressed reports whether an inbound event for the pair should be
// discarded as an echo of our own write
func (s *InMemoryEchoStore) IsSuppressed(ctx context.Context, resourceID string, category sync.EventCategory) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[sync.EchoKey(resourceID, category)]
	if !exists {
		return false, nil
	}
	if time.Now().After(e.expiresAt) {
		return false, nil // Expired, treat as not suppressed
	}
	return true, nil
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times.
func (s *InMemoryEchoStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (s *InMemoryEchoStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes expired entries from the store
func (s *InMemoryEchoStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

// Size returns the number of entries in the store (for testing/monitoring)
func (s *InMemoryEchoStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure InMemoryEchoStore implements EchoSuppressor
var _ sync.EchoSuppressor = (*InMemoryEchoStore)(nil)
