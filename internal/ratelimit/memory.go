package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Store. Entries are never evicted, so the
// map grows with the number of distinct client keys seen.
//
// Windows are fixed, not sliding: a client can get up to twice the capacity
// through in a short span straddling a reset.
type MemoryStore struct {
	policy  Policy
	now     func() time.Time
	mu      sync.Mutex
	entries map[string]*RateLimitEntry
}

// Compile-time check that MemoryStore satisfies the Store interface.
var _ Store = (*MemoryStore)(nil)

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates a store enforcing policy.
func NewMemoryStore(policy Policy, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		policy:  policy.normalized(),
		now:     time.Now,
		entries: make(map[string]*RateLimitEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckAndConsume admits the request and counts it, or denies it without
// counting. It never returns an error.
func (s *MemoryStore) CheckAndConsume(ctx context.Context, key string) (bool, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || now.After(entry.ResetAt) {
		s.entries[key] = &RateLimitEntry{Count: 1, ResetAt: now.Add(s.policy.Window)}
		return true, nil
	}

	if entry.Count < s.policy.Capacity {
		entry.Count++
		return true, nil
	}

	return false, nil
}

// Entry returns a copy of the bookkeeping for key.
func (s *MemoryStore) Entry(key string) (RateLimitEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return RateLimitEntry{}, false
	}
	return *e, true
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
