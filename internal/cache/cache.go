package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// Entry is one memoized diff result.
type Entry struct {
	Key       string    `json:"key"`
	Paths     []string  `json:"paths"`
	CreatedAt time.Time `json:"createdAt"`
}

// Memo is a concurrency-safe in-memory map of diff results.
type Memo struct {
	mu      sync.Mutex
	enabled bool
	entries map[string]Entry
	hits    int
	misses  int
}

// New creates a Memo. A disabled Memo misses on every Get and drops Puts.
func New(enabled bool) *Memo {
	return &Memo{
		enabled: enabled,
		entries: make(map[string]Entry),
	}
}

// Get returns a copy of the paths stored under key.
func (m *Memo) Get(key string) ([]string, bool) {
	if m == nil || !m.enabled {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[HashKey(key)]
	if !ok {
		m.misses++
		return nil, false
	}
	m.hits++
	return clone(e.Paths), true
}

// Put stores paths under key, replacing any previous entry.
func (m *Memo) Put(key string, paths []string) {
	if m == nil || !m.enabled {
		return
	}
	h := HashKey(key)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[h] = Entry{Key: h, Paths: clone(paths), CreatedAt: time.Now()}
}

// Clear drops all entries and resets the counters.
func (m *Memo) Clear() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]Entry)
	m.hits, m.misses = 0, 0
}

// Stats describes memo usage.
type Stats struct {
	Entries int `json:"entries"`
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
}

// GetStats returns current usage counters.
func (m *Memo) GetStats() Stats {
	if m == nil {
		return Stats{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{Entries: len(m.entries), Hits: m.hits, Misses: m.misses}
}

// Enabled returns whether memoization is enabled.
func (m *Memo) Enabled() bool {
	return m != nil && m.enabled
}

// HashKey creates a SHA-256 hash of the given key material.
func HashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", h)
}

// BuildKey creates a memo key from the diff inputs.
func BuildKey(from, to, scope, diffFilter string) string {
	return fmt.Sprintf("%s\x00%s\x00%s\x00%s", from, to, scope, diffFilter)
}

func clone(paths []string) []string {
	if paths == nil {
		return nil
	}
	out := make([]string, len(paths))
	copy(out, paths)
	return out
}
