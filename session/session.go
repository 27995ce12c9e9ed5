// Package session implements the Session Registry: SID minting, expiry
// tracking, serialized mint/refresh, and a background sweep.
//
// Mint/refresh lookups are serialized by a single mutex, but each entry's
// persistent parameter map is independently safe for concurrent access, so
// the lock is never held while a request is actually using its session.
package session

import (
	"crypto/rand"
	"sync"
	"time"
)

const sidAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
const sidLength = 20

// Store is the session-scoped, concurrency-safe persistent parameter map.
// It satisfies httpctx.PersistentStore without importing that package,
// avoiding an import cycle between session and httpctx.
type Store struct {
	mu sync.RWMutex
	m  map[string]string
}

func newStore() *Store { return &Store{m: make(map[string]string)} }

func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}

func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
}

// entry is a single session's state: its deadline and persistent store.
type entry struct {
	deadline time.Time
	store    *Store
	created  time.Time
}

// Registry mints SIDs, tracks per-session expiry, and sweeps expired
// entries on a timer. Mint/refresh is serialized by mu; each entry's
// persistent store is independently safe for concurrent reader/writer
// access so the lock is never held across a script engine invocation.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	timeout time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRegistry constructs a Registry whose sessions expire after timeout of
// inactivity.
func NewRegistry(timeout time.Duration) *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		timeout: timeout,
		stopCh:  make(chan struct{}),
	}
}

// Resolve looks up sid. If sid is empty, unknown, or expired, it mints a
// fresh SID and entry; otherwise it refreshes the existing entry's deadline.
// It returns the effective SID, that session's persistent store, and
// whether a new SID was minted (the caller must then emit a Set-Cookie).
func (r *Registry) Resolve(sid string) (effectiveSID string, store *Store, minted bool) {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if sid != "" {
		if e, ok := r.entries[sid]; ok && now.Before(e.deadline) {
			e.deadline = now.Add(r.timeout)
			return sid, e.store, false
		}
	}

	newSID := r.mintLocked()
	r.entries[newSID] = &entry{
		deadline: now.Add(r.timeout),
		store:    newStore(),
		created:  now,
	}
	return newSID, r.entries[newSID].store, true
}

// mintLocked generates a fresh, currently-unused SID. Caller must hold mu.
func (r *Registry) mintLocked() string {
	for {
		sid := randomSID()
		if _, exists := r.entries[sid]; !exists {
			return sid
		}
	}
}

func randomSID() string {
	buf := make([]byte, sidLength)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand failing is not a recoverable condition
	}
	out := make([]byte, sidLength)
	for i, b := range buf {
		out[i] = sidAlphabet[int(b)%len(sidAlphabet)]
	}
	return string(out)
}

// StartSweep runs a background goroutine that evicts expired entries every
// period, until Stop is called. The sweep is fire-and-forget: any failure
// is swallowed and simply retried on the next tick.
func (r *Registry) StartSweep(period time.Duration, onLog func(evicted int)) {
	ticker := time.NewTicker(period)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-r.stopCh:
				return
			case <-ticker.C:
				n := r.sweepOnce()
				if onLog != nil {
					onLog(n)
				}
			}
		}
	}()
}

func (r *Registry) sweepOnce() int {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for sid, e := range r.entries {
		if now.After(e.deadline) || now.Equal(e.deadline) {
			delete(r.entries, sid)
			evicted++
		}
	}
	return evicted
}

// Stop halts the background sweep goroutine.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}
