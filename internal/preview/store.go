// Package preview manages local preview references: short-lived handles to a
// selected file's bytes used to render it before a durable URL exists.
//
// References look like "blob:<uuid>". Each one is created once and must be
// revoked exactly once. A second revoke reports ErrRevoked while the
// tombstone lasts and ErrUnknown after it expires.
package preview

import (
	"errors"
	"strings"
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophattach/internal/media"
)

const Scheme = "blob:"

// DefaultTombstoneTTL is how long a revoked reference is remembered.
const DefaultTombstoneTTL = 10 * time.Minute

var (
	ErrRevoked = errors.New("preview reference already revoked")
	ErrUnknown = errors.New("unknown preview reference")
)

// Store is an in-memory registry of live preview references.
// It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	live    map[string]media.File
	revoked *ttlworker.Cache[string, bool]
}

func NewStore() *Store {
	return NewStoreWithTTL(DefaultTombstoneTTL)
}

// NewStoreWithTTL builds a store whose revoked-reference tombstones expire
// after ttl.
func NewStoreWithTTL(ttl time.Duration) *Store {
	return &Store{
		live:    make(map[string]media.File),
		revoked: ttlworker.NewCache[string, bool](ttl),
	}
}

// Create registers f and returns a new preview reference for it.
func (s *Store) Create(f media.File) string {
	ref := Scheme + uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[ref] = f

	return ref
}

// Revoke releases the reference.
func (s *Store) Revoke(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.revoked.Get(ref) {
		return ErrRevoked
	}
	if _, ok := s.live[ref]; !ok {
		return ErrUnknown
	}

	delete(s.live, ref)
	s.revoked.Set(ref, true)
	return nil
}

// Open returns the file behind a live reference. The reference may be given
// with or without the "blob:" prefix.
func (s *Store) Open(ref string) (media.File, bool) {
	if !strings.HasPrefix(ref, Scheme) {
		ref = Scheme + ref
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.live[ref]
	return f, ok
}

// Live reports how many references are currently unreleased.
func (s *Store) Live() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.live)
}
