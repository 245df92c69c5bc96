package preview

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophattach/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Lifecycle(t *testing.T) {
	s := NewStore()
	f := media.FromBytes("a.png", "image/png", []byte("png"))

	ref := s.Create(f)
	require.True(t, strings.HasPrefix(ref, Scheme))
	assert.Equal(t, 1, s.Live())

	got, ok := s.Open(ref)
	require.True(t, ok)
	assert.Equal(t, f, got)

	got, ok = s.Open(strings.TrimPrefix(ref, Scheme))
	require.True(t, ok, "bare id is accepted")
	assert.Equal(t, f.Name, got.Name)

	require.NoError(t, s.Revoke(ref))
	assert.Equal(t, 0, s.Live())

	_, ok = s.Open(ref)
	assert.False(t, ok)

	assert.ErrorIs(t, s.Revoke(ref), ErrRevoked)
}

func TestStore_RevokeUnknown(t *testing.T) {
	s := NewStore()
	assert.ErrorIs(t, s.Revoke("blob:nope"), ErrUnknown)
}

func TestStore_RefsAreUnique(t *testing.T) {
	s := NewStore()
	f := media.FromBytes("a.png", "image/png", nil)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		ref := s.Create(f)
		_, dup := seen[ref]
		require.False(t, dup)
		seen[ref] = struct{}{}
	}
	assert.Equal(t, 100, s.Live())
}

func TestStore_ConcurrentRevokeSucceedsOnce(t *testing.T) {
	s := NewStore()
	ref := s.Create(media.File{Name: "x"})

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Revoke(ref) == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
}

func TestStore_TombstonesExpire(t *testing.T) {
	s := NewStoreWithTTL(50 * time.Millisecond)

	refs := make([]string, 32)
	for i := range refs {
		refs[i] = s.Create(media.File{Name: "x"})
		require.NoError(t, s.Revoke(refs[i]))
	}
	assert.ErrorIs(t, s.Revoke(refs[0]), ErrRevoked)

	require.Eventually(t, func() bool {
		for _, ref := range refs {
			if !errors.Is(s.Revoke(ref), ErrUnknown) {
				return false
			}
		}
		return true
	}, 2*time.Second, 20*time.Millisecond)
	assert.Zero(t, s.Live())
}
