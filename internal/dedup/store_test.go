package dedup

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryAdmit_FirstWins(t *testing.T) {
	s := NewStore()

	isNew, e := s.TryAdmit("fp-1", UniqueEntry{Label: "/users/{id}", Method: "GET", EntryID: "e1"})
	require.True(t, isNew)
	assert.Equal(t, uint32(1), e.Seq)
	assert.Equal(t, "fp-1", e.Fingerprint)
	assert.Equal(t, "e1", e.EntryID)

	// Second admission of the same fingerprint keeps the first representative.
	isNew, e = s.TryAdmit("fp-1", UniqueEntry{Label: "/users/{id}", Method: "GET", EntryID: "e2"})
	assert.False(t, isNew)
	assert.Equal(t, "e1", e.EntryID)
	assert.Equal(t, 1, e.Duplicates)

	isNew, e = s.TryAdmit("fp-2", UniqueEntry{Label: "/login", Method: "POST"})
	require.True(t, isNew)
	assert.Equal(t, uint32(2), e.Seq)

	assert.Equal(t, 2, s.Len())
}

func TestList_AdmissionOrder(t *testing.T) {
	s := NewStore()
	for i := 0; i < 5; i++ {
		s.TryAdmit(fmt.Sprintf("fp-%d", i), UniqueEntry{Label: fmt.Sprintf("/route/%d", i)})
	}

	entries := s.List()
	require.Len(t, entries, 5)
	for i, e := range entries {
		assert.Equal(t, uint32(i+1), e.Seq)
		assert.Equal(t, fmt.Sprintf("fp-%d", i), e.Fingerprint)
	}

	// The snapshot is detached from the store.
	entries[0].Label = "mutated"
	assert.NotEqual(t, "mutated", s.Get("fp-0").Label)
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.TryAdmit("fp-1", UniqueEntry{Label: "/a"})
	s.TryAdmit("fp-2", UniqueEntry{Label: "/b"})

	require.True(t, s.Clear("fp-1"))
	assert.False(t, s.Clear("fp-1"), "second clear reports absence")
	assert.Nil(t, s.Get("fp-1"))
	assert.Equal(t, 1, s.Len())

	// Re-admission after clear is fresh; sequence numbers are not reused.
	isNew, e := s.TryAdmit("fp-1", UniqueEntry{Label: "/a"})
	require.True(t, isNew)
	assert.Equal(t, uint32(3), e.Seq)
	assert.Equal(t, 0, e.Duplicates)

	entries := s.List()
	require.Len(t, entries, 2)
	assert.Equal(t, "fp-2", entries[0].Fingerprint)
	assert.Equal(t, "fp-1", entries[1].Fingerprint)
}

func TestReset(t *testing.T) {
	s := NewStore()
	s.TryAdmit("fp-1", UniqueEntry{})
	s.TryAdmit("fp-2", UniqueEntry{})

	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.List())

	isNew, e := s.TryAdmit("fp-1", UniqueEntry{})
	require.True(t, isNew)
	assert.Equal(t, uint32(1), e.Seq, "sequence restarts after reset")
}

func TestTryAdmit_Concurrent(t *testing.T) {
	s := NewStore()

	const workers = 32
	const keys = 10

	var newCount int64
	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for k := 0; k < keys; k++ {
				isNew, e := s.TryAdmit(fmt.Sprintf("fp-%d", k), UniqueEntry{EntryID: fmt.Sprintf("w%d-k%d", w, k)})
				require.NotNil(t, e)
				if isNew {
					mu.Lock()
					newCount++
					mu.Unlock()
				}
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, int64(keys), newCount, "each fingerprint admits exactly once")
	assert.Equal(t, keys, s.Len())

	seen := make(map[uint32]bool)
	for _, e := range s.List() {
		assert.False(t, seen[e.Seq], "sequence numbers are unique")
		seen[e.Seq] = true
		assert.Equal(t, workers-1, e.Duplicates)
	}
}
