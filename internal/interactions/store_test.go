package interactions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAndGet(t *testing.T) {
	s := NewStore()
	s.Seed(map[int]int{5: 3, 7: 0}, nil)

	assert.Equal(t, LikeState{Liked: false, Count: 3}, s.Get(5))
	assert.Equal(t, LikeState{Liked: false, Count: 0}, s.Get(7))
	assert.Equal(t, LikeState{}, s.Get(999))
}

func TestSeedLikedByMe(t *testing.T) {
	s := NewStore()
	s.Seed(map[int]int{5: 3}, []int{5})
	assert.Equal(t, LikeState{Liked: true, Count: 3}, s.Get(5))
}

func TestToggleFlipsOptimistically(t *testing.T) {
	s := NewStore()
	s.SeedOne(5, 3)

	dir, ok := s.Toggle(5)
	require.True(t, ok)
	assert.Equal(t, 1, dir)
	assert.Equal(t, LikeState{Liked: true, Count: 4}, s.Get(5))
	assert.True(t, s.Pending(5))
}

func TestToggleRefusedWhileInFlight(t *testing.T) {
	s := NewStore()
	s.SeedOne(5, 3)

	_, ok := s.Toggle(5)
	require.True(t, ok)
	_, ok = s.Toggle(5)
	assert.False(t, ok)
	// The refused toggle changed nothing.
	assert.Equal(t, LikeState{Liked: true, Count: 4}, s.Get(5))

	// A different entity is unaffected by 5's in-flight request.
	s.SeedOne(6, 1)
	_, ok = s.Toggle(6)
	assert.True(t, ok)
}

func TestLikeThenUnlikeReturnsToSeed(t *testing.T) {
	s := NewStore()
	s.SeedOne(5, 3)

	dir, ok := s.Toggle(5)
	require.True(t, ok)
	require.Equal(t, 1, dir)
	s.Confirm(5)

	dir, ok = s.Toggle(5)
	require.True(t, ok)
	require.Equal(t, 0, dir)
	s.Confirm(5)

	assert.Equal(t, LikeState{Liked: false, Count: 3}, s.Get(5))
}

func TestConfirmKeepsOptimisticValue(t *testing.T) {
	s := NewStore()
	s.SeedOne(5, 3)
	s.Toggle(5)
	s.Confirm(5)

	assert.Equal(t, LikeState{Liked: true, Count: 4}, s.Get(5))
	assert.False(t, s.Pending(5))
}

func TestRollbackRestoresSnapshot(t *testing.T) {
	s := NewStore()
	s.SeedOne(5, 3)
	s.Toggle(5)
	s.Rollback(5)

	assert.Equal(t, LikeState{Liked: false, Count: 3}, s.Get(5))
	assert.False(t, s.Pending(5))

	// Toggling works again after the rollback.
	dir, ok := s.Toggle(5)
	assert.True(t, ok)
	assert.Equal(t, 1, dir)
}

func TestRollbackWithoutPendingIsNoop(t *testing.T) {
	s := NewStore()
	s.SeedOne(5, 3)
	s.Rollback(5)
	assert.Equal(t, LikeState{Liked: false, Count: 3}, s.Get(5))
}

func TestToggleUnknownEntity(t *testing.T) {
	s := NewStore()

	dir, ok := s.Toggle(42)
	require.True(t, ok)
	assert.Equal(t, 1, dir)
	assert.Equal(t, LikeState{Liked: true, Count: 1}, s.Get(42))
}

func TestForget(t *testing.T) {
	s := NewStore()
	s.SeedOne(5, 3)
	s.Toggle(5)
	s.Forget(5)

	assert.Equal(t, LikeState{}, s.Get(5))
	assert.False(t, s.Pending(5))
}
