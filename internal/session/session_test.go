package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type conv struct {
	Step int
	Note string
}

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore[conv](time.Minute)
	defer s.Close()

	_, ok := s.Get(7)
	assert.False(t, ok)
	assert.False(t, s.Has(7))

	s.Set(7, conv{Step: 2, Note: "belum dicek"})
	got, ok := s.Get(7)
	require.True(t, ok)
	assert.Equal(t, 2, got.Step)
	assert.True(t, s.Has(7))

	s.Delete(7)
	_, ok = s.Get(7)
	assert.False(t, ok)
}

func TestStoreExpiry(t *testing.T) {
	s := NewStore[conv](20 * time.Millisecond)
	defer s.Close()

	s.Set(1, conv{Step: 1})
	time.Sleep(50 * time.Millisecond)

	_, ok := s.Get(1)
	assert.False(t, ok)
	assert.False(t, s.Has(1))
}

func TestStoreGetSlidesExpiry(t *testing.T) {
	s := NewStore[conv](60 * time.Millisecond)
	defer s.Close()

	s.Set(1, conv{Step: 1})
	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		_, ok := s.Get(1)
		require.True(t, ok, "session expired despite activity")
	}
}

func TestStoreSweepDropsIdleEntries(t *testing.T) {
	s := NewStore[conv](time.Minute)
	defer s.Close()

	s.Set(1, conv{})
	s.Set(2, conv{})
	s.sweep(time.Now().Add(2 * time.Minute))

	assert.Equal(t, 0, s.Len())
}

func TestStoreDefaultTTL(t *testing.T) {
	s := NewStore[conv](0)
	defer s.Close()
	assert.Equal(t, DefaultTTL, s.ttl)
}
