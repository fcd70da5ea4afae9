package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocalStore_SetThenGet(t *testing.T) {
	s := NewLocalStore(time.Minute)
	defer s.Shutdown()

	s.Set("k", 42)
	v, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestLocalStore_MissingKey(t *testing.T) {
	s := NewLocalStore(time.Minute)
	defer s.Shutdown()

	_, ok := s.Get("absent")
	assert.False(t, ok)
}

func TestLocalStore_ExpiresEntriesPastTTL(t *testing.T) {
	s := NewLocalStore(20 * time.Millisecond)
	defer s.Shutdown()

	s.Set("k", "v")
	time.Sleep(30 * time.Millisecond)

	_, ok := s.Get("k")
	assert.False(t, ok)
}

func TestLocalStore_DeleteRemovesImmediately(t *testing.T) {
	s := NewLocalStore(time.Minute)
	defer s.Shutdown()

	s.Set("k", "v")
	s.Delete("k")

	_, ok := s.Get("k")
	assert.False(t, ok)
}

func TestLocalStore_SetResetsTTLClock(t *testing.T) {
	s := NewLocalStore(30 * time.Millisecond)
	defer s.Shutdown()

	s.Set("k", "v1")
	time.Sleep(20 * time.Millisecond)
	s.Set("k", "v2")
	time.Sleep(20 * time.Millisecond)

	v, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
}
