package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_SpawnNeverRecycles(t *testing.T) {
	s := NewStore()

	a := s.Spawn()
	s.Despawn(a)
	b := s.Spawn()

	assert.NotEqual(t, a, b, "despawned slots must not be reused")
	assert.False(t, s.Alive(a))
	assert.True(t, s.Alive(b))
	assert.Equal(t, 2, s.Count())
}

func TestStore_AliveRejectsStaleGeneration(t *testing.T) {
	s := NewStore()
	h := s.Spawn()
	assert.True(t, s.Alive(h))

	stale := h
	stale.generation++
	assert.False(t, s.Alive(stale))
}

func TestStore_AliveRejectsUnknownHandle(t *testing.T) {
	s := NewStore()
	assert.False(t, s.Alive(Handle{index: 9, generation: 1}))
}

func TestStore_DespawnIsIdempotent(t *testing.T) {
	s := NewStore()
	h := s.Spawn()
	s.Despawn(h)
	s.Despawn(h)
	assert.False(t, s.Alive(h))
}

func TestHandle_IsZero(t *testing.T) {
	var zero Handle
	assert.True(t, zero.IsZero())

	s := NewStore()
	h := s.Spawn()
	assert.False(t, h.IsZero())
}
