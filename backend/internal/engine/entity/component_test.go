package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentMap_GetSetHasDelete(t *testing.T) {
	s := NewStore()
	h := s.Spawn()

	hp := NewComponentMap[int]()
	_, ok := hp.Get(h)
	assert.False(t, ok)
	assert.False(t, hp.Has(h))

	hp.Set(h, 12)
	v, ok := hp.Get(h)
	require.True(t, ok)
	assert.Equal(t, 12, v)
	assert.True(t, hp.Has(h))

	hp.Delete(h)
	assert.False(t, hp.Has(h))
}

func TestComponentMap_MustGetPanicsWhenAbsent(t *testing.T) {
	s := NewStore()
	h := s.Spawn()
	hp := NewComponentMap[int]()

	assert.Panics(t, func() {
		hp.MustGet(h)
	})
}

func TestComponentMap_Mutate(t *testing.T) {
	s := NewStore()
	h := s.Spawn()
	hp := NewComponentMap[int]()
	hp.Set(h, 10)

	hp.Mutate(h, func(v *int) { *v -= 3 })

	assert.Equal(t, 7, hp.MustGet(h))
}

func TestComponentMap_KeyedByExactHandle(t *testing.T) {
	s := NewStore()
	a := s.Spawn()
	s.Despawn(a)
	b := s.Spawn()

	hp := NewComponentMap[string]()
	hp.Set(a, "stale")

	_, ok := hp.Get(b)
	assert.False(t, ok, "distinct handles (even same index, different generation) must not alias components")
}
