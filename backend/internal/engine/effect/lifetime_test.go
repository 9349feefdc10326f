package effect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nat20/combatcore/backend/internal/engine/entity"
)

func TestLifetime_PermanentNeverExpires(t *testing.T) {
	l := PermanentLifetime()
	assert.False(t, l.IsExpired())

	store := entity.NewStore()
	e := store.Spawn()
	l = l.Advance(e, StartOfTurn)
	assert.False(t, l.IsExpired())
}

func TestLifetime_AtTurnBoundaryCountsDownOnMatchingBoundary(t *testing.T) {
	store := entity.NewStore()
	e := store.Spawn()
	l := NewAtTurnBoundary(e, StartOfTurn, 2)

	l = l.Advance(e, StartOfTurn)
	assert.False(t, l.IsExpired())
	assert.Equal(t, 1, l.Remaining)

	l = l.Advance(e, StartOfTurn)
	assert.True(t, l.IsExpired())
}

func TestLifetime_AdvanceIgnoresMismatchedEntityOrBoundary(t *testing.T) {
	store := entity.NewStore()
	e1 := store.Spawn()
	e2 := store.Spawn()
	l := NewAtTurnBoundary(e1, StartOfTurn, 1)

	l = l.Advance(e2, StartOfTurn)
	assert.Equal(t, 1, l.Remaining)

	l = l.Advance(e1, EndOfTurn)
	assert.Equal(t, 1, l.Remaining)

	l = l.Advance(e1, StartOfTurn)
	assert.True(t, l.IsExpired())
}

func TestLifetime_ExtendedWithKeepsLongerRemaining(t *testing.T) {
	store := entity.NewStore()
	e := store.Spawn()
	short := NewAtTurnBoundary(e, StartOfTurn, 1)
	long := NewAtTurnBoundary(e, StartOfTurn, 5)

	assert.Equal(t, 5, short.extendedWith(long).Remaining)
	assert.Equal(t, 5, long.extendedWith(short).Remaining)
}
