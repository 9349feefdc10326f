package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nat20/combatcore/backend/internal/engine/modifier"
	"github.com/nat20/combatcore/backend/pkg/dice"
	"github.com/nat20/combatcore/backend/pkg/rng"
)

func TestSetRoll_MinMax(t *testing.T) {
	set, err := dice.NewDiceSet(2, 6)
	require.NoError(t, err)
	r := NewSetRoll(set)
	r.Modifiers.AddInt(modifier.Base, 3)

	assert.Equal(t, 5, r.Min())  // 2 + 3
	assert.Equal(t, 15, r.Max()) // 12 + 3
}

func TestSetRoll_Roll(t *testing.T) {
	set, err := dice.NewDiceSet(2, 6)
	require.NoError(t, err)
	r := NewSetRoll(set)
	r.Modifiers.AddInt(modifier.Base, 2)

	result := r.Roll(rng.NewScripted(3, 5)) // faces 4, 6
	assert.Equal(t, []int{4, 6}, result.Dice)
	assert.Equal(t, 12, result.Subtotal) // 4+6+2
}

func TestSetRoll_DoubledDoublesDiceNotModifiers(t *testing.T) {
	set, err := dice.NewDiceSet(2, 6)
	require.NoError(t, err)
	r := NewSetRoll(set)
	r.Modifiers.AddInt(modifier.Base, 5)

	doubled := r.Doubled()
	assert.Equal(t, 4, doubled.Dice.Count)
	assert.Equal(t, 5, doubled.Modifiers.TotalInt())
}

func TestCompositeRoll_Total(t *testing.T) {
	primary, _ := dice.NewDiceSet(1, 8)
	bonus, _ := dice.NewDiceSet(2, 6)

	composite := CompositeRoll{Components: []SetRoll{NewSetRoll(primary), NewSetRoll(bonus)}}
	result := composite.Roll(rng.NewScripted(4, 2, 1)) // faces 5, 3, 2
	assert.Len(t, result.Components, 2)
	assert.Equal(t, 5, result.Components[0].Subtotal)
	assert.Equal(t, 5, result.Components[1].Subtotal) // 3+2
	assert.Equal(t, 10, result.Total())
}
