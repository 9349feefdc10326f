package damage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	enginedice "github.com/nat20/combatcore/backend/internal/engine/dice"
	"github.com/nat20/combatcore/backend/internal/engine/modifier"
	"github.com/nat20/combatcore/backend/pkg/dice"
	"github.com/nat20/combatcore/backend/pkg/rng"
)

func weaponComponent(t *testing.T, count, size int, bonus int, dmgType Type) Component {
	t.Helper()
	set, err := dice.NewDiceSet(count, size)
	require.NoError(t, err)
	r := enginedice.NewSetRoll(set)
	r.Modifiers.AddInt(modifier.Base, bonus)
	return Component{Roll: r, Type: dmgType, Source: modifier.Base}
}

func TestComponent_DoubledDoublesDiceNotModifiers(t *testing.T) {
	c := weaponComponent(t, 1, 8, 3, Slashing)
	doubled := c.Doubled()
	assert.Equal(t, 2, doubled.Roll.Dice.Count)
	assert.Equal(t, 3, doubled.Roll.Modifiers.TotalInt())
}

func TestRoll_RollAndTotal(t *testing.T) {
	primary := weaponComponent(t, 1, 8, 3, Slashing)
	bonus := weaponComponent(t, 2, 6, 0, Fire)
	roll := Roll{Primary: primary, Bonus: []Component{bonus}}

	result := roll.Roll(rng.NewScripted(4, 2, 1)) // faces 5, 3, 2
	require.Len(t, result.Components, 2)
	assert.Equal(t, Slashing, result.Components[0].Type)
	assert.Equal(t, 8, result.Components[0].Subtotal) // 5+3
	assert.Equal(t, Fire, result.Components[1].Type)
	assert.Equal(t, 5, result.Components[1].Subtotal) // 3+2
	assert.Equal(t, 13, result.Total())
}

func TestRoll_DoubledDoublesEveryComponent(t *testing.T) {
	primary := weaponComponent(t, 1, 8, 3, Slashing)
	bonus := weaponComponent(t, 2, 6, 1, Fire)
	roll := Roll{Primary: primary, Bonus: []Component{bonus}}

	doubled := roll.Doubled()
	assert.Equal(t, 2, doubled.Primary.Roll.Dice.Count)
	assert.Equal(t, 4, doubled.Bonus[0].Roll.Dice.Count)
	assert.Equal(t, 1, doubled.Bonus[0].Roll.Modifiers.TotalInt())
}

func TestMitigation_ImmunityZeroesRegardlessOfOtherOperations(t *testing.T) {
	profile := NewProfile()
	profile.Add(Fire, Operation{Kind: Immunity})
	profile.Add(Fire, Operation{Kind: Vulnerability})

	result := profile.Mitigate(ComponentResult{Type: Fire, Subtotal: 20})
	assert.True(t, result.Immune)
	assert.Equal(t, 0, result.Mitigated)
}

func TestMitigation_FlatReductionThenResistance(t *testing.T) {
	profile := NewProfile()
	profile.Add(Bludgeoning, Operation{Kind: FlatReduction, Amount: 3})
	profile.Add(Bludgeoning, Operation{Kind: Resistance})

	result := profile.Mitigate(ComponentResult{Type: Bludgeoning, Subtotal: 11})
	assert.Equal(t, 4, result.Mitigated) // (11-3)/2 = 4
}

func TestMitigation_FlatReductionFlooredAtZero(t *testing.T) {
	profile := NewProfile()
	profile.Add(Piercing, Operation{Kind: FlatReduction, Amount: 10})

	result := profile.Mitigate(ComponentResult{Type: Piercing, Subtotal: 4})
	assert.Equal(t, 0, result.Mitigated)
}

func TestMitigation_VulnerabilityDoubles(t *testing.T) {
	profile := NewProfile()
	profile.Add(Cold, Operation{Kind: Vulnerability})

	result := profile.Mitigate(ComponentResult{Type: Cold, Subtotal: 6})
	assert.Equal(t, 12, result.Mitigated)
}

func TestMitigation_UnmitigatedTypePassesThrough(t *testing.T) {
	profile := NewProfile()
	result := profile.Mitigate(ComponentResult{Type: Necrotic, Subtotal: 7})
	assert.Equal(t, 7, result.Mitigated)
}

func TestTotal_SumsMitigatedResults(t *testing.T) {
	results := []Result{{Mitigated: 3}, {Mitigated: 4}, {Immune: true, Mitigated: 0}}
	assert.Equal(t, 7, Total(results))
}
