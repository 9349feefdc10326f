package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nat20/combatcore/backend/internal/engine/id"
)

func actionResourceID() id.ResourceID { return id.NewResourceID("nat20_core", "resource.action") }
func extraAttackID() id.ResourceID    { return id.NewResourceID("nat20_core", "resource.extra_attack") }

func TestPool_GrantAndGet(t *testing.T) {
	p := NewPool()
	r, err := New(1, Turn)
	require.NoError(t, err)
	p.Grant(actionResourceID(), r)

	got, ok := p.Get(actionResourceID())
	require.True(t, ok)
	assert.Equal(t, 1, got.CurrentUses)
}

func TestCostMap_ExtraAttackReplacesResourceCost(t *testing.T) {
	// Scenario S6: first attack spends Action and grants an Extra Attack
	// charge; second attack spends Extra Attack instead of Action; third
	// attack is rejected.
	p := NewPool()
	action, _ := New(1, Turn)
	extra := Resource{MaxUses: 1, RechargeRule: Turn} // starts with no charges
	p.Grant(actionResourceID(), action)
	p.Grant(extraAttackID(), extra)

	actionCost := NewCostMap(struct {
		ResourceID id.ResourceID
		Amount     int
	}{actionResourceID(), 1})

	require.NoError(t, actionCost.Spend(p))
	extraRes, _ := p.Get(extraAttackID())
	extraRes.Grant(1)

	extraCost := NewCostMap(struct {
		ResourceID id.ResourceID
		Amount     int
	}{extraAttackID(), 1})
	require.NoError(t, extraCost.Spend(p))

	_, ok := extraCost.CanAfford(p)
	assert.False(t, ok, "third attack has neither Action nor Extra Attack charges left")
}

func TestPool_EnsureResourceGrantsOnlyOnce(t *testing.T) {
	p := NewPool()
	cooldownID := id.NewResourceID("nat20_core", "action.strike.cooldown")

	r := p.EnsureResource(cooldownID, 1, ShortRest)
	require.NoError(t, r.Spend(1))

	again := p.EnsureResource(cooldownID, 1, ShortRest)
	assert.Same(t, r, again, "an existing resource's charge must not be reset")
	assert.False(t, again.Available(1))
}

func TestPool_PassTime(t *testing.T) {
	p := NewPool()
	r, _ := New(2, ShortRest)
	p.Grant(actionResourceID(), r)
	res, _ := p.Get(actionResourceID())
	require.NoError(t, res.Spend(2))

	p.PassTime(LongRest)
	res, _ = p.Get(actionResourceID())
	assert.Equal(t, 2, res.CurrentUses)
}
