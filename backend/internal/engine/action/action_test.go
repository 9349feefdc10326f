package action

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nat20/combatcore/backend/internal/engine/d20"
	"github.com/nat20/combatcore/backend/internal/engine/damage"
	enginedice "github.com/nat20/combatcore/backend/internal/engine/dice"
	"github.com/nat20/combatcore/backend/internal/engine/effect"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/id"
	"github.com/nat20/combatcore/backend/internal/engine/modifier"
	"github.com/nat20/combatcore/backend/internal/engine/proficiency"
	"github.com/nat20/combatcore/backend/internal/engine/resource"
	"github.com/nat20/combatcore/backend/internal/engine/stats"
	"github.com/nat20/combatcore/backend/pkg/dice"
	"github.com/nat20/combatcore/backend/pkg/rng"
)

// fakeEnv is a minimal Environment stub: mitigation passes damage
// through unchanged, and every query returns a fixed, test-controlled
// value rather than consulting real component tables.
type fakeEnv struct {
	src             rng.Source
	ac              int
	appliedDamage   int
	appliedCrit     bool
	healed          int
	effectsApplied  []id.EffectID
	resourcesSpent  *resource.CostMap
	savingThrowPass bool
	skillCheckPass  bool
	spendErr        error
	cooldownStarted bool
}

func (f *fakeEnv) AbilityScores(entity.Handle) *stats.ScoreMap { return nil }
func (f *fakeEnv) Resources(entity.Handle) *resource.Pool      { return nil }
func (f *fakeEnv) Life(entity.Handle) *damage.Life             { return nil }

func (f *fakeEnv) RNG() rng.Source                     { return f.src }
func (f *fakeEnv) ProficiencyBonus(entity.Handle) int   { return 2 }
func (f *fakeEnv) ArmorClass(entity.Handle) *stats.ArmorClass {
	ac := stats.NewArmorClass(f.ac, modifier.Base)
	return ac
}
func (f *fakeEnv) ApplyEffect(target entity.Handle, effectID id.EffectID, _ modifier.Source, _ entity.Handle, _ effect.Lifetime) error {
	f.effectsApplied = append(f.effectsApplied, effectID)
	return nil
}
func (f *fakeEnv) Heal(_ entity.Handle, amount int) bool {
	f.healed += amount
	return true
}
func (f *fakeEnv) SpendResources(_ entity.Handle, cost *resource.CostMap) error {
	if f.spendErr != nil {
		return f.spendErr
	}
	f.resourcesSpent = cost
	return nil
}
func (f *fakeEnv) Mitigate(_ entity.Handle, result damage.RollResult) []damage.Result {
	out := make([]damage.Result, len(result.Components))
	for i, c := range result.Components {
		out[i] = damage.Result{Type: c.Type, Raw: c.Subtotal, Mitigated: c.Subtotal}
	}
	return out
}
func (f *fakeEnv) ApplyDamage(_ entity.Handle, amount int, isCrit bool) bool {
	f.appliedDamage += amount
	f.appliedCrit = isCrit
	return true
}
func (f *fakeEnv) RollSavingThrow(entity.Handle, stats.Ability, *modifier.Set) *d20.Result {
	return &d20.Result{Success: f.savingThrowPass, ModifierBreakdown: modifier.New()}
}
func (f *fakeEnv) RollSkill(entity.Handle, stats.Skill, *modifier.Set) *d20.Result {
	return &d20.Result{Success: f.skillCheckPass, ModifierBreakdown: modifier.New()}
}
func (f *fakeEnv) ActionHooks(entity.Handle) []effect.ActionHook             { return nil }
func (f *fakeEnv) ResourceCostHooks(entity.Handle) []effect.ResourceCostHook { return nil }

func (f *fakeEnv) PreAttackRoll(entity.Handle, entity.Handle, *d20.Check)          {}
func (f *fakeEnv) PostAttackRoll(entity.Handle, entity.Handle, *d20.Result)        {}
func (f *fakeEnv) PreDamageRoll(entity.Handle, entity.Handle, *damage.Roll)        {}
func (f *fakeEnv) PostDamageRoll(entity.Handle, entity.Handle, *damage.RollResult) {}

func (f *fakeEnv) StartCooldown(entity.Handle, id.ActionID, resource.RechargeRule) {
	f.cooldownStarted = true
}

func weaponDamage(t *testing.T, count, size, bonus int) DamageFn {
	t.Helper()
	return func(env Environment, performer entity.Handle, ctx Context) damage.Roll {
		set, err := dice.NewDiceSet(count, size)
		require.NoError(t, err)
		r := enginedice.NewSetRoll(set)
		r.Modifiers.AddInt(modifier.Base, bonus)
		return damage.Roll{Primary: damage.Component{Roll: r, Type: damage.Slashing, Source: modifier.Base}}
	}
}

func TestKind_UnconditionalDamage(t *testing.T) {
	env := &fakeEnv{src: rng.NewScripted(4)} // face 5
	k := Kind{Tag: UnconditionalDamage, Damage: weaponDamage(t, 1, 8, 3)}
	es := entity.NewStore()
	target := es.Spawn()

	result := k.Perform(env, entity.Handle{}, OtherContext(), target)
	assert.Equal(t, 8, result.DamageRoll.Total()) // 5+3
	assert.Equal(t, 8, env.appliedDamage)
}

func TestKind_AttackRollDamage_HitAppliesDamage(t *testing.T) {
	env := &fakeEnv{src: rng.NewScripted(14, 14, 4), ac: 12} // attack rolls face 15, damage face 5
	k := Kind{
		Tag: AttackRollDamage,
		AttackRoll: func(env Environment, performer entity.Handle, ctx Context) *d20.Check {
			return d20.New(proficiency.New(proficiency.None, modifier.None))
		},
		Damage: weaponDamage(t, 1, 8, 3),
	}
	es := entity.NewStore()
	target := es.Spawn()

	result := k.Perform(env, entity.Handle{}, OtherContext(), target)
	require.NotNil(t, result.AttackResult)
	assert.True(t, result.AttackResult.Total() >= 12)
	assert.Equal(t, 8, env.appliedDamage)
}

func TestKind_AttackRollDamage_MissWithNoDamageOnMissDealsNothing(t *testing.T) {
	env := &fakeEnv{src: rng.NewScripted(0, 0), ac: 25} // face 1, always misses
	k := Kind{
		Tag: AttackRollDamage,
		AttackRoll: func(env Environment, performer entity.Handle, ctx Context) *d20.Check {
			return d20.New(proficiency.New(proficiency.None, modifier.None))
		},
		Damage: weaponDamage(t, 1, 8, 3),
	}
	es := entity.NewStore()
	target := es.Spawn()

	k.Perform(env, entity.Handle{}, OtherContext(), target)
	assert.Equal(t, 0, env.appliedDamage)
}

func TestKind_SavingThrowDamage_HalfOnSave(t *testing.T) {
	env := &fakeEnv{src: rng.NewScripted(4), savingThrowPass: true} // face 5
	k := Kind{
		Tag: SavingThrowDamage,
		SavingThrow: func(env Environment, performer entity.Handle, ctx Context) d20.DC[stats.Ability] {
			return d20.DC[stats.Ability]{Key: stats.Dexterity, DC: modifier.New()}
		},
		HalfDamageOnSave: true,
		Damage:           weaponDamage(t, 1, 8, 3),
	}
	es := entity.NewStore()
	target := es.Spawn()

	k.Perform(env, entity.Handle{}, OtherContext(), target)
	assert.Equal(t, 4, env.appliedDamage) // 8/2
}

func TestKind_BeneficialEffect_Applies(t *testing.T) {
	env := &fakeEnv{src: rng.NewScripted(0)}
	buffID := id.NewEffectID("nat20_core", "effect.bless")
	k := Kind{Tag: BeneficialEffect, Effect: buffID}
	es := entity.NewStore()
	target := es.Spawn()

	k.Perform(env, entity.Handle{}, OtherContext(), target)
	assert.Equal(t, []id.EffectID{buffID}, env.effectsApplied)
}

func TestKind_Healing_HealsTarget(t *testing.T) {
	env := &fakeEnv{src: rng.NewScripted(3)} // face 4
	k := Kind{Tag: Healing, Heal: func(env Environment, performer entity.Handle, ctx Context) enginedice.SetRoll {
		set, err := dice.NewDiceSet(1, 8)
		require.NoError(t, err)
		r := enginedice.NewSetRoll(set)
		r.Modifiers.AddInt(modifier.Base, 2)
		return r
	}}
	es := entity.NewStore()
	target := es.Spawn()

	k.Perform(env, entity.Handle{}, OtherContext(), target)
	assert.Equal(t, 6, env.healed) // 4+2
}

func TestKind_Composite_RunsEverySubKind(t *testing.T) {
	env := &fakeEnv{src: rng.NewScripted(0)}
	healID := id.NewEffectID("nat20_core", "effect.bless")
	k := Kind{Tag: Composite, Actions: []Kind{
		{Tag: Utility},
		{Tag: BeneficialEffect, Effect: healID},
	}}
	es := entity.NewStore()
	target := es.Spawn()

	result := k.Perform(env, entity.Handle{}, OtherContext(), target)
	require.Len(t, result.SubResults, 2)
	assert.Equal(t, Utility, result.SubResults[0].Tag)
	assert.Equal(t, BeneficialEffect, result.SubResults[1].Tag)
}

func TestDefinition_PerformSpendsResourcesOncePerCall(t *testing.T) {
	env := &fakeEnv{src: rng.NewScripted(0)}
	cost := resource.NewCostMap(struct {
		ResourceID id.ResourceID
		Amount     int
	}{ResourceID: id.NewResourceID("nat20_core", "resource.action"), Amount: 1})
	def := Definition{ID: id.NewActionID("nat20_core", "action.strike"), Kind: Kind{Tag: Utility}, ResourceCost: cost}
	es := entity.NewStore()
	performer, target := es.Spawn(), es.Spawn()

	results, err := def.Perform(env, performer, OtherContext(), []entity.Handle{target})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Same(t, cost, env.resourcesSpent)
}

func TestDefinition_PerformRejectsUnaffordableCost(t *testing.T) {
	env := &fakeEnv{src: rng.NewScripted(0), spendErr: errors.New("insufficient resources")}
	cost := resource.NewCostMap(struct {
		ResourceID id.ResourceID
		Amount     int
	}{ResourceID: id.NewResourceID("nat20_core", "resource.action"), Amount: 1})
	def := Definition{ID: id.NewActionID("nat20_core", "action.strike"), Kind: Kind{Tag: Utility}, ResourceCost: cost}
	es := entity.NewStore()
	performer, target := es.Spawn(), es.Spawn()

	results, err := def.Perform(env, performer, OtherContext(), []entity.Handle{target})
	require.Error(t, err)
	assert.Nil(t, results)
}

func TestDefinition_PerformStartsCooldownWhenSet(t *testing.T) {
	env := &fakeEnv{src: rng.NewScripted(0)}
	rule := resource.ShortRest
	def := Definition{ID: id.NewActionID("nat20_core", "action.strike"), Kind: Kind{Tag: Utility}, Cooldown: &rule}
	es := entity.NewStore()
	performer, target := es.Spawn(), es.Spawn()

	_, err := def.Perform(env, performer, OtherContext(), []entity.Handle{target})
	require.NoError(t, err)
	assert.True(t, env.cooldownStarted)
}
