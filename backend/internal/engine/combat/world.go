// Package combat is the orchestration layer that ties every engine-core
// package together: it is the single concrete aggregate that implements
// effect.Observer, action.Environment, targeting.Environment, and
// encounter.Environment at once, standing in for the original's &World/
// &mut GameState parameter that each of those packages was deliberately
// decoupled from to avoid a Go import cycle (see each package's own
// Observer/Environment doc comments).
package combat

import (
	"github.com/nat20/combatcore/backend/internal/engine/action"
	"github.com/nat20/combatcore/backend/internal/engine/d20"
	"github.com/nat20/combatcore/backend/internal/engine/damage"
	"github.com/nat20/combatcore/backend/internal/engine/effect"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/id"
	"github.com/nat20/combatcore/backend/internal/engine/modifier"
	"github.com/nat20/combatcore/backend/internal/engine/proficiency"
	"github.com/nat20/combatcore/backend/internal/engine/registry"
	"github.com/nat20/combatcore/backend/internal/engine/resource"
	"github.com/nat20/combatcore/backend/internal/engine/stats"
	"github.com/nat20/combatcore/backend/pkg/rng"
)

// Position locates an entity in the encounter's shared space, in feet —
// the unit spec.md's geometry examples use; combat converts to
// millimeters only at the targeting boundary, matching
// targeting.Shape's own mm-for-hashability rationale.
type Position struct {
	X, Y, Z float64
}

const feetToMM = 304.8

// Tag marks an entity's broad classification for targeting filters.
type Tag int

const (
	TagNone Tag = iota
	TagCharacter
	TagMonster
)

// World owns every entity's component tables and the shared action and
// effect registries. It is the concrete type every engine-core
// "Environment"/"Observer" interface is written against.
type World struct {
	Entities *entity.Store

	abilities    *entity.ComponentMap[*stats.ScoreMap]
	resources    *entity.ComponentMap[*resource.Pool]
	life         *entity.ComponentMap[*damage.Life]
	armorClasses *entity.ComponentMap[*stats.ArmorClass]
	levels       *entity.ComponentMap[stats.Level]
	mitigation   *entity.ComponentMap[*damage.Profile]
	positions    *entity.ComponentMap[Position]
	tags         *entity.ComponentMap[Tag]

	Effects *effect.Store
	Actions *registry.Registry[id.ActionID, action.Definition]

	rng rng.Source

	// spawned records every handle Spawn has produced, in spawn order —
	// ComponentMap intentionally has no iteration method (spec.md §4.2's
	// component tables are keyed lookups only), so World keeps its own
	// roster for the geometry queries that need to scan every entity.
	spawned []entity.Handle
}

// New builds an empty World backed by src for every random roll, and the
// given action/effect definition registries.
func New(src rng.Source, actions *registry.Registry[id.ActionID, action.Definition], effects *effect.Store) *World {
	return &World{
		Entities:     entity.NewStore(),
		abilities:    entity.NewComponentMap[*stats.ScoreMap](),
		resources:    entity.NewComponentMap[*resource.Pool](),
		life:         entity.NewComponentMap[*damage.Life](),
		armorClasses: entity.NewComponentMap[*stats.ArmorClass](),
		levels:       entity.NewComponentMap[stats.Level](),
		mitigation:   entity.NewComponentMap[*damage.Profile](),
		positions:    entity.NewComponentMap[Position](),
		tags:         entity.NewComponentMap[Tag](),
		Effects:      effects,
		Actions:      actions,
		rng:          src,
	}
}

// Spawn creates a new entity and seeds its baseline components.
func (w *World) Spawn(tag Tag, abilities *stats.ScoreMap, maxHP int, level stats.Level, baseAC int) entity.Handle {
	h := w.Entities.Spawn()
	w.spawned = append(w.spawned, h)
	w.tags.Set(h, tag)
	w.abilities.Set(h, abilities)
	w.resources.Set(h, resource.NewPool())
	w.life.Set(h, damage.NewLife(maxHP))
	w.levels.Set(h, level)
	w.armorClasses.Set(h, stats.NewArmorClass(baseAC, modifier.Base))
	w.mitigation.Set(h, damage.NewProfile())
	return h
}

// SpawnedEntities returns every handle Spawn has produced, in spawn order.
func (w *World) SpawnedEntities() []entity.Handle {
	return append([]entity.Handle(nil), w.spawned...)
}

// SetPosition places h at a point in feet.
func (w *World) SetPosition(h entity.Handle, pos Position) { w.positions.Set(h, pos) }

// MitigationProfile returns h's resistance/immunity/vulnerability
// profile, creating an empty one if h has none yet.
func (w *World) MitigationProfile(h entity.Handle) *damage.Profile {
	p, ok := w.mitigation.Get(h)
	if !ok {
		p = damage.NewProfile()
		w.mitigation.Set(h, p)
	}
	return p
}

// --- effect.Observer ---

func (w *World) AbilityScores(e entity.Handle) *stats.ScoreMap {
	v, ok := w.abilities.Get(e)
	if !ok {
		return nil
	}
	return v
}

func (w *World) Resources(e entity.Handle) *resource.Pool {
	v, ok := w.resources.Get(e)
	if !ok {
		return nil
	}
	return v
}

func (w *World) Life(e entity.Handle) *damage.Life {
	v, ok := w.life.Get(e)
	if !ok {
		return nil
	}
	return v
}

// --- action.Environment additions ---

func (w *World) RNG() rng.Source { return w.rng }

func (w *World) ProficiencyBonus(e entity.Handle) int {
	lvl, ok := w.levels.Get(e)
	if !ok {
		return 0
	}
	return lvl.ProficiencyBonus()
}

// ArmorClass returns e's armor class, after every currently applied
// effect's OnArmorClass hook has had a chance to adjust it. Hooks add
// their contribution keyed by their own modifier.Source, so repeated
// calls are idempotent (spec.md §4.1 "re-adding a source replaces,
// never stacks").
func (w *World) ArmorClass(e entity.Handle) *stats.ArmorClass {
	ac, ok := w.armorClasses.Get(e)
	if !ok {
		ac = stats.NewArmorClass(10, modifier.Base)
		w.armorClasses.Set(e, ac)
	}
	if abilities := w.AbilityScores(e); abilities != nil {
		ac.ApplyDexterity(abilities.AbilityModifier(stats.Dexterity))
	}
	for _, hook := range w.hooksOf(e, func(h effect.Hooks) bool { return h.OnArmorClass != nil }) {
		hook.OnArmorClass(w, e, ac)
	}
	return ac
}

func (w *World) ApplyEffect(target entity.Handle, effectID id.EffectID, source modifier.Source, applier entity.Handle, lifetime effect.Lifetime) error {
	return w.Effects.Apply(w, target, effectID, source, applier, lifetime)
}

func (w *World) Heal(target entity.Handle, amount int) bool {
	life := w.Life(target)
	if life == nil {
		return false
	}
	return life.Heal(amount)
}

func (w *World) SpendResources(actor entity.Handle, cost *resource.CostMap) error {
	pool := w.Resources(actor)
	if pool == nil {
		return nil
	}
	return cost.Spend(pool)
}

// RefundResources grants back one use of each named resource to actor —
// the other half of a cancelled action's bookkeeping, run when a
// reaction's script.Plan cancels the event that spent them
// (script.Outcome.ResourcesToRefund).
func (w *World) RefundResources(actor entity.Handle, resourceIDs []id.ResourceID) {
	pool := w.Resources(actor)
	if pool == nil {
		return
	}
	for _, resourceID := range resourceIDs {
		if r, ok := pool.Get(resourceID); ok {
			r.Grant(1)
		}
	}
}

// Mitigate applies the target's own Profile.Mitigate to each rolled
// component first, then runs every PreDamageMitigation hook and then every
// PostDamageMitigation hook over the mitigated results. No hook runs
// before the profile's operations.
func (w *World) Mitigate(target entity.Handle, rolled damage.RollResult) []damage.Result {
	componentResults := make([]damage.ComponentResult, len(rolled.Components))
	copy(componentResults, rolled.Components)

	profile := w.MitigationProfile(target)
	results := make([]damage.Result, 0, len(componentResults))
	for _, cr := range componentResults {
		results = append(results, profile.Mitigate(cr))
	}

	for _, hook := range w.hooksOf(target, func(h effect.Hooks) bool { return h.PreDamageMitigation != nil }) {
		results = hook.PreDamageMitigation(w, target, results)
	}
	for _, hook := range w.hooksOf(target, func(h effect.Hooks) bool { return h.PostDamageMitigation != nil }) {
		results = hook.PostDamageMitigation(w, target, results)
	}
	return results
}

// ApplyDamage applies amount to target's life total, firing OnDeath if
// the target's life state transitions away from Normal as a result.
func (w *World) ApplyDamage(target entity.Handle, amount int, isCrit bool) bool {
	life := w.Life(target)
	if life == nil {
		return false
	}
	before := life.State
	diedOrWent := life.ApplyDamage(amount, isCrit)
	if before == damage.Normal && life.State != damage.Normal {
		for _, hook := range w.hooksOf(target, func(h effect.Hooks) bool { return h.OnDeath != nil }) {
			for _, inst := range w.Effects.Instances(target) {
				hook.OnDeath(w, target, inst)
			}
		}
	}
	return diedOrWent
}

func (w *World) RollSavingThrow(target entity.Handle, ability stats.Ability, dc *modifier.Set) *d20.Result {
	check := d20.New(proficiency.New(proficiency.None, modifier.None))
	if scores := w.AbilityScores(target); scores != nil {
		check.Modifiers.AddInt(modifier.AbilitySource(ability.String()), scores.AbilityModifier(ability))
	}
	for _, hook := range w.hooksOf(target, func(h effect.Hooks) bool {
		_, ok := h.OnSavingThrow[ability]
		return ok
	}) {
		hook.OnSavingThrow[ability](w, target, ability, check)
	}
	result := check.Roll(w.rng, w.ProficiencyBonus(target))
	result.Success = result.Success || result.Total() >= dc.TotalInt()
	if result.IsCritFail {
		result.Success = false
	}
	return result
}

// RollSkill rolls target's skill check against dc, firing any
// on_skill_check hooks target's active effects contribute before the
// roll resolves.
func (w *World) RollSkill(target entity.Handle, skill stats.Skill, dc *modifier.Set) *d20.Result {
	check := d20.New(proficiency.New(proficiency.None, modifier.None))
	if scores := w.AbilityScores(target); scores != nil {
		ability := skill.OwningAbility()
		check.Modifiers.AddInt(modifier.AbilitySource(ability.String()), scores.AbilityModifier(ability))
	}
	for _, hook := range w.hooksOf(target, func(h effect.Hooks) bool {
		_, ok := h.OnSkillCheck[skill]
		return ok
	}) {
		hook.OnSkillCheck[skill](w, target, skill, check)
	}
	result := check.Roll(w.rng, w.ProficiencyBonus(target))
	result.Success = result.Success || result.Total() >= dc.TotalInt()
	if result.IsCritFail {
		result.Success = false
	}
	return result
}

// PreAttackRoll fires attacker's pre_attack_roll hooks, letting them
// mutate check (advantage votes, circumstance modifiers) before it is
// rolled.
func (w *World) PreAttackRoll(attacker, target entity.Handle, check *d20.Check) {
	for _, hook := range w.hooksOf(attacker, func(h effect.Hooks) bool { return h.PreAttackRoll != nil }) {
		hook.PreAttackRoll(w, attacker, target, check)
	}
}

// PostAttackRoll fires attacker's post_attack_roll hooks once the
// attack roll's result is known.
func (w *World) PostAttackRoll(attacker, target entity.Handle, result *d20.Result) {
	for _, hook := range w.hooksOf(attacker, func(h effect.Hooks) bool { return h.PostAttackRoll != nil }) {
		hook.PostAttackRoll(w, attacker, target, result)
	}
}

// PreDamageRoll fires source's pre_damage_roll hooks, letting them
// rebuild roll in place (Great Weapon Fighting's low-die reroll) before
// it is rolled.
func (w *World) PreDamageRoll(source, target entity.Handle, roll *damage.Roll) {
	for _, hook := range w.hooksOf(source, func(h effect.Hooks) bool { return h.PreDamageRoll != nil }) {
		hook.PreDamageRoll(w, source, target, roll)
	}
}

// PostDamageRoll fires source's post_damage_roll hooks once a damage
// roll's result is known, before mitigation runs.
func (w *World) PostDamageRoll(source, target entity.Handle, result *damage.RollResult) {
	for _, hook := range w.hooksOf(source, func(h effect.Hooks) bool { return h.PostDamageRoll != nil }) {
		hook.PostDamageRoll(w, source, target, result)
	}
}

// StartCooldown marks actionID unavailable to actor until rule next
// recharges it, via the pool-backed implicit resource
// action.CooldownResourceID derives for it.
func (w *World) StartCooldown(actor entity.Handle, actionID id.ActionID, rule resource.RechargeRule) {
	pool := w.Resources(actor)
	if pool == nil {
		return
	}
	resourceID, err := action.CooldownResourceID(actionID)
	if err != nil {
		return
	}
	r := pool.EnsureResource(resourceID, 1, rule)
	_ = r.Spend(1)
}

func (w *World) ActionHooks(actor entity.Handle) []effect.ActionHook {
	var hooks []effect.ActionHook
	for _, inst := range w.Effects.Instances(actor) {
		def, ok := w.Effects.Definition(inst.EffectID)
		if ok && def.Hooks.OnAction != nil {
			hooks = append(hooks, def.Hooks.OnAction)
		}
	}
	return hooks
}

func (w *World) ResourceCostHooks(actor entity.Handle) []effect.ResourceCostHook {
	var hooks []effect.ResourceCostHook
	for _, inst := range w.Effects.Instances(actor) {
		def, ok := w.Effects.Definition(inst.EffectID)
		if ok && def.Hooks.OnResourceCost != nil {
			hooks = append(hooks, def.Hooks.OnResourceCost)
		}
	}
	return hooks
}

// hooksOf gathers every active effect's Hooks on e for which match
// reports true, in application order.
func (w *World) hooksOf(e entity.Handle, match func(effect.Hooks) bool) []effect.Hooks {
	var out []effect.Hooks
	for _, inst := range w.Effects.Instances(e) {
		def, ok := w.Effects.Definition(inst.EffectID)
		if ok && match(def.Hooks) {
			out = append(out, def.Hooks)
		}
	}
	return out
}
