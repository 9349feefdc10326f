package effect

import (
	"github.com/nat20/combatcore/backend/internal/engine/d20"
	"github.com/nat20/combatcore/backend/internal/engine/damage"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/id"
	"github.com/nat20/combatcore/backend/internal/engine/resource"
	"github.com/nat20/combatcore/backend/internal/engine/stats"
)

// Observer is the narrow read/write surface a hook needs into the rest of
// the engine's component tables. It stands in for the original's &World/
// &mut World hook parameter: spec.md's effect hooks need to read and
// mutate ability scores, resource pools and life state belonging to
// entities other than the one the effect lives on (an aura buffing
// allies, a curse draining a pool), but internal/engine/effect cannot
// import a concrete aggregate "world" type without that type in turn
// importing effect (it is effect's own hooks that define most of the
// interesting per-entity behavior), which would be a Go import cycle.
// Declaring the capability as an interface inside effect itself, built
// only from lower-layer types effect can already safely import, breaks
// the cycle: the concrete implementation (whatever aggregate owns every
// entity's components) is supplied by the caller at hook-invocation time.
type Observer interface {
	AbilityScores(e entity.Handle) *stats.ScoreMap
	Resources(e entity.Handle) *resource.Pool
	Life(e entity.Handle) *damage.Life
}

// SkillCheckHook mutates a skill check in flight — the on_skill_check
// hook of spec.md §4.4, keyed per skill by the caller.
type SkillCheckHook func(obs Observer, target entity.Handle, skill stats.Skill, check *d20.Check)

// SavingThrowHook mutates a saving throw in flight, keyed per ability by
// the caller (on_saving_throw).
type SavingThrowHook func(obs Observer, target entity.Handle, ability stats.Ability, check *d20.Check)

// AttackRollHook runs before/after an attack roll resolves
// (pre_attack_roll/post_attack_roll).
type AttackRollHook func(obs Observer, attacker, target entity.Handle, check *d20.Check)

// AttackResultHook runs after an attack roll's result is known.
type AttackResultHook func(obs Observer, attacker, target entity.Handle, result *d20.Result)

// ArmorClassHook mutates a creature's armor class as it is computed
// (on_armor_class).
type ArmorClassHook func(obs Observer, target entity.Handle, ac *stats.ArmorClass)

// DamageRollHook mutates a damage roll before it is rolled
// (pre_damage_roll).
type DamageRollHook func(obs Observer, source, target entity.Handle, roll *damage.Roll)

// DamageResultHook observes a damage roll's result after it is rolled,
// before mitigation (post_damage_roll).
type DamageResultHook func(obs Observer, source, target entity.Handle, result *damage.RollResult)

// ResourceCostHook mutates the resource cost of an action as it is about
// to be spent (on_resource_cost).
type ResourceCostHook func(obs Observer, actor entity.Handle, cost *resource.CostMap)

// DamageMitigationHook receives the mitigation results list and may
// replace it (e.g. Shield's reactive resistance)
// (pre_damage_mitigation/post_damage_mitigation). combat.World.Mitigate
// runs both kinds after the target's profile has been applied, pre hooks
// before post hooks.
type DamageMitigationHook func(obs Observer, target entity.Handle, results []damage.Result) []damage.Result

// ActionHook observes an action being performed by the entity the
// effect lives on (on_action).
type ActionHook func(obs Observer, actor entity.Handle, action id.ActionID)

// LifecycleHook observes an instance being applied, unapplied, or the
// target's death (on_apply/on_unapply/on_death).
type LifecycleHook func(obs Observer, target entity.Handle, inst *Instance)

// Hooks bundles every callback an effect definition may supply. A nil
// field means "no-op" — callers must check for nil before invoking,
// exactly as the original defaults every hook to a no-op closure.
type Hooks struct {
	OnApply   LifecycleHook
	OnUnapply LifecycleHook
	OnDeath   LifecycleHook

	OnSkillCheck   map[stats.Skill]SkillCheckHook
	OnSavingThrow  map[stats.Ability]SavingThrowHook

	PreAttackRoll  AttackRollHook
	PostAttackRoll AttackResultHook

	OnArmorClass ArmorClassHook

	PreDamageRoll  DamageRollHook
	PostDamageRoll DamageResultHook

	PreDamageMitigation  DamageMitigationHook
	PostDamageMitigation DamageMitigationHook

	OnAction       ActionHook
	OnResourceCost ResourceCostHook
}
