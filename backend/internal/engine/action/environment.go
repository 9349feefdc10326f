package action

import (
	"github.com/nat20/combatcore/backend/internal/engine/d20"
	"github.com/nat20/combatcore/backend/internal/engine/damage"
	"github.com/nat20/combatcore/backend/internal/engine/effect"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/id"
	"github.com/nat20/combatcore/backend/internal/engine/modifier"
	"github.com/nat20/combatcore/backend/internal/engine/resource"
	"github.com/nat20/combatcore/backend/internal/engine/stats"
	"github.com/nat20/combatcore/backend/pkg/rng"
)

// Environment is the capability surface an action's closures and its
// perform() pipeline need: reading ability scores and armor class,
// spending resources, applying effects and healing, and discovering the
// on_action/on_resource_cost hooks contributed by an entity's currently
// applied effects. Like effect.Observer, this is an interface rather
// than a concrete aggregate type so action never imports whatever
// package owns the full per-entity component tables — that type
// implements Environment (and effect.Observer) and is supplied by the
// caller (internal/engine/combat) at perform time.
type Environment interface {
	effect.Observer

	RNG() rng.Source
	ProficiencyBonus(e entity.Handle) int
	ArmorClass(target entity.Handle) *stats.ArmorClass
	ApplyEffect(target entity.Handle, effectID id.EffectID, source modifier.Source, applier entity.Handle, lifetime effect.Lifetime) error
	Heal(target entity.Handle, amount int) bool
	SpendResources(actor entity.Handle, cost *resource.CostMap) error
	Mitigate(target entity.Handle, result damage.RollResult) []damage.Result
	ApplyDamage(target entity.Handle, amount int, isCrit bool) bool
	RollSavingThrow(target entity.Handle, ability stats.Ability, dc *modifier.Set) *d20.Result
	RollSkill(target entity.Handle, skill stats.Skill, dc *modifier.Set) *d20.Result
	ActionHooks(actor entity.Handle) []effect.ActionHook
	ResourceCostHooks(actor entity.Handle) []effect.ResourceCostHook

	// PreAttackRoll/PostAttackRoll fire the attacker's active
	// pre_attack_roll/post_attack_roll hooks around an attack roll's
	// resolution; PreDamageRoll/PostDamageRoll do the same around a
	// damage roll's resolution, keyed by the damage source's hooks.
	PreAttackRoll(attacker, target entity.Handle, check *d20.Check)
	PostAttackRoll(attacker, target entity.Handle, result *d20.Result)
	PreDamageRoll(source, target entity.Handle, roll *damage.Roll)
	PostDamageRoll(source, target entity.Handle, result *damage.RollResult)

	// StartCooldown marks actionID as just-used by actor, unavailable
	// again until rule next recharges it (see CooldownResourceID).
	StartCooldown(actor entity.Handle, actionID id.ActionID, rule resource.RechargeRule)
}
