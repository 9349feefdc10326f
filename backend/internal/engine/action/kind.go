package action

import (
	enginedice "github.com/nat20/combatcore/backend/internal/engine/dice"
	"github.com/nat20/combatcore/backend/internal/engine/damage"
	"github.com/nat20/combatcore/backend/internal/engine/d20"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/id"
	"github.com/nat20/combatcore/backend/internal/engine/stats"
)

// DamageFn computes a damage roll's shape given the performer and action
// context — the actual dice aren't rolled until Environment.RNG() draws
// them.
type DamageFn func(env Environment, performer entity.Handle, ctx Context) damage.Roll

// AttackRollFn computes the d20 check an attack roll will use.
type AttackRollFn func(env Environment, performer entity.Handle, ctx Context) *d20.Check

// SavingThrowFn computes the DC a target must save against.
type SavingThrowFn func(env Environment, performer entity.Handle, ctx Context) d20.DC[stats.Ability]

// SkillCheckFn computes the skill and DC a target must clear (shoving,
// grappling, and similar contests resolved as a skill check against a
// fixed or performer-derived DC rather than a saving throw).
type SkillCheckFn func(env Environment, performer entity.Handle, ctx Context) d20.DC[stats.Skill]

// HealFn computes the dice rolled to determine healing.
type HealFn func(env Environment, performer entity.Handle, ctx Context) enginedice.SetRoll

// ReactionFn resolves a reaction in response to an event. The event
// itself is typed by internal/engine/event, which this package cannot
// import without creating a cycle (event listens for ActionPerformed,
// which action produces) — reactions instead receive the triggering
// event pre-flattened by the caller into whatever data the closure
// actually needs, so the closure signature stays engine-agnostic.
type ReactionFn func(env Environment, performer entity.Handle, ctx Context, trigger any) Result

// CustomFn runs an arbitrary, non-standard action effect.
type CustomFn func(env Environment, performer entity.Handle, ctx Context)

// Tag is the closed action-kind union of spec.md §4.6 "ActionKind".
type Tag int

const (
	UnconditionalDamage Tag = iota
	AttackRollDamage
	SavingThrowDamage
	UnconditionalEffect
	SavingThrowEffect
	BeneficialEffect
	Healing
	Utility
	Composite
	Reaction
	Custom
	SkillCheckEffect
)

// Kind is one action-kind variant. Only the fields relevant to Tag are
// populated — the same tagged-struct approach used for effect.Lifetime
// and targeting.Filter, chosen over an interface because the perform()
// dispatch needs concrete access to whichever fields are present, not
// polymorphic behavior.
type Kind struct {
	Tag Tag

	Damage       DamageFn
	AttackRoll   AttackRollFn
	DamageOnMiss DamageFn

	SavingThrow      SavingThrowFn
	HalfDamageOnSave bool

	SkillCheck SkillCheckFn

	Effect id.EffectID

	Heal HealFn

	Actions []Kind

	Reaction ReactionFn
	Custom   CustomFn
}
