// Package effect implements the effects-and-hooks system of spec.md §4.4
// (C7): buffs, debuffs and conditions that attach to an entity, expire on
// a schedule, and splice callbacks into skill checks, attack rolls,
// armor class, damage rolls, mitigation, resource costs and death.
//
// Hook signatures reference internal/engine/damage for damage-roll and
// mitigation types, but never a concrete aggregate "world" — see
// Observer in hooks.go for why, and internal/engine/combat for the
// package that actually wires an Observer implementation to the damage
// pipeline (spec.md §4.5).
package effect

import "github.com/nat20/combatcore/backend/internal/engine/id"

// Kind distinguishes a beneficial effect from a detrimental one — purely
// informational (spec.md §4.4 "Buff/Debuff"), consulted by UI and by
// dispel-type effects that only target one kind.
type Kind int

const (
	Buff Kind = iota
	Debuff
)

// Definition is a registry-loadable effect template (spec.md §4.4
// "Effect"). Replaces, if set, names another effect id that applying
// this one supersedes: the existing instance of Replaces is unapplied
// (firing its OnUnapply) before this one is applied.
type Definition struct {
	ID          id.EffectID
	Kind        Kind
	Description string
	Replaces    *id.EffectID
	Hooks       Hooks
}

// DefinitionID implements registry.Definition[id.EffectID].
func (d Definition) DefinitionID() id.EffectID { return d.ID }
