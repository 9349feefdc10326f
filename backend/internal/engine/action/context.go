// Package action implements the action-kind and perform pipeline of
// spec.md §4.6 (C10): the closed set of ways an action can affect a
// target (unconditional damage, attack-roll damage, saving-throw
// damage/effect, beneficial effect, healing, utility, composite,
// reaction, custom) and the perform() algorithm that spends resources,
// runs on_action hooks, and dispatches each kind.
package action

// ContextKind distinguishes what's driving an action's numbers — a
// specific weapon, a spell cast at a given level, or neither (spec.md
// §4.6 "ActionContext").
type ContextKind int

const (
	Weapon ContextKind = iota
	Spell
	Other
)

// Context carries the situational parameters an action's closures need
// to compute their numbers, e.g. a weapon's equipment slot or a spell's
// cast level.
type Context struct {
	Kind       ContextKind
	WeaponSlot string
	SpellLevel int
}

// WeaponContext builds a weapon-driven action context.
func WeaponContext(slot string) Context {
	return Context{Kind: Weapon, WeaponSlot: slot}
}

// SpellContext builds a spell-driven action context cast at level.
func SpellContext(level int) Context {
	return Context{Kind: Spell, SpellLevel: level}
}

// OtherContext is used for actions driven by neither a weapon nor a spell.
func OtherContext() Context {
	return Context{Kind: Other}
}
