// Package damage implements the damage-roll and mitigation data model of
// spec.md §4.5/§4.7 (C9): typed damage components, the mitigation
// operations applied to them, and the life-state machine a creature
// transitions through as damage and healing land.
package damage

import (
	enginedice "github.com/nat20/combatcore/backend/internal/engine/dice"
	"github.com/nat20/combatcore/backend/internal/engine/modifier"
	"github.com/nat20/combatcore/backend/pkg/rng"
)

// Type is a standard fifth-edition-style damage type.
type Type int

const (
	Slashing Type = iota
	Piercing
	Bludgeoning
	Fire
	Cold
	Lightning
	Acid
	Poison
	Necrotic
	Radiant
	Force
	Psychic
	Thunder
)

var typeNames = [...]string{
	"slashing", "piercing", "bludgeoning", "fire", "cold", "lightning",
	"acid", "poison", "necrotic", "radiant", "force", "psychic", "thunder",
}

func (t Type) String() string {
	if int(t) < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// Component is one typed piece of a damage roll: a primary weapon/spell
// hit, or a bonus component (Sneak Attack, Smite, elemental weapon, ...).
type Component struct {
	Roll   enginedice.SetRoll
	Type   Type
	Source modifier.Source
}

// Doubled doubles the component's dice (not its modifiers) — applied to
// every component on a critical hit unless the component's source opts
// out (spec.md §4.5 "bonus components follow the same rule unless their
// source says otherwise").
func (c Component) Doubled() Component {
	return Component{Roll: c.Roll.Doubled(), Type: c.Type, Source: c.Source}
}

// Roll is a full damage roll: one primary component plus zero or more
// bonus components (spec.md §4 "Damage roll (C9)").
type Roll struct {
	Primary Component
	Bonus   []Component
}

// Components returns every component, primary first.
func (r Roll) Components() []Component {
	return append([]Component{r.Primary}, r.Bonus...)
}

// Doubled doubles the primary component's dice and every bonus
// component's dice, except a bonus component whose Source is
// modifier.CustomSource("no_crit_double"), which is kept as is — the crit
// policy of spec.md §4.5.
func (r Roll) Doubled() Roll {
	bonus := make([]Component, len(r.Bonus))
	for i, c := range r.Bonus {
		if c.Source == modifier.CustomSource("no_crit_double") {
			bonus[i] = c
			continue
		}
		bonus[i] = c.Doubled()
	}
	return Roll{Primary: r.Primary.Doubled(), Bonus: bonus}
}

// ComponentResult is one rolled component, type-tagged for mitigation.
type ComponentResult struct {
	Type     Type
	Dice     []int
	Modifier int
	Subtotal int
}

// RollResult preserves every component's rolled result for scripted
// post-processing (spec.md §4 "DamageRollResult preserves per-component
// rolls").
type RollResult struct {
	Components []ComponentResult
}

// Roll resolves every component of r against src.
func (r Roll) Roll(src rng.Source) RollResult {
	components := r.Components()
	out := make([]ComponentResult, len(components))
	for i, c := range components {
		res := c.Roll.Roll(src)
		out[i] = ComponentResult{Type: c.Type, Dice: res.Dice, Modifier: res.Modifier, Subtotal: res.Subtotal}
	}
	return RollResult{Components: out}
}

// Total sums every component's subtotal.
func (r RollResult) Total() int {
	total := 0
	for _, c := range r.Components {
		total += c.Subtotal
	}
	return total
}
