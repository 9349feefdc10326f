// Package dice implements the composite-roll layer of spec.md §4.2 (C2):
// a DiceSetRoll pairs a dice set with a modifier set, and a CompositeRoll
// is an ordered list of such pairs (a damage roll's primary component plus
// its bonus components, for instance).
package dice

import (
	"github.com/nat20/combatcore/backend/internal/engine/modifier"
	"github.com/nat20/combatcore/backend/pkg/dice"
	"github.com/nat20/combatcore/backend/pkg/rng"
)

// SetRoll pairs a dice set with a modifier set — the unit every
// component of a composite roll is built from.
type SetRoll struct {
	Dice      dice.DiceSet
	Modifiers *modifier.Set
}

// NewSetRoll constructs a SetRoll with an empty modifier set.
func NewSetRoll(set dice.DiceSet) SetRoll {
	return SetRoll{Dice: set, Modifiers: modifier.New()}
}

// Min is the analytically lowest possible subtotal: every die at 1.
func (r SetRoll) Min() int {
	return r.Dice.Min() + r.Modifiers.TotalInt()
}

// Max is the analytically highest possible subtotal: every die at its face.
func (r SetRoll) Max() int {
	return r.Dice.Max() + r.Modifiers.TotalInt()
}

// RollResult captures one resolved SetRoll: the individual die faces so a
// hook can reroll or floor specific dice, plus the subtotal.
type RollResult struct {
	Dice     []int
	Modifier int
	Subtotal int
}

// Roll draws r.Dice.Count dice of r.Dice.Size from src and sums them with
// the modifier total (spec.md §4.2 "roll a dice set → { per-die rolls,
// modifiers, subtotal = sum(rolls) + modifiers.total }").
func (r SetRoll) Roll(src rng.Source) RollResult {
	faces := make([]int, r.Dice.Count)
	sum := 0
	for i := range faces {
		faces[i] = src.IntN(r.Dice.Size) + 1
		sum += faces[i]
	}
	mod := r.Modifiers.TotalInt()
	return RollResult{Dice: faces, Modifier: mod, Subtotal: sum + mod}
}

// Doubled returns a SetRoll with its dice count doubled (not its
// modifiers) — the critical-hit dice-doubling rule of spec.md §4.5
// ("double the dice count... modifiers are not doubled").
func (r SetRoll) Doubled() SetRoll {
	return SetRoll{Dice: r.Dice.Doubled(), Modifiers: r.Modifiers}
}

// CompositeRoll is an ordered list of SetRoll components — e.g. a weapon's
// base damage plus a Smite bonus component, each potentially a different
// damage type.
type CompositeRoll struct {
	Components []SetRoll
}

// CompositeRollResult preserves each component's RollResult for
// post-processing hooks (spec.md §4 "DamageRollResult preserves
// per-component rolls for scripted post-processing").
type CompositeRollResult struct {
	Components []RollResult
}

// Roll resolves every component in order.
func (c CompositeRoll) Roll(src rng.Source) CompositeRollResult {
	out := make([]RollResult, len(c.Components))
	for i, comp := range c.Components {
		out[i] = comp.Roll(src)
	}
	return CompositeRollResult{Components: out}
}

// Total sums every component's subtotal.
func (r CompositeRollResult) Total() int {
	total := 0
	for _, c := range r.Components {
		total += c.Subtotal
	}
	return total
}
