package combat

import (
	"github.com/nat20/combatcore/backend/internal/engine/d20"
	"github.com/nat20/combatcore/backend/internal/engine/effect"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/modifier"
	"github.com/nat20/combatcore/backend/internal/engine/proficiency"
	"github.com/nat20/combatcore/backend/internal/engine/resource"
	"github.com/nat20/combatcore/backend/internal/engine/stats"
)

// This file rounds out encounter.Environment: initiative rolls, the
// turn-boundary resource/effect pass, and death-saving throws. Combined
// with the effect.Observer and targeting.Environment methods defined
// elsewhere in this package, World now satisfies every engine-core
// Environment interface at once.

// RollInitiative rolls a dexterity check with no skill or saving-throw
// template attached — the original's SkillSet::check(Skill::Initiative,
// ...) call has no Go-side equivalent because this module's Skill
// enumeration (spec.md's eighteen standard skills) has no Initiative
// entry; initiative is rolled as a bare dexterity check instead.
func (w *World) RollInitiative(e entity.Handle) *d20.Result {
	check := d20.New(proficiency.New(proficiency.None, modifier.None))
	if scores := w.AbilityScores(e); scores != nil {
		check.Modifiers.AddInt(modifier.AbilitySource(stats.Dexterity.String()), scores.AbilityModifier(stats.Dexterity))
	}
	return check.Roll(w.rng, w.ProficiencyBonus(e))
}

// PassTime refills e's resources due at rule and, on a turn boundary,
// advances its start-of-turn effect lifetimes.
func (w *World) PassTime(e entity.Handle, rule resource.RechargeRule) {
	if pool := w.Resources(e); pool != nil {
		pool.PassTime(rule)
	}
	if rule == resource.Turn {
		w.Effects.PassTime(w, e, effect.StartOfTurn)
	}
}

// RollDeathSavingThrow rolls the flat, modifier-free d20 spec.md §4.9
// death saves use, returning the natural face rolled.
func (w *World) RollDeathSavingThrow(entity.Handle) int {
	return w.rng.IntN(20) + 1
}
