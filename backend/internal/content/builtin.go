// Package content supplies the small built-in action pack cmd/server
// registers at boot. Loading content definitions from files is explicitly
// out of scope (spec.md §6), so the action registry is always populated
// from already-constructed action.Definition values the way
// internal/engine/controller's own tests build their fixture registry —
// this package just gives a real server process the same thing a test
// would otherwise hand-build inline.
package content

import (
	"github.com/nat20/combatcore/backend/internal/engine/action"
	"github.com/nat20/combatcore/backend/internal/engine/d20"
	"github.com/nat20/combatcore/backend/internal/engine/damage"
	enginedice "github.com/nat20/combatcore/backend/internal/engine/dice"
	"github.com/nat20/combatcore/backend/internal/engine/effect"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/id"
	"github.com/nat20/combatcore/backend/internal/engine/modifier"
	"github.com/nat20/combatcore/backend/internal/engine/resource"
	"github.com/nat20/combatcore/backend/internal/engine/script"
	"github.com/nat20/combatcore/backend/internal/engine/stats"
	"github.com/nat20/combatcore/backend/pkg/dice"
)

// Namespace identifies this pack's content ids ("nat20_core:action.strike").
const Namespace = "nat20_core"

// Actions returns the built-in action definitions registered at boot.
func Actions() []action.Definition {
	return []action.Definition{strike(), club(), parry(), shove()}
}

// Effects returns the built-in effect definitions registered at boot.
func Effects() []effect.Definition {
	return []effect.Definition{prone()}
}

// proneID is the effect shove applies on a failed Athletics contest.
var proneID = id.NewEffectID(Namespace, "effect.prone")

// prone is a debuff that costs a creature 2 points of armor class against
// every attack, melee or ranged, the simplest hook-driven stand-in for the condition's
// full rules (advantage/disadvantage on attack rolls, movement cost) —
// those interact with the attack roll pipeline's targeting/advantage
// machinery, out of scope for this one built-in fixture.
func prone() effect.Definition {
	return effect.Definition{
		ID:          proneID,
		Kind:        effect.Debuff,
		Description: "knocked prone",
		Hooks: effect.Hooks{
			OnArmorClass: func(_ effect.Observer, _ entity.Handle, ac *stats.ArmorClass) {
				ac.Modifiers.AddInt(modifier.CustomSource("prone"), -2)
			},
		},
	}
}

// shove knocks a target prone on a failed Athletics check against a DC
// derived from the performer's own Strength (8 + proficiency bonus +
// Strength modifier, the standard ability-check DC formula), rather
// than a saving throw.
func shove() action.Definition {
	return action.Definition{
		ID: id.NewActionID(Namespace, "action.shove"),
		Kind: action.Kind{
			Tag:    action.SkillCheckEffect,
			Effect: proneID,
			SkillCheck: func(env action.Environment, performer entity.Handle, _ action.Context) d20.DC[stats.Skill] {
				dc := modifier.New()
				dc.AddInt(modifier.Base, 8+env.ProficiencyBonus(performer))
				if scores := env.AbilityScores(performer); scores != nil {
					dc.AddInt(modifier.AbilitySource(stats.Strength.String()), scores.AbilityModifier(stats.Strength))
				}
				return d20.DC[stats.Skill]{Key: stats.Athletics, DC: dc}
			},
		},
	}
}

// strike is an unconditional 1d6 slashing damage action with no attack
// roll or saving throw, the same fixture internal/engine/controller's and
// internal/httpapi's tests build inline.
func strike() action.Definition {
	set, err := dice.NewDiceSet(1, 6)
	if err != nil {
		panic(err)
	}
	return action.Definition{
		ID: id.NewActionID(Namespace, "action.strike"),
		Kind: action.Kind{
			Tag: action.UnconditionalDamage,
			Damage: func(_ action.Environment, _ entity.Handle, _ action.Context) damage.Roll {
				return damage.Roll{
					Primary: damage.Component{
						Roll:   enginedice.NewSetRoll(set),
						Type:   damage.Slashing,
						Source: modifier.Base,
					},
				}
			},
		},
	}
}

// club is an unconditional 1d4 bludgeoning damage action, distinct from
// strike only in its dice and damage type, to give the boot-time registry
// more than a single entry to exercise registry.Load's load-order and
// duplicate-id bookkeeping against.
func club() action.Definition {
	set, err := dice.NewDiceSet(1, 4)
	if err != nil {
		panic(err)
	}
	return action.Definition{
		ID: id.NewActionID(Namespace, "action.club"),
		Kind: action.Kind{
			Tag: action.UnconditionalDamage,
			Damage: func(_ action.Environment, _ entity.Handle, _ action.Context) damage.Roll {
				return damage.Roll{
					Primary: damage.Component{
						Roll:   enginedice.NewSetRoll(set),
						Type:   damage.Bludgeoning,
						Source: modifier.Base,
					},
				}
			},
		},
	}
}

// parry is a reaction any creature may spend once per turn to cancel an
// incoming attack's d20 check outright — the simplest possible use of a
// script.Plan, offered to every in-combat participant other than
// whoever triggered the roll (ReactsTo draws no distinction beyond
// "not yourself").
func parry() action.Definition {
	rule := resource.Turn
	plan := script.CancelEventPlan()
	return action.Definition{
		ID:       id.NewActionID(Namespace, "action.parry"),
		Kind:     action.Kind{Tag: action.Reaction},
		Cooldown: &rule,
		Plan:     &plan,
		ReactsTo: func(reactor, triggerActor entity.Handle) bool { return reactor != triggerActor },
	}
}
