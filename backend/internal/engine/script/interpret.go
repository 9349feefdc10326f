package script

import (
	"github.com/nat20/combatcore/backend/internal/engine/d20"
	enginedice "github.com/nat20/combatcore/backend/internal/engine/dice"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/id"
	"github.com/nat20/combatcore/backend/internal/engine/modifier"
	"github.com/nat20/combatcore/backend/internal/engine/stats"
	"github.com/nat20/combatcore/backend/pkg/dice"
	"github.com/nat20/combatcore/backend/pkg/rng"
)

// scriptBonusSource names the modifier.Source every bonus a plan applies
// is attributed to, so a second application of the same plan replaces
// rather than stacks (spec.md §4.1's replace-not-stack rule).
var scriptBonusSource = modifier.CustomSource("script_bonus")

// Environment is the narrow capability a Plan needs from the world to
// resolve a RequireSavingThrow step: roll the named entity's saving
// throw against a DC built from the plan's own modifiers, and draw
// randomness for RerollD20Result / dice bonuses. Kept separate from
// action.Environment/encounter.Environment so this package never depends
// on combat, matching every other engine-core package's cycle-breaking
// Environment pattern.
type Environment interface {
	RollSavingThrow(target entity.Handle, ability stats.Ability, dc *modifier.Set) *d20.Result
	RNG() rng.Source
}

// Outcome is what executing a Plan produced: a possibly-replaced d20
// result, whether the triggering event should be cancelled, and which
// resources that cancellation should refund.
type Outcome struct {
	Result            *d20.Result
	Cancelled         bool
	ResourcesToRefund []id.ResourceID
}

// evaluate resolves a D20Bonus to a concrete integer, rolling dice
// against src when the bonus is dice-based.
func (b D20Bonus) evaluate(src rng.Source) int {
	if b.Kind != DiceBonus || b.DiceCount <= 0 || b.DiceSides <= 0 {
		return b.Flat
	}
	set, err := dice.NewDiceSet(b.DiceCount, b.DiceSides)
	if err != nil {
		return b.Flat
	}
	return enginedice.NewSetRoll(set).Roll(src).Subtotal
}

// Execute interprets plan against bindings (which entity plays which
// Role) and the d20 result the triggering event carried, if any.
// Execute never mutates engine state directly beyond env's own methods
// (RollSavingThrow) — CancelEvent's actual event-log bookkeeping and
// resource refund are left to the caller (the controller layer), since
// this package holds no reference to an event.Dispatcher or
// resource.Pool, only the capability to ask for a saving throw.
func Execute(plan Plan, bindings map[Role]entity.Handle, result *d20.Result, env Environment) Outcome {
	switch plan.Kind {
	case None:
		return Outcome{Result: result}

	case Sequence:
		out := Outcome{Result: result}
		for _, step := range plan.Steps {
			stepOut := Execute(step, bindings, out.Result, env)
			out.Result = stepOut.Result
			if stepOut.Cancelled {
				out.Cancelled = true
			}
			out.ResourcesToRefund = append(out.ResourcesToRefund, stepOut.ResourcesToRefund...)
		}
		return out

	case ModifyD20Result:
		if result == nil {
			return Outcome{}
		}
		result.ModifierBreakdown.AddInt(scriptBonusSource, plan.Bonus.evaluate(env.RNG()))
		return Outcome{Result: result}

	case RerollD20Result:
		if result == nil {
			return Outcome{}
		}
		rerolled := rerollD20(result, env.RNG())
		if plan.HasRerollBonus {
			rerolled.ModifierBreakdown.AddInt(scriptBonusSource, plan.Bonus.evaluate(env.RNG()))
		}
		if plan.ForceUseNew || rerolled.Total() > result.Total() {
			return Outcome{Result: rerolled}
		}
		return Outcome{Result: result}

	case RequireSavingThrow:
		target, ok := bindings[plan.Target]
		if !ok {
			return Outcome{Result: result}
		}
		dc := modifier.New()
		if result != nil {
			dc.AddInt(scriptBonusSource, result.Total())
		}
		save := env.RollSavingThrow(target, plan.SavingThrow.Ability, dc)
		branch := plan.OnFailure
		if save.Success {
			branch = plan.OnSuccess
		}
		if branch == nil {
			return Outcome{Result: result}
		}
		return Execute(*branch, bindings, result, env)

	case CancelEvent:
		return Outcome{Result: result, Cancelled: true, ResourcesToRefund: plan.ResourcesToRefund}

	default:
		return Outcome{Result: result}
	}
}

// rerollD20 draws a fresh pair of d20s with the same roll mode and
// modifiers as the original result, mirroring d20.Check.Roll's own
// roll-and-select logic — duplicated rather than imported because a
// Result alone (unlike a Check) does not retain the Advantage tracker
// that produced its RollMode, only the resolved mode itself.
func rerollD20(original *d20.Result, src rng.Source) *d20.Result {
	roll1 := src.IntN(20) + 1
	roll2 := src.IntN(20) + 1

	var selected int
	switch original.RollMode {
	case d20.Advantage:
		selected = maxInt(roll1, roll2)
	case d20.Disadvantage:
		selected = minInt(roll1, roll2)
	default:
		selected = roll1
	}

	return &d20.Result{
		Rolls:             []int{roll1, roll2},
		SelectedRoll:      selected,
		ModifierBreakdown: original.ModifierBreakdown.Clone(),
		RollMode:          original.RollMode,
		IsCrit:            selected == 20,
		IsCritFail:        selected == 1,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
