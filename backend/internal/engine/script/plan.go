// Package script implements the reaction-scripting boundary: a plain,
// serializable description of what a reaction does (a ReactionPlan), kept
// entirely free of engine references — no entity.Handle, no pointers into
// a World — so a plan can be authored, stored, and transmitted without
// ever touching live engine state. Execute is the one place a plan is
// interpreted against real entities and a real d20 roll.
package script

import (
	"github.com/nat20/combatcore/backend/internal/engine/id"
	"github.com/nat20/combatcore/backend/internal/engine/stats"
)

// Role abstracts away entity identity: a plan names "the actor", "the
// reactor", or "the target" rather than a concrete handle, so the same
// plan works for any binding of roles to entities at execution time.
type Role int

const (
	Actor Role = iota
	Reactor
	Target
)

// EventRef names which event a plan step refers to. TriggerEvent is the
// only variant spec.md defines — the event that caused the reaction to
// be offered in the first place.
type EventRef int

const (
	TriggerEvent EventRef = iota
)

// BonusKind distinguishes a flat numeric bonus from a dice-rolled one.
type BonusKind int

const (
	FlatBonus BonusKind = iota
	DiceBonus
)

// D20Bonus is a bonus to apply to a d20 roll, either a flat integer or a
// dice expression rolled at execution time. The original's
// ScriptD20Bonus parses these from a string expression via a small
// parser/evaluator (registry/serialize/parser.rs) backed by the rhai
// scripting engine; no such expression-language dependency exists in the
// retrieval pack to ground a faithful port on, so plans carry the
// already-resolved bonus shape directly rather than a parsed expression
// string (see DESIGN.md).
type D20Bonus struct {
	Kind BonusKind
	Flat int
	// DiceCount/DiceSides describe the dice bonus, e.g. 2d6: 2, 6.
	DiceCount  int
	DiceSides  int
}

// SavingThrow describes a saving throw a RequireSavingThrow plan step
// asks an entity to make.
type SavingThrow struct {
	Entity  Role
	Ability stats.Ability
}

// PlanKind is the closed reaction-plan union of spec.md's scripting
// boundary, mirroring the original's ScriptReactionPlan.
type PlanKind int

const (
	// None does nothing.
	None PlanKind = iota
	// Sequence executes every step in order.
	Sequence
	// ModifyD20Result adds Bonus to the most recent d20 roll.
	ModifyD20Result
	// RerollD20Result draws a fresh pair of d20s, optionally with Bonus
	// added, and — if ForceUseNew — always replaces the prior result
	// rather than only when it is better.
	RerollD20Result
	// RequireSavingThrow asks Target to save against SavingThrow, then
	// branches into OnSuccess or OnFailure.
	RequireSavingThrow
	// CancelEvent cancels EventRef and refunds any resources named.
	CancelEvent
)

// Plan is one reaction plan node. Only the fields relevant to Kind are
// meaningful — the others are zero.
type Plan struct {
	Kind PlanKind

	Steps []Plan // Sequence

	Bonus D20Bonus // ModifyD20Result, RerollD20Result's optional bonus
	HasRerollBonus bool
	ForceUseNew    bool // RerollD20Result

	Target      Role        // RequireSavingThrow
	SavingThrow SavingThrow // RequireSavingThrow
	OnSuccess   *Plan       // RequireSavingThrow
	OnFailure   *Plan       // RequireSavingThrow

	EventRef          EventRef       // CancelEvent
	ResourcesToRefund []id.ResourceID // CancelEvent
}

// NoPlan is the no-op plan.
func NoPlan() Plan { return Plan{Kind: None} }

// SequencePlan runs every step in order.
func SequencePlan(steps ...Plan) Plan { return Plan{Kind: Sequence, Steps: steps} }

// ModifyD20ResultPlan adds a flat bonus to the triggering roll.
func ModifyD20ResultPlan(flatBonus int) Plan {
	return Plan{Kind: ModifyD20Result, Bonus: D20Bonus{Kind: FlatBonus, Flat: flatBonus}}
}

// CancelEventPlan cancels the trigger event, refunding the named resources.
func CancelEventPlan(resourcesToRefund ...id.ResourceID) Plan {
	return Plan{Kind: CancelEvent, EventRef: TriggerEvent, ResourcesToRefund: resourcesToRefund}
}

// RequireSavingThrowPlan asks target to save against ability, branching
// into onSuccess or onFailure.
func RequireSavingThrowPlan(target Role, ability stats.Ability, onSuccess, onFailure Plan) Plan {
	return Plan{
		Kind:        RequireSavingThrow,
		Target:      target,
		SavingThrow: SavingThrow{Entity: target, Ability: ability},
		OnSuccess:   &onSuccess,
		OnFailure:   &onFailure,
	}
}

// RerollD20ResultPlan draws a fresh d20 pair, always replacing the prior
// result when forceUseNew is set and otherwise keeping whichever total is
// higher.
func RerollD20ResultPlan(forceUseNew bool) Plan {
	return Plan{Kind: RerollD20Result, ForceUseNew: forceUseNew}
}
