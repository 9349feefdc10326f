package action

import (
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/id"
	"github.com/nat20/combatcore/backend/internal/engine/resource"
	"github.com/nat20/combatcore/backend/internal/engine/script"
	"github.com/nat20/combatcore/backend/internal/engine/targeting"
)

// TargetingFn builds the targeting context an action presents, which may
// depend on the performer's current state and action context.
type TargetingFn func(env Environment, performer entity.Handle, ctx Context) targeting.Context

// ReactsToFn reports whether a Reaction-tag definition is offered to
// reactor in response to an event whose actor is triggerActor — the same
// pre-flattened-trigger approach ReactionFn itself takes, kept this
// narrow (two handles, no event type) so this package never needs to
// import internal/engine/event.
type ReactsToFn func(reactor, triggerActor entity.Handle) bool

// Definition is a registry-loadable action template (spec.md §4.6
// "Action"). ResourceCost is spent once per perform() regardless of how
// many targets are hit; Cooldown, if set, additionally gates
// availability via whatever recharge-tracking the caller applies. Plan
// and ReactsTo are only meaningful for a Kind.Tag == Reaction
// definition: ReactsTo decides whether it is offered for a given
// trigger, and Plan is interpreted against the triggering roll once
// chosen (spec.md §4.10's reaction resolution).
type Definition struct {
	ID           id.ActionID
	Kind         Kind
	Targeting    TargetingFn
	ResourceCost *resource.CostMap
	Cooldown     *resource.RechargeRule
	Plan         *script.Plan
	ReactsTo     ReactsToFn
}

// DefinitionID implements registry.Definition[id.ActionID].
func (d Definition) DefinitionID() id.ActionID { return d.ID }

// Perform runs the full spec.md §4.6 "Action::perform" pipeline: run
// every on_action hook contributed by the performer's active effects,
// spend the action's resource cost (each on_resource_cost hook may
// mutate the cost first), then dispatch the action kind against every
// target. If the performer cannot afford the (possibly hook-mutated)
// cost, the action is rejected — no target is touched, matching
// spec.md §4.6's "insufficient resources -> rejected before §4.6.3"
// failure mode (scenario S6).
func (d Definition) Perform(env Environment, performer entity.Handle, ctx Context, targets []entity.Handle) ([]Result, error) {
	for _, hook := range env.ActionHooks(performer) {
		hook(env, performer, d.ID)
	}

	cost := d.ResourceCost
	for _, hook := range env.ResourceCostHooks(performer) {
		hook(env, performer, cost)
	}
	if cost != nil {
		if err := env.SpendResources(performer, cost); err != nil {
			return nil, err
		}
	}
	if d.Cooldown != nil {
		env.StartCooldown(performer, d.ID, *d.Cooldown)
	}

	results := make([]Result, len(targets))
	for i, target := range targets {
		results[i] = d.Kind.Perform(env, performer, ctx, target)
	}
	return results, nil
}
