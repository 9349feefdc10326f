// Package decision implements the action-prompt/decision validation of
// spec.md §4.12 (C14): matching a submitted decision against the prompt
// it answers before the engine accepts it.
package decision

import (
	"fmt"

	"github.com/nat20/combatcore/backend/internal/engine/action"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/event"
	"github.com/nat20/combatcore/backend/internal/engine/id"
	"github.com/nat20/combatcore/backend/internal/engine/resource"
	"github.com/nat20/combatcore/backend/internal/engine/targeting"
)

// Kind distinguishes an ordinary turn action prompt from a reaction
// prompt offered in response to a triggering event.
type Kind int

const (
	Action Kind = iota
	Reaction
)

// Prompt is something the engine is waiting on a decision for.
type Prompt struct {
	Kind Kind

	// Action prompt fields.
	Actor entity.Handle

	// Reaction prompt fields.
	Reactor      entity.Handle
	TriggerEvent event.Event
	Options      []id.ActionID
}

// NewActionPrompt builds a prompt asking actor to take their turn.
func NewActionPrompt(actor entity.Handle) Prompt {
	return Prompt{Kind: Action, Actor: actor}
}

// NewReactionPrompt builds a prompt offering reactor the choice to
// react to trigger with one of options, or to decline.
func NewReactionPrompt(reactor entity.Handle, trigger event.Event, options []id.ActionID) Prompt {
	return Prompt{Kind: Reaction, Reactor: reactor, TriggerEvent: trigger, Options: options}
}

// ActorHandle returns whichever entity this prompt is waiting on.
func (p Prompt) ActorHandle() entity.Handle {
	if p.Kind == Reaction {
		return p.Reactor
	}
	return p.Actor
}

// Decision is a submitted response to a Prompt.
type Decision struct {
	Kind Kind

	// Action decision fields.
	ActionData event.ActionData

	// Reaction decision fields.
	Reactor entity.Handle
	Event   event.Event
	// Choice is the reaction option chosen, or nil if the player
	// declined to react.
	Choice *id.ActionID
}

// ActorHandle returns whichever entity this decision is attributed to.
func (d Decision) ActorHandle() entity.Handle {
	if d.Kind == Reaction {
		return d.Reactor
	}
	return d.ActionData.Actor
}

// Validate implements spec.md §4.12's is_valid_decision: an Action
// prompt only accepts an Action decision for the same actor, a Reaction
// prompt only accepts a Reaction decision for the same reactor and
// triggering event (with an optional choice drawn from the offered
// options), and any other prompt/decision pairing is rejected outright.
func (p Prompt) Validate(d Decision) error {
	switch {
	case p.Kind == Action && d.Kind == Action:
		if p.Actor != d.ActionData.Actor {
			return newFieldMismatch("actor", p.Actor, d.ActionData.Actor, p, d)
		}
		return nil

	case p.Kind == Reaction && d.Kind == Reaction:
		if p.Reactor != d.Reactor {
			return newFieldMismatch("reactor", p.Reactor, d.Reactor, p, d)
		}
		if p.TriggerEvent.ID != d.Event.ID {
			return newFieldMismatch("event_id", p.TriggerEvent.ID, d.Event.ID, p, d)
		}
		if d.Choice != nil && !containsOption(p.Options, *d.Choice) {
			return newFieldMismatch("reaction_decision", p.Options, *d.Choice, p, d)
		}
		return nil

	default:
		return &Error{Kind: PromptDecisionMismatch, Prompt: p, Decision: d}
	}
}

// UsabilityEnv is the narrow read surface ValidateUsability needs: the
// actor's resource pool, to check whether a chosen action's cost is
// affordable and whether it is off cooldown.
type UsabilityEnv interface {
	Resources(actor entity.Handle) *resource.Pool
}

// ValidateUsability checks spec.md §4.12's "action must pass resource
// affordability and cooldown checks" for d's chosen action, given its
// Definition def (nil for a reaction decline, which always passes).
func (p Prompt) ValidateUsability(d Decision, def *action.Definition, env UsabilityEnv) error {
	if def == nil {
		return nil
	}
	pool := env.Resources(d.ActorHandle())

	if def.ResourceCost != nil {
		if pool == nil {
			return NewUsabilityError(fmt.Sprintf("%s has no resources to spend", def.ID), d)
		}
		if resourceID, ok := def.ResourceCost.CanAfford(pool); !ok {
			return NewUsabilityError(fmt.Sprintf("insufficient %s", resourceID), d)
		}
	}

	if def.Cooldown != nil && pool != nil {
		cooldownID, err := action.CooldownResourceID(def.ID)
		if err == nil {
			if r, ok := pool.Get(cooldownID); ok && !r.Available(1) {
				return NewUsabilityError(fmt.Sprintf("%s is on cooldown", def.ID), d)
			}
		}
	}

	return nil
}

// ValidateTargets checks spec.md §4.8's target-shape rules (range, line
// of sight, max target count) for an Action decision's chosen targets
// against def's targeting context, when def supplies one
// (def.Targeting == nil exempts actions with no dynamic targeting shape,
// e.g. self-only or untargeted utility actions).
func (p Prompt) ValidateTargets(d Decision, def *action.Definition, env action.Environment, targetEnv targeting.Environment) error {
	if def == nil || def.Targeting == nil || d.Kind != Action {
		return nil
	}
	actor := d.ActionData.Actor
	tctx := def.Targeting(env, actor, d.ActionData.Context)

	instances := make([]targeting.Instance, len(d.ActionData.Targets))
	for i, h := range d.ActionData.Targets {
		instances[i] = targeting.EntityInstance(h)
	}
	if err := tctx.Validate(targetEnv, actor, instances); err != nil {
		return NewUsabilityError(err.Error(), d)
	}
	return nil
}

func containsOption(options []id.ActionID, choice id.ActionID) bool {
	for _, o := range options {
		if o == choice {
			return true
		}
	}
	return false
}
