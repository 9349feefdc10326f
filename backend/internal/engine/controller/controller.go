// Package controller is the outermost orchestration layer: it owns every
// live encounter, routes decisions into events, and advances events that
// have a deterministic follow-up (a d20 check resolving, a damage roll
// resolving). It is the Go counterpart of the original's GameState —
// "WorldState instead?" per that file's own TODO comment — composing
// combat.World, encounter.Encounter, decision.Prompt/Decision, and
// event.Dispatcher rather than being a fifth Environment interface
// itself, since nothing beneath it needs to call back into a controller.
package controller

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nat20/combatcore/backend/internal/engine/action"
	"github.com/nat20/combatcore/backend/internal/engine/combat"
	"github.com/nat20/combatcore/backend/internal/engine/d20"
	"github.com/nat20/combatcore/backend/internal/engine/decision"
	"github.com/nat20/combatcore/backend/internal/engine/encounter"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/event"
	"github.com/nat20/combatcore/backend/internal/engine/id"
	"github.com/nat20/combatcore/backend/internal/engine/script"
	"github.com/nat20/combatcore/backend/internal/engine/targeting"
)

// ErrUnknownEncounter is returned when an encounter id names no live
// encounter.
var ErrUnknownEncounter = errors.New("controller: unknown encounter")

// Controller is the single type a transport layer (HTTP handler,
// websocket observer, CLI driver) talks to.
type Controller struct {
	World *combat.World

	encounters map[uuid.UUID]*encounter.Encounter
	inCombat   map[entity.Handle]uuid.UUID

	// globalLog records every event whose actor is not currently in an
	// encounter — combat.World's own events are recorded on their
	// encounter's Log instead, matching the original's log_event routing
	// ("if the actor is in combat log it in the encounter log, otherwise
	// in the global log").
	globalLog *event.Log

	// pendingEvents holds an event that was paused to offer reactions,
	// resumed once the prompted reactor has answered — the original's
	// pending_events EventQueue.
	pendingEvents *event.Queue

	dispatcher *event.Dispatcher

	// pendingReactionPrompt records, per encounter, a reaction prompt
	// queued while pendingEvents holds the event being reacted to. Only
	// one reaction prompt is held at a time per encounter, and it names a
	// single reactor with that reactor's own options; other eligible
	// reactors are not prompted for the same event.
	pendingReactionPrompt map[uuid.UUID]*decision.Prompt
}

// New builds a controller with no live encounters.
func New(world *combat.World) *Controller {
	return &Controller{
		World:                 world,
		encounters:            make(map[uuid.UUID]*encounter.Encounter),
		inCombat:              make(map[entity.Handle]uuid.UUID),
		globalLog:             event.NewLog(),
		pendingEvents:         event.NewQueue(),
		dispatcher:            event.NewDispatcher(),
		pendingReactionPrompt: make(map[uuid.UUID]*decision.Prompt),
	}
}

// StartEncounter begins a new encounter among participants, rolling
// initiative and starting the first turn.
func (c *Controller) StartEncounter(participants []entity.Handle) uuid.UUID {
	id := uuid.New()
	for _, p := range participants {
		c.inCombat[p] = id
	}
	c.globalLog.Append(event.New(event.Encounter, uuid.New()))
	c.encounters[id] = encounter.New(c.World, id, participants)
	return id
}

// EndEncounter tears down encounterID, releasing every participant back
// to out-of-combat status.
func (c *Controller) EndEncounter(encounterID uuid.UUID) {
	enc, ok := c.encounters[encounterID]
	if !ok {
		return
	}
	for _, p := range enc.Participants(c.World, targeting.AllFilter()) {
		delete(c.inCombat, p)
	}
	delete(c.encounters, encounterID)
	delete(c.pendingReactionPrompt, encounterID)
	c.globalLog.Append(event.New(event.Encounter, uuid.New()))
}

// Encounter returns the live encounter by id.
func (c *Controller) Encounter(encounterID uuid.UUID) (*encounter.Encounter, bool) {
	enc, ok := c.encounters[encounterID]
	return enc, ok
}

// EncounterFor returns the encounter actor currently belongs to, if any.
func (c *Controller) EncounterFor(actor entity.Handle) (uuid.UUID, bool) {
	id, ok := c.inCombat[actor]
	return id, ok
}

// NextPrompt returns the prompt encounterID is waiting on: a reaction
// prompt if one is queued, otherwise the current turn's action prompt.
func (c *Controller) NextPrompt(encounterID uuid.UUID) (decision.Prompt, error) {
	enc, ok := c.encounters[encounterID]
	if !ok {
		return decision.Prompt{}, ErrUnknownEncounter
	}
	if reactionPrompt, ok := c.pendingReactionPrompt[encounterID]; ok {
		return *reactionPrompt, nil
	}
	if p := enc.PendingPrompt(); p != nil {
		return decision.NewActionPrompt(p.Actor), nil
	}
	return decision.Prompt{}, fmt.Errorf("controller: encounter %s has no pending prompt", encounterID)
}

// SubmitDecision validates d against whatever prompt its actor's
// encounter (if any) is currently waiting on, then processes it.
func (c *Controller) SubmitDecision(d decision.Decision) error {
	actor := d.ActorHandle()
	encounterID, inCombat := c.inCombat[actor]

	if inCombat {
		prompt, err := c.NextPrompt(encounterID)
		if err != nil {
			return err
		}
		if err := prompt.Validate(d); err != nil {
			return err
		}

		def, err := c.chosenActionDefinition(d)
		if err != nil {
			return err
		}
		if err := prompt.ValidateUsability(d, def, c.World); err != nil {
			return err
		}
		if err := prompt.ValidateTargets(d, def, c.World, c.World); err != nil {
			return err
		}

		delete(c.pendingReactionPrompt, encounterID)
	}

	return c.processDecision(d)
}

// chosenActionDefinition resolves the action.Definition d names, for the
// resource-affordability/cooldown/targeting checks that run before a
// decision is accepted. A reaction decline (Choice == nil) resolves to
// (nil, nil), which exempts it from those checks.
func (c *Controller) chosenActionDefinition(d decision.Decision) (*action.Definition, error) {
	var actionID id.ActionID
	switch d.Kind {
	case decision.Action:
		actionID = d.ActionData.ActionID
	case decision.Reaction:
		if d.Choice == nil {
			return nil, nil
		}
		actionID = *d.Choice
	default:
		return nil, nil
	}

	def, ok := c.World.Actions.Get(actionID)
	if !ok {
		return nil, fmt.Errorf("controller: unknown action %s", actionID)
	}
	return &def, nil
}

// processDecision converts a validated Decision into the event(s) it
// requests, mirroring the original's process_decision.
func (c *Controller) processDecision(d decision.Decision) error {
	switch d.Kind {
	case decision.Action:
		ev := event.New(event.ActionRequested, uuid.New())
		ev.Action = d.ActionData
		c.ProcessEvent(ev)
		return nil

	case decision.Reaction:
		def, err := c.chosenActionDefinition(d)
		if err != nil {
			return err
		}
		if d.Choice != nil {
			ev := event.New(event.ActionRequested, uuid.New())
			ev.Action = event.ActionData{Actor: d.Reactor, ActionID: *d.Choice}
			c.ProcessEvent(ev)
		}

		// With no pending event left to resume, the current turn's own
		// action prompt — already held by its Encounter — answers the
		// original's "prompt the current actor for their next action"
		// step; there is nothing further to queue here.
		pending, ok := c.pendingEvents.Pop()
		if !ok {
			return nil
		}

		outcome := c.resolveReactionOutcome(def, d.Reactor, pending)
		if outcome.Cancelled {
			if actor, ok := eventActor(pending); ok {
				c.World.RefundResources(actor, outcome.ResourcesToRefund)
			}
			return nil
		}
		c.ProcessEvent(withD20Result(pending, outcome.Result))
		return nil

	default:
		return fmt.Errorf("controller: unknown decision kind %v", d.Kind)
	}
}

// resolveReactionOutcome interprets the chosen reaction's script.Plan (if
// any) against pending's triggering d20 result, binding script.Reactor to
// reactor and script.Actor/script.Target to whichever entity pending is
// "about" (the same mapping logEvent uses to route it) — spec.md §4.10's
// reaction-resolution step. A decline (def == nil) or a plan-less
// reaction leaves pending's result untouched and never cancels it.
func (c *Controller) resolveReactionOutcome(def *action.Definition, reactor entity.Handle, pending event.Event) script.Outcome {
	if def == nil || def.Plan == nil {
		return script.Outcome{Result: pending.D20Check}
	}
	triggerActor, _ := eventActor(pending)
	bindings := map[script.Role]entity.Handle{
		script.Reactor: reactor,
		script.Actor:   triggerActor,
		script.Target:  reactor,
	}
	return script.Execute(*def.Plan, bindings, pending.D20Check, c.World)
}

// withD20Result returns pending with its D20Check replaced by result, for
// a D20CheckPerformed event a reaction's plan modified or rerolled; any
// other event kind (e.g. DamageRollPerformed, which carries no *d20.Result
// slot of its own) is returned unchanged.
func withD20Result(pending event.Event, result *d20.Result) event.Event {
	if pending.Kind == event.D20CheckPerformed {
		pending.D20Check = result
	}
	return pending
}

// ProcessEvent logs ev (routed to its actor's encounter, if in combat,
// or the global log otherwise), lets the dispatcher run any listener
// awaiting it as a response, offers any in-combat participant an
// available reaction to ev (pausing ev if one is offered), and otherwise
// advances ev to whatever deterministic follow-up event it produces.
func (c *Controller) ProcessEvent(ev event.Event) {
	c.logEvent(ev)

	if next := c.dispatcher.HandleResponse(ev); next != nil {
		c.ProcessEvent(*next)
		return
	}

	if c.offerReactions(ev) {
		return
	}

	if next := c.advanceEvent(ev); next != nil {
		c.ProcessEvent(*next)
	}
}

// offerReactions implements spec.md §4.10 step 3's
// available_reactions_to_event for the two event kinds a reaction's
// script.Plan can actually act on — a d20 check or a damage roll about
// to resolve. It scans ev's actor's encounter for the first in-combat
// participant (other than ev's own actor) with a registered Reaction-tag
// action.Definition whose ReactsTo predicate matches, and if one exists,
// pauses ev in pendingEvents and offers that participant the choice to
// use it (or decline) via QueueReactionPrompt instead of advancing ev
// immediately. Only one reactor's prompt is modeled at a time per
// encounter, matching pendingReactionPrompt's own single-slot shape — a
// second eligible reactor is left unprompted for this trigger, the same
// simplification the original's single combined ActionPrompt::Reactions
// makes by bundling every reactor's options into one prompt.
func (c *Controller) offerReactions(ev event.Event) bool {
	if ev.Kind != event.D20CheckPerformed && ev.Kind != event.DamageRollPerformed {
		return false
	}
	triggerActor, ok := eventActor(ev)
	if !ok {
		return false
	}
	encounterID, inCombat := c.inCombat[triggerActor]
	if !inCombat {
		return false
	}
	enc, ok := c.encounters[encounterID]
	if !ok {
		return false
	}
	if _, alreadyOffered := c.pendingReactionPrompt[encounterID]; alreadyOffered {
		return false
	}

	for _, reactor := range enc.Participants(c.World, targeting.AllFilter()) {
		if reactor == triggerActor {
			continue
		}
		options := c.reactionsAvailableTo(reactor, triggerActor)
		if len(options) == 0 {
			continue
		}
		c.QueueReactionPrompt(encounterID, reactor, ev, options)
		return true
	}
	return false
}

// reactionsAvailableTo returns every registered Reaction-tag action
// definition whose ReactsTo predicate offers it to reactor for an event
// whose actor is triggerActor.
func (c *Controller) reactionsAvailableTo(reactor, triggerActor entity.Handle) []action.Definition {
	var out []action.Definition
	for _, def := range c.World.Actions.Values() {
		if def.Kind.Tag != action.Reaction || def.ReactsTo == nil {
			continue
		}
		if def.ReactsTo(reactor, triggerActor) {
			out = append(out, def)
		}
	}
	return out
}

// QueueReactionPrompt pauses trigger in pendingEvents and records a
// reaction prompt for encounterID offering reactor one of options (or
// the choice to decline) — the explicit entry point a transport layer
// uses in place of the automatic available_reactions_to_event scan.
func (c *Controller) QueueReactionPrompt(encounterID uuid.UUID, reactor entity.Handle, trigger event.Event, options []action.Definition) {
	ids := make([]id.ActionID, len(options))
	for i, def := range options {
		ids[i] = def.ID
	}
	c.pendingEvents.Push(trigger)
	prompt := decision.NewReactionPrompt(reactor, trigger, ids)
	c.pendingReactionPrompt[encounterID] = &prompt
}

// AddListener registers l on the dispatcher to await its trigger event.
func (c *Controller) AddListener(l event.Listener) { c.dispatcher.AddListener(l) }

// logEvent routes ev into the right log: its actor's encounter log if
// they are in combat, the controller's global log otherwise.
func (c *Controller) logEvent(ev event.Event) {
	actor, ok := eventActor(ev)
	if ok {
		if encounterID, inCombat := c.inCombat[actor]; inCombat {
			if enc, ok := c.encounters[encounterID]; ok {
				enc.Log.Append(ev)
				return
			}
		}
	}
	c.globalLog.Append(ev)
}

// eventActor returns the entity ev is "about", if any — the entity
// whose encounter membership decides where ev is logged.
func eventActor(ev event.Event) (entity.Handle, bool) {
	switch ev.Kind {
	case event.ActionRequested, event.ActionPerformed:
		return ev.Action.Actor, true
	case event.ReactionTriggered, event.ReactionRequested, event.ReactionPerformed:
		return entity.Handle{}, false
	case event.LifeStateChanged:
		return ev.LifeStateEntity, true
	case event.D20CheckPerformed, event.D20CheckResolved:
		return ev.D20CheckEntity, true
	case event.DamageRollPerformed, event.DamageRollResolved:
		return ev.DamageRollEntity, true
	default:
		return entity.Handle{}, false
	}
}

// advanceEvent implements the original's advance_event: performing a
// requested action and chaining each roll-performed event into its own
// resolved follow-up.
func (c *Controller) advanceEvent(ev event.Event) *event.Event {
	switch ev.Kind {
	case event.ActionRequested:
		def, ok := c.World.Actions.Get(ev.Action.ActionID)
		if !ok {
			return nil
		}
		results, err := def.Perform(c.World, ev.Action.Actor, ev.Action.Context, ev.Action.Targets)
		if err != nil {
			// Insufficient resources: the action never executes and no
			// ActionPerformed follows (spec.md §4.6's rejection path).
			// decision.Prompt.ValidateUsability catches this before the
			// event is ever submitted; this is the defense-in-depth path
			// for a cost a hook mutated after validation ran.
			return nil
		}
		performed := event.New(event.ActionPerformed, uuid.New()).RespondingTo(ev.ID)
		performed.Action = ev.Action
		performed.ActionResults = results
		return &performed

	case event.D20CheckPerformed:
		resolved := event.New(event.D20CheckResolved, uuid.New()).RespondingTo(ev.ID)
		resolved.D20CheckEntity = ev.D20CheckEntity
		resolved.D20Check = ev.D20Check
		return &resolved

	case event.DamageRollPerformed:
		resolved := event.New(event.DamageRollResolved, uuid.New()).RespondingTo(ev.ID)
		resolved.DamageRollEntity = ev.DamageRollEntity
		resolved.DamageRoll = ev.DamageRoll
		return &resolved

	default:
		return nil
	}
}

// EndTurn ends actor's turn in their current encounter.
func (c *Controller) EndTurn(actor entity.Handle) error {
	encounterID, ok := c.inCombat[actor]
	if !ok {
		return fmt.Errorf("controller: %v is not in an encounter", actor)
	}
	enc, ok := c.encounters[encounterID]
	if !ok {
		return ErrUnknownEncounter
	}
	return enc.EndTurn(c.World, actor)
}

// GlobalLog returns every event logged for entities outside combat.
func (c *Controller) GlobalLog() []event.Event { return c.globalLog.Events() }
