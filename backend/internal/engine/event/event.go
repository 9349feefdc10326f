// Package event implements the event engine of spec.md §4.10 (C12): a
// pending queue of cross-cutting notifications (actions requested and
// performed, reactions, life-state changes, d20/damage rolls) that
// listeners can react to and that the full encounter log accumulates.
package event

import (
	"github.com/google/uuid"

	"github.com/nat20/combatcore/backend/internal/engine/action"
	"github.com/nat20/combatcore/backend/internal/engine/d20"
	"github.com/nat20/combatcore/backend/internal/engine/damage"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/id"
)

// Kind is the closed event-kind union of spec.md §4.10.
type Kind int

const (
	Encounter Kind = iota
	ActionRequested
	ActionPerformed
	ReactionTriggered
	ReactionRequested
	ReactionPerformed
	LifeStateChanged
	D20CheckPerformed
	D20CheckResolved
	DamageRollPerformed
	DamageRollResolved
)

// ActionData carries the actor, action id, context, and targets for an
// action-shaped event — shared by ActionRequested and ActionPerformed.
type ActionData struct {
	Actor      entity.Handle
	ActionID   id.ActionID
	Context    action.Context
	Targets    []entity.Handle
}

// Event is one notification flowing through the engine. ResponseTo, when
// set, names the event this one answers (e.g. an ActionPerformed in
// response to an ActionRequested) — spec.md §4.10's listener matching is
// keyed off this field.
type Event struct {
	ID         uuid.UUID
	Kind       Kind
	ResponseTo *uuid.UUID

	EncounterSubevent string
	Action            ActionData
	ActionResults     []action.Result
	LifeStateEntity   entity.Handle
	LifeState         damage.State
	D20CheckEntity    entity.Handle
	D20Check          *d20.Result
	DamageRollEntity  entity.Handle
	DamageRoll        damage.RollResult
	DamageMitigated   []damage.Result
}

// newEvent stamps a freshly constructed event with a new id. The caller
// provides the UUID so the package never calls a nondeterministic
// generator directly outside of this single seam.
func newEvent(kind Kind, id uuid.UUID) Event {
	return Event{ID: id, Kind: kind}
}

// New builds an event of kind with a caller-supplied id (callers
// generate ids with uuid.New() or, in tests, a fixed value).
func New(kind Kind, eventID uuid.UUID) Event {
	return newEvent(kind, eventID)
}

// RespondingTo marks e as a response to trigger.
func (e Event) RespondingTo(trigger uuid.UUID) Event {
	e.ResponseTo = &trigger
	return e
}
