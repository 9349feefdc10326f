// Package encounter implements the initiative-ordered turn cycle of
// spec.md §4.11 (C13): rolling initiative, tracking whose turn it is,
// advancing rounds, and skipping turns for incapacitated participants
// (including the unconscious death-saving-throw loop).
package encounter

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/nat20/combatcore/backend/internal/engine/d20"
	"github.com/nat20/combatcore/backend/internal/engine/damage"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/event"
	"github.com/nat20/combatcore/backend/internal/engine/resource"
	"github.com/nat20/combatcore/backend/internal/engine/targeting"
)

// ErrNotCurrentTurn is returned by EndTurn when the given entity is not
// the one whose turn it currently is.
var ErrNotCurrentTurn = errors.New("encounter: entity is not the current turn")

// Environment is the narrow capability surface Encounter needs from the
// rest of the engine — life state, death saves, initiative rolls, and
// turn-boundary resource resets — declared here rather than depending on
// a concrete aggregate, the same cycle-breaking pattern used by
// effect.Observer, targeting.Environment, and action.Environment.
type Environment interface {
	LifeState(e entity.Handle) damage.State
	Life(e entity.Handle) *damage.Life
	RollInitiative(e entity.Handle) *d20.Result
	PassTime(e entity.Handle, rule resource.RechargeRule)
	RollDeathSavingThrow(e entity.Handle) int
	targeting.Environment
}

// Participant pairs an entity with its rolled initiative, in turn order.
type Participant struct {
	Entity     entity.Handle
	Initiative *d20.Result
}

// Prompt marks whose turn it currently is and is awaiting an action.
type Prompt struct {
	Actor entity.Handle
}

// Encounter is one initiative-ordered combat, starting at round 1.
type Encounter struct {
	ID              uuid.UUID
	participants    []entity.Handle
	Round           int
	turnIndex       int
	InitiativeOrder []Participant
	Log             *event.Log

	pendingPrompt *Prompt
}

// New rolls initiative for participants, opens round 1, and starts the
// first turn, matching spec.md §4.11's Encounter::new.
func New(env Environment, id uuid.UUID, participants []entity.Handle) *Encounter {
	enc := &Encounter{
		ID:           id,
		participants: append([]entity.Handle(nil), participants...),
		Round:        1,
		Log:          event.NewLog(),
	}
	enc.rollInitiative(env)
	enc.startTurn(env)
	return enc
}

func (e *Encounter) rollInitiative(env Environment) {
	order := make([]Participant, len(e.participants))
	for i, ent := range e.participants {
		order[i] = Participant{Entity: ent, Initiative: env.RollInitiative(ent)}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Initiative.Total() > order[j].Initiative.Total()
	})
	e.InitiativeOrder = order
}

// CurrentEntity returns the entity whose turn it currently is.
func (e *Encounter) CurrentEntity() entity.Handle {
	return e.InitiativeOrder[e.turnIndex].Entity
}

// PendingPrompt returns the prompt awaiting a decision for the current
// turn, or nil if the current entity's turn was auto-skipped without
// needing one (e.g. a death save is still pending resolution).
func (e *Encounter) PendingPrompt() *Prompt { return e.pendingPrompt }

func (e *Encounter) startTurn(env Environment) {
	current := e.CurrentEntity()
	env.PassTime(current, resource.Turn)

	if e.shouldSkipTurn(env) {
		_ = e.EndTurn(env, current)
		return
	}

	e.pendingPrompt = &Prompt{Actor: current}
}

// shouldSkipTurn implements spec.md §4.11's should_skip_turn: an
// unconscious entity rolls a death saving throw instead of acting, and
// any non-Normal life state (other than unconscious, already handled)
// skips the turn outright.
func (e *Encounter) shouldSkipTurn(env Environment) bool {
	current := e.CurrentEntity()
	state := env.LifeState(current)

	if state == damage.Unconscious {
		natural := env.RollDeathSavingThrow(current)
		env.Life(current).RollDeathSave(natural)
		return true
	}

	return state != damage.Normal
}

// EndTurn advances to the next participant, rolling the round over and
// starting the next turn. It errors if actor is not the current entity.
func (e *Encounter) EndTurn(env Environment, actor entity.Handle) error {
	if actor != e.CurrentEntity() {
		return ErrNotCurrentTurn
	}

	e.pendingPrompt = nil
	e.turnIndex = (e.turnIndex + 1) % len(e.InitiativeOrder)
	if e.turnIndex == 0 {
		e.Round++
	}
	e.startTurn(env)
	return nil
}

// Participants returns every participant entity matching filter. Unlike
// action targeting's Filter.Matches, which queries the whole world,
// Participants restricts candidates to this encounter's own roster —
// matching the original's distinction between a world-wide EntityFilter
// query and an encounter-scoped participants() call.
func (e *Encounter) Participants(env targeting.Environment, filter targeting.Filter) []entity.Handle {
	if filter.Kind == targeting.All {
		return append([]entity.Handle(nil), e.participants...)
	}
	if filter.Kind == targeting.Specific {
		out := make([]entity.Handle, 0, len(e.participants))
		for _, ent := range e.participants {
			if _, ok := filter.Entities[ent]; ok {
				out = append(out, ent)
			}
		}
		return out
	}

	out := make([]entity.Handle, 0, len(e.participants))
	for _, ent := range e.participants {
		if filter.Matches(env, ent) {
			out = append(out, ent)
		}
	}
	return out
}
