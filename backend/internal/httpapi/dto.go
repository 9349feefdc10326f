package httpapi

import (
	"github.com/google/uuid"

	"github.com/nat20/combatcore/backend/internal/engine/action"
	"github.com/nat20/combatcore/backend/internal/engine/combat"
	"github.com/nat20/combatcore/backend/internal/engine/decision"
	"github.com/nat20/combatcore/backend/internal/engine/encounter"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/event"
	"github.com/nat20/combatcore/backend/internal/engine/id"
	"github.com/nat20/combatcore/backend/internal/engine/stats"
)

// spawnActorRequest is the wire body for POST /actors. AbilityScores
// holds only the abilities the caller wants to override away from the
// 10 every stats.NewScoreMap ability defaults to.
type spawnActorRequest struct {
	Tag           string         `json:"tag" validate:"required,oneof=character monster"`
	AbilityScores map[string]int `json:"ability_scores"`
	MaxHP         int            `json:"max_hp" validate:"required,min=1"`
	Level         int            `json:"level"`
	BaseArmorClass int           `json:"base_armor_class" validate:"min=0"`
}

func (req spawnActorRequest) buildScores() (*stats.ScoreMap, error) {
	scores := stats.NewScoreMap(10)
	for name, base := range req.AbilityScores {
		ability, ok := abilityByName[name]
		if !ok {
			return nil, &fieldError{field: "ability_scores", reason: "unknown ability " + name}
		}
		scores.Get(ability).Base = base
	}
	return scores, nil
}

var abilityByName = map[string]stats.Ability{
	"strength":     stats.Strength,
	"dexterity":    stats.Dexterity,
	"constitution": stats.Constitution,
	"intelligence": stats.Intelligence,
	"wisdom":       stats.Wisdom,
	"charisma":     stats.Charisma,
}

var tagByName = map[string]combat.Tag{
	"character": combat.TagCharacter,
	"monster":   combat.TagMonster,
}

type fieldError struct {
	field  string
	reason string
}

func (e *fieldError) Error() string { return e.field + ": " + e.reason }

type spawnActorResponse struct {
	Handle entity.Handle `json:"handle"`
}

// startEncounterRequest is the wire body for POST /encounters.
type startEncounterRequest struct {
	Participants []entity.Handle `json:"participants" validate:"required,min=1"`
}

type startEncounterResponse struct {
	EncounterID uuid.UUID `json:"encounter_id"`
}

type participantView struct {
	Entity     entity.Handle `json:"entity"`
	Initiative int           `json:"initiative"`
}

type encounterView struct {
	EncounterID    uuid.UUID         `json:"encounter_id"`
	Round          int               `json:"round"`
	CurrentEntity  entity.Handle     `json:"current_entity"`
	InitiativeOrder []participantView `json:"initiative_order"`
}

func newEncounterView(encounterID uuid.UUID, enc *encounter.Encounter) encounterView {
	order := make([]participantView, len(enc.InitiativeOrder))
	for i, p := range enc.InitiativeOrder {
		order[i] = participantView{Entity: p.Entity, Initiative: p.Initiative.Total()}
	}
	return encounterView{
		EncounterID:     encounterID,
		Round:           enc.Round,
		CurrentEntity:   enc.CurrentEntity(),
		InitiativeOrder: order,
	}
}

// promptView renders whichever decision.Prompt an encounter is currently
// waiting on.
type promptView struct {
	Kind    string          `json:"kind"`
	Actor   *entity.Handle  `json:"actor,omitempty"`
	Reactor *entity.Handle  `json:"reactor,omitempty"`
	EventID *uuid.UUID      `json:"trigger_event_id,omitempty"`
	Options []id.ActionID   `json:"options,omitempty"`
}

func newPromptView(p decision.Prompt) promptView {
	switch p.Kind {
	case decision.Reaction:
		eventID := p.TriggerEvent.ID
		return promptView{Kind: "reaction", Reactor: &p.Reactor, EventID: &eventID, Options: p.Options}
	default:
		return promptView{Kind: "action", Actor: &p.Actor}
	}
}

// actionContextRequest is the wire form of action.Context.
type actionContextRequest struct {
	Kind       string `json:"kind" validate:"omitempty,oneof=weapon spell other"`
	WeaponSlot string `json:"weapon_slot"`
	SpellLevel int    `json:"spell_level"`
}

func (r actionContextRequest) toContext() action.Context {
	switch r.Kind {
	case "weapon":
		return action.WeaponContext(r.WeaponSlot)
	case "spell":
		return action.SpellContext(r.SpellLevel)
	default:
		return action.Context{}
	}
}

// submitDecisionRequest is the wire body for POST /encounters/{id}/decisions.
// Kind selects which of the action/reaction fields below are read, mirroring
// decision.Decision's own tagged-union shape.
type submitDecisionRequest struct {
	Kind string `json:"kind" validate:"required,oneof=action reaction"`

	Actor    entity.Handle        `json:"actor"`
	ActionID string               `json:"action_id"`
	Context  actionContextRequest `json:"context"`
	Targets  []entity.Handle      `json:"targets"`

	Reactor entity.Handle `json:"reactor"`
	EventID uuid.UUID     `json:"event_id"`
	Choice  *string       `json:"choice"`
}

func (req submitDecisionRequest) toDecision() (decision.Decision, error) {
	switch req.Kind {
	case "action":
		actionID, err := id.ParseActionID(req.ActionID)
		if err != nil {
			return decision.Decision{}, err
		}
		return decision.Decision{
			Kind: decision.Action,
			ActionData: event.ActionData{
				Actor:    req.Actor,
				ActionID: actionID,
				Context:  req.Context.toContext(),
				Targets:  req.Targets,
			},
		}, nil

	case "reaction":
		d := decision.Decision{
			Kind:    decision.Reaction,
			Reactor: req.Reactor,
			Event:   event.New(event.ActionRequested, req.EventID),
		}
		if req.Choice != nil {
			choiceID, err := id.ParseActionID(*req.Choice)
			if err != nil {
				return decision.Decision{}, err
			}
			d.Choice = &choiceID
		}
		return d, nil

	default:
		return decision.Decision{}, &fieldError{field: "kind", reason: "must be \"action\" or \"reaction\""}
	}
}
