package httpapi

import (
	"errors"
	"net/http"

	"github.com/nat20/combatcore/backend/internal/engine/decision"
	apperrors "github.com/nat20/combatcore/backend/pkg/errors"

	"github.com/nat20/combatcore/backend/internal/engine/controller"
	"github.com/nat20/combatcore/backend/internal/middleware"
)

// NextPrompt handles GET /encounters/{id}/prompt: whatever the
// encounter is currently waiting on, a reaction offer or the current
// turn's action prompt.
func (h *Handlers) NextPrompt(w http.ResponseWriter, r *http.Request) error {
	encounterID, err := pathUUID(r, "id")
	if err != nil {
		return err
	}

	prompt, err := h.Controller.NextPrompt(encounterID)
	if err != nil {
		if errors.Is(err, controller.ErrUnknownEncounter) {
			return apperrors.NewNotFoundError("encounter")
		}
		return apperrors.NewConflictError(err.Error())
	}

	middleware.SendSuccess(w, newPromptView(prompt), http.StatusOK)
	return nil
}

// SubmitDecision handles POST /encounters/{id}/decisions: validates the
// submitted decision against the prompt its actor's encounter is
// waiting on, then processes it into the event(s) it requests.
//
// The encounter id in the path names which encounter the caller expects
// to be acting in; the engine itself looks the actor's encounter up by
// the actor handle named in the body (Controller.SubmitDecision is
// keyed on the decision's own ActorHandle, not a path parameter), so a
// mismatch between the two is reported as a conflict rather than
// silently accepted.
func (h *Handlers) SubmitDecision(w http.ResponseWriter, r *http.Request) error {
	encounterID, err := pathUUID(r, "id")
	if err != nil {
		return err
	}

	var req submitDecisionRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		return err
	}

	d, err := req.toDecision()
	if err != nil {
		return apperrors.NewBadRequestError(err.Error())
	}

	if actual, inCombat := h.Controller.EncounterFor(d.ActorHandle()); inCombat && actual != encounterID {
		return apperrors.NewConflictError("actor belongs to a different encounter")
	}

	if d.Kind == decision.Action {
		if _, ok := h.World.Actions.Get(d.ActionData.ActionID); !ok {
			return apperrors.NewValidationError("unknown action_id")
		}
	}

	before := 0
	if enc, ok := h.Controller.Encounter(encounterID); ok {
		before = len(enc.Log.Events())
	}

	if err := h.Controller.SubmitDecision(d); err != nil {
		h.Log.WithEncounterID(encounterID.String()).
			WithActorID(d.ActorHandle().String()).
			WithError(err).
			Warn().
			Msg("decision rejected")
		return apperrors.NewBadRequestError(err.Error())
	}
	h.broadcastSince(encounterID, before)

	middleware.SendSuccess(w, nil, http.StatusAccepted)
	return nil
}
