package httpapi

import (
	"net/http"

	"github.com/nat20/combatcore/backend/internal/middleware"
	"github.com/nat20/combatcore/backend/pkg/errors"
)

// StartEncounter handles POST /encounters: spins up a new live
// encounter among the named participants, rolling initiative and
// starting the first turn.
func (h *Handlers) StartEncounter(w http.ResponseWriter, r *http.Request) error {
	var req startEncounterRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		return err
	}

	encounterID := h.Controller.StartEncounter(req.Participants)
	h.broadcastSince(encounterID, 0)
	middleware.SendSuccess(w, startEncounterResponse{EncounterID: encounterID}, http.StatusCreated)
	return nil
}

// GetEncounter handles GET /encounters/{id}: the current round, whose
// turn it is, and the rolled initiative order.
func (h *Handlers) GetEncounter(w http.ResponseWriter, r *http.Request) error {
	encounterID, err := pathUUID(r, "id")
	if err != nil {
		return err
	}

	enc, ok := h.Controller.Encounter(encounterID)
	if !ok {
		return errors.NewNotFoundError("encounter")
	}

	middleware.SendSuccess(w, newEncounterView(encounterID, enc), http.StatusOK)
	return nil
}

// EndEncounter handles DELETE /encounters/{id}: tears the encounter
// down, releasing every participant back to out-of-combat status.
func (h *Handlers) EndEncounter(w http.ResponseWriter, r *http.Request) error {
	encounterID, err := pathUUID(r, "id")
	if err != nil {
		return err
	}

	if _, ok := h.Controller.Encounter(encounterID); !ok {
		return errors.NewNotFoundError("encounter")
	}

	h.Controller.EndEncounter(encounterID)
	middleware.SendSuccess(w, nil, http.StatusNoContent)
	return nil
}
