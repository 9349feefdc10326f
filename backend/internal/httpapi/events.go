package httpapi

import (
	"net/http"

	"github.com/nat20/combatcore/backend/internal/middleware"
	"github.com/nat20/combatcore/backend/pkg/errors"
)

// EventLog handles GET /encounters/{id}/events: every event logged
// against this encounter since it began.
func (h *Handlers) EventLog(w http.ResponseWriter, r *http.Request) error {
	encounterID, err := pathUUID(r, "id")
	if err != nil {
		return err
	}

	enc, ok := h.Controller.Encounter(encounterID)
	if !ok {
		return errors.NewNotFoundError("encounter")
	}

	middleware.SendSuccess(w, enc.Log.Events(), http.StatusOK)
	return nil
}

// GlobalLog handles GET /events: every event logged for entities
// outside any live encounter.
func (h *Handlers) GlobalLog(w http.ResponseWriter, _ *http.Request) error {
	middleware.SendSuccess(w, h.Controller.GlobalLog(), http.StatusOK)
	return nil
}
