package httpapi

import (
	"net/http"

	"github.com/nat20/combatcore/backend/internal/engine/stats"
	"github.com/nat20/combatcore/backend/internal/middleware"
	"github.com/nat20/combatcore/backend/pkg/errors"
)

// SpawnActor handles POST /actors: spawning a new entity into the
// world's component tables, the prerequisite for naming it as an
// encounter participant or decision actor.
func (h *Handlers) SpawnActor(w http.ResponseWriter, r *http.Request) error {
	var req spawnActorRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		return err
	}

	tag, ok := tagByName[req.Tag]
	if !ok {
		return errors.NewValidationError("tag must be \"character\" or \"monster\"")
	}

	scores, err := req.buildScores()
	if err != nil {
		return errors.NewValidationError(err.Error())
	}

	handle := h.World.Spawn(tag, scores, req.MaxHP, stats.NewLevel(req.Level), req.BaseArmorClass)
	middleware.SendSuccess(w, spawnActorResponse{Handle: handle}, http.StatusCreated)
	return nil
}
