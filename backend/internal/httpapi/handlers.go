// Package httpapi exposes internal/engine/controller.Controller over
// HTTP: starting and ending encounters, reading the prompt an encounter
// is waiting on, submitting decisions, and reading event logs —
// grounded on ctclostio-DnD-Game/backend/internal/{routes,handlers}'s
// gorilla/mux subrouter-per-domain, auth-wrapped-handler pattern, with
// models.* request/response bodies swapped for this module's own
// entity/event/decision wire types (internal/httpapi/dto.go).
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/nat20/combatcore/backend/internal/auth"
	"github.com/nat20/combatcore/backend/internal/engine/combat"
	"github.com/nat20/combatcore/backend/internal/engine/controller"
	"github.com/nat20/combatcore/backend/internal/middleware"
	"github.com/nat20/combatcore/backend/internal/wsobserver"
	"github.com/nat20/combatcore/backend/pkg/errors"
	"github.com/nat20/combatcore/backend/pkg/logger"
)

// Handlers binds a controller.Controller to HTTP handler methods, the
// counterpart of the teacher's handlers.Handlers wrapping its
// combatService.
type Handlers struct {
	Controller *controller.Controller
	World      *combat.World
	Observer   *wsobserver.Hub
	CSRFStore  *auth.CSRFStore
	Log        *logger.Logger
	validate   *validator.Validate
}

// NewHandlers builds a Handlers bound to ctrl. observer may be nil, in
// which case handlers never broadcast to the spectator feed (no hub was
// started for this process).
func NewHandlers(ctrl *controller.Controller, observer *wsobserver.Hub, csrfStore *auth.CSRFStore, log *logger.Logger) *Handlers {
	return &Handlers{
		Controller: ctrl,
		World:      ctrl.World,
		Observer:   observer,
		CSRFStore:  csrfStore,
		Log:        log,
		validate:   validator.New(),
	}
}

// broadcastSince fans every event appended to encounterID's log at index
// from or later out to the spectator feed, the join point
// wsobserver.Hub.BroadcastEvent's own doc comment names as its entry
// point from a controller.Controller caller.
func (h *Handlers) broadcastSince(encounterID uuid.UUID, from int) {
	if h.Observer == nil {
		return
	}
	enc, ok := h.Controller.Encounter(encounterID)
	if !ok {
		return
	}
	events := enc.Log.Events()
	for _, ev := range events[from:] {
		h.Observer.BroadcastEvent(encounterID, ev)
	}
}

// GetCSRFToken handles GET /csrf-token, handing an external caller a
// fresh token to echo back on the next state-changing request, per
// internal/auth.CSRFMiddleware's cookie/header double-submit check.
func (h *Handlers) GetCSRFToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.CSRFStore.GenerateToken()
	if err != nil {
		middleware.SendError(w, errors.NewInternalError("failed to generate CSRF token", err), h.Log)
		return
	}
	middleware.SendSuccess(w, map[string]string{"csrf_token": token}, http.StatusOK)
}

func (h *Handlers) decodeAndValidate(r *http.Request, dest interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return errors.NewBadRequestError("invalid request body")
	}
	if err := h.validate.Struct(dest); err != nil {
		return errors.NewValidationError(err.Error())
	}
	return nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.UUID{}, errors.NewBadRequestError("invalid " + name)
	}
	return id, nil
}

// Health reports the process is up, matching
// ctclostio-DnD-Game/backend/internal/handlers/health.go's bare
// liveness check.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	middleware.SendSuccess(w, map[string]string{"status": "healthy", "service": "combatcore-api"}, http.StatusOK)
}
