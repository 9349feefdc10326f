package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nat20/combatcore/backend/internal/auth"
	"github.com/nat20/combatcore/backend/internal/middleware"
	"github.com/nat20/combatcore/backend/internal/wsobserver"
	"github.com/nat20/combatcore/backend/pkg/logger"
)

// Config holds every dependency RegisterRoutes needs, the counterpart
// of ctclostio-DnD-Game/backend/internal/routes.Config.
type Config struct {
	Handlers        *Handlers
	AuthMiddleware  *auth.Middleware
	CSRFStore       *auth.CSRFStore
	AuthRateLimiter *middleware.RateLimiter
	APIRateLimiter  *middleware.RateLimiter
	Observer        *wsobserver.Handler
	Log             *logger.Logger
	IsProduction    bool
}

// RegisterRoutes wires every combatcore endpoint onto router, grounded
// on ctclostio-DnD-Game/backend/internal/routes/{routes,combat}.go's
// "/api/v1" subrouter plus cfg.AuthMiddleware.Authenticate-wrapped
// per-route registration, narrowed from that file's many domain route
// groups down to the single actor/encounter/decision/event surface this
// module exposes.
func RegisterRoutes(router *mux.Router, cfg *Config) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.CSRFMiddleware(cfg.CSRFStore, cfg.IsProduction))
	api.Use(cfg.APIRateLimiter.Middleware())

	router.HandleFunc("/health", cfg.Handlers.Health).Methods("GET")
	api.HandleFunc("/csrf-token", cfg.Handlers.GetCSRFToken).Methods("GET")

	h := cfg.Handlers
	log := cfg.Log
	withAuth := cfg.AuthMiddleware.Authenticate
	wrap := func(handler middleware.ErrorHandlerFunc) http.HandlerFunc {
		return withAuth(middleware.WrapErrorHandler(handler, log))
	}

	api.HandleFunc("/actors", wrap(h.SpawnActor)).Methods("POST")

	api.HandleFunc("/encounters", wrap(h.StartEncounter)).Methods("POST")
	api.HandleFunc("/encounters/{id}", wrap(h.GetEncounter)).Methods("GET")
	api.HandleFunc("/encounters/{id}", wrap(h.EndEncounter)).Methods("DELETE")
	api.HandleFunc("/encounters/{id}/prompt", wrap(h.NextPrompt)).Methods("GET")
	api.HandleFunc("/encounters/{id}/decisions", wrap(h.SubmitDecision)).Methods("POST")
	api.HandleFunc("/encounters/{id}/events", wrap(h.EventLog)).Methods("GET")

	api.HandleFunc("/events", wrap(h.GlobalLog)).Methods("GET")

	router.Handle("/ws/encounters", cfg.Observer).Methods("GET")
}
