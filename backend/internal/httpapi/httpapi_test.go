package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/nat20/combatcore/backend/internal/auth"
	"github.com/nat20/combatcore/backend/internal/engine/action"
	"github.com/nat20/combatcore/backend/internal/engine/combat"
	"github.com/nat20/combatcore/backend/internal/engine/controller"
	"github.com/nat20/combatcore/backend/internal/engine/damage"
	enginedice "github.com/nat20/combatcore/backend/internal/engine/dice"
	"github.com/nat20/combatcore/backend/internal/engine/effect"
	"github.com/nat20/combatcore/backend/internal/engine/entity"
	"github.com/nat20/combatcore/backend/internal/engine/id"
	"github.com/nat20/combatcore/backend/internal/engine/modifier"
	"github.com/nat20/combatcore/backend/internal/engine/registry"
	"github.com/nat20/combatcore/backend/internal/httpapi"
	"github.com/nat20/combatcore/backend/internal/middleware"
	"github.com/nat20/combatcore/backend/internal/wsobserver"
	"github.com/nat20/combatcore/backend/pkg/dice"
	"github.com/nat20/combatcore/backend/pkg/logger"
	"github.com/nat20/combatcore/backend/pkg/rng"
)

var strikeID = id.NewActionID("nat20_core", "action.strike")

// newTestServer wires a real Controller (built the same way
// internal/engine/controller's own tests do) behind a full
// httpapi.RegisterRoutes router, returning the router and a bearer
// token authenticated as a player.
func newTestServer(t *testing.T) (http.Handler, *combat.World, *controller.Controller, string) {
	t.Helper()

	strike := action.Definition{
		ID: strikeID,
		Kind: action.Kind{
			Tag: action.UnconditionalDamage,
			Damage: func(env action.Environment, performer entity.Handle, ctx action.Context) damage.Roll {
				set, err := dice.NewDiceSet(1, 6)
				require.NoError(t, err)
				return damage.Roll{Primary: damage.Component{Roll: enginedice.NewSetRoll(set), Type: damage.Slashing, Source: modifier.Base}}
			},
		},
	}
	actions, err := registry.Load[id.ActionID, action.Definition]([]action.Definition{strike})
	require.NoError(t, err)
	effects, err := registry.Load[id.EffectID, effect.Definition](nil)
	require.NoError(t, err)

	world := combat.New(rng.NewScripted(2), actions, effect.NewStore(effects))
	ctrl := controller.New(world)

	jwtManager := auth.NewJWTManager("test-secret-at-least-32-bytes-long!!", time.Hour, 24*time.Hour)
	pair, err := jwtManager.GenerateTokenPair("player-1", "alice", "alice@example.com", "player")
	require.NoError(t, err)

	log := logger.New(logger.Config{Level: "error"})
	hub := wsobserver.NewHub()
	go hub.Run()
	t.Cleanup(hub.Shutdown)
	h := httpapi.NewHandlers(ctrl, hub, auth.NewCSRFStore(), log)

	router := mux.NewRouter()
	httpapi.RegisterRoutes(router, &httpapi.Config{
		Handlers:        h,
		AuthMiddleware:  auth.NewMiddleware(jwtManager),
		CSRFStore:       h.CSRFStore,
		AuthRateLimiter: middleware.AuthRateLimiter(),
		APIRateLimiter:  middleware.APIRateLimiter(),
		Observer:        wsobserver.NewHandler(hub, jwtManager),
		Log:             log,
		IsProduction:    false,
	})

	return router, world, ctrl, pair.AccessToken
}

// csrfTicket is the cookie/header pair a caller must echo back on a
// state-changing request, obtained from GET /api/v1/csrf-token the same
// way a browser client would.
type csrfTicket struct {
	cookie string
	token  string
}

func fetchCSRF(t *testing.T, router http.Handler, bearer string) csrfTicket {
	t.Helper()
	rec := doJSON(t, router, http.MethodGet, "/api/v1/csrf-token", bearer, csrfTicket{}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == "csrf_token" {
			return csrfTicket{cookie: c.Value, token: c.Value}
		}
	}
	t.Fatal("csrf-token response set no csrf_token cookie")
	return csrfTicket{}
}

func doJSON(t *testing.T, router http.Handler, method, path, bearer string, csrf csrfTicket, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if csrf.cookie != "" {
		req.AddCookie(&http.Cookie{Name: "csrf_token", Value: csrf.cookie})
		req.Header.Set("X-CSRF-Token", csrf.token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
