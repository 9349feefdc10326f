package wsobserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nat20/combatcore/backend/internal/auth"
	"github.com/nat20/combatcore/backend/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler serves the read-only observer endpoint for a single Hub.
type Handler struct {
	hub        *Hub
	jwtManager *auth.JWTManager
}

// NewHandler builds a handler that authenticates connecting observers
// against jwtManager before upgrading them onto hub.
func NewHandler(hub *Hub, jwtManager *auth.JWTManager) *Handler {
	return &Handler{hub: hub, jwtManager: jwtManager}
}

// ServeHTTP upgrades the request to a websocket and registers the
// caller as an observer of the encounter named by the "encounter" query
// parameter, after validating a bearer token taken from the "token"
// query parameter (browser WebSocket clients cannot set arbitrary
// headers) or, when that is empty, from the Authorization header via
// internal/auth.ExtractTokenFromHeader.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			var err error
			token, err = auth.ExtractTokenFromHeader(authHeader)
			if err != nil {
				http.Error(w, "invalid authorization header", http.StatusUnauthorized)
				return
			}
		}
	}
	if token == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	claims, err := h.jwtManager.ValidateToken(token, auth.AccessToken)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	encounterIDStr := r.URL.Query().Get("encounter")
	encounterID, err := uuid.Parse(encounterIDStr)
	if err != nil {
		http.Error(w, "missing or invalid encounter id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error().Err(err).Msg("failed to upgrade observer connection")
		return
	}

	client := &Client{
		hub:         h.hub,
		conn:        conn,
		send:        make(chan []byte, 256),
		id:          claims.UserID,
		encounterID: encounterID,
	}
	client.hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}
