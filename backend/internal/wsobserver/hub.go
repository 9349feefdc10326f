// Package wsobserver is a read-only spectator feed: it broadcasts every
// event logged to an encounter to whichever websocket clients are
// watching that encounter. It never accepts a decision or action from a
// connected client — submitting those goes through internal/httpapi
// instead — so unlike the teacher's websocket package there is no
// room-to-room message routing by type, only one-way event fan-out.
package wsobserver

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nat20/combatcore/backend/internal/engine/event"
	"github.com/nat20/combatcore/backend/pkg/logger"
)

// Hub fans out encounter events to every client observing that
// encounter. Grounded on backend/internal/websocket/hub.go's
// register/unregister/broadcast channel shape, narrowed from its
// multi-room chat/turn protocol to a single outbound event stream.
type Hub struct {
	clients    map[*Client]bool
	rooms      map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan encounterMessage
	shutdown   chan struct{}
}

type encounterMessage struct {
	encounterID uuid.UUID
	payload     []byte
}

// Client is one connected observer of a single encounter's event feed.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	id          string
	encounterID uuid.UUID
}

// envelope is the wire shape of a broadcast event.
type envelope struct {
	EncounterID uuid.UUID   `json:"encounterId"`
	Event       event.Event `json:"event"`
}

// NewHub returns an unstarted hub; call Run in its own goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan encounterMessage),
		shutdown:   make(chan struct{}),
	}
}

// Run processes register/unregister/broadcast until Shutdown is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.shutdown:
			for client := range h.clients {
				close(client.send)
				_ = client.conn.Close()
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			if h.rooms[client.encounterID] == nil {
				h.rooms[client.encounterID] = make(map[*Client]bool)
			}
			h.rooms[client.encounterID][client] = true
			logger.Info().
				Str("client_id", client.id).
				Str("encounter_id", client.encounterID.String()).
				Msg("observer connected")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				if room := h.rooms[client.encounterID]; room != nil {
					delete(room, client)
				}
				close(client.send)
				logger.Info().
					Str("client_id", client.id).
					Str("encounter_id", client.encounterID.String()).
					Msg("observer disconnected")
			}

		case msg := <-h.broadcast:
			for client := range h.rooms[msg.encounterID] {
				select {
				case client.send <- msg.payload:
				default:
					close(client.send)
					delete(h.clients, client)
					delete(h.rooms[msg.encounterID], client)
				}
			}
		}
	}
}

// BroadcastEvent fans ev out to every client observing encounterID. It
// is the entry point a controller.Controller caller invokes after every
// ProcessEvent / SubmitDecision — this package never calls into
// controller itself, keeping the spectator feed a pure downstream
// consumer of the event log.
func (h *Hub) BroadcastEvent(encounterID uuid.UUID, ev event.Event) {
	payload, err := json.Marshal(envelope{EncounterID: encounterID, Event: ev})
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}
	h.broadcast <- encounterMessage{encounterID: encounterID, payload: payload}
}

// ReadPump discards any client-sent frames (pings aside) purely to
// detect disconnects; the spectator feed accepts no control input.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error().Err(err).Str("client_id", c.id).Msg("observer read error")
			}
			break
		}
	}
}

// WritePump delivers broadcast events to the client's connection.
func (c *Client) WritePump() {
	defer func() { _ = c.conn.Close() }()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// Shutdown closes every connection and stops the hub.
func (h *Hub) Shutdown() {
	close(h.shutdown)
}
