package visualedit

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/zecrev/codez/log"
)

// Hub relays bridge messages between the host application and connected
// preview pages. Host-to-sandbox messages are broadcast to every connection;
// sandbox-to-host inspection payloads are handed to the OnInspect callback.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*bridgeClient

	// OnInspect receives each valid INSPECT_ELEMENT_STYLE payload
	OnInspect func(SelectedElement)

	upgrader websocket.Upgrader
}

type bridgeClient struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes
}

// NewHub creates a bridge hub. checkOrigin restricts the ws upgrade; nil
// accepts only same-host origins, which is what the injected preview
// script presents.
func NewHub(checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = sameHostOrigin
	}
	return &Hub{
		clients: make(map[string]*bridgeClient),
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin,
		},
	}
}

func sameHostOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// Serve upgrades the request and pumps messages until the connection closes
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("bridge upgrade failed")
		return
	}

	client := &bridgeClient{id: uuid.New().String(), conn: conn}

	h.mu.Lock()
	h.clients[client.id] = client
	h.mu.Unlock()

	log.Debug().Str("client", client.id).Msg("preview bridge connected")

	defer func() {
		h.mu.Lock()
		delete(h.clients, client.id)
		h.mu.Unlock()
		conn.Close()
		log.Debug().Str("client", client.id).Msg("preview bridge disconnected")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Warn().Err(err).Str("client", client.id).Msg("bridge connection error")
			}
			return
		}
		h.handleMessage(data)
	}
}

func (h *Hub) handleMessage(data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Debug().Err(err).Msg("dropping malformed bridge message")
		return
	}

	switch env.Type {
	case TypeInspectElement:
		var sel SelectedElement
		if err := json.Unmarshal(env.Payload, &sel); err != nil {
			log.Debug().Err(err).Msg("dropping malformed inspection payload")
			return
		}
		if h.OnInspect != nil {
			h.OnInspect(sel)
		}
	default:
		// unknown message kinds are ignored, per the bridge contract
	}
}

// Broadcast sends one envelope to every connected preview page
func (h *Hub) Broadcast(env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode bridge message")
		return
	}

	h.mu.Lock()
	clients := make([]*bridgeClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.mu.Lock()
		err := c.conn.WriteMessage(websocket.TextMessage, data)
		c.mu.Unlock()
		if err != nil {
			log.Debug().Err(err).Str("client", c.id).Msg("bridge write failed")
		}
	}
}

// SetCustomizeMode broadcasts the customize-mode flag to all previews
func (h *Hub) SetCustomizeMode(enabled bool) {
	h.Broadcast(NewCustomizeModeMessage(enabled))
}

// ClientCount returns the number of connected previews (for testing)
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
