package api

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // allow all origins; the game's own randomness is the auth boundary
	},
}

// WSClient is one subscriber to a single game's STATE stream.
type WSClient struct {
	conn     *websocket.Conn
	gameID   string
	sendChan chan GameResponse
}

// wsHub fans a game's state changes out to every client watching it,
// the spectator-feed counterpart to pkg/session's Server.broadcastState.
type wsHub struct {
	mu          sync.Mutex
	subscribers map[string]map[*WSClient]struct{}
}

func newHub() *wsHub {
	return &wsHub{subscribers: make(map[string]map[*WSClient]struct{})}
}

func (h *wsHub) subscribe(gameID string, c *WSClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subscribers[gameID]
	if !ok {
		set = make(map[*WSClient]struct{})
		h.subscribers[gameID] = set
	}
	set[c] = struct{}{}
}

func (h *wsHub) unsubscribe(gameID string, c *WSClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subscribers[gameID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subscribers, gameID)
		}
	}
}

func (h *wsHub) broadcast(gameID string, resp GameResponse) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.subscribers[gameID] {
		select {
		case c.sendChan <- resp:
		default: // slow subscriber, drop the frame rather than block the mover
		}
	}
}

var globalHub = newHub()

// broadcastGame pushes resp to every WebSocket client watching id.
func broadcastGame(id string, resp GameResponse) {
	globalHub.broadcast(id, resp)
}

// WebSocket handles GET /api/ws?game=<id>, streaming that game's
// GameResponse snapshot on connect and after every subsequent move.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("game")
	g, ok := h.registry.Get(id)
	if !ok {
		http.Error(w, "no such game "+id, http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("api: websocket upgrade: %v", err)
		return
	}

	client := &WSClient{conn: conn, gameID: id, sendChan: make(chan GameResponse, 16)}
	globalHub.subscribe(id, client)
	defer globalHub.unsubscribe(id, client)

	client.sendChan <- g.snapshot()

	go client.writePump()
	client.readPump()
}

func (c *WSClient) writePump() {
	defer c.conn.Close()
	for msg := range c.sendChan {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// readPump drains the connection so the underlying TCP socket keeps
// draining control frames; this stream carries no client->server
// messages of its own.
func (c *WSClient) readPump() {
	defer close(c.sendChan)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
