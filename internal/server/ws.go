package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/pkg/logger"
)

const writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ResultsHandler pushes every recognition event to connected websocket
// clients as JSON text messages.
type ResultsHandler struct {
	mu          sync.Mutex
	clients     map[*websocket.Conn]bool
	unsubscribe func()
	log         logger.Logger
}

// NewResultsHandler subscribes to events and returns the handler.
func NewResultsHandler(events EventSource) *ResultsHandler {
	h := &ResultsHandler{
		clients: make(map[*websocket.Conn]bool),
		log:     logger.Named("ws"),
	}
	h.unsubscribe = events.Subscribe(h.broadcast)
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *ResultsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *ResultsHandler) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close unsubscribes from events and disconnects all clients.
func (h *ResultsHandler) Close() {
	h.unsubscribe()

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

// broadcast writes ev to every client. Writes are serialized by the lock
// because a websocket connection allows one writer at a time.
func (h *ResultsHandler) broadcast(ev app.Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.log.Error(context.Background(), "failed to encode event", logger.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
