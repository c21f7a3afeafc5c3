// Package realtime broadcasts order creations to connected admin dashboards.
// The whole route is mounted only when REALTIME_ENABLED is set; the default
// deployment runs without it.
package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"partstore/internal/models"
)

type Hub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]bool
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle upgrades the connection and keeps it registered until the read
// loop fails.
func (h *Hub) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("[WS] [ERROR] upgrade failed:", err)
			return
		}
		defer conn.Close()

		h.mu.Lock()
		h.clients[conn] = true
		h.mu.Unlock()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.mu.Lock()
				delete(h.clients, conn)
				h.mu.Unlock()
				break
			}
		}
	}
}

// BroadcastOrder pushes the order to every connected client. Dead clients
// are dropped on write failure. A nil Hub broadcasts nothing.
func (h *Hub) BroadcastOrder(order models.Order) {
	if h == nil {
		return
	}

	data, err := json.Marshal(order)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			client.Close()
			delete(h.clients, client)
		}
	}
}
