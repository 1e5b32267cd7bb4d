// Package orders broadcasts order-status events to websocket subscribers.
// Kitchen displays and customer pages subscribe to /ws/orders and receive an
// event whenever the assistant confirms an order.
package orders

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rauldpena/delicia/backend/internal/service/tools"
)

// Event is the payload pushed to subscribers.
type Event struct {
	Type      string       `json:"type"`
	Order     *tools.Order `json:"order"`
	Timestamp time.Time    `json:"timestamp"`
}

// subscriber pairs a connection with its write lock. gorilla/websocket
// permits only one concurrent writer per connection.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) write(event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(event)
}

// Hub tracks websocket subscribers and fans order events out to them.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]*subscriber
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*websocket.Conn]*subscriber),
	}
}

// ServeWS upgrades the request and registers the client until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = &subscriber{conn: conn}
	h.mu.Unlock()
	log.Printf("[ws] order subscriber connected, total=%d", h.clientCount())

	// Drain reads to detect disconnects; subscribers only receive.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// NotifyOrderConfirmed pushes the confirmed order to every subscriber. Writes
// to each connection are serialized through its subscriber lock, so confirms
// from concurrent sessions never interleave frames.
// Implements assistant.OrderNotifier.
func (h *Hub) NotifyOrderConfirmed(order *tools.Order) {
	event := Event{
		Type:      "order_confirmed",
		Order:     order,
		Timestamp: time.Now().UTC(),
	}

	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.clients))
	for _, sub := range h.clients {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.write(event); err != nil {
			log.Printf("[ws] dropping subscriber after write error: %v", err)
			h.drop(sub.conn)
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

func (h *Hub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
