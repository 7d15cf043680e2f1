package websocket

import (
	"context"
	"sync"

	"github.com/anjiri1684/quiz_connect/logger"
	"github.com/anjiri1684/quiz_connect/models"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Client struct {
	AccountID uint
	Conn      Conn
}

// Event is the frame pushed to connected clients.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Hub struct {
	log logger.Logger

	mu      sync.RWMutex
	clients map[uint]map[Conn]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan models.Notification
	done       chan struct{}
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[uint]map[Conn]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan models.Notification, 64),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and deliveries until ctx is done. It must be
// called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.AccountID] == nil {
				h.clients[client.AccountID] = make(map[Conn]struct{})
			}
			h.clients[client.AccountID][client.Conn] = struct{}{}
			h.mu.Unlock()
			h.log.Info("Client registered", map[string]interface{}{"account_id": client.AccountID})
		case client := <-h.unregister:
			h.remove(client.AccountID, client.Conn)
			h.log.Info("Client unregistered", map[string]interface{}{"account_id": client.AccountID})
		case n := <-h.broadcast:
			h.deliver(n)
		}
	}
}

// Register adds the client. It reports false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues a notification. It drops the push when the queue is full;
// the notification itself is already stored.
func (h *Hub) Publish(n models.Notification) {
	select {
	case h.broadcast <- n:
	default:
		h.log.Warn("Notification queue full, dropping push", map[string]interface{}{"notification_id": n.ID})
	}
}

// Connected reports how many connections an account holds.
func (h *Hub) Connected(accountID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[accountID])
}

func (h *Hub) deliver(n models.Notification) {
	type target struct {
		accountID uint
		conn      Conn
	}
	var targets []target

	h.mu.RLock()
	for accountID, conns := range h.clients {
		if !n.For(accountID) {
			continue
		}
		for conn := range conns {
			targets = append(targets, target{accountID, conn})
		}
	}
	h.mu.RUnlock()

	ev := Event{Type: "notification", Data: n}
	for _, t := range targets {
		if err := t.conn.WriteJSON(ev); err != nil {
			h.log.Warn("Error sending notification", err, map[string]interface{}{"account_id": t.accountID})
			t.conn.Close()
			h.remove(t.accountID, t.conn)
		}
	}
}

func (h *Hub) remove(accountID uint, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[accountID]
	if !ok {
		return
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.clients, accountID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conns := range h.clients {
		for conn := range conns {
			conn.Close()
		}
		delete(h.clients, id)
	}
}
