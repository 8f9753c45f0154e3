package ws

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Hub tracks live connections keyed by the authenticated user behind each
// one. A user may hold several connections (multiple tabs); delivery targets
// all of them.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("WS connected | user=%s total_clients=%d", client.userID, total)
			}

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("WS disconnected | user=%s total_clients=%d", client.userID, total)
			}
		}
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// SendToUser delivers message to every live connection of userID and returns
// how many connections accepted it. A connection with a full send buffer is
// dropped rather than blocked on.
//
// The sends happen with the read lock held: Run closes a send channel only
// under the write lock, after removing the client from the map, so a client
// still in the map here cannot have a closed channel.
func (h *Hub) SendToUser(userID uuid.UUID, message []byte) int {
	if h == nil {
		return 0
	}

	var stale []*Client
	delivered := 0

	h.mutex.RLock()
	for c := range h.clients {
		if c.userID != userID {
			continue
		}
		select {
		case c.send <- message:
			delivered++
		default:
			stale = append(stale, c)
		}
	}
	h.mutex.RUnlock()

	// Unregister outside the lock; Run needs the write lock to process it.
	for _, c := range stale {
		h.Unregister(c)
	}
	return delivered
}

// ConnectedUsers returns the distinct user IDs with at least one live
// connection. The reminder job polls only for these.
func (h *Hub) ConnectedUsers() []uuid.UUID {
	if h == nil {
		return nil
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	seen := make(map[uuid.UUID]struct{}, len(h.clients))
	out := make([]uuid.UUID, 0, len(h.clients))
	for c := range h.clients {
		if _, ok := seen[c.userID]; ok {
			continue
		}
		seen[c.userID] = struct{}{}
		out = append(out, c.userID)
	}
	return out
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
