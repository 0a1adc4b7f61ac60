package ws

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Hub tracks live notification-feed connections and routes messages to
// the clients belonging to a user.
type Hub struct {
	clients    map[*Client]bool
	deliver    chan delivery
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *log.Logger
}

type delivery struct {
	userID  uuid.UUID
	payload []byte
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		deliver:    make(chan delivery, 1024),
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
				h.logger.Printf("WS disconnected | total_clients=%d", total)
			}

		case d := <-h.deliver:
			h.mutex.RLock()
			targets := make([]*Client, 0, len(h.clients))
			for c := range h.clients {
				if c.userID == d.userID {
					targets = append(targets, c)
				}
			}
			h.mutex.RUnlock()

			for _, client := range targets {
				select {
				case client.send <- d.payload:
				default:
					h.unregister <- client
				}
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

// Send queues a payload for every connection of userID. Drops the
// message when the queue is full; the feed is best effort.
func (h *Hub) Send(userID uuid.UUID, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.deliver <- delivery{userID: userID, payload: payload}:
	default:
		if h.logger != nil {
			h.logger.Printf("WS delivery dropped | reason=buffer_full")
		}
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
