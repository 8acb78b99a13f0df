// Package ws pushes recorded check-ins to organizer dashboards over
// WebSocket, one subscriber group per event.
package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/dlane/event-checkin/internal/domain"
)

// FeedMessage is the envelope written to subscribers.
type FeedMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const MsgCheckIn = "check_in"

type broadcastRequest struct {
	eventID int64
	data    []byte
}

// Hub fans check-in notices out to the subscribers of each event.
type Hub struct {
	events     map[int64]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastRequest
	stop       chan struct{}
	done       chan struct{}
	stopped    bool

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		events:     make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastRequest, 64),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Run starts the hub event loop.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for _, clients := range h.events {
				for client := range clients {
					client.Close()
				}
			}
			h.events = make(map[int64]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				clients, ok := h.events[client.eventID]
				if !ok {
					clients = make(map[*Client]bool)
					h.events[client.eventID] = clients
				}
				clients[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if clients, ok := h.events[client.eventID]; ok {
					if _, registered := clients[client]; registered {
						delete(clients, client)
						client.Close()
						if len(clients) == 0 {
							delete(h.events, client.eventID)
						}
					}
				}
			}
			h.mu.Unlock()

		case req := <-h.broadcast:
			h.mu.RLock()
			for client := range h.events[req.eventID] {
				select {
				case client.send <- req.data:
				default:
					// Slow consumer; drop the message rather than
					// block every other subscriber.
					log.Printf("ws: dropping message for slow client on event %d", req.eventID)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Stop gracefully shuts down the hub.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

// Register adds a subscriber for its event.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a subscriber.
func (h *Hub) Unregister(client *Client) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()

	if stopped {
		return
	}

	select {
	case h.unregister <- client:
	default:
	}
}

// NotifyCheckIn implements service.CheckInNotifier.
func (h *Hub) NotifyCheckIn(eventID int64, notice domain.CheckInNotice) {
	data, err := json.Marshal(FeedMessage{Type: MsgCheckIn, Payload: notice})
	if err != nil {
		log.Printf("ERROR [ws] failed to marshal check-in notice: %v", err)
		return
	}

	select {
	case h.broadcast <- broadcastRequest{eventID: eventID, data: data}:
	case <-h.stop:
	}
}

// SubscriberCount reports the live subscribers for an event.
func (h *Hub) SubscriberCount(eventID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.events[eventID])
}
