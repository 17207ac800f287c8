package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Notification types pushed to connected users
const (
	TypeHourRequestSubmitted = "hour_request.submitted"
	TypeHourRequestReviewed  = "hour_request.reviewed"
	TypeDesignRequestUpdated = "design_request.updated"
)

// Notification is a server-to-client push message
type Notification struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type delivery struct {
	recipients []uuid.UUID
	data       []byte
}

// Hub keeps the open connections of each user and fans notifications out to them
type Hub struct {
	// Registered clients organized by user ID; a user may have several tabs open
	clients map[uuid.UUID]map[*Client]bool

	deliveries chan delivery
	register   chan *Client
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Guards clients for readers outside Run
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		deliveries: make(chan delivery, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations and deliveries until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case d := <-h.deliveries:
			h.deliver(d)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Info().
		Str("userID", client.userID.String()).
		Msg("Notification client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(client)
}

// dropLocked removes a client; h.mu must be held for writing
func (h *Hub) dropLocked(client *Client) {
	set, ok := h.clients[client.userID]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}

	h.logger.Info().
		Str("userID", client.userID.String()).
		Msg("Notification client unregistered")
}

func (h *Hub) deliver(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, userID := range d.recipients {
		for client := range h.clients[userID] {
			select {
			case client.send <- d.data:
			default:
				// Slow consumer: drop the connection, the client reconnects
				h.dropLocked(client)
			}
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.clients {
		for client := range set {
			h.dropLocked(client)
		}
	}
}

// Notify queues a notification for the given users. It never blocks the
// caller; when the queue is full the notification is dropped and logged.
func (h *Hub) Notify(recipients []uuid.UUID, notificationType string, payload interface{}) {
	if len(recipients) == 0 {
		return
	}

	data, err := json.Marshal(Notification{Type: notificationType, Payload: payload, Timestamp: time.Now()})
	if err != nil {
		h.logger.Error().Err(err).Str("type", notificationType).Msg("Failed to marshal notification")
		return
	}

	select {
	case h.deliveries <- delivery{recipients: recipients, data: data}:
	default:
		h.logger.Warn().Str("type", notificationType).Int("recipients", len(recipients)).Msg("Notification queue full, dropping")
	}
}

// ClientsCount returns the number of open connections of a user
func (h *Hub) ClientsCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
