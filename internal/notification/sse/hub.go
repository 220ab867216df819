// Package sse pushes domain events to connected admin dashboards over
// Server-Sent Events. Dashboards reload the affected list when an event
// arrives; the payload carries identifiers, not full records.
package sse

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gin-gonic/gin"

	"jobguinee_backend/platform/httpkit"
)

// Message is one SSE frame sent to every connected client.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

type client struct {
	messages chan Message
}

// Hub broadcasts messages to every connected admin. There is no per-user
// targeting; the B2B dashboard is a shared admin surface.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
	}
}

// Broadcast queues a message for every connected client. Slow clients with a
// full buffer skip the message rather than blocking the publisher.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.messages <- msg:
		default:
			h.logger.Warn("sse buffer full, dropping message", slog.String("event", msg.Event))
		}
	}
}

// ClientCount reports the number of open streams.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) removeClient(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// Handler streams events to one dashboard connection until it disconnects.
// Auth runs in the route middleware; browsers cannot set headers on
// EventSource, so the middleware also accepts the token as a query param.
func (h *Hub) Handler(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	cl := &client{messages: make(chan Message, 32)}
	h.addClient(cl)
	defer h.removeClient(cl)

	c.SSEvent("connected", gin.H{"userId": identity.UserID})
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			return
		case msg := <-cl.messages:
			data, err := json.Marshal(msg.Data)
			if err != nil {
				h.logger.Error("sse marshal failed", slog.String("event", msg.Event), slog.String("error", err.Error()))
				continue
			}
			c.SSEvent(msg.Event, string(data))
			c.Writer.Flush()
		}
	}
}
