package telemetry

import (
	"sync"
)

// Hub routes outbound events to connected clients. Clients subscribe to
// per-training topics; an event for a training reaches only its subscribers.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	topics  map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		topics:  make(map[int64]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

// Unregister detaches the client from the hub and from every topic it joined.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	for id, subs := range h.topics {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.topics, id)
		}
	}
}

func (h *Hub) Subscribe(c *Client, trainingID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.topics[trainingID]
	if !ok {
		subs = make(map[*Client]struct{})
		h.topics[trainingID] = subs
	}
	subs[c] = struct{}{}
}

func (h *Hub) Unsubscribe(c *Client, trainingID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.topics[trainingID]
	if !ok {
		return
	}
	delete(subs, c)
	if len(subs) == 0 {
		delete(h.topics, trainingID)
	}
}

// BroadcastTopic pushes an event to every subscriber of the training's topic.
// A slow client never blocks the caller; its frame is dropped instead.
func (h *Hub) BroadcastTopic(trainingID int64, event string, data interface{}) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.topics[trainingID]))
	for c := range h.topics[trainingID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.Send(event, data)
	}
}

// SubscriberCount reports the current size of a training's topic.
func (h *Hub) SubscriberCount(trainingID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[trainingID])
}
