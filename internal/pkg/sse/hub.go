// Package sse streams payroll run progress to subscribed clients. Topics are
// company+period tokens, so a browser watching a run only receives events for
// that run.
package sse

import "sync"

// Event is one progress update pushed to subscribers of a topic.
type Event struct {
	Topic string      `json:"-"`
	Name  string      `json:"event"`
	Data  interface{} `json:"data"`
}

// RunProgress is the payload published while a payroll run executes.
type RunProgress struct {
	LogID     string `json:"log_id"`
	Period    string `json:"period"`
	Status    string `json:"status"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
}

// Topic builds the subscription key for a company's run in a period.
func Topic(companyID, period string) string {
	return companyID + "|" + period
}

// Hub fans events out to per-topic subscriber channels. Slow subscribers are
// skipped rather than blocking the publisher; progress events are advisory
// and the next one supersedes the last.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a listener on a topic and returns the event channel
// plus a cleanup function the caller must invoke when done.
func (h *Hub) Subscribe(topic string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)

	if h.subscribers[topic] == nil {
		h.subscribers[topic] = make(map[chan Event]struct{})
	}
	h.subscribers[topic][ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers[topic], ch)
		close(ch)
		if len(h.subscribers[topic]) == 0 {
			delete(h.subscribers, topic)
		}
	}

	return ch, cleanup
}

// Publish sends an event to every subscriber of its topic.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[event.Topic] {
		select {
		case ch <- event:
		default:
			// Skip if channel is full (non-blocking to prevent deadlock)
		}
	}
}

// SubscriberCount returns the number of active subscribers for a topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}
