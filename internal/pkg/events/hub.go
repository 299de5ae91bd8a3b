package events

import (
	"sync"
	"time"
)

// Type identifies a domain event emitted by the settlement engine.
type Type string

const (
	SettlementRecalculated Type = "settlement.recalculated"
	SettlementStateChanged Type = "settlement.state_changed"
	DebitSettled           Type = "debit.settled"
	DebitOverdue           Type = "debit.overdue"
	ExpenseReviewed        Type = "expense.reviewed"
)

// Event carries what happened and to which aggregate. Delivery beyond the
// process (notifications, audit persistence) is the subscriber's concern.
type Event struct {
	Type       Type
	DriverID   string
	EntityID   string
	OccurredAt time.Time
	Payload    interface{}
}

// Hub fans domain events out to in-process subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[Type]map[chan Event]struct{}
	all         map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[Type]map[chan Event]struct{}),
		all:         make(map[chan Event]struct{}),
	}
}

// Subscribe registers a subscriber for one event type and returns the event
// channel and a cleanup function.
func (h *Hub) Subscribe(t Type) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 16)

	if h.subscribers[t] == nil {
		h.subscribers[t] = make(map[chan Event]struct{})
	}
	h.subscribers[t][ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers[t], ch)
		close(ch)
		if len(h.subscribers[t]) == 0 {
			delete(h.subscribers, t)
		}
	}

	return ch, cleanup
}

// SubscribeAll registers a subscriber for every event type.
func (h *Hub) SubscribeAll() (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 16)
	h.all[ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.all, ch)
		close(ch)
	}

	return ch, cleanup
}

// Publish sends an event to all matching subscribers. Sends are non-blocking;
// a subscriber with a full channel misses the event.
func (h *Hub) Publish(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.all {
		select {
		case ch <- event:
		default:
		}
	}
	if subs, ok := h.subscribers[event.Type]; ok {
		for ch := range subs {
			select {
			case ch <- event:
			default:
			}
		}
	}
}

// SubscriberCount returns the number of subscribers for one event type.
func (h *Hub) SubscriberCount(t Type) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if subs, ok := h.subscribers[t]; ok {
		return len(subs)
	}
	return 0
}
