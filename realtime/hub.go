package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType tags what changed on an order.
type EventType string

const (
	EventOrderCreated    EventType = "order_created"
	EventStatusChanged   EventType = "status_changed"
	EventPaymentUpdated  EventType = "payment_updated"
	EventAgentAssigned   EventType = "agent_assigned"
	EventDeliveryStarted EventType = "delivery_started"
)

// Event is one observable change to an order. Seq increases in publish
// order, which callers align with commit order by publishing after commit.
type Event struct {
	Seq           uint64      `json:"seq"`
	Type          EventType   `json:"type"`
	OrderID       uint        `json:"order_id"`
	OrderNumber   string      `json:"order_number"`
	UserID        uint        `json:"user_id"`
	AgentID       uint        `json:"agent_id,omitempty"`
	Status        string      `json:"status,omitempty"`
	PaymentStatus string      `json:"payment_status,omitempty"`
	Payload       interface{} `json:"payload,omitempty"`
	At            time.Time   `json:"at"`
}

// Scope is the predicate a subscription filters events with. Exactly one
// field should be set; All overrides the rest.
type Scope struct {
	All     bool
	OrderID uint
	UserID  uint
	AgentID uint
}

// Matches reports whether the event falls inside the scope.
func (s Scope) Matches(e Event) bool {
	switch {
	case s.All:
		return true
	case s.OrderID != 0:
		return e.OrderID == s.OrderID
	case s.UserID != 0:
		return e.UserID == s.UserID
	case s.AgentID != 0:
		return e.AgentID == s.AgentID
	}
	return false
}

// Subscription is one registered viewer. Events arrive on C in publish
// order; a slow consumer loses events rather than blocking the publisher
// and is expected to refetch on reconnect.
type Subscription struct {
	ID    string
	Scope Scope
	C     chan Event

	hub  *Hub
	once sync.Once
}

// Close removes the subscription from the hub and closes its channel.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s.ID)
		close(s.C)
	})
}

// Hub fans order change events out to scope-matched subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]*Subscription
	seq  uint64
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]*Subscription)}
}

// DefaultHub is the process-wide hub the controllers publish to.
var DefaultHub = NewHub()

const subscriptionBuffer = 16

// Subscribe registers a viewer for events matching the scope.
func (h *Hub) Subscribe(scope Scope) *Subscription {
	sub := &Subscription{
		ID:    uuid.New().String(),
		Scope: scope,
		C:     make(chan Event, subscriptionBuffer),
		hub:   h,
	}
	h.mu.Lock()
	h.subs[sub.ID] = sub
	h.mu.Unlock()
	return sub
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}

// Publish stamps the event and delivers it to every matching subscriber.
// Delivery is best-effort: a full channel drops the event for that
// subscriber instead of blocking the caller.
func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	h.seq++
	e.Seq = h.seq
	if e.At.IsZero() {
		e.At = time.Now()
	}
	// Deliver under the lock so events for one order never reorder
	// between subscribers.
	for _, sub := range h.subs {
		if !sub.Scope.Matches(e) {
			continue
		}
		select {
		case sub.C <- e:
		default:
		}
	}
	h.mu.Unlock()
}

// SubscriberCount reports the number of live subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
