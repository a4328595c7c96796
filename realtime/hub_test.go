package realtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopeMatching(t *testing.T) {
	event := Event{OrderID: 10, UserID: 3, AgentID: 7}

	require.True(t, Scope{All: true}.Matches(event))
	require.True(t, Scope{OrderID: 10}.Matches(event))
	require.True(t, Scope{UserID: 3}.Matches(event))
	require.True(t, Scope{AgentID: 7}.Matches(event))

	require.False(t, Scope{OrderID: 11}.Matches(event))
	require.False(t, Scope{UserID: 4}.Matches(event))
	require.False(t, Scope{AgentID: 8}.Matches(event))
	require.False(t, Scope{}.Matches(event))
}

func TestPublishFansOutToMatchingSubscribers(t *testing.T) {
	hub := NewHub()
	admin := hub.Subscribe(Scope{All: true})
	customer := hub.Subscribe(Scope{UserID: 3})
	otherCustomer := hub.Subscribe(Scope{UserID: 4})
	defer admin.Close()
	defer customer.Close()
	defer otherCustomer.Close()

	hub.Publish(Event{Type: EventStatusChanged, OrderID: 10, UserID: 3, Status: "confirmed"})

	got := <-admin.C
	require.Equal(t, uint(10), got.OrderID)
	require.NotZero(t, got.Seq)
	require.False(t, got.At.IsZero())

	got = <-customer.C
	require.Equal(t, "confirmed", got.Status)

	select {
	case e := <-otherCustomer.C:
		t.Fatalf("unexpected event for unrelated user: %+v", e)
	default:
	}
}

func TestEventsForOneOrderArriveInPublishOrder(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(Scope{OrderID: 5})
	defer sub.Close()

	statuses := []string{"pending", "confirmed", "processing", "packed"}
	for _, s := range statuses {
		hub.Publish(Event{Type: EventStatusChanged, OrderID: 5, UserID: 1, Status: s})
	}

	var lastSeq uint64
	for _, want := range statuses {
		got := <-sub.C
		require.Equal(t, want, got.Status)
		require.Greater(t, got.Seq, lastSeq)
		lastSeq = got.Seq
	}
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(Scope{All: true})
	defer sub.Close()

	// Overflow the buffer; Publish must not block.
	for i := 0; i < subscriptionBuffer*3; i++ {
		hub.Publish(Event{Type: EventStatusChanged, OrderID: 1, UserID: 1})
	}

	require.Len(t, sub.C, subscriptionBuffer)
}

func TestCloseRemovesSubscription(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(Scope{All: true})
	require.Equal(t, 1, hub.SubscriberCount())

	sub.Close()
	require.Equal(t, 0, hub.SubscriberCount())

	// Close is idempotent
	sub.Close()

	// publishing after close must not panic
	hub.Publish(Event{Type: EventOrderCreated, OrderID: 1, UserID: 1})
}
