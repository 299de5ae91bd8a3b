package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishToTypedSubscriber(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe(DebitSettled)
	defer cleanup()

	hub.Publish(Event{Type: DebitSettled, DriverID: "d1", EntityID: "debit-1"})

	select {
	case ev := <-ch:
		assert.Equal(t, DebitSettled, ev.Type)
		assert.Equal(t, "d1", ev.DriverID)
		assert.False(t, ev.OccurredAt.IsZero())
	case <-time.After(time.Second):
		t.Fatal("expected event was not delivered")
	}
}

func TestHub_TypedSubscriberIgnoresOtherTypes(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe(DebitSettled)
	defer cleanup()

	hub.Publish(Event{Type: SettlementStateChanged, EntityID: "s1"})

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event delivered: %v", ev.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_SubscribeAllReceivesEverything(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.SubscribeAll()
	defer cleanup()

	hub.Publish(Event{Type: SettlementRecalculated, EntityID: "s1"})
	hub.Publish(Event{Type: DebitOverdue, EntityID: "debit-1"})

	got := make([]Type, 0, 2)
	for i := 0; i < 2; i++ {
		select {
		case ev := <-ch:
			got = append(got, ev.Type)
		case <-time.After(time.Second):
			t.Fatal("expected two events")
		}
	}
	assert.Equal(t, []Type{SettlementRecalculated, DebitOverdue}, got)
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	_, cleanup := hub.Subscribe(ExpenseReviewed)
	require.Equal(t, 1, hub.SubscriberCount(ExpenseReviewed))

	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount(ExpenseReviewed))
}

func TestHub_PublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		hub.Publish(Event{Type: DebitSettled})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked with no subscribers")
	}
}
