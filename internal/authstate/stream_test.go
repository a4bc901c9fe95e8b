package authstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/domain"
)

func TestBroadcaster_PublishReachesSubscriber(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe()
	defer sub.Close()

	session := &domain.Session{User: domain.User{ID: "u-1", Email: "a@example.com"}}
	b.Publish(Event{Kind: EventSignedIn, Session: session})

	select {
	case ev := <-sub.C:
		assert.Equal(t, EventSignedIn, ev.Kind)
		require.NotNil(t, ev.Session)
		assert.Equal(t, "u-1", ev.Session.User.ID)
	case <-time.After(time.Second):
		t.Fatal("expected event, got none")
	}
}

func TestBroadcaster_ClosedSubscriptionStopsReceiving(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe()
	sub.Close()

	// Publishing after close must not panic and must not deliver.
	b.Publish(Event{Kind: EventSignedOut})

	_, ok := <-sub.C
	assert.False(t, ok, "channel should be closed")
}

func TestBroadcaster_CloseIsIdempotent(t *testing.T) {
	b := NewBroadcaster()
	sub := b.Subscribe()

	b.Close()
	b.Close()
	sub.Close()

	_, ok := <-sub.C
	assert.False(t, ok)
}

func TestBroadcaster_SubscribeAfterClose(t *testing.T) {
	b := NewBroadcaster()
	b.Close()

	sub := b.Subscribe()
	_, ok := <-sub.C
	assert.False(t, ok, "subscription on a closed broadcaster is already closed")
}

func TestBroadcaster_StalledConsumerDropsInsteadOfBlocking(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe()
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer+10; i++ {
			b.Publish(Event{Kind: EventTokenRefreshed})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a stalled consumer")
	}
	assert.Equal(t, 10, b.Dropped())
}
