// Package authstate models auth-state change notifications as an explicit,
// cancellable event stream. The auth client publishes an event whenever a
// session is issued, refreshed, or terminated; the session manager consumes
// the stream with a single handler.
package authstate

import (
	"sync"

	"storefront-api/internal/domain"
)

// EventKind identifies what changed about the auth state.
type EventKind string

const (
	EventInitialSession EventKind = "INITIAL_SESSION"
	EventSignedIn       EventKind = "SIGNED_IN"
	EventSignedOut      EventKind = "SIGNED_OUT"
	EventTokenRefreshed EventKind = "TOKEN_REFRESHED"
)

// Event pairs an event kind with the session it reports. Session is nil for
// signed-out and for an empty initial session.
type Event struct {
	Kind    EventKind
	Session *domain.Session
}

// subscriberBuffer bounds each subscription's channel. Auth events are rare
// (sign-in, sign-out, session probe), so a stalled consumer this far behind
// is a bug; newer events are then dropped rather than blocking publishers.
const subscriberBuffer = 32

// Broadcaster fans auth events out to any number of subscriptions.
type Broadcaster struct {
	mu      sync.Mutex
	subs    map[int]*Subscription
	nextID  int
	closed  bool
	dropped int
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]*Subscription)}
}

// Subscribe registers a new subscription. The caller must drain C and call
// Close when done.
func (b *Broadcaster) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	id := b.nextID
	b.nextID++

	sub := &Subscription{C: ch, ch: ch}
	sub.cancel = func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}

	if b.closed {
		// Closed broadcaster hands out an already-closed subscription.
		close(ch)
		return sub
	}

	b.subs[id] = sub
	return sub
}

// Publish delivers an event to every live subscription.
func (b *Broadcaster) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	for _, sub := range b.subs {
		select {
		case sub.ch <- ev:
		default:
			b.dropped++
		}
	}
}

// Close tears down the broadcaster and all remaining subscriptions.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.ch)
	}
}

// Dropped reports how many events were discarded due to stalled consumers.
func (b *Broadcaster) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Subscription is one consumer's view of the event stream. C is closed when
// the subscription or its broadcaster is closed.
type Subscription struct {
	C      <-chan Event
	ch     chan Event
	once   sync.Once
	cancel func()
}

// Close cancels the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}
