package cart

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"storefront-api/internal/authstate"
	"storefront-api/internal/notice"
	"storefront-api/internal/repository"
	"storefront-api/pkg/logger"
)

// warmTimeout bounds the cart prefetch triggered by auth events.
const warmTimeout = 10 * time.Second

// Registry hands out one synchronizer per identity. Creation (with its
// initial remote fetch) is single-flighted so concurrent first requests for
// the same user share one fetch; mutations on the synchronizer itself stay
// last-write-wins.
type Registry struct {
	repo    repository.CartRepository
	notices notice.Sink
	log     *logger.Logger

	group singleflight.Group

	mu    sync.RWMutex
	syncs map[string]*Synchronizer

	watchOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewRegistry creates an empty registry.
func NewRegistry(repo repository.CartRepository, notices notice.Sink, log *logger.Logger) *Registry {
	return &Registry{
		repo:    repo,
		notices: notices,
		log:     log,
		syncs:   make(map[string]*Synchronizer),
		done:    make(chan struct{}),
	}
}

// Get returns the synchronizer for the identity, creating and populating it
// on first use.
func (r *Registry) Get(ctx context.Context, userID string) (*Synchronizer, error) {
	r.mu.RLock()
	s, ok := r.syncs[userID]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}

	v, err, _ := r.group.Do(userID, func() (interface{}, error) {
		r.mu.RLock()
		s, ok := r.syncs[userID]
		r.mu.RUnlock()
		if ok {
			return s, nil
		}

		s = NewSynchronizer(r.repo, r.notices, r.log)
		if err := s.SetUser(ctx, userID); err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.syncs[userID] = s
		r.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Synchronizer), nil
}

// Evict drops the identity's synchronizer, clearing its mirror locally
// without any remote delete.
func (r *Registry) Evict(userID string) {
	r.mu.Lock()
	s, ok := r.syncs[userID]
	delete(r.syncs, userID)
	r.mu.Unlock()

	if ok {
		_ = s.SetUser(context.Background(), "")
	}
}

// Watch consumes an auth-state subscription: a signed-in session warms that
// user's cart, a signed-out or empty session clears every mirror locally.
// The subscription is disposed when the registry closes.
func (r *Registry) Watch(sub *authstate.Subscription) {
	r.watchOnce.Do(func() {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			defer sub.Close()

			for {
				select {
				case ev, ok := <-sub.C:
					if !ok {
						return
					}
					r.handleEvent(ev)
				case <-r.done:
					return
				}
			}
		}()
	})
}

// Close stops the watcher.
func (r *Registry) Close() {
	close(r.done)
	r.wg.Wait()
}

func (r *Registry) handleEvent(ev authstate.Event) {
	if ev.Session == nil {
		r.mu.Lock()
		syncs := r.syncs
		r.syncs = make(map[string]*Synchronizer)
		r.mu.Unlock()

		for _, s := range syncs {
			_ = s.SetUser(context.Background(), "")
		}

		if ev.Kind == authstate.EventSignedOut {
			r.log.Debug("Cart mirrors cleared after sign-out")
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
	defer cancel()

	if _, err := r.Get(ctx, ev.Session.User.ID); err != nil {
		r.log.WithError(err).WithField("user_id", ev.Session.User.ID).Warn("Cart warm-up fetch failed")
	}
}
