// Package session owns the resolved authenticated identity and its derived
// display profile. Identity transitions are driven only by auth-state events
// from the provider, never inferred locally from call return values.
package session

import (
	"context"
	"sync"
	"time"

	"storefront-api/internal/authstate"
	"storefront-api/internal/domain"
	"storefront-api/internal/repository"
	"storefront-api/internal/supabase"
	"storefront-api/pkg/logger"
)

// profileLookupTimeout bounds the best-effort profiles query so a slow table
// cannot hold back the base identity for long.
const profileLookupTimeout = 5 * time.Second

// Manager resolves and exposes the current identity.
//
// State machine: Unresolved(loading) -> Authenticated | Anonymous. Loading
// flips to false exactly once, on the first processed auth event (the initial
// session probe counts), and stays false.
type Manager struct {
	auth     supabase.AuthClient
	profiles repository.ProfileRepository
	log      *logger.Logger

	mu       sync.RWMutex
	identity *domain.Identity
	loading  bool

	resolveOnce sync.Once
	sub         *authstate.Subscription
	done        chan struct{}
	wg          sync.WaitGroup
}

// NewManager creates the manager and starts consuming the auth-state stream.
// Call Close on shutdown to dispose the subscription.
func NewManager(auth supabase.AuthClient, profiles repository.ProfileRepository, log *logger.Logger) *Manager {
	m := &Manager{
		auth:     auth,
		profiles: profiles,
		log:      log,
		loading:  true,
		sub:      auth.Subscribe(),
		done:     make(chan struct{}),
	}

	m.wg.Add(1)
	go m.consume()

	return m
}

// Start performs the initial session probe. The resulting INITIAL_SESSION
// event resolves the loading flag whether or not a session exists.
func (m *Manager) Start(ctx context.Context) error {
	if _, err := m.auth.GetSession(ctx); err != nil {
		m.log.WithError(err).Warn("Initial session probe failed")
		m.resolveLoading()
		return err
	}
	return nil
}

// Close disposes the auth subscription and stops the event consumer.
func (m *Manager) Close() {
	m.sub.Close()
	close(m.done)
	m.wg.Wait()
}

// Login attempts the password sign-in. Identity is populated asynchronously
// by the SIGNED_IN event, not here. Failures come back classified
// (supabase.ErrInvalidCredentials, supabase.ErrEmailNotConfirmed) so the
// caller can render the right guidance.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if _, err := m.auth.SignInWithPassword(ctx, email, password); err != nil {
		m.log.WithError(err).WithField("email", email).Warn("Login failed")
		return err
	}

	m.log.WithField("email", email).Info("Login succeeded")
	return nil
}

// Register signs up a new account with the display name attached as
// metadata. The returned flag reports whether a session was issued
// immediately; false means the provider wants email confirmation first.
func (m *Manager) Register(ctx context.Context, name, email, password string) (bool, error) {
	session, err := m.auth.SignUp(ctx, email, password, map[string]string{"full_name": name})
	if err != nil {
		m.log.WithError(err).WithField("email", email).Warn("Registration failed")
		return false, err
	}

	m.log.WithFields(map[string]interface{}{
		"email":          email,
		"session_issued": session != nil,
	}).Info("Registration succeeded")
	return session != nil, nil
}

// Logout requests session termination. Identity clears via the SIGNED_OUT
// event.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.auth.SignOut(ctx); err != nil {
		m.log.WithError(err).Error("Logout failed")
		return err
	}
	return nil
}

// Identity returns a copy of the current identity, or nil when anonymous.
func (m *Manager) Identity() *domain.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.identity == nil {
		return nil
	}
	identity := *m.identity
	if m.identity.Profile != nil {
		profile := *m.identity.Profile
		identity.Profile = &profile
	}
	return &identity
}

// IsAuthenticated reports whether an identity is resolved.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity != nil
}

// Loading reports whether the first auth resolution is still pending.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

func (m *Manager) consume() {
	defer m.wg.Done()

	for {
		select {
		case ev, ok := <-m.sub.C:
			if !ok {
				return
			}
			m.handleEvent(ev)
		case <-m.done:
			return
		}
	}
}

func (m *Manager) handleEvent(ev authstate.Event) {
	defer m.resolveLoading()

	if ev.Session == nil {
		m.mu.Lock()
		m.identity = nil
		m.mu.Unlock()

		m.log.WithField("event", string(ev.Kind)).Debug("Identity cleared")
		return
	}

	user := ev.Session.User
	base := &domain.Identity{UserID: user.ID, Email: user.Email}

	// Expose the base identity before enrichment so a failing profile
	// lookup never blocks authentication.
	m.mu.Lock()
	m.identity = base
	m.mu.Unlock()

	m.log.WithFields(map[string]interface{}{
		"event":   string(ev.Kind),
		"user_id": user.ID,
	}).Debug("Identity resolved")

	m.enrichProfile(user)
}

// enrichProfile looks up profiles.full_name for the user, falling back to
// the name carried in the session metadata. Failures are swallowed; they
// only cost the enriched name.
func (m *Manager) enrichProfile(user domain.User) {
	ctx, cancel := context.WithTimeout(context.Background(), profileLookupTimeout)
	defer cancel()

	fullName, err := m.profiles.GetFullName(ctx, user.ID)
	if err != nil {
		m.log.WithError(err).WithField("user_id", user.ID).Debug("Profile lookup failed, using session metadata")
		fullName = ""
	}
	if fullName == "" {
		fullName = user.Metadata["full_name"]
	}
	if fullName == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// A sign-out or identity switch may have landed while the lookup was
	// in flight; only merge into the identity it belongs to.
	if m.identity == nil || m.identity.UserID != user.ID {
		return
	}
	m.identity.Profile = &domain.Profile{FullName: fullName}
}

func (m *Manager) resolveLoading() {
	m.resolveOnce.Do(func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	})
}
