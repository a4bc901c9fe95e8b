// Package supabase is the REST client for the hosted auth service (GoTrue).
// It owns the transport-level session and publishes auth-state change events
// that the session manager consumes.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"storefront-api/internal/authstate"
	"storefront-api/internal/domain"
	"storefront-api/pkg/logger"
)

// Classified sign-in/sign-up failures. The login form renders different
// guidance for each, so these must survive wrapping (errors.Is).
var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrUserAlreadyExists  = errors.New("user already registered")
)

// AuthClient is the surface the session manager depends on.
type AuthClient interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]string) (*domain.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error)
	SignOut(ctx context.Context) error
	GetSession(ctx context.Context) (*domain.Session, error)
	Subscribe() *authstate.Subscription
}

// Client talks to the GoTrue endpoints under {baseURL}/auth/v1.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     *logger.Logger
	events     *authstate.Broadcaster

	mu      sync.Mutex
	session *domain.Session
}

// NewClient creates a new auth client
func NewClient(baseURL, anonKey string, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: log,
		events: authstate.NewBroadcaster(),
	}
}

// Subscribe returns a new auth-state subscription.
func (c *Client) Subscribe() *authstate.Subscription {
	return c.events.Subscribe()
}

// Close tears down the event stream.
func (c *Client) Close() {
	c.events.Close()
}

// sessionPayload is the GoTrue token/signup response shape.
type sessionPayload struct {
	AccessToken  string      `json:"access_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int         `json:"expires_in"`
	RefreshToken string      `json:"refresh_token"`
	User         userPayload `json:"user"`

	// Signup without auto-confirm returns a bare user object instead of a
	// session; these fields then appear at the top level.
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Metadata map[string]string `json:"user_metadata"`
}

type userPayload struct {
	ID               string            `json:"id"`
	Email            string            `json:"email"`
	EmailConfirmedAt string            `json:"email_confirmed_at"`
	Metadata         map[string]string `json:"user_metadata"`
	CreatedAt        time.Time         `json:"created_at"`
}

// apiError is the union of GoTrue error body shapes across versions.
type apiError struct {
	Code             int    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	ErrorField       string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e *apiError) message() string {
	for _, m := range []string{e.Msg, e.ErrorDescription, e.ErrorField} {
		if m != "" {
			return m
		}
	}
	return "authentication request failed"
}

// SignUp registers a new account, attaching metadata (the display name) to
// the user record. When the provider requires email confirmation no session
// is issued and the returned session is nil.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]string) (*domain.Session, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
	}
	if len(metadata) > 0 {
		body["data"] = metadata
	}

	payload, err := c.post(ctx, "/auth/v1/signup", body, c.anonKey)
	if err != nil {
		return nil, err
	}

	if payload.AccessToken == "" {
		// Confirmation pending: account exists but no session yet.
		c.logger.WithField("email", email).Info("Sign-up accepted, awaiting email confirmation")
		return nil, nil
	}

	session := payload.toSession()
	c.setSession(session)
	c.events.Publish(authstate.Event{Kind: authstate.EventSignedIn, Session: session})
	return session, nil
}

// SignInWithPassword performs the password grant. On success the session is
// stored and a SIGNED_IN event is published; consumers resolve identity from
// the event, not from the return value.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
	}

	payload, err := c.post(ctx, "/auth/v1/token?grant_type=password", body, c.anonKey)
	if err != nil {
		return nil, err
	}

	session := payload.toSession()
	c.setSession(session)
	c.events.Publish(authstate.Event{Kind: authstate.EventSignedIn, Session: session})
	return session, nil
}

// SignOut terminates the remote session and publishes SIGNED_OUT. The local
// session is cleared even when the remote call fails with an expired token.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session != nil {
		if _, err := c.post(ctx, "/auth/v1/logout", nil, session.AccessToken); err != nil {
			c.logger.WithError(err).Warn("Remote sign-out failed, clearing local session anyway")
		}
	}

	c.setSession(nil)
	c.events.Publish(authstate.Event{Kind: authstate.EventSignedOut})
	return nil
}

// GetSession is the one-shot current-session probe. It publishes an
// INITIAL_SESSION event carrying the session (or nil) so the manager's
// loading flag can resolve.
func (c *Client) GetSession(ctx context.Context) (*domain.Session, error) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session != nil && time.Now().After(session.ExpiresAt) {
		session = nil
		c.setSession(nil)
	}

	c.events.Publish(authstate.Event{Kind: authstate.EventInitialSession, Session: session})
	return session, nil
}

// CurrentSession returns the stored session without publishing events.
func (c *Client) CurrentSession() *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client) setSession(session *domain.Session) {
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
}

func (p *sessionPayload) toSession() *domain.Session {
	user := domain.User{
		ID:            p.User.ID,
		Email:         p.User.Email,
		EmailVerified: p.User.EmailConfirmedAt != "",
		Metadata:      p.User.Metadata,
		CreatedAt:     p.User.CreatedAt,
	}
	return &domain.Session{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    p.TokenType,
		ExpiresAt:    time.Now().Add(time.Duration(p.ExpiresIn) * time.Second),
		User:         user,
	}
}

func (c *Client) post(ctx context.Context, path string, body interface{}, bearer string) (*sessionPayload, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call auth endpoint: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiError
		if err := json.Unmarshal(respBody, &apiErr); err != nil {
			return nil, fmt.Errorf("auth endpoint returned status %d: %s", resp.StatusCode, string(respBody))
		}
		return nil, classifyAuthError(&apiErr)
	}

	if len(respBody) == 0 {
		// logout returns 204 with no body
		return &sessionPayload{}, nil
	}

	var payload sessionPayload
	if err := json.Unmarshal(respBody, &payload); err != nil {
		c.logger.WithFields(map[string]interface{}{
			"status_code": resp.StatusCode,
			"path":        path,
		}).Error("Failed to parse auth response")
		return nil, fmt.Errorf("failed to parse auth response: %w", err)
	}

	return &payload, nil
}

// classifyAuthError maps provider error bodies onto the sentinel errors the
// login and registration forms branch on.
func classifyAuthError(apiErr *apiError) error {
	msg := apiErr.message()
	lower := strings.ToLower(msg)

	switch {
	case apiErr.ErrorCode == "invalid_credentials",
		strings.Contains(lower, "invalid login credentials"):
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, msg)
	case apiErr.ErrorCode == "email_not_confirmed",
		strings.Contains(lower, "email not confirmed"):
		return fmt.Errorf("%w: %s", ErrEmailNotConfirmed, msg)
	case apiErr.ErrorCode == "user_already_exists",
		strings.Contains(lower, "already registered"):
		return fmt.Errorf("%w: %s", ErrUserAlreadyExists, msg)
	default:
		return fmt.Errorf("auth provider error: %s", msg)
	}
}
