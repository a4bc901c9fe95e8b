package domain

import "time"

// User is the authenticated account as reported by the auth provider.
type User struct {
	ID            string            `json:"id"`
	Email         string            `json:"email"`
	EmailVerified bool              `json:"email_verified"`
	Metadata      map[string]string `json:"user_metadata,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Session is an issued auth session. A sign-up that still requires email
// confirmation yields no session.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Profile is the display profile resolved from the profiles table, merged
// into the exposed identity best-effort.
type Profile struct {
	FullName string `json:"full_name"`
}

// Identity is the resolved authenticated identity plus its derived profile.
// Owned exclusively by the session manager; read-only everywhere else.
type Identity struct {
	UserID  string   `json:"user_id"`
	Email   string   `json:"email"`
	Profile *Profile `json:"profile,omitempty"`
}

// DisplayName returns the enriched name when present, the email otherwise.
func (i *Identity) DisplayName() string {
	if i == nil {
		return ""
	}
	if i.Profile != nil && i.Profile.FullName != "" {
		return i.Profile.FullName
	}
	return i.Email
}

// TokenClaims is the subset of verified bearer-token claims the request
// pipeline cares about.
type TokenClaims struct {
	Sub      string `json:"sub"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}
