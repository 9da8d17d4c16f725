package ports

import (
	"context"
	"time"

	"github.com/userhub/identity-api/internal/core/domain"
)

// AuthService defines the use-case operations of the identity API.
//
// Register and Login take the raw decoded JSON object rather than a typed
// request so the declarative validator can reject unknown fields and
// collect every violation before any typed view of the payload exists.
type AuthService interface {
	// Register validates, hashes, stores and returns a signed access token.
	Register(ctx context.Context, payload map[string]any) (string, error)
	// Login authenticates email/password and returns a signed access token.
	Login(ctx context.Context, payload map[string]any) (string, error)
	// Profile returns the public view for the authenticated user id.
	Profile(ctx context.Context, userID string) (domain.PublicUser, error)
	// Logout revokes the presented token until its natural expiry.
	Logout(ctx context.Context, token string) error
	// ListUsers returns all users projected to their public view.
	ListUsers(ctx context.Context) ([]domain.PublicUser, error)
	// GetUser returns the public view for id, or domain.ErrUserNotFound.
	GetUser(ctx context.Context, id string) (domain.PublicUser, error)
}

// PasswordHasher performs one-way hashing of credentials.
type PasswordHasher interface {
	// Hash returns a salted digest of the plaintext. Two calls on the same
	// input produce different digests.
	Hash(password string) (string, error)
	// Verify reports whether plaintext matches digest. Malformed digests
	// report false, never an error.
	Verify(password, digest string) bool
}

// TokenClaims is the decoded identity carried by a verified access token.
type TokenClaims struct {
	Sub       string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies signed access tokens.
type TokenService interface {
	// Issue signs a token carrying sub and email, expiring after the
	// configured TTL.
	Issue(sub, email string) (string, error)
	// Verify checks signature and expiry. Returns domain.ErrTokenExpired for
	// a well-signed but expired token and domain.ErrTokenInvalid otherwise.
	Verify(token string) (*TokenClaims, error)
}

// TokenRevoker tracks tokens revoked before their natural expiry.
type TokenRevoker interface {
	// Revoke denylists the token until the given expiry instant.
	Revoke(ctx context.Context, token string, until time.Time) error
	// IsRevoked reports whether the token has been revoked.
	IsRevoked(ctx context.Context, token string) (bool, error)
}
