package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/userhub/identity-api/internal/core/domain"
)

func frozenTokenService(secret string, ttl time.Duration, at time.Time) *JWTTokenService {
	ts := NewTokenService(secret, ttl)
	ts.now = func() time.Time { return at }
	return ts
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	issued := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	ts := frozenTokenService("secret", time.Hour, issued)

	token, err := ts.Issue("user-1", "jean@example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected compact three-segment token, got %q", token)
	}

	claims, err := ts.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Sub != "user-1" {
		t.Fatalf("unexpected sub: %q", claims.Sub)
	}
	if claims.Email != "jean@example.com" {
		t.Fatalf("unexpected email: %q", claims.Email)
	}
	if !claims.IssuedAt.Equal(issued) {
		t.Fatalf("unexpected iat: %v", claims.IssuedAt)
	}
	if !claims.ExpiresAt.Equal(issued.Add(time.Hour)) {
		t.Fatalf("unexpected exp: %v", claims.ExpiresAt)
	}
}

func TestTokenService_ExpiryBoundary(t *testing.T) {
	issued := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	ttl := time.Hour
	ts := frozenTokenService("secret", ttl, issued)

	token, err := ts.Issue("user-1", "jean@example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	ts.now = func() time.Time { return issued.Add(ttl - time.Second) }
	if _, err := ts.Verify(token); err != nil {
		t.Fatalf("token should verify just before expiry: %v", err)
	}

	ts.now = func() time.Time { return issued.Add(ttl + time.Second) }
	if _, err := ts.Verify(token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_TamperedToken(t *testing.T) {
	ts := NewTokenService("secret", time.Hour)

	token, err := ts.Issue("user-1", "jean@example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Flip one byte of the claims segment.
	parts := strings.Split(token, ".")
	body := []byte(parts[1])
	if body[0] == 'A' {
		body[0] = 'B'
	} else {
		body[0] = 'A'
	}
	tampered := parts[0] + "." + string(body) + "." + parts[2]

	if _, err := ts.Verify(tampered); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.Issue("user-1", "jean@example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_Malformed(t *testing.T) {
	ts := NewTokenService("secret", time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := ts.Verify(token); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Fatalf("token %q: expected ErrTokenInvalid, got %v", token, err)
		}
	}
}
