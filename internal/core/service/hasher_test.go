package service

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("Secure1!abc")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if digest == "Secure1!abc" {
		t.Fatalf("digest equals plaintext")
	}
	if !h.Verify("Secure1!abc", digest) {
		t.Fatalf("verify failed for matching password")
	}
	if h.Verify("wrong", digest) {
		t.Fatalf("verify passed for wrong password")
	}
}

func TestBcryptHasher_SaltedDigestsDiffer(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	d1, err := h.Hash("Secure1!abc")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	d2, err := h.Hash("Secure1!abc")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if d1 == d2 {
		t.Fatalf("two hashes of the same input must differ")
	}
	if !h.Verify("Secure1!abc", d1) || !h.Verify("Secure1!abc", d2) {
		t.Fatalf("both digests must verify")
	}
}

func TestBcryptHasher_MalformedDigest(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, digest := range []string{"", "not-a-digest", strings.Repeat("x", 60)} {
		if h.Verify("anything", digest) {
			t.Fatalf("malformed digest %q must not verify", digest)
		}
	}
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	for _, cost := range []int{-1, 0, 3, 99} {
		h := NewBcryptHasher(cost)
		if h.cost != bcrypt.DefaultCost {
			t.Fatalf("cost %d should fall back to default, got %d", cost, h.cost)
		}
	}
	if h := NewBcryptHasher(bcrypt.MinCost); h.cost != bcrypt.MinCost {
		t.Fatalf("valid cost should be kept")
	}
}
