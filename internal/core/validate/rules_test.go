package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/userhub/identity-api/internal/core/domain"
)

func validRegistration() map[string]any {
	return map[string]any{
		"name":     "Jean Dupont",
		"email":    "Jean@Example.COM",
		"password": "Secure1!abc",
		"age":      float64(30), // JSON numbers decode as float64
	}
}

func TestRegistration_ValidPayloadNormalizes(t *testing.T) {
	data, err := Registration(validRegistration())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Name != "Jean Dupont" {
		t.Fatalf("unexpected name: %q", data.Name)
	}
	if data.Email != "jean@example.com" {
		t.Fatalf("email not normalized: %q", data.Email)
	}
	if data.Password != "Secure1!abc" {
		t.Fatalf("password must not be normalized: %q", data.Password)
	}
	if data.Age != 30 {
		t.Fatalf("unexpected age: %d", data.Age)
	}
}

func TestRegistration_TrimsNameAndEmail(t *testing.T) {
	payload := validRegistration()
	payload["name"] = "  Anne-Marie O'Neill  "
	payload["email"] = "  USER@Host.org "

	data, err := Registration(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Name != "Anne-Marie O'Neill" {
		t.Fatalf("name not trimmed: %q", data.Name)
	}
	if data.Email != "user@host.org" {
		t.Fatalf("email not normalized: %q", data.Email)
	}
}

func TestRegistration_ShortNameSingleViolation(t *testing.T) {
	payload := validRegistration()
	payload["name"] = "J"

	_, err := Registration(payload)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Messages) != 1 {
		t.Fatalf("expected exactly 1 message, got %d: %v", len(ve.Messages), ve.Messages)
	}
	if !strings.Contains(ve.Messages[0], "between 2 and 50") {
		t.Fatalf("unexpected message: %q", ve.Messages[0])
	}
}

func TestRegistration_OneMessagePerViolatedRule(t *testing.T) {
	// name too short (1), email invalid (1), password too short and
	// missing complexity (2), age out of range (1) = 5 messages.
	payload := map[string]any{
		"name":     "J",
		"email":    "not-an-email",
		"password": "abc",
		"age":      float64(200),
	}

	_, err := Registration(payload)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Messages) != 5 {
		t.Fatalf("expected 5 messages, got %d: %v", len(ve.Messages), ve.Messages)
	}
}

func TestRegistration_ViolationsInDeclarationOrder(t *testing.T) {
	payload := map[string]any{
		"name":     "J",
		"email":    "bad",
		"password": "Secure1!abc",
		"age":      float64(30),
	}

	_, err := Registration(payload)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %v", ve.Messages)
	}
	if !strings.HasPrefix(ve.Messages[0], "name") || !strings.HasPrefix(ve.Messages[1], "email") {
		t.Fatalf("messages out of declaration order: %v", ve.Messages)
	}
}

func TestRegistration_MissingFields(t *testing.T) {
	_, err := Registration(map[string]any{})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Messages) != 4 {
		t.Fatalf("expected 4 required messages, got %v", ve.Messages)
	}
}

func TestRegistration_UnknownFieldRejected(t *testing.T) {
	payload := validRegistration()
	payload["role"] = "admin"

	_, err := Registration(payload)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Messages) != 1 || ve.Messages[0] != "unexpected field: role" {
		t.Fatalf("unexpected messages: %v", ve.Messages)
	}
}

func TestRegistration_NamePattern(t *testing.T) {
	for _, name := range []string{"Zoë Müller", "Jean-Luc", "O'Brien"} {
		payload := validRegistration()
		payload["name"] = name
		if _, err := Registration(payload); err != nil {
			t.Fatalf("name %q should be valid: %v", name, err)
		}
	}
	for _, name := range []string{"R2D2", "Jane_Doe", "a@b"} {
		payload := validRegistration()
		payload["name"] = name
		if _, err := Registration(payload); err == nil {
			t.Fatalf("name %q should be rejected", name)
		}
	}
}

func TestRegistration_PasswordComplexity(t *testing.T) {
	cases := map[string]bool{
		"Secure1!abc": true,
		"secure1!abc": false, // no uppercase
		"SECURE1!ABC": false, // no lowercase
		"Secure!abcd": false, // no digit
		"Secure1abcd": false, // no symbol
	}
	for pw, ok := range cases {
		payload := validRegistration()
		payload["password"] = pw
		_, err := Registration(payload)
		if ok && err != nil {
			t.Fatalf("password %q should pass: %v", pw, err)
		}
		if !ok && err == nil {
			t.Fatalf("password %q should fail", pw)
		}
	}
}

func TestRegistration_AgeCoercionAndBounds(t *testing.T) {
	payload := validRegistration()
	payload["age"] = "42"
	data, err := Registration(payload)
	if err != nil {
		t.Fatalf("numeric string age should coerce: %v", err)
	}
	if data.Age != 42 {
		t.Fatalf("unexpected age: %d", data.Age)
	}

	for _, age := range []any{float64(12), float64(121), float64(29.5), "not-a-number", true} {
		payload := validRegistration()
		payload["age"] = age
		if _, err := Registration(payload); err == nil {
			t.Fatalf("age %v should be rejected", age)
		}
	}

	for _, age := range []any{float64(13), float64(120)} {
		payload := validRegistration()
		payload["age"] = age
		if _, err := Registration(payload); err != nil {
			t.Fatalf("age %v should be accepted: %v", age, err)
		}
	}
}

func TestLogin_Rules(t *testing.T) {
	data, err := Login(map[string]any{"email": " Jean@Example.COM ", "password": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Email != "jean@example.com" {
		t.Fatalf("email not normalized: %q", data.Email)
	}
	// Login imposes no complexity rules on the password.
	if data.Password != "x" {
		t.Fatalf("unexpected password: %q", data.Password)
	}

	for _, payload := range []map[string]any{
		{"email": "jean@example.com"},                            // missing password
		{"email": "jean@example.com", "password": ""},            // empty password
		{"email": "bad", "password": "x"},                        // invalid email
		{"email": "jean@example.com", "password": float64(1)},    // wrong type
		{"email": "a@b.com", "password": "x", "remember": true},  // unknown field
	} {
		if _, err := Login(payload); err == nil {
			t.Fatalf("payload %v should be rejected", payload)
		}
	}
}
