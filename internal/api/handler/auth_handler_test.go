package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/userhub/identity-api/internal/api/middleware"
	"github.com/userhub/identity-api/internal/core/domain"
)

// stubAuthService scripts each use case so handler behavior can be
// asserted without the real orchestrator. Error translation lives in the
// central HTTP error handler, so here we only assert that handlers pass
// domain errors through untouched.
type stubAuthService struct {
	registerToken string
	registerErr   error
	loginToken    string
	loginErr      error
	profile       domain.PublicUser
	profileErr    error
	logoutErr     error
	users         []domain.PublicUser
	user          domain.PublicUser
	userErr       error

	lastPayload map[string]any
	logoutToken string
}

func (s *stubAuthService) Register(_ context.Context, payload map[string]any) (string, error) {
	s.lastPayload = payload
	return s.registerToken, s.registerErr
}

func (s *stubAuthService) Login(_ context.Context, payload map[string]any) (string, error) {
	s.lastPayload = payload
	return s.loginToken, s.loginErr
}

func (s *stubAuthService) Profile(_ context.Context, _ string) (domain.PublicUser, error) {
	return s.profile, s.profileErr
}

func (s *stubAuthService) Logout(_ context.Context, token string) error {
	s.logoutToken = token
	return s.logoutErr
}

func (s *stubAuthService) ListUsers(_ context.Context) ([]domain.PublicUser, error) {
	return s.users, nil
}

func (s *stubAuthService) GetUser(_ context.Context, _ string) (domain.PublicUser, error) {
	return s.user, s.userErr
}

func jsonContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Created(t *testing.T) {
	svc := &stubAuthService{registerToken: "signed-token"}
	h := NewAuthHandler(svc)

	c, rec := jsonContext(t, http.MethodPost, "/users/register",
		`{"name":"Jean Dupont","email":"jean@example.com","password":"Secure1!abc","age":30}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var body tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.AccessToken != "signed-token" {
		t.Fatalf("unexpected body: %+v", body)
	}
	// The raw payload reaches the service untouched for strict validation.
	if svc.lastPayload["email"] != "jean@example.com" || svc.lastPayload["age"] != float64(30) {
		t.Fatalf("unexpected payload: %v", svc.lastPayload)
	}
}

func TestAuthHandler_Register_PassesDomainErrorsThrough(t *testing.T) {
	for _, want := range []error{
		domain.ErrEmailTaken,
		&domain.ValidationError{Messages: []string{"name is required"}},
	} {
		h := NewAuthHandler(&stubAuthService{registerErr: want})
		c, _ := jsonContext(t, http.MethodPost, "/users/register", `{}`)
		if err := h.Register(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestAuthHandler_Register_MalformedJSON(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	c, _ := jsonContext(t, http.MethodPost, "/users/register", `{not json`)

	var he *echo.HTTPError
	if err := h.Register(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login_OK(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{loginToken: "signed-token"})

	c, rec := jsonContext(t, http.MethodPost, "/auth/login",
		`{"email":"jean@example.com","password":"Secure1!abc"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.AccessToken != "signed-token" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAuthHandler_Login_InvalidCredentialsPassThrough(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{loginErr: domain.ErrInvalidCredentials})
	c, _ := jsonContext(t, http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"x"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Profile(t *testing.T) {
	public := domain.PublicUser{ID: "user-1", Name: "Jean Dupont", Email: "jean@example.com", Age: 30}
	h := NewAuthHandler(&stubAuthService{profile: public})

	c, rec := jsonContext(t, http.MethodGet, "/auth/profile", "")
	c.Set(middleware.CtxUserID, "user-1")

	if err := h.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body domain.PublicUser
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body != public {
		t.Fatalf("unexpected body: %+v", body)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("password material leaked: %s", rec.Body.String())
	}
}

func TestAuthHandler_Profile_MissingClaims(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	c, _ := jsonContext(t, http.MethodGet, "/auth/profile", "")

	var he *echo.HTTPError
	if err := h.Profile(c); !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)

	c, rec := jsonContext(t, http.MethodPost, "/auth/logout", "")
	c.Set(middleware.CtxToken, "raw-token")

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if svc.logoutToken != "raw-token" {
		t.Fatalf("raw token not forwarded: %q", svc.logoutToken)
	}
}
