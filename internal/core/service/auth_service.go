package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/identity-api/internal/core/domain"
	"github.com/userhub/identity-api/internal/core/ports"
	"github.com/userhub/identity-api/internal/core/validate"
)

// AuthService composes the validator, hasher, user store, token service
// and revocation store into the registration/login/profile use cases.
type AuthService struct {
	repo    ports.UserRepository
	hasher  ports.PasswordHasher
	tokens  ports.TokenService
	revoker ports.TokenRevoker
	audit   ports.AuditRecorder
	log     zerolog.Logger
}

func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	revoker ports.TokenRevoker,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:    repo,
		hasher:  hasher,
		tokens:  tokens,
		revoker: revoker,
		audit:   audit,
		log:     log,
	}
}

// Register validates the payload, enforces email uniqueness, hashes the
// password, stores the record and returns a signed access token. Only the
// token is returned, never the created record.
//
// Uniqueness is checked twice: the FindByEmail pre-check gives the common
// case a clean conflict, and the store's unique index closes the race —
// a duplicate-key error on Insert surfaces as the same ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, payload map[string]any) (string, error) {
	data, err := validate.Registration(payload)
	if err != nil {
		return "", err
	}

	if _, err := s.repo.FindByEmail(ctx, data.Email); err == nil {
		return "", domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", fmt.Errorf("register: lookup email: %w", err)
	}

	hash, err := s.hasher.Hash(data.Password)
	if err != nil {
		return "", fmt.Errorf("register: hash password: %w", err)
	}

	user := &domain.User{
		Name:         data.Name,
		Email:        data.Email,
		PasswordHash: hash,
		Age:          data.Age,
		CreatedAt:    time.Now().UTC(),
	}
	created, err := s.repo.Insert(ctx, user)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(created.ID, created.Email)
	if err != nil {
		return "", fmt.Errorf("register: issue token: %w", err)
	}

	s.record(ports.AuditActionRegister, created.Email, ports.AuditOutcomeSuccess)
	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return token, nil
}

// Login authenticates email/password and returns a signed access token.
// An unknown email and a wrong password both yield ErrInvalidCredentials;
// the two are never distinguishable from outside.
func (s *AuthService) Login(ctx context.Context, payload map[string]any) (string, error) {
	data, err := validate.Login(payload)
	if err != nil {
		return "", err
	}

	user, err := s.repo.FindByEmail(ctx, data.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.record(ports.AuditActionLogin, data.Email, ports.AuditOutcomeDenied)
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("login: lookup email: %w", err)
	}

	if !s.hasher.Verify(data.Password, user.PasswordHash) {
		s.record(ports.AuditActionLogin, data.Email, ports.AuditOutcomeDenied)
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("login: issue token: %w", err)
	}

	s.record(ports.AuditActionLogin, user.Email, ports.AuditOutcomeSuccess)
	return token, nil
}

// Profile returns the public view for a verified token subject. A missing
// record (deleted after the token was issued) is still a 401 externally;
// the internal reason is logged.
func (s *AuthService) Profile(ctx context.Context, userID string) (domain.PublicUser, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Str("user_id", userID).Msg("profile for valid token but missing user")
			return domain.PublicUser{}, domain.ErrUnauthorized
		}
		return domain.PublicUser{}, fmt.Errorf("profile: lookup user: %w", err)
	}
	return user.Public(), nil
}

// Logout revokes the presented token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return err
	}
	if err := s.revoker.Revoke(ctx, token, claims.ExpiresAt); err != nil {
		return fmt.Errorf("logout: revoke token: %w", err)
	}
	s.record(ports.AuditActionLogout, claims.Email, ports.AuditOutcomeSuccess)
	return nil
}

// ListUsers returns every user projected to the public view, in store
// order.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.PublicUser, error) {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, nil
}

// GetUser returns the public view for id, or ErrUserNotFound.
func (s *AuthService) GetUser(ctx context.Context, id string) (domain.PublicUser, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *AuthService) record(action, email, outcome string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ports.AuditEvent{
		Action:    action,
		Email:     email,
		Outcome:   outcome,
		Timestamp: time.Now().UTC(),
	})
}
