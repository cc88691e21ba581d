package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jorgellalle30-glitch/mi-api/internal/repository"
	"github.com/jorgellalle30-glitch/mi-api/pkg/config"
	"github.com/jorgellalle30-glitch/mi-api/pkg/crypto"
	jwtpkg "github.com/jorgellalle30-glitch/mi-api/pkg/jwt"
)

// ErrInvalidCredentials covers both an unknown username and a wrong password.
// The caller never learns which half of the pair failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrStoreUnavailable replaces any store-level fault before it can reach a
// response body. The underlying error is logged, never returned.
var ErrStoreUnavailable = errors.New("store unavailable")

// Service handles login and bearer-token authorization.
type Service struct {
	users  repository.UserRepository
	logger *slog.Logger
	cfg    config.APIConfig
}

// New constructs a Service.
func New(users repository.UserRepository, logger *slog.Logger, cfg config.APIConfig) Service {
	return Service{users: users, logger: logger, cfg: cfg}
}

// Login verifies a username/password pair and issues an access token.
func (s Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		s.logger.Error("user lookup failed", "error", err)
		return "", ErrStoreUnavailable
	}
	if err := crypto.VerifyPassword(user.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}
	token, err := jwtpkg.Generate(user.ID, user.Username, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		s.logger.Error("token signing failed", "error", err)
		return "", err
	}
	s.logger.Info("user logged in", "user_id", user.ID)
	return token, nil
}

// Authorize validates a bearer token and returns the embedded identity.
// The identity is trusted as-is for the request; there is no re-fetch from
// the store, so a deleted user's token stays valid until it expires.
func (s Service) Authorize(token string) (*jwtpkg.Claims, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil, errors.New("token required")
	}
	claims, err := jwtpkg.Parse(trimmed, s.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
