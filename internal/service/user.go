// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services accept primitives and return domain models and domain errors —
// they have zero knowledge of HTTP. Each service takes its repository as an
// interface so tests can inject an in-memory fake (see user_test.go) and
// the storage engine can be swapped in one line of wiring.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/sakif/daily-diet/internal/apperror"
	"github.com/sakif/daily-diet/internal/model"
	"github.com/sakif/daily-diet/internal/repository"
)

// Validation constants.
const (
	MaxUserNameLength = 100
	MaxEmailLength    = 254 // RFC 5321 upper bound on address length
)

// UserService owns account registration and session identity resolution.
//
// There is no password flow: registering mints an opaque session token,
// and presenting that token on a later request IS the authentication.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// Register validates and creates a new account with a freshly minted
// session token.
//
// Every new account gets its own token, even when the caller already
// presented one for an existing account. Tokens are unique at the storage
// layer and identify exactly one user for their lifetime, so reusing a
// presented token for a second account is never allowed — the handler
// re-issues the cookie with the new token instead.
func (s *UserService) Register(ctx context.Context, name, email string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if len(name) > MaxUserNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("name must be %d characters or less", MaxUserNameLength))
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if len(email) > MaxEmailLength {
		return nil, apperror.ValidationFailed("email",
			fmt.Sprintf("email must be %d characters or less", MaxEmailLength))
	}
	// Shape check only — deliverability is not our problem. The UNIQUE
	// constraint handles duplicates.
	if at := strings.Index(email, "@"); at <= 0 || at == len(email)-1 {
		return nil, apperror.ValidationFailed("email", "email must be a valid address")
	}

	user := &model.User{
		Name:      name,
		Email:     email,
		SessionID: uuid.NewString(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Conflict (duplicate email) is a normal client error — propagate
		// without logging it as a server failure.
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("id", user.ID),
		slog.String("name", user.Name),
	)

	return user, nil
}

// ResolveSession maps an opaque session token to its owning user.
//
// The two failure modes are kept distinct:
//   - empty token   → MissingSession (the client never sent a cookie)
//   - unknown token → InvalidSession (the cookie is stale or forged)
//
// Both translate to 401 at the boundary, but the distinction matters in
// logs and to clients deciding whether to re-register.
func (s *UserService) ResolveSession(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, apperror.MissingSession()
	}

	user, err := s.users.GetBySessionToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.InvalidSession()
		}
		return nil, fmt.Errorf("resolving session: %w", err)
	}

	return user, nil
}

// List returns all registered users (session tokens are stripped at the
// serialisation boundary, not here — the model's json:"-" tag handles it).
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}
