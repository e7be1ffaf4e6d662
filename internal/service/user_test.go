package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/sakif/daily-diet/internal/apperror"
	"github.com/sakif/daily-diet/internal/model"
)

// =========================================================================
// MOCK REPOSITORY
// =========================================================================
//
// A hand-written in-memory implementation of repository.UserRepository.
// The service doesn't know or care that it's not SQLite — that's the point
// of taking the repository as an interface.

type mockUserRepo struct {
	byID      map[string]*model.User
	byToken   map[string]*model.User
	byEmail   map[string]*model.User
	nextID    int
	createErr error // when set, Create fails with this
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byID:    make(map[string]*model.User),
		byToken: make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.byEmail[user.Email]; exists {
		return apperror.Conflict("user", "email already registered")
	}
	m.nextID++
	user.ID = fmt.Sprintf("mock-user-%d", m.nextID)
	stored := *user
	m.byID[user.ID] = &stored
	m.byToken[user.SessionID] = &stored
	m.byEmail[user.Email] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetBySessionToken(_ context.Context, token string) (*model.User, error) {
	u, ok := m.byToken[token]
	if !ok {
		return nil, apperror.NotFound("user", "session")
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(m.byID))
	for _, u := range m.byID {
		result = append(result, *u)
	}
	return result, nil
}

func newTestUserService(t *testing.T) (*UserService, *mockUserRepo) {
	t.Helper()
	repo := newMockUserRepo()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := NewUserService(repo, logger)
	return svc, repo
}

// =========================================================================
// REGISTER TESTS
// =========================================================================

func TestRegister(t *testing.T) {
	svc, _ := newTestUserService(t)

	user, err := svc.Register(context.Background(), "Ada", "ada@example.com")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Register() did not set user.ID")
	}
	if user.SessionID == "" {
		t.Error("Register() must mint a session token")
	}
}

func TestRegister_MintsUniqueTokens(t *testing.T) {
	svc, _ := newTestUserService(t)

	a, err := svc.Register(context.Background(), "Ada", "ada@example.com")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	b, err := svc.Register(context.Background(), "Bob", "bob@example.com")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// A token identifies exactly one user for its lifetime
	if a.SessionID == b.SessionID {
		t.Error("two accounts must never share a session token")
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestUserService(t)

	tests := []struct {
		name  string
		uname string
		email string
	}{
		{"empty name", "", "ada@example.com"},
		{"whitespace name", "   ", "ada@example.com"},
		{"empty email", "Ada", ""},
		{"email without @", "Ada", "ada.example.com"},
		{"email with leading @", "Ada", "@example.com"},
		{"email with trailing @", "Ada", "ada@"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.uname, tt.email)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register(%q, %q) error = %v, want ErrValidation", tt.uname, tt.email, err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestUserService(t)

	if _, err := svc.Register(context.Background(), "Ada", "ada@example.com"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(context.Background(), "Ada Again", "ada@example.com")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Register() with duplicate email error = %v, want ErrConflict", err)
	}
}

// =========================================================================
// SESSION RESOLUTION TESTS
// =========================================================================

func TestResolveSession_RoundTrip(t *testing.T) {
	svc, _ := newTestUserService(t)

	created, err := svc.Register(context.Background(), "Ada", "ada@example.com")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// The token issued at registration must resolve back to the same user
	resolved, err := svc.ResolveSession(context.Background(), created.SessionID)
	if err != nil {
		t.Fatalf("ResolveSession() error = %v", err)
	}
	if resolved.ID != created.ID {
		t.Errorf("ResolveSession() ID = %s, want %s", resolved.ID, created.ID)
	}
}

func TestResolveSession_MissingToken(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.ResolveSession(context.Background(), "")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("ResolveSession(\"\") error = %v, want ErrUnauthorized", err)
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Message != "session required" {
		t.Errorf("ResolveSession(\"\") should be the missing-session case, got %v", err)
	}
}

func TestResolveSession_UnknownToken(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.ResolveSession(context.Background(), "stale-or-forged")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("ResolveSession() error = %v, want ErrUnauthorized", err)
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Message != "invalid session" {
		t.Errorf("ResolveSession() should be the invalid-session case, got %v", err)
	}
}
