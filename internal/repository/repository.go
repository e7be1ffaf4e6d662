// Package repository declares the storage interfaces the rest of the app
// depends on. Services receive these interfaces — never a concrete
// *sqlite.DB — so tests can inject in-memory fakes and the engine can be
// swapped without touching business logic.
package repository

import (
	"context"

	"github.com/sakif/daily-diet/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetBySessionToken resolves an opaque session token to its owning user.
	// Returns apperror.ErrNotFound when no user holds the token.
	GetBySessionToken(ctx context.Context, token string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

type MealRepository interface {
	Create(ctx context.Context, meal *model.Meal) error
	GetByID(ctx context.Context, id string) (*model.Meal, error)
	// ListByUser returns the user's meals in insertion order, oldest first.
	// The streak computation depends on this ordering being stable.
	ListByUser(ctx context.Context, userID string) ([]model.Meal, error)
	// ListAll is deliberately unscoped — an admin/debug affordance that
	// returns every user's meals. Not reachable through any user-facing flow
	// other than GET /api/meals.
	ListAll(ctx context.Context) ([]model.Meal, error)
	Update(ctx context.Context, meal *model.Meal) error
	Delete(ctx context.Context, id string) error
}

// SummaryRepository persists computed summaries as a per-user cache.
// Readers must never treat it as authoritative — the summary endpoint
// recomputes from the meal set on every request.
type SummaryRepository interface {
	Refresh(ctx context.Context, userID string, summary model.Summary) error
	GetCached(ctx context.Context, userID string) (*model.Summary, error)
}
