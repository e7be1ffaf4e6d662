package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sakif/daily-diet/internal/apperror"
	"github.com/sakif/daily-diet/internal/model"
	"github.com/sakif/daily-diet/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` verifies at compile time that *Users implements the
// interface. Without it, a missing method would only surface wherever the
// value is passed as a repository — which could be much later.
var _ repository.UserRepository = (*Users)(nil)

// Users carries the user-flavoured Create and GetByID. UserRepository and
// MealRepository both declare Create/GetByID with different signatures, so
// one concrete type cannot satisfy both; *DB keeps the meal pair and the
// non-colliding user methods, which Users inherits through embedding.
type Users struct {
	*DB
}

// Users returns the UserRepository view of the database.
func (db *DB) Users() *Users {
	return &Users{db}
}

// Create inserts a new user.
//
// The caller supplies Name, Email, and SessionID (the service mints the
// token); the repository generates the UUID and creation timestamp and
// writes them back through the pointer.
//
// Email carries a UNIQUE constraint, so a duplicate registration surfaces
// as a constraint violation which we translate to apperror.Conflict —
// the handler maps that to 409 rather than a bare 500.
func (r *Users) Create(ctx context.Context, user *model.User) error {
	db := r.DB
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, session_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.SessionID,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", "email already registered")
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (r *Users) GetByID(ctx context.Context, id string) (*model.User, error) {
	db := r.DB
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, email, session_id, created_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.SessionID, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	return &u, nil
}

// GetBySessionToken resolves an opaque session token to its owning user.
//
// This is the hot path — every protected request performs this lookup —
// which is why migrate() puts an index on session_id.
func (db *DB) GetBySessionToken(ctx context.Context, token string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, email, session_id, created_at
		 FROM users WHERE session_id = ?`,
		token,
	).Scan(&u.ID, &u.Name, &u.Email, &u.SessionID, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			// Deliberately not echoing the token into the error message —
			// it is a credential and would end up in logs.
			return nil, apperror.NotFound("user", "session")
		}
		return nil, fmt.Errorf("sqlite: resolving session token: %w", err)
	}

	return &u, nil
}

// List returns every registered user, oldest first.
func (db *DB) List(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, email, session_id, created_at
		 FROM users ORDER BY created_at ASC, rowid ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.SessionID, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint error.
// The driver returns these as formatted errors rather than a stable sentinel,
// so we match on the constraint message SQLite itself emits.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
