package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sakif/daily-diet/internal/apperror"
	"github.com/sakif/daily-diet/internal/model"
	"github.com/sakif/daily-diet/internal/repository"
)

// compile-time check that *DB implements repository.MealRepository
var _ repository.MealRepository = (*DB)(nil)

// Create inserts a new meal owned by meal.UserID.
//
// POINTER RECEIVER ARGUMENT:
// We take *model.Meal so the generated ID and creation timestamp are
// visible to the caller after Create returns. updated_at is left NULL —
// it only gets a value on the first update.
func (db *DB) Create(ctx context.Context, meal *model.Meal) error {
	meal.ID = uuid.NewString()
	meal.CreatedAt = time.Now()
	meal.UpdatedAt = nil

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO meals (id, name, description, in_diet, created_at, user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		meal.ID,
		meal.Name,
		meal.Description,
		string(meal.InDiet),
		meal.CreatedAt,
		meal.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating meal: %w", err)
	}

	return nil
}

// GetByID retrieves a single meal by its ID, or apperror.ErrNotFound.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Meal, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, name, description, in_diet, created_at, updated_at, user_id
		 FROM meals WHERE id = ?`,
		id,
	)

	meal, err := scanMeal(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("meal", id)
		}
		return nil, fmt.Errorf("sqlite: getting meal %s: %w", id, err)
	}

	return meal, nil
}

// ListByUser returns one user's meals in insertion order, oldest first.
//
// ORDERING MATTERS HERE:
// The streak calculation walks this slice front to back, so the order must
// be the order meals were recorded in. created_at alone is not enough —
// two meals inserted in the same clock tick would have equal timestamps
// and SQLite would be free to return them either way round. The rowid
// tiebreak pins the result to physical insertion order.
func (db *DB) ListByUser(ctx context.Context, userID string) ([]model.Meal, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, description, in_diet, created_at, updated_at, user_id
		 FROM meals
		 WHERE user_id = ?
		 ORDER BY created_at ASC, rowid ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing meals for user %s: %w", userID, err)
	}
	defer rows.Close()

	return collectMeals(rows)
}

// ListAll returns every meal in the database, unscoped.
// Serves the admin/debug listing only — user-facing reads go through
// ListByUser.
func (db *DB) ListAll(ctx context.Context) ([]model.Meal, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, description, in_diet, created_at, updated_at, user_id
		 FROM meals
		 ORDER BY created_at ASC, rowid ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing all meals: %w", err)
	}
	defer rows.Close()

	return collectMeals(rows)
}

// Update writes the mutable columns of an existing meal and stamps
// updated_at. id, created_at, and user_id never change — ownership is
// immutable.
//
// RowsAffected distinguishes "row gone" from "write failed": zero rows
// touched means the WHERE clause matched nothing → NotFound.
func (db *DB) Update(ctx context.Context, meal *model.Meal) error {
	now := time.Now()
	meal.UpdatedAt = &now

	result, err := db.conn.ExecContext(ctx,
		`UPDATE meals
		 SET name = ?, description = ?, in_diet = ?, updated_at = ?
		 WHERE id = ?`,
		meal.Name,
		meal.Description,
		string(meal.InDiet),
		meal.UpdatedAt,
		meal.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating meal %s: %w", meal.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("meal", meal.ID)
	}

	return nil
}

// Delete removes a meal by its ID.
// Same pattern as Update — RowsAffected detects "not found".
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM meals WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting meal %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("meal", id)
	}

	return nil
}

// scanner abstracts over *sql.Row and *sql.Rows so one scan helper serves
// both the single-row and multi-row paths.
type scanner interface {
	Scan(dest ...any) error
}

func scanMeal(s scanner) (*model.Meal, error) {
	var (
		m         model.Meal
		inDiet    string
		updatedAt sql.NullTime
	)
	if err := s.Scan(
		&m.ID, &m.Name, &m.Description, &inDiet,
		&m.CreatedAt, &updatedAt, &m.UserID,
	); err != nil {
		return nil, err
	}
	m.InDiet = model.DietStatus(inDiet)
	if updatedAt.Valid {
		t := updatedAt.Time
		m.UpdatedAt = &t
	}
	return &m, nil
}

func collectMeals(rows *sql.Rows) ([]model.Meal, error) {
	meals := []model.Meal{}
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning meal row: %w", err)
		}
		meals = append(meals, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating meals: %w", err)
	}
	return meals, nil
}
