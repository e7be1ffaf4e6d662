package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/daily-diet/internal/model"
	"github.com/sakif/daily-diet/internal/repository"
)

// compile-time check that *DB implements repository.SummaryRepository
var _ repository.SummaryRepository = (*DB)(nil)

// Refresh upserts the cached summary row for a user.
//
// INSERT .. ON CONFLICT DO UPDATE (SQLite's upsert) keeps this a single
// statement: first refresh inserts the row, later refreshes overwrite it.
// The cache is advisory — the summary endpoint recomputes from meals on
// every request and only writes here afterwards.
func (db *DB) Refresh(ctx context.Context, userID string, summary model.Summary) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO summary (user_id, total_meals, total_meals_in_diet, total_meals_out_of_diet, streak, refreshed_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			total_meals = excluded.total_meals,
			total_meals_in_diet = excluded.total_meals_in_diet,
			total_meals_out_of_diet = excluded.total_meals_out_of_diet,
			streak = excluded.streak,
			refreshed_at = excluded.refreshed_at`,
		userID,
		summary.TotalMeals,
		summary.TotalMealsInDiet,
		summary.TotalMealsOutOfDiet,
		summary.Streak,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: refreshing summary for user %s: %w", userID, err)
	}

	return nil
}

// GetCached returns the last refreshed summary for a user, or nil when the
// user has never requested one. Diagnostic use only — never a substitute
// for recomputing.
func (db *DB) GetCached(ctx context.Context, userID string) (*model.Summary, error) {
	var s model.Summary

	err := db.conn.QueryRowContext(ctx,
		`SELECT total_meals, total_meals_in_diet, total_meals_out_of_diet, streak
		 FROM summary WHERE user_id = ?`,
		userID,
	).Scan(&s.TotalMeals, &s.TotalMealsInDiet, &s.TotalMealsOutOfDiet, &s.Streak)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite: reading cached summary for user %s: %w", userID, err)
	}

	return &s, nil
}
