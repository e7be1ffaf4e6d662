package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/daily-diet/internal/model"
	"github.com/sakif/daily-diet/internal/repository"
)

// SummaryService computes a user's diet summary on demand.
//
// The computation is always derived from the meal set — the persisted
// summary table is only a write-through cache refreshed after each
// computation, handy for inspecting the last result but never read to
// answer a request.
type SummaryService struct {
	meals  repository.MealRepository
	cache  repository.SummaryRepository
	logger *slog.Logger
}

func NewSummaryService(meals repository.MealRepository, cache repository.SummaryRepository, logger *slog.Logger) *SummaryService {
	return &SummaryService{
		meals:  meals,
		cache:  cache,
		logger: logger,
	}
}

// ComputeSummary derives the aggregate figures from an ordered meal
// sequence (creation order, oldest first).
//
// Pure function: no storage, no clock, no hidden state — the same input
// always yields the same output, which is what makes it trivially
// testable against the algebraic properties (total = in + out,
// streak <= total).
//
// THE STREAK SCAN:
// One linear pass maintaining a running counter and a best-so-far. An
// in-diet meal extends the run, an out-of-diet meal resets it to zero,
// and the best value is folded in after every step. Order sensitivity is
// the whole point — [in,out,in] and [in,in,out] have the same counts but
// different streaks.
func ComputeSummary(meals []model.Meal) model.Summary {
	var summary model.Summary

	running := 0
	for _, meal := range meals {
		summary.TotalMeals++
		if meal.InDiet == model.DietIn {
			summary.TotalMealsInDiet++
			running++
		} else {
			summary.TotalMealsOutOfDiet++
			running = 0
		}
		if running > summary.Streak {
			summary.Streak = running
		}
	}

	return summary
}

// ForUser computes the summary over the user's meals in insertion order,
// then refreshes the cache row.
//
// A cache write failure is logged and swallowed: the computed summary is
// already correct and the cache is advisory, so failing the request over
// it would invert the cache's role.
func (s *SummaryService) ForUser(ctx context.Context, userID string) (model.Summary, error) {
	meals, err := s.meals.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load meals for summary",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return model.Summary{}, fmt.Errorf("loading meals for summary: %w", err)
	}

	summary := ComputeSummary(meals)

	if err := s.cache.Refresh(ctx, userID, summary); err != nil {
		s.logger.Warn("failed to refresh summary cache",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	return summary, nil
}
