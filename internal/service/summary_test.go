package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/sakif/daily-diet/internal/model"
)

// mealSeq builds an ordered meal slice from a shorthand list of flags.
func mealSeq(flags ...model.DietStatus) []model.Meal {
	meals := make([]model.Meal, 0, len(flags))
	for _, f := range flags {
		meals = append(meals, model.Meal{InDiet: f})
	}
	return meals
}

// =========================================================================
// PURE CALCULATOR TESTS
// =========================================================================

func TestComputeSummary(t *testing.T) {
	in, out := model.DietIn, model.DietOut

	tests := []struct {
		name  string
		meals []model.Meal
		want  model.Summary
	}{
		{
			name:  "mixed sequence with mid-run reset",
			meals: mealSeq(in, in, out, in, in, in),
			want:  model.Summary{TotalMeals: 6, TotalMealsInDiet: 4, TotalMealsOutOfDiet: 2, Streak: 3},
		},
		{
			name:  "empty sequence",
			meals: mealSeq(),
			want:  model.Summary{},
		},
		{
			name:  "all out of diet",
			meals: mealSeq(out, out),
			want:  model.Summary{TotalMeals: 2, TotalMealsOutOfDiet: 2},
		},
		{
			name:  "all in diet",
			meals: mealSeq(in, in, in),
			want:  model.Summary{TotalMeals: 3, TotalMealsInDiet: 3, Streak: 3},
		},
		{
			name:  "best run is not the last run",
			meals: mealSeq(in, in, in, out, in),
			want:  model.Summary{TotalMeals: 5, TotalMealsInDiet: 4, TotalMealsOutOfDiet: 1, Streak: 3},
		},
		{
			name:  "single out-of-diet meal",
			meals: mealSeq(out),
			want:  model.Summary{TotalMeals: 1, TotalMealsOutOfDiet: 1},
		},
		{
			name:  "order sensitivity: same counts, different streak",
			meals: mealSeq(in, out, in),
			want:  model.Summary{TotalMeals: 3, TotalMealsInDiet: 2, TotalMealsOutOfDiet: 1, Streak: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSummary(tt.meals)
			if got != tt.want {
				t.Errorf("ComputeSummary() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestComputeSummary_Properties checks the invariants that must hold for
// every sequence, over a spread of generated inputs.
func TestComputeSummary_Properties(t *testing.T) {
	// Deterministic pseudo-variety: every 3-bit pattern up to length 10
	for length := 0; length <= 10; length++ {
		for seed := 0; seed < 1<<length; seed += 7 {
			meals := make([]model.Meal, length)
			allIn := true
			for i := range meals {
				if (seed>>uint(i%10))&1 == 1 {
					meals[i].InDiet = model.DietIn
				} else {
					meals[i].InDiet = model.DietOut
					allIn = false
				}
			}

			got := ComputeSummary(meals)

			if got.TotalMeals != got.TotalMealsInDiet+got.TotalMealsOutOfDiet {
				t.Fatalf("total %d != in %d + out %d",
					got.TotalMeals, got.TotalMealsInDiet, got.TotalMealsOutOfDiet)
			}
			if got.Streak > got.TotalMeals {
				t.Fatalf("streak %d exceeds total %d", got.Streak, got.TotalMeals)
			}
			// streak == total iff every meal is in-diet (empty counts: 0 == 0)
			if allIn && got.Streak != got.TotalMeals {
				t.Fatalf("all-in sequence of %d: streak = %d", length, got.Streak)
			}
			if !allIn && length > 0 && got.Streak == got.TotalMeals {
				t.Fatalf("mixed sequence of %d: streak must be < total", length)
			}

			// Idempotence: pure function, same input → same output
			if again := ComputeSummary(meals); again != got {
				t.Fatalf("ComputeSummary not idempotent: %+v then %+v", got, again)
			}
		}
	}
}

// =========================================================================
// SERVICE TESTS (cache interaction)
// =========================================================================

type mockSummaryRepo struct {
	cached     map[string]model.Summary
	refreshErr error
}

func newMockSummaryRepo() *mockSummaryRepo {
	return &mockSummaryRepo{cached: make(map[string]model.Summary)}
}

func (m *mockSummaryRepo) Refresh(_ context.Context, userID string, s model.Summary) error {
	if m.refreshErr != nil {
		return m.refreshErr
	}
	m.cached[userID] = s
	return nil
}

func (m *mockSummaryRepo) GetCached(_ context.Context, userID string) (*model.Summary, error) {
	s, ok := m.cached[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func newTestSummaryService(t *testing.T) (*SummaryService, *mockMealRepo, *mockSummaryRepo) {
	t.Helper()
	meals := newMockMealRepo()
	cache := newMockSummaryRepo()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewSummaryService(meals, cache, logger), meals, cache
}

func TestSummaryForUser(t *testing.T) {
	svc, meals, cache := newTestSummaryService(t)

	seed := func(userID string, flag model.DietStatus) {
		t.Helper()
		if err := meals.Create(context.Background(), &model.Meal{
			Name: "m", InDiet: flag, UserID: userID,
		}); err != nil {
			t.Fatalf("seeding meal: %v", err)
		}
	}
	// ada: [in, in, out, in] → streak 2; bob's meal must not leak in
	seed("ada", model.DietIn)
	seed("ada", model.DietIn)
	seed("bob", model.DietIn)
	seed("ada", model.DietOut)
	seed("ada", model.DietIn)

	got, err := svc.ForUser(context.Background(), "ada")
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}

	want := model.Summary{TotalMeals: 4, TotalMealsInDiet: 3, TotalMealsOutOfDiet: 1, Streak: 2}
	if got != want {
		t.Errorf("ForUser() = %+v, want %+v", got, want)
	}

	// Write-through: the cache row holds what was just computed
	cached, _ := cache.GetCached(context.Background(), "ada")
	if cached == nil || *cached != want {
		t.Errorf("cache after ForUser() = %+v, want %+v", cached, want)
	}
}

func TestSummaryForUser_NoMeals(t *testing.T) {
	svc, _, _ := newTestSummaryService(t)

	got, err := svc.ForUser(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	if got != (model.Summary{}) {
		t.Errorf("ForUser() with no meals = %+v, want all zeros", got)
	}
}

// A failing cache write must not fail the request — the summary was
// already computed correctly and the cache is advisory.
func TestSummaryForUser_CacheFailureIsSwallowed(t *testing.T) {
	svc, meals, cache := newTestSummaryService(t)
	cache.refreshErr = errors.New("disk full")

	if err := meals.Create(context.Background(), &model.Meal{
		Name: "m", InDiet: model.DietIn, UserID: "ada",
	}); err != nil {
		t.Fatalf("seeding meal: %v", err)
	}

	got, err := svc.ForUser(context.Background(), "ada")
	if err != nil {
		t.Fatalf("ForUser() must not fail on cache error, got %v", err)
	}
	if got.TotalMeals != 1 || got.Streak != 1 {
		t.Errorf("ForUser() = %+v, want 1 meal streak 1", got)
	}
}
