package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/daily-diet/internal/model"
)

func TestSummaryRefreshAndGetCached(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ada")

	// No refresh yet — cache miss is (nil, nil), not an error
	cached, err := db.GetCached(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetCached() error = %v", err)
	}
	if cached != nil {
		t.Fatalf("GetCached() before refresh = %+v, want nil", cached)
	}

	first := model.Summary{TotalMeals: 3, TotalMealsInDiet: 2, TotalMealsOutOfDiet: 1, Streak: 2}
	if err := db.Refresh(context.Background(), user.ID, first); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	cached, err = db.GetCached(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetCached() error = %v", err)
	}
	if cached == nil || *cached != first {
		t.Errorf("GetCached() = %+v, want %+v", cached, first)
	}

	// Second refresh overwrites in place (upsert, one row per user)
	second := model.Summary{TotalMeals: 4, TotalMealsInDiet: 3, TotalMealsOutOfDiet: 1, Streak: 3}
	if err := db.Refresh(context.Background(), user.ID, second); err != nil {
		t.Fatalf("Refresh() (second) error = %v", err)
	}

	cached, err = db.GetCached(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetCached() error = %v", err)
	}
	if cached == nil || *cached != second {
		t.Errorf("GetCached() after second refresh = %+v, want %+v", cached, second)
	}
}
