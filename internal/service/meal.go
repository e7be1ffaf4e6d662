package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/sakif/daily-diet/internal/apperror"
	"github.com/sakif/daily-diet/internal/model"
	"github.com/sakif/daily-diet/internal/repository"
)

const (
	MaxMealNameLength        = 100
	MaxMealDescriptionLength = 1000
)

// MealService handles business logic for meal records: validation, the
// ownership rule, and partial updates.
//
// THE OWNERSHIP RULE:
// Every meal belongs to exactly one user and ownership never changes.
// Update and Delete take the caller's resolved userID alongside the meal
// ID, load the target first, and refuse with Forbidden before any mutation
// when the caller is not the owner. The check lives here — not in the
// handler — so no alternative entry point can bypass it.
type MealService struct {
	meals  repository.MealRepository
	logger *slog.Logger
}

func NewMealService(meals repository.MealRepository, logger *slog.Logger) *MealService {
	return &MealService{
		meals:  meals,
		logger: logger,
	}
}

// MealPatch carries a partial update. Nil fields mean "leave unchanged" —
// the distinction between an absent JSON field and an explicit empty
// string only survives decoding if the struct uses pointers.
type MealPatch struct {
	Name        *string           `json:"name"`
	Description *string           `json:"description"`
	InDiet      *model.DietStatus `json:"in_diet"`
}

// Create validates and records a new meal owned by userID.
func (s *MealService) Create(ctx context.Context, userID, name, description string, inDiet model.DietStatus) (*model.Meal, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "meal name is required")
	}
	if len(name) > MaxMealNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("meal name must be %d characters or less", MaxMealNameLength))
	}
	if len(description) > MaxMealDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxMealDescriptionLength))
	}
	if !inDiet.Valid() {
		return nil, apperror.ValidationFailed("in_diet", `in_diet must be "yes" or "no"`)
	}

	meal := &model.Meal{
		Name:        name,
		Description: strings.TrimSpace(description),
		InDiet:      inDiet,
		UserID:      userID,
	}

	if err := s.meals.Create(ctx, meal); err != nil {
		s.logger.Error("failed to create meal",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating meal: %w", err)
	}

	s.logger.Info("meal created",
		slog.String("id", meal.ID),
		slog.String("user_id", userID),
		slog.String("in_diet", string(meal.InDiet)),
	)

	return meal, nil
}

// GetByID retrieves a meal by its ID. The ID must be a well-formed UUID —
// anything else is rejected as a validation error before touching storage.
func (s *MealService) GetByID(ctx context.Context, id string) (*model.Meal, error) {
	if err := validateMealID(id); err != nil {
		return nil, err
	}
	return s.meals.GetByID(ctx, id)
}

// ListByUser returns the caller's meals in insertion order, oldest first.
func (s *MealService) ListByUser(ctx context.Context, userID string) ([]model.Meal, error) {
	meals, err := s.meals.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list meals",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing meals: %w", err)
	}
	return meals, nil
}

// ListAll returns every user's meals with no ownership filter.
//
// This is a deliberate admin/debug affordance, kept unscoped on purpose —
// see the route comment in internal/server. Everything user-facing goes
// through ListByUser.
func (s *MealService) ListAll(ctx context.Context) ([]model.Meal, error) {
	meals, err := s.meals.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list all meals", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing all meals: %w", err)
	}
	return meals, nil
}

// Update applies a partial patch to a meal owned by userID.
//
// STRATEGY: fetch, check ownership, patch, save.
// The fetch both guards the not-found case and gives us the owner to
// compare against — the Forbidden check runs before any field changes.
func (s *MealService) Update(ctx context.Context, userID, id string, patch MealPatch) (*model.Meal, error) {
	if err := validateMealID(id); err != nil {
		return nil, err
	}

	meal, err := s.meals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if meal.UserID != userID {
		s.logger.Warn("meal update rejected",
			slog.String("meal_id", id),
			slog.String("owner_id", meal.UserID),
			slog.String("caller_id", userID),
		)
		return nil, apperror.Forbidden("meal belongs to another user")
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "meal name cannot be empty")
		}
		if len(name) > MaxMealNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("meal name must be %d characters or less", MaxMealNameLength))
		}
		meal.Name = name
	}
	if patch.Description != nil {
		if len(*patch.Description) > MaxMealDescriptionLength {
			return nil, apperror.ValidationFailed("description",
				fmt.Sprintf("description must be %d characters or less", MaxMealDescriptionLength))
		}
		meal.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.InDiet != nil {
		if !patch.InDiet.Valid() {
			return nil, apperror.ValidationFailed("in_diet", `in_diet must be "yes" or "no"`)
		}
		meal.InDiet = *patch.InDiet
	}

	if err := s.meals.Update(ctx, meal); err != nil {
		s.logger.Error("failed to update meal",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating meal: %w", err)
	}

	s.logger.Info("meal updated", slog.String("id", meal.ID))

	return meal, nil
}

// Delete removes a meal owned by userID. Same ownership gate as Update.
func (s *MealService) Delete(ctx context.Context, userID, id string) error {
	if err := validateMealID(id); err != nil {
		return err
	}

	meal, err := s.meals.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if meal.UserID != userID {
		s.logger.Warn("meal delete rejected",
			slog.String("meal_id", id),
			slog.String("owner_id", meal.UserID),
			slog.String("caller_id", userID),
		)
		return apperror.Forbidden("meal belongs to another user")
	}

	if err := s.meals.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("meal deleted", slog.String("id", id))
	return nil
}

// validateMealID rejects anything that is not a well-formed UUID.
// A malformed ID is a 400, not a 404 — the two cases are distinct in the
// API contract.
func validateMealID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.ValidationFailed("id", "meal ID must be a valid UUID")
	}
	return nil
}
