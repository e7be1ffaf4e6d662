// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// DietStatus classifies a meal relative to the user's diet goal.
//
// WHY A NAMED TYPE AND NOT A bool?
// "Was this meal in the diet?" sounds boolean today, but the classification
// may grow more states (cheat day, partially compliant, ...). A named string
// type keeps the wire format stable ("yes"/"no") while leaving room to add
// values without a schema migration. It also makes validation explicit —
// a JSON body with in_diet: "maybe" is rejected, where a bool field would
// silently coerce.
type DietStatus string

const (
	DietIn  DietStatus = "yes"
	DietOut DietStatus = "no"
)

// Valid reports whether d is one of the accepted classifications.
func (d DietStatus) Valid() bool {
	return d == DietIn || d == DietOut
}

// Meal represents a single recorded meal, always owned by exactly one user.
//
// The `json:"..."` tags use snake_case to match the public API contract
// (clients already depend on "in_diet", "created_at", etc.).
//
// UpdatedAt is a *time.Time because a freshly created meal has never been
// updated — the column is NULL until the first PUT, and `omitempty` keeps
// the field out of the JSON until then.
type Meal struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	InDiet      DietStatus `json:"in_diet"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	UserID      string     `json:"user_id"`
}
