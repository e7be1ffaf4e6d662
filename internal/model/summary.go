package model

// Summary aggregates one user's meal history.
//
// Streak is the longest contiguous run of in-diet meals in creation order.
// The figures are always derivable from the meal set alone — the persisted
// summary table is a cache, never the source of truth.
type Summary struct {
	TotalMeals          int `json:"total_meals"`
	TotalMealsInDiet    int `json:"total_meals_in_diet"`
	TotalMealsOutOfDiet int `json:"total_meals_out_of_diet"`
	Streak              int `json:"streak"`
}
