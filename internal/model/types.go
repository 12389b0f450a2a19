package model

import "time"

type Recipe struct {
	ID        int64     `json:"id" yaml:"id"`
	UID       string    `json:"uid" yaml:"uid"`
	Title     string    `json:"title" yaml:"title"`
	Servings  int       `json:"servings" yaml:"servings"`
	Notes     string    `json:"notes" yaml:"notes"`
	Source    string    `json:"source" yaml:"source"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

type RecipeIngredient struct {
	ID        int64     `json:"id"`
	RecipeID  int64     `json:"recipe_id"`
	Position  int       `json:"position"`
	Name      string    `json:"name"`
	Amount    string    `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MealType struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// MealSlot is one (day, meal type) cell of a week plan. Day 0 is Monday.
type MealSlot struct {
	ID             int64  `json:"id"`
	WeekStart      string `json:"week_start"`
	Day            int    `json:"day"`
	MealType       string `json:"meal_type"`
	RecipeID       int64  `json:"recipe_id"`
	RecipeTitle    string `json:"recipe_title"`
	RecipeServings int    `json:"recipe_servings"`
	Servings       int    `json:"servings"`
}
