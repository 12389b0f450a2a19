package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/tosh-hamburg/cookbookApp/internal/model"
)

type SetMealSlotInput struct {
	WeekStart string
	Day       int
	MealType  string
	Recipe    string
	// Servings defaults to the recipe's own servings when 0.
	Servings int
}

// SetMealSlot assigns a recipe to one cell of a week plan, replacing whatever
// was planned there.
func SetMealSlot(db *sql.DB, in SetMealSlotInput) (int64, error) {
	if err := validateSlotCell(in.WeekStart, in.Day); err != nil {
		return 0, err
	}
	if in.Servings < 0 {
		return 0, fmt.Errorf("servings must be > 0")
	}
	mealTypeID, err := mealTypeIDByName(db, in.MealType)
	if err != nil {
		return 0, err
	}
	recipe, err := ResolveRecipe(db, in.Recipe)
	if err != nil {
		return 0, err
	}
	servings := in.Servings
	if servings == 0 {
		servings = recipe.Servings
	}
	return upsertSlot(db, strings.TrimSpace(in.WeekStart), in.Day, mealTypeID, recipe.ID, servings)
}

func upsertSlot(q sqlExecutor, week string, day int, mealTypeID, recipeID int64, servings int) (int64, error) {
	var id int64
	err := q.QueryRow(`
INSERT INTO meal_slots(week_start, day, meal_type_id, recipe_id, servings)
VALUES(?, ?, ?, ?, ?)
ON CONFLICT(week_start, day, meal_type_id) DO UPDATE SET
  recipe_id = excluded.recipe_id, servings = excluded.servings, updated_at = CURRENT_TIMESTAMP
RETURNING id
`, week, day, mealTypeID, recipeID, servings).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save meal slot %s/%s: %w", week, DayName(day), err)
	}
	return id, nil
}

func ClearMealSlot(db *sql.DB, week string, day int, mealType string) error {
	if err := validateSlotCell(week, day); err != nil {
		return err
	}
	mealTypeID, err := mealTypeIDByName(db, mealType)
	if err != nil {
		return err
	}
	res, err := db.Exec(`DELETE FROM meal_slots WHERE week_start = ? AND day = ? AND meal_type_id = ?`, strings.TrimSpace(week), day, mealTypeID)
	if err != nil {
		return fmt.Errorf("clear meal slot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("meal slot %s %s %s: %w", week, DayName(day), normalizeName(mealType), ErrNotFound)
	}
	return nil
}

// ClearWeek removes every slot and shopping mark of a week.
func ClearWeek(db *sql.DB, week string) (int64, error) {
	if err := validateWeekStart(week); err != nil {
		return 0, err
	}
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin clear week tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	res, err := tx.Exec(`DELETE FROM meal_slots WHERE week_start = ?`, week)
	if err != nil {
		return 0, fmt.Errorf("clear week %s: %w", week, err)
	}
	if _, err := tx.Exec(`DELETE FROM shopping_marks WHERE week_start = ?`, week); err != nil {
		return 0, fmt.Errorf("clear shopping marks %s: %w", week, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit clear week tx: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read rows affected: %w", err)
	}
	return n, nil
}

// ListWeekPlan returns the week's slots by day and meal type order. Slots
// whose recipe was deleted come back with RecipeID 0.
func ListWeekPlan(db *sql.DB, week string) ([]model.MealSlot, error) {
	return listWeekPlan(db, week)
}

func listWeekPlan(q sqlExecutor, week string) ([]model.MealSlot, error) {
	if err := validateWeekStart(week); err != nil {
		return nil, err
	}
	rows, err := q.Query(`
SELECT s.id, s.week_start, s.day, mt.name, IFNULL(s.recipe_id, 0), IFNULL(r.title, ''), IFNULL(r.servings, 0), s.servings
FROM meal_slots s
JOIN meal_types mt ON mt.id = s.meal_type_id
LEFT JOIN recipes r ON r.id = s.recipe_id
WHERE s.week_start = ?
ORDER BY s.day ASC, mt.position ASC, mt.name ASC
`, week)
	if err != nil {
		return nil, fmt.Errorf("list week plan %s: %w", week, err)
	}
	defer rows.Close()

	slots := make([]model.MealSlot, 0)
	for rows.Next() {
		var s model.MealSlot
		if err := rows.Scan(&s.ID, &s.WeekStart, &s.Day, &s.MealType, &s.RecipeID, &s.RecipeTitle, &s.RecipeServings, &s.Servings); err != nil {
			return nil, fmt.Errorf("scan meal slot: %w", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meal slots: %w", err)
	}
	return slots, nil
}

func validateSlotCell(week string, day int) error {
	if err := validateWeekStart(week); err != nil {
		return err
	}
	if day < 0 || day > 6 {
		return fmt.Errorf("day must be between 0 (monday) and 6 (sunday)")
	}
	return nil
}
