package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/tosh-hamburg/cookbookApp/internal/model"
	"github.com/tosh-hamburg/cookbookApp/internal/quantity"
)

// RecipeIngredientInput is one ingredient as written in a recipe. Amount is
// free text ("1 1/2 EL", "etwas") and may be empty.
type RecipeIngredientInput struct {
	Name   string
	Amount string
}

func AddRecipeIngredient(db *sql.DB, recipeIdentifier string, in RecipeIngredientInput) (int64, error) {
	recipe, err := ResolveRecipe(db, recipeIdentifier)
	if err != nil {
		return 0, err
	}
	if err := validateRecipeIngredientInput(in); err != nil {
		return 0, err
	}
	res, err := db.Exec(`
INSERT INTO recipe_ingredients(recipe_id, position, name, amount)
VALUES(?, (SELECT IFNULL(MAX(position), -1) + 1 FROM recipe_ingredients WHERE recipe_id = ?), ?, ?)
`, recipe.ID, recipe.ID, strings.TrimSpace(in.Name), strings.TrimSpace(in.Amount))
	if err != nil {
		return 0, fmt.Errorf("add recipe ingredient: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve recipe ingredient id: %w", err)
	}
	return id, nil
}

func ListRecipeIngredients(db *sql.DB, recipeIdentifier string) ([]model.RecipeIngredient, error) {
	recipe, err := ResolveRecipe(db, recipeIdentifier)
	if err != nil {
		return nil, err
	}
	return listIngredientsByRecipeID(db, recipe.ID)
}

func listIngredientsByRecipeID(q sqlExecutor, recipeID int64) ([]model.RecipeIngredient, error) {
	rows, err := q.Query(`
SELECT id, recipe_id, position, name, amount, created_at, updated_at
FROM recipe_ingredients
WHERE recipe_id = ?
ORDER BY position ASC, id ASC
`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list recipe ingredients: %w", err)
	}
	defer rows.Close()
	items := make([]model.RecipeIngredient, 0)
	for rows.Next() {
		var it model.RecipeIngredient
		if err := rows.Scan(&it.ID, &it.RecipeID, &it.Position, &it.Name, &it.Amount, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan recipe ingredient: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipe ingredients: %w", err)
	}
	return items, nil
}

// recipeLines returns the recipe's ingredients in the shape the quantity
// engine consumes.
func recipeLines(q sqlExecutor, recipeID int64) ([]quantity.IngredientLine, error) {
	items, err := listIngredientsByRecipeID(q, recipeID)
	if err != nil {
		return nil, err
	}
	lines := make([]quantity.IngredientLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, quantity.IngredientLine{Name: it.Name, Amount: it.Amount})
	}
	return lines, nil
}

func UpdateRecipeIngredient(db *sql.DB, ingredientID int64, in RecipeIngredientInput) error {
	if ingredientID <= 0 {
		return fmt.Errorf("ingredient id must be > 0")
	}
	if err := validateRecipeIngredientInput(in); err != nil {
		return err
	}
	res, err := db.Exec(`
UPDATE recipe_ingredients
SET name = ?, amount = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, strings.TrimSpace(in.Name), strings.TrimSpace(in.Amount), ingredientID)
	if err != nil {
		return fmt.Errorf("update recipe ingredient %d: %w", ingredientID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("recipe ingredient %d: %w", ingredientID, ErrNotFound)
	}
	return nil
}

func DeleteRecipeIngredient(db *sql.DB, ingredientID int64) error {
	if ingredientID <= 0 {
		return fmt.Errorf("ingredient id must be > 0")
	}
	res, err := db.Exec(`DELETE FROM recipe_ingredients WHERE id = ?`, ingredientID)
	if err != nil {
		return fmt.Errorf("delete recipe ingredient %d: %w", ingredientID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("recipe ingredient %d: %w", ingredientID, ErrNotFound)
	}
	return nil
}

// ReplaceRecipeIngredients swaps the whole ingredient list of a recipe.
func ReplaceRecipeIngredients(db *sql.DB, recipeIdentifier string, lines []quantity.IngredientLine) error {
	recipe, err := ResolveRecipe(db, recipeIdentifier)
	if err != nil {
		return err
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace ingredients tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := replaceIngredients(tx, recipe.ID, lines); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace ingredients tx: %w", err)
	}
	return nil
}

func replaceIngredients(q sqlExecutor, recipeID int64, lines []quantity.IngredientLine) error {
	if _, err := q.Exec(`DELETE FROM recipe_ingredients WHERE recipe_id = ?`, recipeID); err != nil {
		return fmt.Errorf("clear recipe ingredients: %w", err)
	}
	position := 0
	for _, line := range lines {
		in := RecipeIngredientInput{Name: line.Name, Amount: line.Amount}
		if err := validateRecipeIngredientInput(in); err != nil {
			continue
		}
		if _, err := q.Exec(`
INSERT INTO recipe_ingredients(recipe_id, position, name, amount) VALUES(?, ?, ?, ?)
`, recipeID, position, strings.TrimSpace(in.Name), strings.TrimSpace(in.Amount)); err != nil {
			return fmt.Errorf("insert recipe ingredient %q: %w", in.Name, err)
		}
		position++
	}
	return nil
}

func validateRecipeIngredientInput(in RecipeIngredientInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("ingredient name is required")
	}
	return nil
}
