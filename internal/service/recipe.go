package service

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tosh-hamburg/cookbookApp/internal/model"
	"github.com/tosh-hamburg/cookbookApp/internal/quantity"
)

const (
	RecipeSourceLocal  = "local"
	RecipeSourceRemote = "remote"
)

type RecipeInput struct {
	UID      string
	Title    string
	Servings int
	Notes    string
	Source   string
}

const recipeColumns = `id, uid, title, servings, notes, source, created_at, updated_at`

func CreateRecipe(db *sql.DB, in RecipeInput) (int64, error) {
	return createRecipe(db, in)
}

func createRecipe(q sqlExecutor, in RecipeInput) (int64, error) {
	in, err := normalizeRecipeInput(in)
	if err != nil {
		return 0, err
	}
	res, err := q.Exec(`
INSERT INTO recipes(uid, title, servings, notes, source)
VALUES(?, ?, ?, ?, ?)
`, in.UID, in.Title, in.Servings, in.Notes, in.Source)
	if err != nil {
		return 0, fmt.Errorf("create recipe: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve recipe id: %w", err)
	}
	return id, nil
}

func ListRecipes(db *sql.DB) ([]model.Recipe, error) {
	rows, err := db.Query(`SELECT ` + recipeColumns + ` FROM recipes ORDER BY LOWER(title), id`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	items := make([]model.Recipe, 0)
	for rows.Next() {
		var r model.Recipe
		if err := rows.Scan(&r.ID, &r.UID, &r.Title, &r.Servings, &r.Notes, &r.Source, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	return items, nil
}

// ResolveRecipe finds a recipe by numeric id, uid or case-insensitive title.
func ResolveRecipe(db *sql.DB, identifier string) (*model.Recipe, error) {
	return resolveRecipe(db, identifier)
}

func resolveRecipe(q sqlExecutor, identifier string) (*model.Recipe, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("recipe identifier is required")
	}
	var row *sql.Row
	if id, err := parseIDLoose(identifier); err == nil {
		row = q.QueryRow(`SELECT `+recipeColumns+` FROM recipes WHERE id = ? OR uid = ? ORDER BY id = ? DESC LIMIT 1`, id, identifier, id)
	} else {
		row = q.QueryRow(`
SELECT `+recipeColumns+` FROM recipes
WHERE uid = ? OR LOWER(title) = ?
ORDER BY uid = ? DESC, id ASC
LIMIT 1
`, identifier, strings.ToLower(identifier), identifier)
	}
	var r model.Recipe
	if err := row.Scan(&r.ID, &r.UID, &r.Title, &r.Servings, &r.Notes, &r.Source, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("recipe %q: %w", identifier, ErrNotFound)
		}
		return nil, fmt.Errorf("resolve recipe %q: %w", identifier, err)
	}
	return &r, nil
}

func UpdateRecipe(db *sql.DB, identifier string, in RecipeInput) error {
	recipe, err := ResolveRecipe(db, identifier)
	if err != nil {
		return err
	}
	if strings.TrimSpace(in.UID) == "" {
		in.UID = recipe.UID
	}
	if strings.TrimSpace(in.Source) == "" {
		in.Source = recipe.Source
	}
	in, err = normalizeRecipeInput(in)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
UPDATE recipes SET
  uid = ?, title = ?, servings = ?, notes = ?, source = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, in.UID, in.Title, in.Servings, in.Notes, in.Source, recipe.ID)
	if err != nil {
		return fmt.Errorf("update recipe %q: %w", identifier, err)
	}
	return nil
}

func DeleteRecipe(db *sql.DB, identifier string) error {
	recipe, err := ResolveRecipe(db, identifier)
	if err != nil {
		return err
	}
	if _, err := db.Exec(`DELETE FROM recipes WHERE id = ?`, recipe.ID); err != nil {
		return fmt.Errorf("delete recipe %q: %w", identifier, err)
	}
	return nil
}

// UpsertRecipeByUID reports whether a new recipe was created.
func UpsertRecipeByUID(db *sql.DB, in RecipeInput) (int64, bool, error) {
	return upsertRecipeByUID(db, in)
}

// upsertRecipeByUID inserts the recipe or overwrites the one sharing its uid.
func upsertRecipeByUID(q sqlExecutor, in RecipeInput) (int64, bool, error) {
	in, err := normalizeRecipeInput(in)
	if err != nil {
		return 0, false, err
	}
	var id int64
	err = q.QueryRow(`SELECT id FROM recipes WHERE uid = ?`, in.UID).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		id, err := createRecipe(q, in)
		return id, true, err
	case err != nil:
		return 0, false, fmt.Errorf("lookup recipe uid %q: %w", in.UID, err)
	}
	if _, err := q.Exec(`
UPDATE recipes SET title = ?, servings = ?, notes = ?, source = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, in.Title, in.Servings, in.Notes, in.Source, id); err != nil {
		return 0, false, fmt.Errorf("update recipe uid %q: %w", in.UID, err)
	}
	return id, false, nil
}

type ScaledRecipe struct {
	Recipe      model.Recipe                    `json:"recipe"`
	Servings    int                             `json:"servings"`
	Factor      float64                         `json:"factor"`
	Ingredients []quantity.ScaledIngredientLine `json:"ingredients"`
}

// ScaleRecipe rescales a recipe's ingredients from its own servings to
// servings. Asking for the recipe's own servings returns amounts untouched.
func ScaleRecipe(db *sql.DB, identifier string, servings int) (*ScaledRecipe, error) {
	if err := validatePositiveInt("servings", servings); err != nil {
		return nil, err
	}
	recipe, err := ResolveRecipe(db, identifier)
	if err != nil {
		return nil, err
	}
	lines, err := recipeLines(db, recipe.ID)
	if err != nil {
		return nil, err
	}
	factor := quantity.Factor(servings, recipe.Servings)
	return &ScaledRecipe{
		Recipe:      *recipe,
		Servings:    servings,
		Factor:      factor,
		Ingredients: quantity.ScaleIngredients(lines, factor),
	}, nil
}

func normalizeRecipeInput(in RecipeInput) (RecipeInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Notes = strings.TrimSpace(in.Notes)
	in.UID = strings.TrimSpace(in.UID)
	in.Source = normalizeName(in.Source)
	if in.Title == "" {
		return in, fmt.Errorf("recipe title is required")
	}
	if err := validatePositiveInt("servings", in.Servings); err != nil {
		return in, err
	}
	if in.UID == "" {
		in.UID = uuid.NewString()
	}
	if in.Source == "" {
		in.Source = RecipeSourceLocal
	}
	return in, nil
}

func parseIDLoose(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("not numeric")
	}
	return id, nil
}
