package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tosh-hamburg/cookbookApp/internal/quantity"
)

const snapshotVersion = 1

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type SnapshotRecipe struct {
	UID         string                    `json:"uid" yaml:"uid"`
	Title       string                    `json:"title" yaml:"title"`
	Servings    int                       `json:"servings" yaml:"servings"`
	Notes       string                    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Source      string                    `json:"source" yaml:"source"`
	Ingredients []quantity.IngredientLine `json:"ingredients" yaml:"ingredients"`
}

type SnapshotSlot struct {
	WeekStart string `json:"week_start" yaml:"week_start"`
	Day       int    `json:"day" yaml:"day"`
	MealType  string `json:"meal_type" yaml:"meal_type"`
	RecipeUID string `json:"recipe_uid" yaml:"recipe_uid"`
	Servings  int    `json:"servings" yaml:"servings"`
}

type SnapshotMark struct {
	WeekStart     string `json:"week_start" yaml:"week_start"`
	IngredientKey string `json:"ingredient_key" yaml:"ingredient_key"`
	State         string `json:"state" yaml:"state"`
}

// Snapshot is the portable form of the whole planner. Slots reference
// recipes by uid so a snapshot can move between databases.
type Snapshot struct {
	Version    int              `json:"version" yaml:"version"`
	ExportedAt time.Time        `json:"exported_at" yaml:"exported_at"`
	MealTypes  []string         `json:"meal_types" yaml:"meal_types"`
	Recipes    []SnapshotRecipe `json:"recipes" yaml:"recipes"`
	Slots      []SnapshotSlot   `json:"slots" yaml:"slots"`
	Marks      []SnapshotMark   `json:"marks,omitempty" yaml:"marks,omitempty"`
}

type ImportMode string

const (
	ImportModeFail    ImportMode = "fail"
	ImportModeSkip    ImportMode = "skip"
	ImportModeMerge   ImportMode = "merge"
	ImportModeReplace ImportMode = "replace"
)

type ImportOptions struct {
	Mode   ImportMode
	DryRun bool
}

type ImportReport struct {
	Inserted  int      `json:"inserted"`
	Updated   int      `json:"updated"`
	Skipped   int      `json:"skipped"`
	Conflicts int      `json:"conflicts"`
	Warnings  []string `json:"warnings,omitempty"`
}

func ExportSnapshot(db *sql.DB) (*Snapshot, error) {
	out := &Snapshot{Version: snapshotVersion, ExportedAt: time.Now().UTC()}

	mealTypes, err := ListMealTypes(db)
	if err != nil {
		return nil, err
	}
	for _, mt := range mealTypes {
		out.MealTypes = append(out.MealTypes, mt.Name)
	}

	recipes, err := ListRecipes(db)
	if err != nil {
		return nil, err
	}
	for _, r := range recipes {
		lines, err := recipeLines(db, r.ID)
		if err != nil {
			return nil, err
		}
		out.Recipes = append(out.Recipes, SnapshotRecipe{
			UID:         r.UID,
			Title:       r.Title,
			Servings:    r.Servings,
			Notes:       r.Notes,
			Source:      r.Source,
			Ingredients: lines,
		})
	}

	slotRows, err := db.Query(`
SELECT s.week_start, s.day, mt.name, r.uid, s.servings
FROM meal_slots s
JOIN meal_types mt ON mt.id = s.meal_type_id
JOIN recipes r ON r.id = s.recipe_id
ORDER BY s.week_start ASC, s.day ASC, mt.position ASC
`)
	if err != nil {
		return nil, fmt.Errorf("export meal slots: %w", err)
	}
	defer slotRows.Close()
	for slotRows.Next() {
		var s SnapshotSlot
		if err := slotRows.Scan(&s.WeekStart, &s.Day, &s.MealType, &s.RecipeUID, &s.Servings); err != nil {
			return nil, fmt.Errorf("scan export slot: %w", err)
		}
		out.Slots = append(out.Slots, s)
	}
	if err := slotRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export slots: %w", err)
	}
	_ = slotRows.Close()

	markRows, err := db.Query(`SELECT week_start, ingredient_key, state FROM shopping_marks ORDER BY week_start ASC, ingredient_key ASC`)
	if err != nil {
		return nil, fmt.Errorf("export shopping marks: %w", err)
	}
	defer markRows.Close()
	for markRows.Next() {
		var m SnapshotMark
		if err := markRows.Scan(&m.WeekStart, &m.IngredientKey, &m.State); err != nil {
			return nil, fmt.Errorf("scan export mark: %w", err)
		}
		out.Marks = append(out.Marks, m)
	}
	if err := markRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export marks: %w", err)
	}
	return out, nil
}

// ImportSnapshot loads a snapshot in one transaction. Recipes are matched by
// uid; the mode decides what happens when one already exists. A dry run
// performs the whole import and rolls it back, so the report is exact.
func ImportSnapshot(db *sql.DB, data *Snapshot, opts ImportOptions) (ImportReport, error) {
	report := ImportReport{}
	if data == nil {
		return report, fmt.Errorf("snapshot is required")
	}
	mode := normalizeImportMode(opts.Mode)

	tx, err := db.Begin()
	if err != nil {
		return report, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if mode == ImportModeReplace {
		if err := clearPlannerData(tx); err != nil {
			return report, err
		}
	}

	for _, name := range data.MealTypes {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, err := ensureMealTypeID(tx, name); err != nil {
			return report, err
		}
	}

	for _, r := range data.Recipes {
		if strings.TrimSpace(r.UID) == "" {
			report.Warnings = append(report.Warnings, fmt.Sprintf("recipe %q has no uid; skipped", r.Title))
			report.Skipped++
			continue
		}
		var existingID int64
		err := tx.QueryRow(`SELECT id FROM recipes WHERE uid = ?`, r.UID).Scan(&existingID)
		if err != nil && err != sql.ErrNoRows {
			return report, fmt.Errorf("find recipe %q: %w", r.UID, err)
		}
		if err == nil {
			switch mode {
			case ImportModeFail:
				report.Conflicts++
				return report, fmt.Errorf("import conflict for recipe %q", r.Title)
			case ImportModeSkip:
				report.Skipped++
				continue
			}
		}
		id, created, err := upsertRecipeByUID(tx, RecipeInput{
			UID:      r.UID,
			Title:    r.Title,
			Servings: r.Servings,
			Notes:    r.Notes,
			Source:   r.Source,
		})
		if err != nil {
			return report, fmt.Errorf("import recipe %q: %w", r.Title, err)
		}
		if err := replaceIngredients(tx, id, r.Ingredients); err != nil {
			return report, err
		}
		if created {
			report.Inserted++
		} else {
			report.Updated++
		}
	}

	for _, s := range data.Slots {
		if err := validateSlotCell(s.WeekStart, s.Day); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("slot %s/%d: %v", s.WeekStart, s.Day, err))
			report.Skipped++
			continue
		}
		recipe, err := resolveRecipeByUID(tx, s.RecipeUID)
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("slot %s %s %s: recipe %q not found", s.WeekStart, DayName(s.Day), s.MealType, s.RecipeUID))
			report.Skipped++
			continue
		}
		mealTypeID, err := ensureMealTypeID(tx, s.MealType)
		if err != nil {
			return report, err
		}
		var existing int64
		err = tx.QueryRow(`SELECT id FROM meal_slots WHERE week_start = ? AND day = ? AND meal_type_id = ?`, s.WeekStart, s.Day, mealTypeID).Scan(&existing)
		if err != nil && err != sql.ErrNoRows {
			return report, fmt.Errorf("find meal slot: %w", err)
		}
		if err == nil {
			switch mode {
			case ImportModeFail:
				report.Conflicts++
				return report, fmt.Errorf("import conflict for meal slot %s %s %s", s.WeekStart, DayName(s.Day), s.MealType)
			case ImportModeSkip:
				report.Skipped++
				continue
			}
		}
		servings := s.Servings
		if servings <= 0 {
			servings = recipe.Servings
		}
		if _, err := upsertSlot(tx, s.WeekStart, s.Day, mealTypeID, recipe.ID, servings); err != nil {
			return report, err
		}
		if existing > 0 {
			report.Updated++
		} else {
			report.Inserted++
		}
	}

	for _, m := range data.Marks {
		state := normalizeName(m.State)
		if state != ShoppingStateExcluded && state != ShoppingStateSent {
			report.Warnings = append(report.Warnings, fmt.Sprintf("mark %q has unknown state %q; skipped", m.IngredientKey, m.State))
			report.Skipped++
			continue
		}
		if err := validateWeekStart(m.WeekStart); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("mark %q: %v; skipped", m.IngredientKey, err))
			report.Skipped++
			continue
		}
		n, err := markShoppingItems(tx, strings.TrimSpace(m.WeekStart), []string{m.IngredientKey}, state)
		if err != nil {
			return report, err
		}
		if n == 0 {
			report.Warnings = append(report.Warnings, fmt.Sprintf("mark for week %s has no ingredient key; skipped", m.WeekStart))
			report.Skipped++
			continue
		}
		report.Inserted += n
	}

	if opts.DryRun {
		return report, nil
	}
	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("commit import tx: %w", err)
	}
	return report, nil
}

func normalizeImportMode(mode ImportMode) ImportMode {
	switch ImportMode(strings.ToLower(strings.TrimSpace(string(mode)))) {
	case ImportModeFail:
		return ImportModeFail
	case ImportModeSkip:
		return ImportModeSkip
	case ImportModeReplace:
		return ImportModeReplace
	default:
		return ImportModeMerge
	}
}

func resolveRecipeByUID(q sqlExecutor, uid string) (*recipeRef, error) {
	var r recipeRef
	err := q.QueryRow(`SELECT id, servings FROM recipes WHERE uid = ?`, strings.TrimSpace(uid)).Scan(&r.ID, &r.Servings)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("recipe uid %q: %w", uid, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup recipe uid %q: %w", uid, err)
	}
	return &r, nil
}

type recipeRef struct {
	ID       int64
	Servings int
}

func clearPlannerData(tx *sql.Tx) error {
	stmts := []string{
		`DELETE FROM shopping_marks`,
		`DELETE FROM meal_slots`,
		`DELETE FROM recipe_ingredients`,
		`DELETE FROM recipes`,
		`DELETE FROM meal_types WHERE is_default = 0`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return fmt.Errorf("clear data for replace mode: %w", err)
		}
	}
	return nil
}

// FormatFromPath picks yaml for .yaml/.yml files and json otherwise.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func EncodeSnapshot(w io.Writer, data *Snapshot, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("encode json snapshot: %w", err)
		}
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("encode yaml snapshot: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("flush yaml snapshot: %w", err)
		}
	default:
		return fmt.Errorf("unsupported snapshot format %q (expected json or yaml)", format)
	}
	return nil
}

func DecodeSnapshot(r io.Reader, format string) (*Snapshot, error) {
	var out Snapshot
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&out); err != nil {
			return nil, fmt.Errorf("decode json snapshot: %w", err)
		}
	case FormatYAML, "yml":
		if err := yaml.NewDecoder(r).Decode(&out); err != nil {
			return nil, fmt.Errorf("decode yaml snapshot: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q (expected json or yaml)", format)
	}
	if out.Version > snapshotVersion {
		return nil, fmt.Errorf("snapshot version %d is newer than supported version %d", out.Version, snapshotVersion)
	}
	return &out, nil
}
