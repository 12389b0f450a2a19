package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/tosh-hamburg/cookbookApp/internal/model"
)

func AddMealType(db *sql.DB, name string) error {
	name = normalizeName(name)
	if name == "" {
		return fmt.Errorf("meal type name is required")
	}
	if _, err := db.Exec(`
INSERT INTO meal_types(name, position, is_default)
VALUES(?, (SELECT IFNULL(MAX(position), -1) + 1 FROM meal_types), 0)
`, name); err != nil {
		return fmt.Errorf("add meal type %q: %w", name, err)
	}
	return nil
}

func ListMealTypes(db *sql.DB) ([]model.MealType, error) {
	rows, err := db.Query(`SELECT id, name, position, is_default, created_at FROM meal_types ORDER BY position, name`)
	if err != nil {
		return nil, fmt.Errorf("list meal types: %w", err)
	}
	defer rows.Close()

	mealTypes := make([]model.MealType, 0)
	for rows.Next() {
		var mt model.MealType
		var isDefault int
		if err := rows.Scan(&mt.ID, &mt.Name, &mt.Position, &isDefault, &mt.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan meal type: %w", err)
		}
		mt.IsDefault = isDefault == 1
		mealTypes = append(mealTypes, mt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meal types: %w", err)
	}
	return mealTypes, nil
}

func RenameMealType(db *sql.DB, oldName, newName string) error {
	oldName = normalizeName(oldName)
	newName = normalizeName(newName)
	if oldName == "" || newName == "" {
		return fmt.Errorf("old and new meal type names are required")
	}
	res, err := db.Exec(`UPDATE meal_types SET name = ? WHERE name = ?`, newName, oldName)
	if err != nil {
		return fmt.Errorf("rename meal type %q to %q: %w", oldName, newName, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for rename: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("meal type %q: %w", oldName, ErrNotFound)
	}
	return nil
}

// DeleteMealType removes a meal type. Planned slots using it must be moved to
// reassign first; a slot already present at the target cell keeps its recipe
// and the moved one is dropped.
func DeleteMealType(db *sql.DB, name, reassign string) error {
	name = normalizeName(name)
	reassign = normalizeName(reassign)
	if name == "" {
		return fmt.Errorf("meal type name is required")
	}
	if name == reassign {
		return fmt.Errorf("reassign meal type must be different from deleted meal type")
	}

	id, err := mealTypeIDByName(db, name)
	if err != nil {
		return err
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(1) FROM meal_slots WHERE meal_type_id = ?`, id).Scan(&count); err != nil {
		return fmt.Errorf("count slots for meal type %q: %w", name, err)
	}
	if count > 0 && strings.TrimSpace(reassign) == "" {
		return fmt.Errorf("meal type %q has %d planned slots; use --reassign to move them", name, count)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete meal type tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if count > 0 {
		targetID, err := mealTypeIDByName(tx, reassign)
		if err != nil {
			return fmt.Errorf("reassign target: %w", err)
		}
		if _, err := tx.Exec(`UPDATE OR IGNORE meal_slots SET meal_type_id = ? WHERE meal_type_id = ?`, targetID, id); err != nil {
			return fmt.Errorf("reassign slots: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM meal_slots WHERE meal_type_id = ?`, id); err != nil {
			return fmt.Errorf("drop conflicting slots: %w", err)
		}
	}
	if _, err := tx.Exec(`DELETE FROM meal_types WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete meal type %q: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete meal type tx: %w", err)
	}
	return nil
}
