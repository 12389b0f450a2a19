package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is wrapped by every lookup that finds no row.
var ErrNotFound = errors.New("not found")

type sqlExecutor interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func validatePositiveInt(name string, value int) error {
	if value <= 0 {
		return fmt.Errorf("%s must be > 0", name)
	}
	return nil
}

func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

func mealTypeIDByName(q sqlExecutor, mealType string) (int64, error) {
	name := normalizeName(mealType)
	if name == "" {
		return 0, fmt.Errorf("meal type is required")
	}
	var id int64
	if err := q.QueryRow(`SELECT id FROM meal_types WHERE name = ?`, name).Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("meal type %q: %w", name, ErrNotFound)
		}
		return 0, fmt.Errorf("lookup meal type %q: %w", name, err)
	}
	return id, nil
}

func ensureMealTypeID(q sqlExecutor, mealType string) (int64, error) {
	name := normalizeName(mealType)
	if name == "" {
		return 0, fmt.Errorf("meal type is required")
	}
	if _, err := q.Exec(`
INSERT OR IGNORE INTO meal_types(name, position)
VALUES(?, (SELECT IFNULL(MAX(position), -1) + 1 FROM meal_types))
`, name); err != nil {
		return 0, fmt.Errorf("ensure meal type %q: %w", name, err)
	}
	return mealTypeIDByName(q, name)
}
