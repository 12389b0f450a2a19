package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/tosh-hamburg/cookbookApp/internal/quantity"
)

const (
	ShoppingStateExcluded = "excluded"
	ShoppingStateSent     = "sent"
)

type ShoppingItem struct {
	quantity.AggregatedIngredient
	// State is empty for items still to buy.
	State string `json:"state,omitempty"`
}

type ShoppingListReport struct {
	WeekStart string         `json:"week_start"`
	Meals     int            `json:"meals"`
	Items     []ShoppingItem `json:"items"`
}

// Pending returns the items that are neither excluded nor sent.
func (r *ShoppingListReport) Pending() []ShoppingItem {
	out := make([]ShoppingItem, 0, len(r.Items))
	for _, it := range r.Items {
		if it.State == "" {
			out = append(out, it)
		}
	}
	return out
}

// WeekEntries turns the week's planned slots into aggregation entries. Slots
// without a recipe contribute nothing.
func WeekEntries(db *sql.DB, week string) ([]quantity.Entry, error) {
	slots, err := ListWeekPlan(db, week)
	if err != nil {
		return nil, err
	}
	cache := make(map[int64][]quantity.IngredientLine)
	entries := make([]quantity.Entry, 0, len(slots))
	for _, s := range slots {
		if s.RecipeID == 0 {
			continue
		}
		lines, ok := cache[s.RecipeID]
		if !ok {
			lines, err = recipeLines(db, s.RecipeID)
			if err != nil {
				return nil, err
			}
			cache[s.RecipeID] = lines
		}
		entries = append(entries, quantity.Entry{
			Ingredients:    lines,
			RecipeServings: s.RecipeServings,
			SlotServings:   s.Servings,
			RecipeTitle:    s.RecipeTitle,
		})
	}
	return entries, nil
}

// ShoppingList aggregates every ingredient planned for the week and flags the
// ones marked excluded or sent.
func ShoppingList(db *sql.DB, week string) (*ShoppingListReport, error) {
	entries, err := WeekEntries(db, week)
	if err != nil {
		return nil, err
	}
	marks, err := ListShoppingMarks(db, week)
	if err != nil {
		return nil, err
	}
	aggregated := quantity.Aggregate(entries)
	items := make([]ShoppingItem, 0, len(aggregated))
	for _, a := range aggregated {
		items = append(items, ShoppingItem{AggregatedIngredient: a, State: marks[a.Key]})
	}
	return &ShoppingListReport{WeekStart: week, Meals: len(entries), Items: items}, nil
}

func ListShoppingMarks(db *sql.DB, week string) (map[string]string, error) {
	rows, err := db.Query(`SELECT ingredient_key, state FROM shopping_marks WHERE week_start = ?`, week)
	if err != nil {
		return nil, fmt.Errorf("list shopping marks: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var key, state string
		if err := rows.Scan(&key, &state); err != nil {
			return nil, fmt.Errorf("scan shopping mark: %w", err)
		}
		out[key] = state
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shopping marks: %w", err)
	}
	return out, nil
}

// MarkShoppingItems records ingredient names as excluded or sent for a week.
func MarkShoppingItems(db *sql.DB, week string, names []string, state string) (int, error) {
	if err := validateWeekStart(week); err != nil {
		return 0, err
	}
	state = normalizeName(state)
	if state != ShoppingStateExcluded && state != ShoppingStateSent {
		return 0, fmt.Errorf("invalid shopping state %q (expected excluded or sent)", state)
	}
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin mark shopping items tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	n, err := markShoppingItems(tx, week, names, state)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit mark shopping items tx: %w", err)
	}
	return n, nil
}

func markShoppingItems(q sqlExecutor, week string, names []string, state string) (int, error) {
	n := 0
	for _, name := range names {
		key := quantity.NormalizeName(name)
		if key == "" {
			continue
		}
		if _, err := q.Exec(`
INSERT INTO shopping_marks(week_start, ingredient_key, state, updated_at)
VALUES(?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(week_start, ingredient_key) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at
`, week, key, state); err != nil {
			return n, fmt.Errorf("mark %q as %s: %w", key, state, err)
		}
		n++
	}
	return n, nil
}

// UnmarkShoppingItems puts ingredients back on the list. No names clears
// every mark of the week.
func UnmarkShoppingItems(db *sql.DB, week string, names []string) (int64, error) {
	if err := validateWeekStart(week); err != nil {
		return 0, err
	}
	if len(names) == 0 {
		res, err := db.Exec(`DELETE FROM shopping_marks WHERE week_start = ?`, week)
		if err != nil {
			return 0, fmt.Errorf("clear shopping marks: %w", err)
		}
		return res.RowsAffected()
	}
	var total int64
	for _, name := range names {
		res, err := db.Exec(`DELETE FROM shopping_marks WHERE week_start = ? AND ingredient_key = ?`, week, quantity.NormalizeName(name))
		if err != nil {
			return total, fmt.Errorf("unmark %q: %w", name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("read rows affected: %w", err)
		}
		total += n
	}
	return total, nil
}

// ShoppingListText renders the items still to buy as a newline-delimited
// plain-text list, "200 g + 2 EL Butter" per line.
func ShoppingListText(items []ShoppingItem) string {
	var b strings.Builder
	for _, it := range items {
		if it.State != "" {
			continue
		}
		b.WriteString(strings.TrimSpace(it.TotalAmount + " " + it.Name))
		b.WriteByte('\n')
	}
	return b.String()
}

// SendShoppingList returns the text of the pending items and marks them sent
// so the next send only carries what was added since.
func SendShoppingList(db *sql.DB, week string) (string, int, error) {
	report, err := ShoppingList(db, week)
	if err != nil {
		return "", 0, err
	}
	pending := report.Pending()
	if len(pending) == 0 {
		return "", 0, nil
	}
	names := make([]string, 0, len(pending))
	for _, it := range pending {
		names = append(names, it.Key)
	}
	if _, err := MarkShoppingItems(db, week, names, ShoppingStateSent); err != nil {
		return "", 0, err
	}
	return ShoppingListText(pending), len(pending), nil
}
