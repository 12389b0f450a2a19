package quantity

import (
	"sort"
	"strings"
)

// GroupSeparator joins unit subtotals of the same ingredient.
const GroupSeparator = " + "

// Entry is one planned meal: a recipe's ingredients, the servings the recipe
// is written for and the servings planned for the slot.
type Entry struct {
	Ingredients    []IngredientLine
	RecipeServings int
	SlotServings   int
	RecipeTitle    string
}

// Source records which planned recipe contributed to an aggregated ingredient.
type Source struct {
	RecipeTitle    string `json:"recipe_title"`
	Servings       int    `json:"servings"`
	OriginalAmount string `json:"original_amount"`
}

// UnitTotal is the sum of one ingredient's amounts sharing a unit.
type UnitTotal struct {
	Unit  string  `json:"unit"`
	Value float64 `json:"value"`
}

// AggregatedIngredient is one line of a shopping list.
type AggregatedIngredient struct {
	Key         string      `json:"key"`
	Name        string      `json:"name"`
	TotalAmount string      `json:"total_amount"`
	Groups      []UnitTotal `json:"groups"`
	Sources     []Source    `json:"sources"`
}

type bucket struct {
	key     string
	groups  []UnitTotal
	index   map[string]int
	sources []Source
}

// add groups by the trimmed unit so fallback text like "etwas " joins "etwas".
func (b *bucket) add(q Quantity) {
	unit := strings.TrimSpace(q.Unit)
	unitKey := strings.ToLower(unit)
	i, ok := b.index[unitKey]
	if !ok {
		i = len(b.groups)
		b.index[unitKey] = i
		b.groups = append(b.groups, UnitTotal{Unit: unit})
	}
	b.groups[i].Value += q.Value
}

// Aggregate scales every ingredient by its entry's slot/recipe servings ratio
// and sums the results per ingredient name and unit. Names and units are
// compared case-insensitively; a unit keeps the spelling it was first seen
// with and groups keep first-seen order. The result is sorted by the
// lower-cased name. Lines without a name are ignored.
func Aggregate(entries []Entry) []AggregatedIngredient {
	buckets := make(map[string]*bucket)
	for _, e := range entries {
		factor := float64(e.SlotServings) / float64(max(e.RecipeServings, 1))
		for _, line := range e.Ingredients {
			key := NormalizeName(line.Name)
			if key == "" {
				continue
			}
			b, ok := buckets[key]
			if !ok {
				b = &bucket{key: key, index: make(map[string]int)}
				buckets[key] = b
			}
			q := Parse(line.Amount)
			b.add(Quantity{Value: q.Value * factor, Unit: q.Unit})
			b.sources = append(b.sources, Source{
				RecipeTitle:    e.RecipeTitle,
				Servings:       e.SlotServings,
				OriginalAmount: line.Amount,
			})
		}
	}

	out := make([]AggregatedIngredient, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, AggregatedIngredient{
			Key:         b.key,
			Name:        DisplayName(b.key),
			TotalAmount: FormatGroups(b.groups),
			Groups:      b.groups,
			Sources:     b.sources,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// FormatGroups renders each unit subtotal and joins the non-empty ones.
func FormatGroups(groups []UnitTotal) string {
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		if s := FormatUnitGroup(g.Unit, g.Value); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, GroupSeparator)
}
