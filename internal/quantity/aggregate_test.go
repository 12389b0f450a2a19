package quantity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tosh-hamburg/cookbookApp/internal/quantity"
)

func lines(pairs ...string) []quantity.IngredientLine {
	out := make([]quantity.IngredientLine, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, quantity.IngredientLine{Name: pairs[i], Amount: pairs[i+1]})
	}
	return out
}

func TestAggregateSumsAcrossRecipes(t *testing.T) {
	t.Parallel()
	got := quantity.Aggregate([]quantity.Entry{
		{Ingredients: lines("Mehl", "100 g"), RecipeServings: 2, SlotServings: 2, RecipeTitle: "Brot"},
		{Ingredients: lines("Mehl", "100 g"), RecipeServings: 4, SlotServings: 4, RecipeTitle: "Kuchen"},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "Mehl", got[0].Name)
	assert.Equal(t, "200 g", got[0].TotalAmount)
	assert.Equal(t, []quantity.Source{
		{RecipeTitle: "Brot", Servings: 2, OriginalAmount: "100 g"},
		{RecipeTitle: "Kuchen", Servings: 4, OriginalAmount: "100 g"},
	}, got[0].Sources)
}

func TestAggregateSplitsUnits(t *testing.T) {
	t.Parallel()
	got := quantity.Aggregate([]quantity.Entry{
		{Ingredients: lines("Butter", "200 g"), RecipeServings: 1, SlotServings: 1},
		{Ingredients: lines("Butter", "2 EL"), RecipeServings: 1, SlotServings: 1},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "200 g + 2 EL", got[0].TotalAmount)
}

func TestAggregateWeekScenario(t *testing.T) {
	t.Parallel()
	monday := quantity.Entry{Ingredients: lines("Milch", "250 ml"), RecipeServings: 2, SlotServings: 4, RecipeTitle: "A"}
	tuesday := quantity.Entry{Ingredients: lines("Milch", "1 L"), RecipeServings: 4, SlotServings: 4, RecipeTitle: "B"}

	got := quantity.Aggregate([]quantity.Entry{monday, tuesday})
	require.Len(t, got, 1)
	assert.Equal(t, "500 ml + 1 L", got[0].TotalAmount)
	assert.Equal(t, []quantity.UnitTotal{{Unit: "ml", Value: 500}, {Unit: "L", Value: 1}}, got[0].Groups)
}

func TestAggregateNormalizesNamesAndUnits(t *testing.T) {
	t.Parallel()
	got := quantity.Aggregate([]quantity.Entry{
		{Ingredients: lines("mehl", "100 G", " MEHL ", "50 g", "Zucker", "1 EL", "apfel", "2"), RecipeServings: 1, SlotServings: 1},
	})
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Apfel", "Mehl", "Zucker"}, []string{got[0].Name, got[1].Name, got[2].Name})
	assert.Equal(t, "2", got[0].TotalAmount)
	assert.Equal(t, "150 G", got[1].TotalAmount)
}

func TestAggregateGuardsServings(t *testing.T) {
	t.Parallel()
	got := quantity.Aggregate([]quantity.Entry{
		{Ingredients: lines("Reis", "100 g"), RecipeServings: 0, SlotServings: 3},
		{Ingredients: lines("Nudeln", "1/2 kg"), RecipeServings: -2, SlotServings: 1},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "½ kg", got[0].TotalAmount)
	assert.Equal(t, "300 g", got[1].TotalAmount)
}

func TestAggregatePlaceholders(t *testing.T) {
	t.Parallel()
	got := quantity.Aggregate([]quantity.Entry{
		{Ingredients: lines("Salz", "", "Pfeffer", "etwas", "Zimt", "", "", "1 kg"), RecipeServings: 1, SlotServings: 1},
		{Ingredients: lines("Salz", "", "Zimt", "1 TL"), RecipeServings: 1, SlotServings: 2},
	})
	require.Len(t, got, 3)
	byName := map[string]quantity.AggregatedIngredient{}
	for _, it := range got {
		byName[it.Name] = it
	}
	assert.Equal(t, "etwas", byName["Pfeffer"].TotalAmount)
	assert.Equal(t, "", byName["Salz"].TotalAmount)
	assert.Len(t, byName["Salz"].Sources, 2)
	assert.Equal(t, "2 TL", byName["Zimt"].TotalAmount)
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, quantity.Aggregate(nil))
}

func TestAggregateJoinsFallbackTextIgnoringTrailingSpace(t *testing.T) {
	t.Parallel()
	got := quantity.Aggregate([]quantity.Entry{
		{Ingredients: lines("Salz", "etwas"), RecipeServings: 1, SlotServings: 1},
		{Ingredients: lines("Salz", "etwas "), RecipeServings: 1, SlotServings: 1},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "etwas", got[0].TotalAmount)
	require.Len(t, got[0].Groups, 1)
	assert.Equal(t, "etwas", got[0].Groups[0].Unit)
}
