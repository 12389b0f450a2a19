package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tosh-hamburg/cookbookApp/internal/service"
)

func TestShoppingListAggregatesWeek(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	seedRecipe(t, db, "Pfannkuchen", 2, "Milch", "250 ml", "Mehl", "100 g", "Butter", "2 EL")
	seedRecipe(t, db, "Milchreis", 4, "Milch", "1 L", "Reis", "250 g", "Butter", "50 g", "Zimt", "etwas")
	seedRecipe(t, db, "Leer", 1)

	_, err := service.SetMealSlot(db, service.SetMealSlotInput{WeekStart: testWeek, Day: 0, MealType: "dinner", Recipe: "Pfannkuchen", Servings: 4})
	require.NoError(t, err)
	_, err = service.SetMealSlot(db, service.SetMealSlotInput{WeekStart: testWeek, Day: 1, MealType: "dinner", Recipe: "Milchreis", Servings: 4})
	require.NoError(t, err)
	_, err = service.SetMealSlot(db, service.SetMealSlotInput{WeekStart: testWeek, Day: 2, MealType: "lunch", Recipe: "Leer"})
	require.NoError(t, err)

	report, err := service.ShoppingList(db, testWeek)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Meals)

	got := map[string]string{}
	for _, it := range report.Items {
		got[it.Name] = it.TotalAmount
	}
	assert.Equal(t, map[string]string{
		"Butter": "4 EL + 50 g",
		"Mehl":   "200 g",
		"Milch":  "500 ml + 1 L",
		"Reis":   "250 g",
		"Zimt":   "etwas",
	}, got)

	keys := make([]string, 0, len(report.Items))
	for _, it := range report.Items {
		keys = append(keys, it.Key)
	}
	assert.Equal(t, []string{"butter", "mehl", "milch", "reis", "zimt"}, keys)

	var milk service.ShoppingItem
	for _, it := range report.Items {
		if it.Key == "milch" {
			milk = it
		}
	}
	require.Len(t, milk.Sources, 2)
	assert.Equal(t, "Pfannkuchen", milk.Sources[0].RecipeTitle)
	assert.Equal(t, 4, milk.Sources[0].Servings)
	assert.Equal(t, "250 ml", milk.Sources[0].OriginalAmount)
}

func TestShoppingListSkipsSlotsWithDeletedRecipe(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	seedRecipe(t, db, "Suppe", 2, "Kürbis", "1 kg")
	_, err := service.SetMealSlot(db, service.SetMealSlotInput{WeekStart: testWeek, Day: 0, MealType: "dinner", Recipe: "Suppe"})
	require.NoError(t, err)
	require.NoError(t, service.DeleteRecipe(db, "Suppe"))

	report, err := service.ShoppingList(db, testWeek)
	require.NoError(t, err)
	assert.Zero(t, report.Meals)
	assert.Empty(t, report.Items)
}

func TestShoppingMarksAndText(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	seedRecipe(t, db, "Brot", 1, "Mehl", "500 g", "Salz", "1 TL", "Wasser", "")
	_, err := service.SetMealSlot(db, service.SetMealSlotInput{WeekStart: testWeek, Day: 0, MealType: "breakfast", Recipe: "Brot"})
	require.NoError(t, err)

	n, err := service.MarkShoppingItems(db, testWeek, []string{" SALZ "}, service.ShoppingStateExcluded)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = service.MarkShoppingItems(db, testWeek, []string{"mehl"}, "bought")
	require.Error(t, err)

	report, err := service.ShoppingList(db, testWeek)
	require.NoError(t, err)
	assert.Equal(t, "500 g Mehl\nWasser\n", service.ShoppingListText(report.Items))
	require.Len(t, report.Pending(), 2)

	removed, err := service.UnmarkShoppingItems(db, testWeek, []string{"salz"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	report, err = service.ShoppingList(db, testWeek)
	require.NoError(t, err)
	assert.Equal(t, "500 g Mehl\n1 TL Salz\nWasser\n", service.ShoppingListText(report.Items))
}

func TestSendShoppingListMarksItemsSent(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	seedRecipe(t, db, "Brot", 1, "Mehl", "500 g", "Salz", "1 TL")
	_, err := service.SetMealSlot(db, service.SetMealSlotInput{WeekStart: testWeek, Day: 0, MealType: "breakfast", Recipe: "Brot"})
	require.NoError(t, err)
	_, err = service.MarkShoppingItems(db, testWeek, []string{"salz"}, service.ShoppingStateExcluded)
	require.NoError(t, err)

	text, count, err := service.SendShoppingList(db, testWeek)
	require.NoError(t, err)
	assert.Equal(t, "500 g Mehl\n", text)
	assert.Equal(t, 1, count)

	marks, err := service.ListShoppingMarks(db, testWeek)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"mehl": service.ShoppingStateSent, "salz": service.ShoppingStateExcluded}, marks)

	text, count, err = service.SendShoppingList(db, testWeek)
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Zero(t, count)

	cleared, err := service.UnmarkShoppingItems(db, testWeek, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cleared)
}
