package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tosh-hamburg/cookbookApp/internal/service"
)

func TestSetMealSlotUpsertsCell(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	seedRecipe(t, db, "Suppe", 4)
	seedRecipe(t, db, "Salat", 2)

	first, err := service.SetMealSlot(db, service.SetMealSlotInput{WeekStart: testWeek, Day: 2, MealType: "Dinner", Recipe: "Suppe"})
	require.NoError(t, err)
	second, err := service.SetMealSlot(db, service.SetMealSlotInput{WeekStart: testWeek, Day: 2, MealType: "dinner", Recipe: "Salat", Servings: 3})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	slots, err := service.ListWeekPlan(db, testWeek)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "Salat", slots[0].RecipeTitle)
	assert.Equal(t, 3, slots[0].Servings)
	assert.Equal(t, 2, slots[0].RecipeServings)
}

func TestSetMealSlotDefaultsServingsToRecipe(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	seedRecipe(t, db, "Suppe", 4)

	_, err := service.SetMealSlot(db, service.SetMealSlotInput{WeekStart: testWeek, Day: 0, MealType: "lunch", Recipe: "Suppe"})
	require.NoError(t, err)
	slots, err := service.ListWeekPlan(db, testWeek)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, 4, slots[0].Servings)
}

func TestSetMealSlotValidates(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	seedRecipe(t, db, "Suppe", 4)

	_, err := service.SetMealSlot(db, service.SetMealSlotInput{WeekStart: "2024-03-05", Day: 0, MealType: "lunch", Recipe: "Suppe"})
	assert.ErrorContains(t, err, "not a Monday")
	_, err = service.SetMealSlot(db, service.SetMealSlotInput{WeekStart: testWeek, Day: 7, MealType: "lunch", Recipe: "Suppe"})
	assert.Error(t, err)
	_, err = service.SetMealSlot(db, service.SetMealSlotInput{WeekStart: testWeek, Day: 0, MealType: "elevenses", Recipe: "Suppe"})
	assert.True(t, errors.Is(err, service.ErrNotFound))
	_, err = service.SetMealSlot(db, service.SetMealSlotInput{WeekStart: testWeek, Day: 0, MealType: "lunch", Recipe: "Suppe", Servings: -1})
	assert.Error(t, err)
}

func TestListWeekPlanOrdersByDayThenMealType(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	seedRecipe(t, db, "A", 1)
	seedRecipe(t, db, "B", 1)
	seedRecipe(t, db, "C", 1)

	for _, in := range []service.SetMealSlotInput{
		{WeekStart: testWeek, Day: 1, MealType: "breakfast", Recipe: "C"},
		{WeekStart: testWeek, Day: 0, MealType: "dinner", Recipe: "B"},
		{WeekStart: testWeek, Day: 0, MealType: "breakfast", Recipe: "A"},
	} {
		_, err := service.SetMealSlot(db, in)
		require.NoError(t, err)
	}

	slots, err := service.ListWeekPlan(db, testWeek)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "A", slots[0].RecipeTitle)
	assert.Equal(t, "B", slots[1].RecipeTitle)
	assert.Equal(t, "C", slots[2].RecipeTitle)

	other, err := service.ListWeekPlan(db, "2024-03-11")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestClearMealSlotAndWeek(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	seedRecipe(t, db, "Suppe", 2, "Kürbis", "1 kg")
	for day := 0; day < 3; day++ {
		_, err := service.SetMealSlot(db, service.SetMealSlotInput{WeekStart: testWeek, Day: day, MealType: "dinner", Recipe: "Suppe"})
		require.NoError(t, err)
	}
	_, err := service.MarkShoppingItems(db, testWeek, []string{"Kürbis"}, service.ShoppingStateExcluded)
	require.NoError(t, err)

	require.NoError(t, service.ClearMealSlot(db, testWeek, 0, "dinner"))
	err = service.ClearMealSlot(db, testWeek, 0, "dinner")
	assert.True(t, errors.Is(err, service.ErrNotFound))

	n, err := service.ClearWeek(db, testWeek)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	marks, err := service.ListShoppingMarks(db, testWeek)
	require.NoError(t, err)
	assert.Empty(t, marks)
}
