package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tosh-hamburg/cookbookApp/internal/service"
)

func TestMealTypeDefaultsAndAdd(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	require.NoError(t, service.AddMealType(db, " Brunch "))
	types, err := service.ListMealTypes(db)
	require.NoError(t, err)

	names := make([]string, 0, len(types))
	for _, mt := range types {
		names = append(names, mt.Name)
	}
	assert.Equal(t, []string{"breakfast", "lunch", "dinner", "snack", "brunch"}, names)
	assert.True(t, types[0].IsDefault)
	assert.False(t, types[4].IsDefault)
}

func TestRenameMealType(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	require.NoError(t, service.RenameMealType(db, "snack", "Kaffee"))
	err := service.RenameMealType(db, "snack", "other")
	assert.True(t, errors.Is(err, service.ErrNotFound))
}

func TestDeleteMealTypeReassignsSlots(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	seedRecipe(t, db, "Müsli", 1, "Haferflocken", "50 g")
	seedRecipe(t, db, "Toast", 1, "Brot", "2 Scheiben")
	require.NoError(t, service.AddMealType(db, "brunch"))

	_, err := service.SetMealSlot(db, service.SetMealSlotInput{WeekStart: testWeek, Day: 0, MealType: "brunch", Recipe: "Müsli"})
	require.NoError(t, err)
	_, err = service.SetMealSlot(db, service.SetMealSlotInput{WeekStart: testWeek, Day: 1, MealType: "brunch", Recipe: "Müsli"})
	require.NoError(t, err)
	_, err = service.SetMealSlot(db, service.SetMealSlotInput{WeekStart: testWeek, Day: 1, MealType: "breakfast", Recipe: "Toast"})
	require.NoError(t, err)

	err = service.DeleteMealType(db, "brunch", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 planned slots")

	require.NoError(t, service.DeleteMealType(db, "brunch", "breakfast"))

	slots, err := service.ListWeekPlan(db, testWeek)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, 0, slots[0].Day)
	assert.Equal(t, "breakfast", slots[0].MealType)
	assert.Equal(t, "Müsli", slots[0].RecipeTitle)
	assert.Equal(t, "Toast", slots[1].RecipeTitle, "existing slot at the target cell wins")
}
