package service_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tosh-hamburg/cookbookApp/internal/db"
	"github.com/tosh-hamburg/cookbookApp/internal/service"
)

const testWeek = "2024-03-04"

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cookbook.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })
	return sqldb
}

// seedRecipe creates a recipe with name/amount pairs as ingredients.
func seedRecipe(t *testing.T, sqldb *sql.DB, title string, servings int, pairs ...string) int64 {
	t.Helper()
	id, err := service.CreateRecipe(sqldb, service.RecipeInput{Title: title, Servings: servings})
	require.NoError(t, err)
	for i := 0; i+1 < len(pairs); i += 2 {
		_, err := service.AddRecipeIngredient(sqldb, title, service.RecipeIngredientInput{Name: pairs[i], Amount: pairs[i+1]})
		require.NoError(t, err)
	}
	return id
}
