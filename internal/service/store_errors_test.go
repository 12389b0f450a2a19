package service_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tosh-hamburg/cookbookApp/internal/service"
)

var errDiskGone = errors.New("disk I/O error")

func TestListRecipesWrapsQueryError(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM recipes ORDER BY LOWER(title), id`)).WillReturnError(errDiskGone)

	_, err = service.ListRecipes(db)
	require.Error(t, err)
	assert.ErrorIs(t, err, errDiskGone)
	assert.Contains(t, err.Error(), "list recipes")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSessionRollsBackOnWriteError(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO app_config`)).WillReturnError(errDiskGone)
	mock.ExpectRollback()

	err = service.SaveSession(db, service.Session{AccessToken: "tok"})
	assert.ErrorIs(t, err, errDiskGone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShoppingListStopsOnMarkError(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM meal_slots s`)).
		WithArgs("2024-03-04").
		WillReturnRows(sqlmock.NewRows([]string{"id", "week_start", "day", "name", "recipe_id", "title", "servings", "slot_servings"}))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM shopping_marks`)).
		WithArgs("2024-03-04").
		WillReturnError(errDiskGone)

	_, err = service.ShoppingList(db, "2024-03-04")
	assert.ErrorIs(t, err, errDiskGone)
	assert.Contains(t, err.Error(), "list shopping marks")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunDoctorFixReturnsRowsAffectedError(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM recipe_ingredients i LEFT JOIN recipes`)).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM meal_slots WHERE recipe_id IS NULL`)).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM shopping_marks m`)).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT amount FROM recipe_ingredients`)).WillReturnRows(sqlmock.NewRows([]string{"amount"}))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM recipe_ingredients`)).WillReturnResult(sqlmock.NewErrorResult(errDiskGone))
	mock.ExpectRollback()

	_, err = service.RunDoctor(db, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, errDiskGone)
	require.NoError(t, mock.ExpectationsWereMet())
}
