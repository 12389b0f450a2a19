package server_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tosh-hamburg/cookbookApp/internal/db"
	"github.com/tosh-hamburg/cookbookApp/internal/server"
	"github.com/tosh-hamburg/cookbookApp/internal/service"
)

func newTestAPI(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()
	sqldb, err := db.Open(filepath.Join(t.TempDir(), "cookbook.db"))
	require.NoError(t, err)
	require.NoError(t, db.ApplyMigrations(sqldb))
	t.Cleanup(func() { _ = sqldb.Close() })

	_, err = service.CreateRecipe(sqldb, service.RecipeInput{UID: "pf", Title: "Pfannkuchen", Servings: 2})
	require.NoError(t, err)
	for _, in := range []service.RecipeIngredientInput{{Name: "Milch", Amount: "250 ml"}, {Name: "Mehl", Amount: "1/2 kg"}} {
		_, err := service.AddRecipeIngredient(sqldb, "pf", in)
		require.NoError(t, err)
	}
	_, err = service.SetMealSlot(sqldb, service.SetMealSlotInput{WeekStart: "2024-03-04", Day: 0, MealType: "dinner", Recipe: "pf", Servings: 4})
	require.NoError(t, err)

	loc, err := service.LoadPlannerLocation("Europe/Berlin")
	require.NoError(t, err)
	api := server.NewWebAPI(zerolog.New(zerolog.NewTestWriter(t)), server.Config{
		DB:       sqldb,
		Location: loc,
		Now:      func() time.Time { return time.Date(2024, 3, 6, 12, 0, 0, 0, loc) },
	})
	ts := httptest.NewServer(api.Handler())
	t.Cleanup(ts.Close)
	return ts, sqldb
}

func get(t *testing.T, url string) (int, string, http.Header) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), resp.Header
}

func TestRecipeEndpoints(t *testing.T) {
	t.Parallel()
	ts, _ := newTestAPI(t)

	status, body, _ := get(t, ts.URL+"/api/v1/recipes")
	require.Equal(t, http.StatusOK, status)
	var recipes []map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &recipes))
	require.Len(t, recipes, 1)
	assert.Equal(t, "Pfannkuchen", recipes[0]["title"])

	status, body, _ = get(t, ts.URL+"/api/v1/recipes/pf")
	require.Equal(t, http.StatusOK, status)
	var detail struct {
		Title       string `json:"title"`
		Ingredients []struct {
			Name   string `json:"name"`
			Amount string `json:"amount"`
		} `json:"ingredients"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &detail))
	assert.Equal(t, "Pfannkuchen", detail.Title)
	require.Len(t, detail.Ingredients, 2)

	status, body, _ = get(t, ts.URL+"/api/v1/recipes/pf/scaled?servings=3")
	require.Equal(t, http.StatusOK, status)
	var scaled struct {
		Factor      float64 `json:"factor"`
		Ingredients []struct {
			Amount string `json:"amount"`
		} `json:"ingredients"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &scaled))
	assert.Equal(t, 1.5, scaled.Factor)
	assert.Equal(t, "375 ml", scaled.Ingredients[0].Amount)
	assert.Equal(t, "¾ kg", scaled.Ingredients[1].Amount)
}

func TestErrorStatuses(t *testing.T) {
	t.Parallel()
	ts, _ := newTestAPI(t)

	status, body, _ := get(t, ts.URL+"/api/v1/recipes/unknown")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, `"error"`)

	status, _, _ = get(t, ts.URL+"/api/v1/recipes/pf/scaled?servings=zero")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _, _ = get(t, ts.URL+"/api/v1/weeks/yesterday/plan")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestWeekEndpoints(t *testing.T) {
	t.Parallel()
	ts, _ := newTestAPI(t)

	status, body, _ := get(t, ts.URL+"/api/v1/weeks/2024-03-07/plan")
	require.Equal(t, http.StatusOK, status)
	var plan struct {
		WeekStart string `json:"week_start"`
		Slots     []struct {
			RecipeTitle string `json:"recipe_title"`
			Servings    int    `json:"servings"`
		} `json:"slots"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &plan))
	assert.Equal(t, "2024-03-04", plan.WeekStart)
	require.Len(t, plan.Slots, 1)
	assert.Equal(t, 4, plan.Slots[0].Servings)

	status, body, _ = get(t, ts.URL+"/api/v1/weeks/current/shopping-list")
	require.Equal(t, http.StatusOK, status)
	var list struct {
		Meals int `json:"meals"`
		Items []struct {
			Name        string `json:"name"`
			TotalAmount string `json:"total_amount"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	assert.Equal(t, 1, list.Meals)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "Mehl", list.Items[0].Name)
	assert.Equal(t, "1 kg", list.Items[0].TotalAmount)

	status, body, header := get(t, ts.URL+"/api/v1/weeks/2024-03-04/shopping-list.txt")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "text/plain; charset=utf-8", header.Get("Content-Type"))
	assert.Equal(t, "1 kg Mehl\n500 ml Milch\n", body)
}

func TestStartShutsDownOnCancel(t *testing.T) {
	t.Parallel()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	api := server.NewWebAPI(zerolog.Nop(), server.Config{Addr: addr, ShutdownTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- api.Start(ctx) }()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
