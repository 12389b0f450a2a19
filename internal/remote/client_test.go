package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestGetRecipeSendsBearerToken(t *testing.T) {
	t.Parallel()

	var gotAuth, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "id": "r-1",
  "title": "Pfannkuchen",
  "servings": 2,
  "ingredients": [
    {"name": "Mehl", "amount": "200 g"},
    {"name": "Milch", "amount": "1/2 L"}
  ]
}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client(), Token: &oauth2.Token{AccessToken: "secret", TokenType: "Bearer"}}
	recipe, err := c.GetRecipe(context.Background(), "r-1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "/api/recipes/r-1", gotPath)
	assert.Equal(t, "Pfannkuchen", recipe.Title)
	assert.Equal(t, 2, recipe.Servings)
	require.Len(t, recipe.Ingredients, 2)
	assert.Equal(t, "1/2 L", recipe.Ingredients[1].Amount)
}

func TestAnonymousClientSendsNoAuthorization(t *testing.T) {
	t.Parallel()

	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[{"id":"a","title":"Suppe","servings":4}]`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	items, err := c.ListRecipes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	require.Len(t, items, 1)
	assert.Equal(t, "Suppe", items[0].Title)
}

func TestGetMealPlanParsesDays(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/mealplans/2024-03-04", r.URL.Path)
		_, _ = w.Write([]byte(`{
  "weekStart": "2024-03-04",
  "days": [
    {"day": 0, "meals": [{"mealType": "dinner", "recipeId": "r-1", "servings": 4}]},
    {"day": 2, "meals": [{"mealType": "lunch", "recipeId": "r-2", "servings": 1}]}
  ]
}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	plan, err := c.GetMealPlan(context.Background(), "2024-03-04")
	require.NoError(t, err)
	require.Len(t, plan.Days, 2)
	assert.Equal(t, "r-1", plan.Days[0].Meals[0].RecipeID)
	assert.Equal(t, 4, plan.Days[0].Meals[0].Servings)
	assert.Equal(t, 2, plan.Days[1].Day)
}

func TestNotFoundAndServerErrors(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/recipes/missing" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	_, err := c.GetRecipe(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = c.GetMealPlan(context.Background(), "2024-03-04")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "status 502")
}

func TestGetRecipeRequiresID(t *testing.T) {
	t.Parallel()

	c := &Client{}
	_, err := c.GetRecipe(context.Background(), "  ")
	require.Error(t, err)
}
