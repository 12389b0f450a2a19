package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	defaultBaseURL = "https://cookbook.tosh-hamburg.de"
	defaultTimeout = 12 * time.Second
	userAgent      = "cookbook-cli/1.0 (+https://github.com/tosh-hamburg/cookbook)"
)

// ErrNotFound is returned when the backend answers 404.
var ErrNotFound = errors.New("remote resource not found")

type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type Recipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Servings    int          `json:"servings"`
	Notes       string       `json:"notes"`
	Ingredients []Ingredient `json:"ingredients"`
}

type RecipeSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Servings int    `json:"servings"`
}

type PlannedMeal struct {
	MealType string `json:"mealType"`
	RecipeID string `json:"recipeId"`
	Servings int    `json:"servings"`
}

type PlannedDay struct {
	Day   int           `json:"day"`
	Meals []PlannedMeal `json:"meals"`
}

type MealPlan struct {
	WeekStart string       `json:"weekStart"`
	Days      []PlannedDay `json:"days"`
}

// Client talks to the recipe backend. Token may be nil for anonymous access.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      *oauth2.Token
}

func (c *Client) GetRecipe(ctx context.Context, id string) (Recipe, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Recipe{}, fmt.Errorf("recipe id is required")
	}
	var out Recipe
	if err := c.getJSON(ctx, "/api/recipes/"+url.PathEscape(id), &out); err != nil {
		return Recipe{}, fmt.Errorf("get remote recipe %q: %w", id, err)
	}
	if out.ID == "" {
		out.ID = id
	}
	return out, nil
}

func (c *Client) ListRecipes(ctx context.Context) ([]RecipeSummary, error) {
	out := make([]RecipeSummary, 0)
	if err := c.getJSON(ctx, "/api/recipes", &out); err != nil {
		return nil, fmt.Errorf("list remote recipes: %w", err)
	}
	return out, nil
}

func (c *Client) GetMealPlan(ctx context.Context, weekStart string) (MealPlan, error) {
	var out MealPlan
	if err := c.getJSON(ctx, "/api/mealplans/"+url.PathEscape(strings.TrimSpace(weekStart)), &out); err != nil {
		return MealPlan{}, fmt.Errorf("get remote meal plan %s: %w", weekStart, err)
	}
	if out.WeekStart == "" {
		out.WeekStart = weekStart
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient(ctx).Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// httpClient wraps the configured client with a bearer token transport when
// the client is logged in.
func (c *Client) httpClient(ctx context.Context) *http.Client {
	base := c.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: defaultTimeout}
	}
	if c.Token == nil || c.Token.AccessToken == "" {
		return base
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	authed := oauth2.NewClient(ctx, oauth2.StaticTokenSource(c.Token))
	authed.Timeout = base.Timeout
	return authed
}
