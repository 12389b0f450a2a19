package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tosh-hamburg/cookbookApp/internal/model"
	"github.com/tosh-hamburg/cookbookApp/internal/service"
)

type handler struct {
	db  *sql.DB
	loc *time.Location
	now func() time.Time
}

type errBadRequest struct{ msg string }

func (e errBadRequest) Error() string { return e.msg }

type recipeDetail struct {
	model.Recipe
	Ingredients []model.RecipeIngredient `json:"ingredients"`
}

type weekPlan struct {
	WeekStart string           `json:"week_start"`
	Slots     []model.MealSlot `json:"slots"`
}

func (h *handler) listRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := service.ListRecipes(h.db)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, recipes)
}

func (h *handler) getRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := service.ResolveRecipe(h.db, chi.URLParam(r, "recipe"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := service.ListRecipeIngredients(h.db, strconv.FormatInt(recipe.ID, 10))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, recipeDetail{Recipe: *recipe, Ingredients: items})
}

func (h *handler) scaleRecipe(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("servings"))
	servings, err := strconv.Atoi(raw)
	if err != nil || servings <= 0 {
		writeError(w, r, errBadRequest{msg: fmt.Sprintf("servings must be a positive integer, got %q", raw)})
		return
	}
	scaled, err := service.ScaleRecipe(h.db, chi.URLParam(r, "recipe"), servings)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, scaled)
}

func (h *handler) weekPlan(w http.ResponseWriter, r *http.Request) {
	week, err := h.week(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slots, err := service.ListWeekPlan(h.db, week)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, weekPlan{WeekStart: week, Slots: slots})
}

func (h *handler) shoppingList(w http.ResponseWriter, r *http.Request) {
	week, err := h.week(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := service.ShoppingList(h.db, week)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

func (h *handler) shoppingListText(w http.ResponseWriter, r *http.Request) {
	week, err := h.week(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := service.ShoppingList(h.db, week)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(service.ShoppingListText(report.Items)))
}

// week accepts any date of the week, or "current".
func (h *handler) week(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "week")
	if strings.EqualFold(raw, "current") {
		raw = ""
	}
	week, err := service.ParseWeek(raw, h.now(), h.loc)
	if err != nil {
		return "", errBadRequest{msg: err.Error()}
	}
	return week, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var bad errBadRequest
	switch {
	case errors.As(err, &bad):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	}
	writeJSON(w, r, status, map[string]string{"error": err.Error()})
}
