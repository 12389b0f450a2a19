package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tosh-hamburg/cookbookApp/internal/quantity"
	"github.com/tosh-hamburg/cookbookApp/internal/remote"
)

// RemoteSource is the part of the backend client sync needs.
type RemoteSource interface {
	GetRecipe(ctx context.Context, id string) (remote.Recipe, error)
	GetMealPlan(ctx context.Context, weekStart string) (remote.MealPlan, error)
}

type SyncReport struct {
	WeekStart      string   `json:"week_start,omitempty"`
	RecipesCreated int      `json:"recipes_created"`
	RecipesUpdated int      `json:"recipes_updated"`
	Slots          int      `json:"slots"`
	Missing        []string `json:"missing,omitempty"`
}

// SyncWeek replaces the local plan of a week with the backend's, pulling every
// referenced recipe first. Meals whose recipe the backend no longer has are
// skipped and reported in Missing, meals without a meal type are skipped. On
// error nothing is stored and the report is empty.
func SyncWeek(ctx context.Context, db *sql.DB, src RemoteSource, week string) (SyncReport, error) {
	report, err := syncWeek(ctx, db, src, week)
	if err != nil {
		return SyncReport{}, err
	}
	return report, nil
}

func syncWeek(ctx context.Context, db *sql.DB, src RemoteSource, week string) (SyncReport, error) {
	report := SyncReport{WeekStart: week}
	if err := validateWeekStart(week); err != nil {
		return report, err
	}
	log := zerolog.Ctx(ctx)

	plan, err := src.GetMealPlan(ctx, week)
	if err != nil {
		return report, err
	}
	recipes := make(map[string]remote.Recipe)
	order := make([]string, 0)
	for _, day := range plan.Days {
		for _, meal := range day.Meals {
			if meal.RecipeID == "" {
				continue
			}
			if _, seen := recipes[meal.RecipeID]; seen {
				continue
			}
			r, err := src.GetRecipe(ctx, meal.RecipeID)
			if errors.Is(err, remote.ErrNotFound) {
				log.Warn().Str("recipe", meal.RecipeID).Msg("planned recipe missing on backend")
				report.Missing = append(report.Missing, meal.RecipeID)
				recipes[meal.RecipeID] = remote.Recipe{}
				continue
			}
			if err != nil {
				return report, err
			}
			recipes[meal.RecipeID] = r
			order = append(order, meal.RecipeID)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return report, fmt.Errorf("begin sync tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	localIDs := make(map[string]int64, len(order))
	for _, uid := range order {
		id, created, err := storeRemoteRecipe(tx, recipes[uid])
		if err != nil {
			return report, err
		}
		localIDs[uid] = id
		if created {
			report.RecipesCreated++
		} else {
			report.RecipesUpdated++
		}
	}

	if _, err := tx.Exec(`DELETE FROM meal_slots WHERE week_start = ?`, week); err != nil {
		return report, fmt.Errorf("clear week %s: %w", week, err)
	}
	for _, day := range plan.Days {
		if day.Day < 0 || day.Day > 6 {
			log.Warn().Int("day", day.Day).Msg("skipping out of range day")
			continue
		}
		for _, meal := range day.Meals {
			recipeID, ok := localIDs[meal.RecipeID]
			if !ok {
				continue
			}
			if normalizeName(meal.MealType) == "" {
				log.Warn().Int("day", day.Day).Str("recipe", meal.RecipeID).Msg("skipping meal without meal type")
				continue
			}
			mealTypeID, err := ensureMealTypeID(tx, meal.MealType)
			if err != nil {
				return report, err
			}
			servings := meal.Servings
			if servings <= 0 {
				servings = max(recipes[meal.RecipeID].Servings, 1)
			}
			if _, err := upsertSlot(tx, week, day.Day, mealTypeID, recipeID, servings); err != nil {
				return report, err
			}
			report.Slots++
		}
	}
	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("commit sync tx: %w", err)
	}
	log.Info().
		Str("week", week).
		Int("created", report.RecipesCreated).
		Int("updated", report.RecipesUpdated).
		Int("slots", report.Slots).
		Msg("week synced")
	return report, nil
}

// SyncRecipe pulls one recipe and stores it under its backend id.
func SyncRecipe(ctx context.Context, db *sql.DB, src RemoteSource, id string) (int64, bool, error) {
	r, err := src.GetRecipe(ctx, id)
	if err != nil {
		return 0, false, err
	}
	tx, err := db.Begin()
	if err != nil {
		return 0, false, fmt.Errorf("begin sync recipe tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	localID, created, err := storeRemoteRecipe(tx, r)
	if err != nil {
		return 0, false, err
	}
	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("commit sync recipe tx: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("uid", r.ID).Int64("id", localID).Bool("created", created).Msg("recipe synced")
	return localID, created, nil
}

func storeRemoteRecipe(q sqlExecutor, r remote.Recipe) (int64, bool, error) {
	id, created, err := upsertRecipeByUID(q, RecipeInput{
		UID:      r.ID,
		Title:    r.Title,
		Servings: max(r.Servings, 1),
		Notes:    r.Notes,
		Source:   RecipeSourceRemote,
	})
	if err != nil {
		return 0, false, fmt.Errorf("store remote recipe %q: %w", r.ID, err)
	}
	lines := make([]quantity.IngredientLine, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		lines = append(lines, quantity.IngredientLine{Name: ing.Name, Amount: ing.Amount})
	}
	if err := replaceIngredients(q, id, lines); err != nil {
		return 0, false, err
	}
	return id, created, nil
}
