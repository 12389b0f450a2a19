package cookbook

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tosh-hamburg/cookbookApp/internal/app"
	"github.com/tosh-hamburg/cookbookApp/internal/db"
	"github.com/tosh-hamburg/cookbookApp/internal/remote"
	"github.com/tosh-hamburg/cookbookApp/internal/service"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

func resolveDBPath() (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, nil
	}
	return app.DefaultDBPath()
}

func parseInt64Arg(name, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

// resolveWeek turns a --week value (any date of the week, empty for the
// current one) into its Monday in the planner timezone.
func resolveWeek(value string) (string, error) {
	loc, err := service.LoadPlannerLocation(cfg.PlannerTimezone)
	if err != nil {
		return "", err
	}
	return service.ParseWeek(value, time.Now(), loc)
}

// parseIngredientFlag splits "Mehl=200 g". A missing "=" means no amount.
func parseIngredientFlag(value string) (service.RecipeIngredientInput, error) {
	name, amount, _ := strings.Cut(value, "=")
	in := service.RecipeIngredientInput{Name: strings.TrimSpace(name), Amount: strings.TrimSpace(amount)}
	if in.Name == "" {
		return in, fmt.Errorf("invalid --ingredient %q (expected name=amount)", value)
	}
	return in, nil
}

func newRemoteClient(sqldb *sql.DB) (*remote.Client, error) {
	client := &remote.Client{
		BaseURL:    cfg.APIBaseURL,
		HTTPClient: &http.Client{Timeout: cfg.APITimeout},
	}
	session, ok, err := service.LoadSession(sqldb)
	if err != nil {
		return nil, err
	}
	if ok {
		if !session.Valid() {
			return nil, fmt.Errorf("session expired; run `cookbook auth login` again")
		}
		client.Token = session.OAuthToken()
	}
	return client, nil
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(w, string(b))
	return nil
}
