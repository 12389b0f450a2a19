package server

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	cookbookmiddleware "github.com/tosh-hamburg/cookbookApp/internal/server/middleware"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
	cfg    Config
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	DB              *sql.DB
	// Location decides which Monday a date belongs to.
	Location *time.Location
	Now      func() time.Time
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = defaultShutdownTimeout
	}
	h := &handler{db: config.DB, loc: config.Location, now: config.Now}

	router := chi.NewRouter()
	router.Use(cookbookmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/recipes", h.listRecipes)
		r.Get("/recipes/{recipe}", h.getRecipe)
		r.Get("/recipes/{recipe}/scaled", h.scaleRecipe)
		r.Get("/weeks/{week}/plan", h.weekPlan)
		r.Get("/weeks/{week}/shopping-list", h.shoppingList)
		r.Get("/weeks/{week}/shopping-list.txt", h.shoppingListText)
	})

	return &WebAPI{
		router: router,
		logger: &logger,
		cfg:    config,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func (w *WebAPI) Handler() http.Handler {
	return w.router
}

// Start serves until ctx is cancelled, then drains outstanding requests.
func (w *WebAPI) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		w.logger.Info().Msg("shutdown initiated")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), w.cfg.ShutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(shutdownCtx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}
		return err
	}
}
