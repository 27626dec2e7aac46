package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/mathnotes-io/mathnotes/internal/auth"
	"github.com/mathnotes-io/mathnotes/internal/config"
	"github.com/mathnotes-io/mathnotes/internal/content"
	"github.com/mathnotes-io/mathnotes/internal/logging"
	"github.com/mathnotes-io/mathnotes/internal/mathtex"
)

const (
	relatedVideoLimit  = 4
	defaultRecentNotes = 6
	cleanupInterval    = time.Hour
)

type Api struct {
	Config config.Config
	Router *chi.Mux

	store      *content.Store
	sessions   *auth.Manager
	typesetter mathtex.Typesetter
	renders    *RenderCache
	log        zerolog.Logger
}

func NewApi(cfg config.Config, store *content.Store, sessions *auth.Manager, log zerolog.Logger) (*Api, error) {
	if cfg.APIPort == 0 {
		return nil, errors.New("Must have at least a port to start API")
	}
	if store == nil || sessions == nil {
		return nil, errors.New("api: store and session manager are required")
	}

	api := &Api{
		Config:     cfg,
		Router:     chi.NewRouter(),
		store:      store,
		sessions:   sessions,
		typesetter: mathtex.Markup{},
		renders:    NewRenderCache(),
		log:        log,
	}

	api.setupRoutes()
	return api, nil
}

func (api *Api) setupRoutes() {
	r := api.Router

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   api.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(api.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/heartbeat"))
	r.Use(auth.Middleware(api.sessions))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, fmt.Sprintf("path not found: %s", r.URL.Path))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", api.ListCategories)
		r.Get("/tiers", api.ListTiers)

		r.Get("/notes", api.ListNotes)
		r.Get("/notes/recent", api.RecentNotes)
		r.Get("/notes/{id}", api.GetNote)

		r.Get("/videos", api.ListVideos)
		r.Get("/videos/{id}", api.GetVideo)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", api.LoginHandler)
			r.Post("/signup", api.SignupHandler)
			r.Post("/logout", api.LogoutHandler)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireSession)
				r.Get("/me", api.MeHandler)
				r.Post("/upgrade", api.UpgradeHandler)
			})
		})
	})
}

// Serve runs the HTTP server and the session sweeper until ctx is cancelled.
func (api *Api) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", api.Config.APIPort),
		Handler:           api.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go api.sweepSessions(ctx, cleanupInterval)

	errCh := make(chan error, 1)
	go func() {
		api.log.Info().Str("addr", srv.Addr).Msg("starting API server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	api.log.Info().Msg("shutting down API server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (api *Api) sweepSessions(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := api.sessions.CleanupExpired(); n > 0 {
				api.log.Info().Int("removed", n).Msg("expired sessions removed")
			}
		}
	}
}
