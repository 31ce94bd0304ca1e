package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/better-pagination/better-pagination/internal/calendar"
	"github.com/better-pagination/better-pagination/internal/entries"
	"github.com/better-pagination/better-pagination/internal/extension"
	"github.com/better-pagination/better-pagination/internal/observability"
	"github.com/better-pagination/better-pagination/internal/rest"
	"github.com/better-pagination/better-pagination/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	Pagination      extension.Provider
	EntriesHandler  *entries.Handler
	CalendarHandler *calendar.Handler
	RESTHandler     *rest.Handler
	Metrics         *observability.Metrics
	// HomePath is where / redirects. Empty disables the redirect.
	HomePath string
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:     params.Logger,
		Config:     params.Config,
		Metrics:    params.Metrics,
		Pagination: params.Pagination,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.HomePath != "" {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, params.HomePath, http.StatusSeeOther)
		})
	}

	if params.EntriesHandler != nil {
		params.EntriesHandler.MountRoutes(r)
	}
	if params.CalendarHandler != nil {
		params.CalendarHandler.MountRoutes(r)
	}
	if params.RESTHandler != nil {
		params.RESTHandler.MountRoutes(r)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler lets browsers cache static assets for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
