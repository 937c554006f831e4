package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/http/handlers"
	"github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/http/views"
)

type RouterConfig struct {
	DashboardHandler *handlers.DashboardHandler
	AdminHandler     *handlers.AdminHandler
	OAuthHandler     *handlers.OAuthHandler
	HealthHandler    *handlers.HealthHandler
	SessionLoader    func(http.Handler) http.Handler // identity from cookie into context
	RequireAdmin     func(http.Handler) http.Handler // admin set gate for /order-tracker/admin
	UploadsDir       string                          // served at /uploads/
	Log              zerolog.Logger
	Secure           func(http.Handler) http.Handler
	IPRateLimit      func(http.Handler) http.Handler
	Metrics          bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(views.Static())))
	if cfg.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", noDirListing(http.FileServer(http.Dir(cfg.UploadsDir)))))
	}

	r.Group(func(r chi.Router) {
		if cfg.SessionLoader != nil {
			r.Use(cfg.SessionLoader)
		}
		r.Get("/", cfg.DashboardHandler.Home)
		r.Route("/order-tracker", func(r chi.Router) {
			r.Get("/", cfg.DashboardHandler.Tracker)
			r.Get("/login", cfg.OAuthHandler.Login)
			r.Get("/callback", cfg.OAuthHandler.Callback)
			r.Post("/logout", cfg.OAuthHandler.Logout)

			r.Route("/admin", func(r chi.Router) {
				r.Use(cfg.RequireAdmin)
				r.Get("/", cfg.AdminHandler.Panel)
				r.Post("/add", cfg.AdminHandler.AddCommission)
				r.Post("/edit", cfg.AdminHandler.EditCommission)
				r.Post("/delete", cfg.AdminHandler.DeleteCommission)
				r.Post("/update/add", cfg.AdminHandler.AddUpdate)
				r.Post("/update/toggle-visibility", cfg.AdminHandler.ToggleVisibility)
				r.Post("/update/toggle-percent", cfg.AdminHandler.TogglePercent)
				r.Post("/update/delete", cfg.AdminHandler.DeleteUpdate)
			})
		})
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("request_id", chimid.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Msg("request")
		})
	}
}

// noDirListing answers 404 for directory paths under /uploads/.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
