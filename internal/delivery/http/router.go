package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventfinder/internal/delivery/http/controllers"
	h "eventfinder/internal/delivery/http/helpers"
	"eventfinder/internal/delivery/http/middleware"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps holds what NewRouter wires into routes.
type RouterDeps struct {
	Prefix          string
	Logger          *slog.Logger
	Auth            *controllers.AuthController
	Events          *controllers.EventController
	Authenticator   middleware.Authenticator
	EventAuthorizer middleware.EventAuthorizer
	DB              Pinger
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(d RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()
	p := "/" + strings.Trim(d.Prefix, "/")
	if p == "/" {
		p = ""
	}

	requireAuth := middleware.RequireAuth(d.Authenticator, d.Logger)
	requireOwner := middleware.RequireEventOwner(d.EventAuthorizer, d.Logger)

	// Auth
	mux.HandleFunc("POST "+p+"/auth/register", d.Auth.Register)
	mux.HandleFunc("POST "+p+"/auth/login", d.Auth.Login)

	// Events
	mux.HandleFunc("GET "+p+"/events", middleware.Chain(d.Events.List, requireAuth))
	mux.HandleFunc("GET "+p+"/events/{id}", middleware.Chain(d.Events.Get, requireAuth))
	mux.HandleFunc("GET "+p+"/events/{id}/similar", middleware.Chain(d.Events.Similar, requireAuth))
	mux.HandleFunc("POST "+p+"/events", middleware.Chain(d.Events.Create, requireAuth))
	mux.HandleFunc("PUT "+p+"/events/{id}", middleware.Chain(d.Events.Update, requireAuth, requireOwner))
	mux.HandleFunc("DELETE "+p+"/events/{id}", middleware.Chain(d.Events.Delete, requireAuth, requireOwner))

	// Operations
	mux.HandleFunc("GET /healthz", healthz(d.DB, d.Logger))
	mux.Handle("GET /metrics", promhttp.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

func healthz(db Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				logger.WarnContext(r.Context(), "health check failed", "err", err)
				h.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		h.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
