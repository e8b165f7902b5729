package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/istehunt/hunt/internal/api/handler"
	"github.com/istehunt/hunt/internal/api/middleware"
	"github.com/istehunt/hunt/internal/api/response"
	"github.com/istehunt/hunt/internal/event"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Hunt         handler.HuntService
	Auth         handler.AdminAuthenticator
	Verifier     middleware.TokenVerifier
	Bus          *event.Bus
	DBPinger     handler.DBPinger
	Version      string
	CORSOrigins  []string
	PinRateLimit int // submissions per minute per team+origin; 0 disables
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
	}))

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	scoreboardHandler := handler.NewScoreboardHandler(deps.Hunt)
	teamHandler := handler.NewTeamHandler(deps.Hunt)
	verifyHandler := handler.NewVerifyHandler(deps.Hunt)

	r.Route("/api", func(r chi.Router) {
		r.Get("/scoreboard", scoreboardHandler.Get)

		if deps.Bus != nil {
			eventsHandler := handler.NewEventsHandler(deps.Bus)
			r.Get("/events", eventsHandler.ServeHTTP)
		}

		r.Route("/team/{teamID}", func(r chi.Router) {
			r.Get("/state", teamHandler.State)
			r.Get("/progress", teamHandler.Progress)
			r.With(pinLimiter(deps.PinRateLimit)).Post("/verify", verifyHandler.Verify)
		})

		adminHandler := handler.NewAdminHandler(deps.Auth, deps.Hunt)
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", adminHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminAuth(deps.Verifier))
				r.Get("/overview", adminHandler.Overview)
				r.Put("/tasks/{id}", adminHandler.UpdateTask)
				r.Post("/reset", adminHandler.Reset)
			})
		})
	})

	return r
}

// pinLimiter throttles pin submissions per team+origin so one team cannot
// brute-force codes or starve others.
func pinLimiter(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(
			func(r *http.Request) (string, error) {
				return chi.URLParam(r, "teamID"), nil
			},
			httprate.KeyByRealIP,
		),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			requestID := middleware.GetRequestID(r.Context())
			response.Err(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many pin attempts, slow down", requestID)
		}),
	)
}
