package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	"github.com/heistgames/tournament-hub/handlers"
	"github.com/heistgames/tournament-hub/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/heistgames/tournament-hub/docs"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Registration *handlers.RegistrationHandler
	Tournament   *handlers.TournamentHandler
	Leaderboard  *handlers.LeaderboardHandler
	Sponsor      *handlers.SponsorHandler
	Profile      *handlers.ProfileHandler
	Dashboard    *handlers.DashboardHandler
	WebSocket    *handlers.WebSocketHandler
}

type Options struct {
	AuthSecret         string
	CORSAllowedOrigins []string
	// Лимитер для /api/forget-password; nil отключает ограничение.
	ResetLimiter *middleware.IPRateLimiter
	Registry     *prometheus.Registry
	// Доверять X-Forwarded-For / X-Real-IP. Включать только за своим прокси,
	// иначе клиент подменяет IP и обходит ResetLimiter.
	TrustProxyHeaders bool
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	if opts.TrustProxyHeaders {
		router.Use(chiMiddleware.RealIP)
	}
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	origins := opts.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: len(opts.CORSAllowedOrigins) > 0,
		MaxAge:           300,
	}))

	if opts.Registry != nil {
		router.Use(middleware.NewMetrics(opts.Registry).Handler)
		router.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Get("/ws/leaderboard/{tournamentID}", h.WebSocket.ServeLeaderboard)

	authenticate := middleware.Authenticate(opts.AuthSecret)

	router.Route("/api", func(r chi.Router) {
		// Публичные маршруты
		r.Get("/home", h.Tournament.Home)
		r.Get("/tournaments", h.Tournament.List)
		r.Get("/tournaments/{tournamentID}", h.Tournament.GetByID)
		r.Get("/leaderboard", h.Leaderboard.Standings)
		r.Get("/sponsors", h.Sponsor.List)
		r.Post("/sponsors/inquiry", h.Sponsor.SubmitInquiry)

		r.Group(func(r chi.Router) {
			if opts.ResetLimiter != nil {
				r.Use(middleware.RateLimit(opts.ResetLimiter))
			}
			r.Post("/forget-password", h.Auth.ForgotPassword)
		})
		r.Post("/reset-password", h.Auth.ResetPassword)

		// Нужна любая валидная сессия
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/tournament/create", h.Registration.CreateTeam)
			r.Post("/tournament/join", h.Registration.JoinTeam)

			r.Get("/profile", h.Profile.Get)
			r.Get("/profile/tournaments", h.Profile.MyTournaments)
			r.Put("/auth/profile/edit", h.Profile.Update)
		})

		// Только ADMIN
		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireAdmin)

			r.Get("/dashboard", h.Dashboard.Stats)

			r.Post("/create-tournament", h.Tournament.Create)
			r.Post("/tournament/delete", h.Tournament.Delete)
			r.Get("/tournaments", h.Tournament.ListAll)
			r.Patch("/tournament/{tournamentID}/registration", h.Tournament.SetRegistration)
			r.Get("/tournament/{tournamentID}/teams", h.Tournament.ListTeams)

			r.Route("/leaderboard", func(r chi.Router) {
				r.Get("/", h.Leaderboard.List)
				r.Post("/", h.Leaderboard.Create)
				r.Put("/", h.Leaderboard.Update)
				r.Delete("/", h.Leaderboard.Delete)
				r.Get("/export", h.Leaderboard.Export)
			})

			r.Get("/sponsors", h.Sponsor.List)
			r.Post("/sponsors", h.Sponsor.Create)
			r.Delete("/sponsors", h.Sponsor.Delete)
			r.Get("/sponsors/inquiry", h.Sponsor.ListInquiries)
		})
	})
}
