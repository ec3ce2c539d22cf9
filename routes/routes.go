package routes

import (
	"github.com/clubops/club-system/handlers"
	"github.com/clubops/club-system/middleware"
	"github.com/clubops/club-system/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers bundles everything SetupRoutes wires up.
type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Team      *handlers.TeamHandler
	Player    *handlers.PlayerHandler
	Match     *handlers.MatchHandler
	Goal      *handlers.GoalHandler
	Card      *handlers.CardHandler
	Injury    *handlers.InjuryHandler
	News      *handlers.NewsHandler
	Staff     *handlers.StaffHandler
	Donation  *handlers.DonationHandler
	Training  *handlers.TrainingHandler
	Log       *handlers.LogHandler
	Archive   *handlers.ArchiveHandler
	WebSocket *handlers.WebSocketHandler
}

func SetupRoutes(router *chi.Mux, auth *middleware.Authenticator, h Handlers, corsOrigin string) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	admins := []models.UserRole{models.RoleSuperAdmin, models.RoleAdmin}
	adminsAndCoach := append(admins, models.RoleCoach)
	adminsAndMedical := append(admins, models.RoleMedical)
	adminsAndEditor := append(admins, models.RoleEditor)

	router.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.With(middleware.RateLimit(1, 5)).Post("/login", h.Auth.Login)
			r.With(auth.Authenticate).Get("/me", h.Auth.Me)
		})

		api.Route("/users", func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Get("/{identifier}", h.User.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(admins...))
				r.Get("/", h.User.List)
				r.Put("/{identifier}", h.User.Update)
				r.Delete("/{identifier}", h.User.Delete)
			})
		})

		api.Route("/teams", func(r chi.Router) {
			r.Get("/", h.Team.List)
			r.Get("/{teamID}", h.Team.Get)
			r.Get("/{teamID}/players", h.Team.Players)

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Use(middleware.RequireRole(admins...))
				r.Post("/", h.Team.Create)
				r.Put("/{teamID}", h.Team.Update)
				r.Delete("/{teamID}", h.Team.Delete)
				r.Post("/{teamID}/logo", h.Team.UploadLogo)
			})
		})

		api.Route("/players", func(r chi.Router) {
			r.Get("/", h.Player.List)
			r.Get("/stats", h.Player.Stats)
			r.Get("/{identifier}", h.Player.Get)
			r.Get("/{identifier}/involvement", h.Player.Involvement)

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Use(middleware.RequireRole(adminsAndCoach...))
				r.Post("/", h.Player.Create)
				r.Put("/{identifier}", h.Player.Update)
				r.Delete("/{identifier}", h.Player.Delete)
				r.Post("/{identifier}/photo", h.Player.UploadPhoto)
			})
		})

		api.Route("/matches", func(r chi.Router) {
			r.Get("/", h.Match.List)
			r.Get("/stats", h.Match.Stats)
			r.Get("/{matchID}", h.Match.Get)
			r.Get("/{matchID}/timeline", h.Match.Timeline)
			r.Get("/{matchID}/metrics", h.Match.Metrics)

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Use(middleware.RequireRole(adminsAndCoach...))
				r.Post("/", h.Match.Create)
				r.Put("/{matchID}", h.Match.Update)
				r.Delete("/{matchID}", h.Match.Delete)
			})
		})

		api.Route("/goals", func(r chi.Router) {
			r.Get("/", h.Goal.List)
			r.Get("/stats", h.Goal.Stats)
			r.Get("/match/{matchID}", h.Goal.ByMatch)
			r.Get("/player/{playerID}", h.Goal.ByPlayer)
			r.Get("/{id}", h.Goal.Get)

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Use(middleware.RequireRole(adminsAndCoach...))
				r.Post("/", h.Goal.Create)
				r.Put("/{id}", h.Goal.Update)
				r.Delete("/{id}", h.Goal.Delete)
			})
		})

		api.Route("/cards", func(r chi.Router) {
			r.Get("/", h.Card.List)
			r.Get("/stats", h.Card.Stats)
			r.Get("/match/{matchID}", h.Card.ByMatch)
			r.Get("/player/{playerID}", h.Card.ByPlayer)
			r.Get("/{id}", h.Card.Get)

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Use(middleware.RequireRole(adminsAndCoach...))
				r.Post("/", h.Card.Create)
				r.Put("/{id}", h.Card.Update)
				r.Delete("/{id}", h.Card.Delete)
			})
		})

		api.Route("/injuries", func(r chi.Router) {
			r.Get("/", h.Injury.List)
			r.Get("/stats", h.Injury.Stats)
			r.Get("/match/{matchID}", h.Injury.ByMatch)
			r.Get("/player/{playerID}", h.Injury.ByPlayer)
			r.Get("/{id}", h.Injury.Get)

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Use(middleware.RequireRole(adminsAndMedical...))
				r.Post("/", h.Injury.Create)
				r.Put("/{id}", h.Injury.Update)
				r.Delete("/{id}", h.Injury.Delete)
			})
		})

		api.Route("/news", func(r chi.Router) {
			r.Get("/", h.News.List)
			r.Get("/{identifier}", h.News.Get)

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Use(middleware.RequireRole(adminsAndEditor...))
				r.Post("/", h.News.Create)
				r.Put("/{identifier}", h.News.Update)
				r.Delete("/{identifier}", h.News.Delete)
				r.Post("/{identifier}/cover", h.News.UploadCover)
			})
		})

		api.Route("/staff", func(r chi.Router) {
			r.Get("/", h.Staff.List)
			r.Get("/{id}", h.Staff.Get)

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Use(middleware.RequireRole(admins...))
				r.Post("/", h.Staff.Create)
				r.Put("/{id}", h.Staff.Update)
				r.Delete("/{id}", h.Staff.Delete)
				r.Post("/{id}/photo", h.Staff.UploadPhoto)
			})
		})

		api.Route("/donations", func(r chi.Router) {
			// Создание пожертвования открыто для всех.
			r.Post("/", h.Donation.Create)

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Use(middleware.RequireRole(admins...))
				r.Get("/", h.Donation.List)
				r.Get("/stats", h.Donation.Stats)
				r.Get("/{id}", h.Donation.Get)
				r.Patch("/{id}/status", h.Donation.UpdateStatus)
			})
		})

		api.Route("/trainings", func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Get("/", h.Training.List)
			r.Get("/{id}", h.Training.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(adminsAndCoach...))
				r.Post("/", h.Training.Create)
				r.Put("/{id}", h.Training.Update)
				r.Delete("/{id}", h.Training.Delete)
			})
		})

		api.Route("/logs", func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.RequireRole(admins...))
			r.Get("/", h.Log.List)
			r.Get("/{id}", h.Log.Get)
		})

		api.Route("/archives", func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.RequireRole(admins...))
			r.Get("/", h.Archive.List)
			r.Get("/{id}", h.Archive.Get)
		})
	})

	router.Get("/ws/matches/{matchID}", h.WebSocket.ServeMatchTicker)
}
