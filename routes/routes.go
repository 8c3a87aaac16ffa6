package routes

import (
	"github.com/fbscore/fbscore/handlers"
	"github.com/fbscore/fbscore/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	teamHandler *handlers.TeamHandler,
	officialHandler *handlers.OfficialHandler,
	playerHandler *handlers.PlayerHandler,
	matchHandler *handlers.MatchHandler,
	postHandler *handlers.PostHandler,
	adminHandler *handlers.AdminHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "auth-token", "team-token", "matchofficial-token", "admin-token"},
		MaxAge:         300,
	}))

	router.Route("/api/auth", func(r chi.Router) {
		r.Post("/otp", authHandler.SendSignupOTP)
		r.Post("/signup", authHandler.Signup)
		r.Post("/signin", authHandler.Signin)
		r.Post("/forgot-password/otp", authHandler.SendPasswordResetOTP)
		r.Post("/forgot-password/reset", authHandler.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser)
			r.Get("/profile", authHandler.GetProfile)
			r.Patch("/profile", authHandler.UpdateProfile)
		})
	})

	router.Route("/api/team", func(r chi.Router) {
		r.Post("/otp", teamHandler.SendSignupOTP)
		r.Post("/apply", teamHandler.Apply)
		r.Post("/signin", teamHandler.Signin)

		// Детали команды доступны любому вошедшему аккаунту
		r.With(auth.RequireAny(middleware.RoleUser, middleware.RoleTeam, middleware.RoleAdmin)).
			Get("/{teamID}", teamHandler.GetDetails)

		// Маршруты только для аккаунта команды
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireTeam)
			r.Get("/", teamHandler.GetOwnDetails)
			r.Get("/search", teamHandler.SearchTeams)
			r.Get("/users/search", teamHandler.SearchUsers)
			r.Post("/players/invite", teamHandler.InvitePlayer)
			r.Post("/players", teamHandler.AddPlayer)
			r.Delete("/players/{playerID}", teamHandler.RemovePlayer)
		})
	})

	router.Route("/api/player", func(r chi.Router) {
		r.With(auth.RequireAny(middleware.RoleUser, middleware.RoleTeam, middleware.RoleAdmin)).
			Get("/{playerID}", playerHandler.GetDetails)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser)
			r.Get("/requests", playerHandler.ListOwnRequests)
			r.Post("/requests/{requestID}", playerHandler.ResolveRequest)
		})
	})

	router.Route("/api/official", func(r chi.Router) {
		r.Post("/otp", officialHandler.SendSignupOTP)
		r.Post("/apply", officialHandler.Apply)
		r.Post("/signin", officialHandler.Signin)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireOfficial)
			r.Get("/", officialHandler.GetOwn)
			r.Get("/matches", officialHandler.ListOwnMatches)
		})
	})

	router.Route("/api/match", func(r chi.Router) {
		// Публичные маршруты для просмотра матчей
		r.Get("/", matchHandler.List)
		r.Get("/{matchID}", matchHandler.GetDetails)

		// Маршруты только для судей
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireOfficial)
			r.Post("/", matchHandler.Create)
			r.Patch("/{matchID}/status", matchHandler.UpdateStatus)
			r.Post("/{matchID}/goals", matchHandler.RecordGoal)
			r.Post("/{matchID}/mvp", matchHandler.AssignMVP)
		})
	})

	router.Route("/api/posts", func(r chi.Router) {
		r.Get("/", postHandler.ListAll)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser)
			r.Post("/", postHandler.Create)
			r.Get("/mine", postHandler.ListOwn)
			r.Delete("/{postID}", postHandler.Delete)
			r.Post("/{postID}/like", postHandler.ToggleLike)
			r.Post("/{postID}/comments", postHandler.AddComment)
			r.Delete("/comments/{commentID}", postHandler.DeleteComment)
		})
	})

	router.Route("/api/admin", func(r chi.Router) {
		r.Post("/signup", adminHandler.Signup)
		r.Post("/signin", adminHandler.Signin)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Get("/team-requests", adminHandler.ListTeamRequests)
			r.Post("/team-requests/{requestID}", adminHandler.ResolveTeamRequest)
			r.Get("/official-requests", adminHandler.ListOfficialRequests)
			r.Post("/official-requests/{requestID}", adminHandler.ResolveOfficialRequest)
			r.Get("/teams", adminHandler.ListTeams)
			r.Get("/teams/{teamID}", adminHandler.GetTeamDetails)
			r.Get("/users", adminHandler.ListUsers)
			r.Get("/users/free-agents", adminHandler.ListUsersWithoutTeam)
			r.Get("/officials", adminHandler.ListOfficials)
			r.Get("/counts", adminHandler.GetCounts)
			r.Delete("/users/{userID}", adminHandler.DeleteUser)
			r.Delete("/teams/{teamID}", adminHandler.DeleteTeam)
			r.Delete("/officials/{officialID}", adminHandler.DeleteOfficial)
			r.Delete("/posts/{postID}", adminHandler.DeletePost)
		})
	})

	router.Get("/ws/matches/{matchID}", webSocketHandler.ServeWs)
}
