package server

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rbessin/Momentm/internal/config"
	"github.com/rbessin/Momentm/internal/handlers"
	"github.com/rbessin/Momentm/internal/middleware"
	"github.com/rbessin/Momentm/internal/repository"
	"github.com/rbessin/Momentm/internal/services"
)

type Server struct {
	router *chi.Mux
	config config.Config
}

func New(database *sql.DB, cfg config.Config, authService *services.AuthService) *Server {
	userRepo := repository.NewUserRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	habitRepo := repository.NewHabitRepository(database)
	completionRepo := repository.NewCompletionRepository(database)
	tokenRepo := repository.NewAPITokenRepository(database)

	habitService := services.NewHabitService(habitRepo, completionRepo)

	authHandler := handlers.NewAuthHandler(authService)
	habitHandler := handlers.NewHabitHandler(habitRepo, categoryRepo)
	completionHandler := handlers.NewCompletionHandler(completionRepo, habitService)
	statsHandler := handlers.NewStatsHandler(habitService)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo)
	tokenHandler := handlers.NewTokenHandler(tokenRepo)
	icalHandler := handlers.NewICalHandler(habitService)

	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Get("/login", authHandler.Login)
	router.Get("/auth/callback", authHandler.Callback)
	router.Get("/logout", authHandler.Logout)

	router.Group(func(r chi.Router) {
		r.Use(middleware.TokenQueryAuth(tokenRepo, userRepo))

		r.Get("/ical", icalHandler.Feed)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(authService, tokenRepo, userRepo))

		r.Get("/api/me", authHandler.Me)

		r.Get("/api/habits", habitHandler.List)
		r.Post("/api/habits", habitHandler.Create)
		r.Get("/api/habits/{id}", habitHandler.Get)
		r.Put("/api/habits/{id}", habitHandler.Update)
		r.Delete("/api/habits/{id}", habitHandler.Delete)
		r.Post("/api/habits/{id}/archive", habitHandler.Archive)
		r.Post("/api/habits/{id}/unarchive", habitHandler.Unarchive)

		r.Get("/api/habits/{id}/completions", completionHandler.ListForHabit)
		r.Post("/api/habits/{id}/completions", completionHandler.Create)
		r.Put("/api/completions/{id}", completionHandler.Update)
		r.Delete("/api/completions/{id}", completionHandler.Delete)

		r.Get("/api/habits/{id}/stats", statsHandler.HabitStats)
		r.Get("/api/habits/{id}/schedule", statsHandler.HabitSchedule)
		r.Get("/api/dashboard", statsHandler.Dashboard)

		r.Get("/api/categories", categoryHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Post("/api/categories", categoryHandler.Create)
			r.Put("/api/categories/{id}", categoryHandler.Update)
			r.Delete("/api/categories/{id}", categoryHandler.Delete)

			r.Get("/api/tokens", tokenHandler.List)
			r.Post("/api/tokens", tokenHandler.Create)
			r.Delete("/api/tokens/{id}", tokenHandler.Delete)
		})
	})

	return &Server{
		router: router,
		config: cfg,
	}
}

func (server *Server) Start() error {
	address := ":" + server.config.Port
	slog.Info("starting server", "address", address)
	return http.ListenAndServe(address, server.router)
}
