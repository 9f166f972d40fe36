package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/elearning/internal/core/domain"
)

type RouterConfig struct {
	AllowedOrigins []string
}

func NewHandler(authHandler *AuthHandler, userHandler *UserHandler, mw *Middleware, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, envelope{"message": "API is working"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/activate-user", authHandler.Activate)
		r.Post("/login", authHandler.Login)
		r.Post("/social-auth", authHandler.SocialAuth)

		r.With(mw.RequireAuth).Get("/logout", authHandler.Logout)
		r.With(mw.RefreshSession).Get("/refresh-token", authHandler.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(mw.RefreshSession, mw.RequireAuth)

			r.Get("/me", userHandler.GetMe)
			r.Put("/update-user", userHandler.UpdateProfile)
			r.Put("/update-password", userHandler.UpdatePassword)
			r.Put("/update-avatar", userHandler.UpdateAvatar)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(domain.RoleAdmin))

				r.Get("/get-users", userHandler.ListUsers)
				r.Put("/update-user-role", userHandler.UpdateRole)
				r.Delete("/delete-user/{id}", userHandler.DeleteUser)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, fmt.Sprintf("Route %s not found", r.URL.Path))
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return corsHandler.Handler(r)
}
