package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts the public and authenticated API routes under /api
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, loginLimit func(http.Handler) http.Handler) {
	r.Handle("/metrics", metricsHandler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.healthHandler.health())

		// Public routes
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
		r.Get("/skills", handlers.skillHandler.getAllSkills())
		r.Get("/skills/{skillID}", handlers.skillHandler.getSkill())
		r.Get("/cloudinary-config", handlers.cloudinaryHandler.getConfig())
		r.With(loginLimit).Post("/users/login", handlers.userHandler.login())
		r.Post("/users/logout", handlers.userHandler.logout())

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Get("/users/verify", handlers.userHandler.verify())

			r.Post("/projects", handlers.projectHandler.createProject())
			r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
			r.Delete("/projects/{projectID}", handlers.projectHandler.deleteProject())

			r.Post("/skills", handlers.skillHandler.createSkill())
			r.Put("/skills/{skillID}", handlers.skillHandler.updateSkill())
			r.Delete("/skills/{skillID}", handlers.skillHandler.deleteSkill())

			r.Post("/cloudinary-signature", handlers.cloudinaryHandler.sign())
		})
	})
}
