package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Get("/health", h.Health)

		// Protected routes (auth required)
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(h.apiKey))

			r.Route("/programs", func(r chi.Router) {
				r.Get("/", h.ListPrograms)
				r.Post("/", h.CreateProgram)
				r.Get("/{id}", h.GetProgram)
				r.Put("/{id}", h.PutProgram)
				r.Delete("/{id}", h.DeleteProgram)
			})

			r.Route("/forms", func(r chi.Router) {
				r.Get("/", h.ListForms)
				r.Post("/", h.CreateForm)
				r.Get("/{id}", h.GetForm)
				r.Put("/{id}", h.PutForm)
				r.Delete("/{id}", h.DeleteForm)
			})

			r.Route("/ctas", func(r chi.Router) {
				r.Get("/", h.ListCTAs)
				r.Post("/", h.CreateCTA)
				r.Get("/{id}", h.GetCTA)
				r.Put("/{id}", h.PutCTA)
				r.Delete("/{id}", h.DeleteCTA)
			})

			r.Route("/branches", func(r chi.Router) {
				r.Get("/", h.ListBranches)
				r.Post("/", h.CreateBranch)
				r.Get("/{id}", h.GetBranch)
				r.Put("/{id}", h.PutBranch)
				r.Delete("/{id}", h.DeleteBranch)
			})

			r.Post("/validate", h.Validate)
			r.Get("/validate/checklist", h.Checklist)
			r.Get("/dependencies", h.Dependencies)
			r.Get("/impact/{type}/{id}", h.Impact)
			r.Post("/deploy", h.Deploy)
			r.Post("/suggest", h.Suggest)
		})
	})

	return r
}
