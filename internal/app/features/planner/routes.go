package planner

import "github.com/go-chi/chi/v5"

// Routes returns the planner router, mounted under /planner.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeRoles)

	r.Route("/{role}", func(r chi.Router) {
		r.Get("/", h.ServeCompetencies)
		r.Post("/", h.HandleCompetencies)

		r.Get("/recommendation", h.ServeCourses)
		r.Post("/recommendation", h.HandleCourses)

		r.Get("/summary", h.ServeSummary)
		r.Get("/summary/print", h.ServePrint)
		r.Post("/summary/pdf", h.HandleExport)
	})
	return r
}
