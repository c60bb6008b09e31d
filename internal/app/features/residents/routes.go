// internal/app/features/residents/routes.go
package residents

import (
	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes serves the staff roster, mounted at /residents.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin, models.RoleStaff))

		pr.Get("/", h.ServeList)
		pr.Get("/export.xlsx", h.ServeExport)
		pr.Get("/{id}", h.ServeView)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin))

		pr.Post("/{id}/delete", h.HandleDelete)
	})

	return r
}

// FamilyRoutes serves a family member's own residents, mounted at /family/residents.
func FamilyRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleFamily))

		pr.Get("/", h.ServeFamily)
	})

	return r
}
