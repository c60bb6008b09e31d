// internal/app/features/photos/routes.go
package photos

import (
	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin, models.RoleStaff))

		pr.Get("/", h.ServeGallery)
		pr.Get("/upload", h.ServeUpload)
		pr.Post("/upload", h.HandleUpload)
		pr.Get("/{photoID}/file", h.ServePhoto)
	})

	return r
}

// FamilyRoutes is mounted at /family/photos.
func FamilyRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleFamily))

		pr.Get("/", h.ServeFamily)
		pr.Get("/{photoID}/file", h.ServePhoto)
	})

	return r
}
