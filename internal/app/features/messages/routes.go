// internal/app/features/messages/routes.go
package messages

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

		pr.Get("/", h.ServeInbox)
		pr.Post("/open", h.HandleOpen)
		pr.Post("/send", h.HandleStaffSend)
	})

	return r
}

// FamilyRoutes is mounted at /family/messages.
func FamilyRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleFamily))

		pr.Get("/", h.ServeFamily)
		pr.Post("/read", h.HandleFamilyRead)
		pr.Post("/send", h.HandleFamilySend)
	})

	return r
}
