// internal/app/features/approvals/routes.go
package approvals

import (
	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin))

		pr.Get("/", h.ServeList)
		pr.Post("/{tab}/{id}/approve", h.HandleApprove)
		pr.Post("/{tab}/{id}/reject", h.HandleReject)
	})

	return r
}
