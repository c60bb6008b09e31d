// internal/app/features/residents/delete.go
package residents

import (
	"context"
	"net/http"

	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| POST /residents/{id}/delete                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleDelete removes the resident record. The linked family account is
// a separate backend user and is left alone.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	name := r.FormValue("name")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Residents.Delete(ctx, id); err != nil {
		h.Log.Error("delete resident failed", zap.String("resident_id", id), zap.Error(err))
		h.flash(w, r, auth.Flash{
			Kind:    auth.FlashError,
			Title:   "Xóa cư dân thất bại",
			Message: "Không thể xóa cư dân. Vui lòng thử lại.",
		})
		http.Redirect(w, r, "/residents", http.StatusSeeOther)
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.ResidentDeleted(r.Context(), r, u.ID, id, name)
	}

	msg := "Cư dân đã được xóa khỏi danh sách."
	if name != "" {
		msg = "Cư dân " + name + " đã được xóa khỏi danh sách."
	}
	h.flash(w, r, auth.Flash{Kind: auth.FlashSuccess, Title: "Đã xóa cư dân", Message: msg})
	http.Redirect(w, r, "/residents", http.StatusSeeOther)
}

func (h *Handler) flash(w http.ResponseWriter, r *http.Request, f auth.Flash) {
	if err := h.SessionMgr.SetFlash(w, r, f); err != nil {
		h.Log.Warn("set flash failed", zap.Error(err))
	}
}
