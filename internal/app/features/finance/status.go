// internal/app/features/finance/status.go
package finance

import (
	"context"
	"errors"
	"net/http"

	financialreportstore "github.com/dalemusser/nurseryhome/internal/app/store/financialreports"
	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/app/system/normalize"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| POST /finance/{id}/status                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	residentID := r.FormValue("resident_id")
	back := listURL(residentID)

	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad report id", err, "Báo cáo không hợp lệ.", back)
		return
	}
	status := normalize.Status(r.FormValue("status"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Reports.SetStatus(ctx, oid, status)
	switch {
	case err == nil:
		h.flash(w, r, auth.Flash{Kind: auth.FlashSuccess, Title: "Đã cập nhật trạng thái", Message: statusLabels[status]})
	case errors.Is(err, financialreportstore.ErrNotFound):
		h.flash(w, r, auth.Flash{Kind: auth.FlashError, Title: "Không tìm thấy báo cáo"})
	case errors.Is(err, financialreportstore.ErrInvalid):
		h.flash(w, r, auth.Flash{Kind: auth.FlashWarning, Title: "Trạng thái không hợp lệ"})
	default:
		h.Log.Error("set report status failed", zap.String("report_id", oid.Hex()), zap.Error(err))
		h.flash(w, r, auth.Flash{Kind: auth.FlashError, Title: "Cập nhật thất bại", Message: "Vui lòng thử lại."})
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
