// internal/app/features/residents/view.go
package residents

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/nurseryhome/internal/app/system/authz"
	"github.com/dalemusser/nurseryhome/internal/app/system/navigation"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /residents/{id}                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res, err := h.Residents.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "load resident failed", err, "/residents", zap.String("resident_id", id))
		return
	}

	data := viewData{
		BaseVM:    viewdata.NewBaseVM(r, res.FullName, "/residents"),
		Resident:  res,
		Row:       toRow(res, h.Rooms.Resolve(ctx, id), time.Now()),
		CanDelete: authz.CanDeleteResidents(r),
	}
	data.BackURL = navigation.SafeBackURL(r, navigation.ResidentsBackURL)

	// Care plans are informational here; a failed lookup leaves the section empty.
	if plans, err := h.CarePlans.GetByResidentID(ctx, id); err != nil {
		h.Log.Warn("care plan lookup failed", zap.String("resident_id", id), zap.Error(err))
	} else {
		for _, a := range plans {
			line := carePlanLine{MonthlyCost: a.TotalMonthlyCost, Status: a.Status}
			for _, ref := range a.CarePlanIDs {
				if ref.Doc != nil {
					line.Names = append(line.Names, ref.Doc.PlanName)
				}
			}
			data.CarePlans = append(data.CarePlans, line)
		}
	}

	templates.Render(w, r, "resident_view", data)
}
