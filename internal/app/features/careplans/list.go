// internal/app/features/careplans/list.go
package careplans

import (
	"context"
	"net/http"
	"sort"

	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /careplans                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	plans, err := h.CarePlans.GetAll(ctx)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "list care plans failed", err, "/")
		return
	}

	data := listData{BaseVM: viewdata.NewBaseVM(r, "Gói chăm sóc", "/careplans")}
	data.Main, data.Supplementary = splitByCategory(plans)
	data.Flash = h.SessionMgr.PopFlash(w, r)

	templates.Render(w, r, "careplans_list", data)
}

// splitByCategory separates main and supplementary plans, each by price.
func splitByCategory(plans []models.CarePlan) (main, supplementary []models.CarePlan) {
	for _, p := range plans {
		if p.Category == "supplementary" {
			supplementary = append(supplementary, p)
		} else {
			main = append(main, p)
		}
	}
	byPrice := func(list []models.CarePlan) {
		sort.SliceStable(list, func(i, j int) bool { return list[i].MonthlyPrice < list[j].MonthlyPrice })
	}
	byPrice(main)
	byPrice(supplementary)
	return main, supplementary
}
