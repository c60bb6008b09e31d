// internal/app/features/residents/list.go
package residents

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/nurseryhome/internal/app/system/authz"
	"github.com/dalemusser/nurseryhome/internal/app/system/normalize"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /residents?q=                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	all, err := h.Residents.GetAll(ctx)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "list residents failed", err, "/")
		return
	}

	q := normalize.QueryParam(query.Get(r, "q"))
	list := filterResidents(all, q)

	data := listData{
		BaseVM:    viewdata.NewBaseVM(r, "Danh sách cư dân", "/residents"),
		Query:     q,
		Rows:      h.buildRows(ctx, list, time.Now()),
		Total:     len(all),
		CanDelete: authz.CanDeleteResidents(r),
	}
	data.Flash = h.SessionMgr.PopFlash(w, r)

	templates.Render(w, r, "residents_list", data)
}
