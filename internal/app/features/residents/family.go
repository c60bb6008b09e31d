// internal/app/features/residents/family.go
package residents

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /family/residents                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeFamily lists the residents linked to the signed-in family member.
func (h *Handler) ServeFamily(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Residents.GetByFamilyMemberID(ctx, u.ID)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "list family residents failed", err, "/family/messages")
		return
	}

	data := familyData{
		BaseVM: viewdata.NewBaseVM(r, "Người thân của tôi", "/family/residents"),
		Rows:   h.buildRows(ctx, list, time.Now()),
	}
	data.Flash = h.SessionMgr.PopFlash(w, r)

	templates.Render(w, r, "residents_family", data)
}
