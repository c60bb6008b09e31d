// internal/app/features/users/list.go
package users

import (
	"context"
	"net/http"

	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"golang.org/x/sync/errgroup"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /users                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeList shows active accounts grouped by role.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups := make([]roleGroup, len(roleOptions))
	g, gctx := errgroup.WithContext(ctx)
	for i, opt := range roleOptions {
		groups[i] = roleGroup{Role: opt.Value, Label: opt.Label}
		g.Go(func() error {
			list, err := h.Users.GetByRoleWithStatus(gctx, opt.Value, models.UserActive)
			groups[i].Users = list
			return err
		})
	}
	if err := g.Wait(); err != nil {
		h.ErrLog.LogBackendError(w, r, "list users failed", err, "/")
		return
	}

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Tài khoản", "/users"),
		Groups: groups,
	}
	data.Flash = h.SessionMgr.PopFlash(w, r)

	templates.Render(w, r, "users_list", data)
}
