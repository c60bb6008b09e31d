// internal/app/features/photos/gallery.go
package photos

import (
	"context"
	"net/http"

	"github.com/dalemusser/nurseryhome/internal/app/system/authz"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /photos                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeGallery(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ps, err := h.Photos.ListRecent(ctx, recentLimit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list photos failed", err, "Không thể tải hình ảnh.", "/residents")
		return
	}

	data := galleryData{
		BaseVM:  viewdata.NewBaseVM(r, "Hình ảnh hoạt động", "/residents"),
		Photos:  cards(ps, "/photos"),
		CanPost: true,
	}
	data.Flash = h.SessionMgr.PopFlash(w, r)
	templates.Render(w, r, "photos_gallery", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /family/photos                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeFamily shows photos of every resident linked to the signed-in family
// member.
func (h *Handler) ServeFamily(w http.ResponseWriter, r *http.Request) {
	_, _, familyID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	residents, err := h.Residents.GetByFamilyMemberID(ctx, familyID)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "load family residents failed", err, "/family/residents",
			zap.String("family_id", familyID))
		return
	}

	ps, err := h.Photos.ListByResidents(ctx, residentIDs(residents))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list family photos failed", err, "Không thể tải hình ảnh.", "/family/residents")
		return
	}

	data := galleryData{
		BaseVM: viewdata.NewBaseVM(r, "Hình ảnh người thân", "/family/residents"),
		Photos: cards(ps, "/family/photos"),
	}
	data.Flash = h.SessionMgr.PopFlash(w, r)
	templates.Render(w, r, "photos_gallery", data)
}

func residentIDs(rs []models.Resident) []string {
	ids := make([]string, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.ID)
	}
	return ids
}

// cards points each image at the access-checked file route under base.
func cards(ps []models.Photo, base string) []photoCard {
	out := make([]photoCard, 0, len(ps))
	for _, p := range ps {
		out = append(out, photoCard{
			URL:          base + "/" + p.ID.Hex() + "/file",
			Caption:      p.Caption,
			Activity:     activityLabel(p.ActivityType),
			ResidentName: p.ResidentName,
			UploadedBy:   p.UploadedByName,
			CreatedAt:    p.CreatedAt,
		})
	}
	return out
}
