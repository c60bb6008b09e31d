// internal/app/features/approvals/list.go
package approvals

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/nurseryhome/internal/app/system/approval"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /approvals?tab=users|residents                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	snap, err := h.Service.Load(ctx)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "load approval queue failed", err, "/")
		return
	}

	tab := approval.ParseTab(query.Get(r, "tab"))
	data := buildListData(snap, tab, time.Now())
	data.BaseVM = viewdata.NewBaseVM(r, "Phê duyệt", "/approvals")
	data.Flash = h.SessionMgr.PopFlash(w, r)

	templates.Render(w, r, "approvals_list", data)
}

// buildListData flattens a snapshot into display rows.
func buildListData(snap *approval.Snapshot, tab approval.Tab, now time.Time) listData {
	data := listData{
		Tab:           string(tab),
		UserCount:     len(snap.Users),
		ResidentCount: len(snap.Residents),
		Conflicts:     snap.Index.Conflicts,
	}

	for _, u := range snap.Users {
		data.Users = append(data.Users, userRow{
			ID:       u.ID,
			FullName: u.FullName,
			Username: u.Username,
			Email:    u.Email,
			Phone:    u.Phone,
		})
	}

	for _, row := range snap.ResidentRows() {
		res := row.Resident
		rr := residentRow{
			ID:       res.ID,
			FullName: res.FullName,
			CCCDID:   res.CCCDID,
			Age:      res.AgeAt(now),
		}
		if fam := res.FamilyMemberID.Doc; fam != nil {
			rr.FamilyName = fam.FullName
		}
		if cp := row.CarePlan; cp != nil {
			rr.HasCarePlan = true
			rr.MonthlyCost = cp.TotalMonthlyCost
			for _, ref := range cp.CarePlanIDs {
				if ref.Doc != nil {
					rr.CarePlanNames = append(rr.CarePlanNames, ref.Doc.PlanName)
				}
			}
		}
		if bed := row.Bed; bed != nil {
			rr.HasBed = true
			rr.BedLabel = bedLabel(bed.BedID.Doc)
		}
		data.Residents = append(data.Residents, rr)
	}
	return data
}
