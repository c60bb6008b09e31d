// internal/app/features/approvals/actions.go
package approvals

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dalemusser/nurseryhome/internal/app/system/approval"
	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| POST /approvals/{tab}/{id}/approve                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, true)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /approvals/{tab}/{id}/reject                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleReject reads the reason from the form. A form without a "reason"
// field means the admin dismissed the prompt; an empty reason is allowed.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, false)
}

func (h *Handler) act(w http.ResponseWriter, r *http.Request, approve bool) {
	tab := approval.ParseTab(chi.URLParam(r, "tab"))
	id := chi.URLParam(r, "id")
	back := listURL(tab)

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Dữ liệu không hợp lệ.", back)
		return
	}
	if id == "" {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	var reason *string
	if !approve {
		if vals, ok := r.PostForm["reason"]; ok {
			text := ""
			if len(vals) > 0 {
				text = vals[0]
			}
			reason = &text
		} else {
			// Cancelled prompt: nothing to call, nothing to report.
			http.Redirect(w, r, back, http.StatusSeeOther)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	// Resident actions cascade through the pending assignments, which come
	// from a fresh snapshot. User actions need no index.
	var snap *approval.Snapshot
	if tab == approval.TabResidents {
		var err error
		snap, err = h.Service.Load(ctx)
		if err != nil {
			h.Log.Error("load approval queue failed", zap.Error(err), zap.String("resident_id", id))
			h.flash(w, r, auth.Flash{
				Kind:    auth.FlashError,
				Title:   "Không tải được danh sách chờ duyệt",
				Message: "Máy chủ dữ liệu đang gặp sự cố. Vui lòng thử lại sau.",
			})
			http.Redirect(w, r, back, http.StatusSeeOther)
			return
		}
	}

	var out approval.Outcome
	var err error
	if approve {
		out, err = h.Service.Approve(ctx, snap, tab, id)
	} else {
		out, err = h.Service.Reject(ctx, snap, tab, id, reason)
	}
	if errors.Is(err, approval.ErrBusy) {
		h.flash(w, r, auth.Flash{
			Kind:    auth.FlashWarning,
			Title:   "Đang xử lý",
			Message: "Yêu cầu cho hồ sơ này đang được xử lý. Vui lòng đợi trong giây lát.",
		})
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if out.Kind == approval.Cancelled {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.Approval(r.Context(), r, u.ID, approve, out)
	}

	h.flash(w, r, h.flashFor(out))
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// flashFor turns an outcome into the modal shown on the list page.
func (h *Handler) flashFor(out approval.Outcome) auth.Flash {
	f := auth.Flash{Title: out.Title, Message: out.Detail}
	switch out.Kind {
	case approval.FullSuccess:
		f.Kind = auth.FlashSuccess
	case approval.PartialSuccess:
		f.Kind = auth.FlashWarning
	default:
		f.Kind = auth.FlashError
	}
	if out.Succeeded() && out.NextURL != "" {
		f.NextURL = out.NextURL
		f.Delay = h.PostActionDelay
	}
	return f
}

func (h *Handler) flash(w http.ResponseWriter, r *http.Request, f auth.Flash) {
	if err := h.SessionMgr.SetFlash(w, r, f); err != nil {
		h.Log.Warn("set flash failed", zap.Error(err))
	}
}

func listURL(tab approval.Tab) string {
	return "/approvals?tab=" + url.QueryEscape(string(tab))
}

func bedLabel(bed *models.Bed) string {
	if bed == nil {
		return "Đã chọn giường"
	}
	label := "Giường " + bed.BedNumber
	if room := bed.RoomID.Doc; room != nil && room.RoomNumber != "" {
		label += " - Phòng " + room.RoomNumber
	}
	return label
}
