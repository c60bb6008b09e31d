// internal/app/features/finance/list.go
package finance

import (
	"context"
	"net/http"
	"net/url"
	"time"

	financialreportstore "github.com/dalemusser/nurseryhome/internal/app/store/financialreports"
	"github.com/dalemusser/nurseryhome/internal/app/system/authz"
	"github.com/dalemusser/nurseryhome/internal/app/system/normalize"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /finance?residentId=                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	residentID := normalize.QueryParam(query.Get(r, "residentId"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := listData{
		BaseVM:     viewdata.NewBaseVM(r, "Tài chính", "/residents"),
		ResidentID: residentID,
		CanEdit:    authz.IsAdmin(r),
	}
	data.Flash = h.SessionMgr.PopFlash(w, r)

	if residentID == "" {
		all, err := h.Residents.GetAll(ctx)
		if err != nil {
			h.ErrLog.LogBackendError(w, r, "load residents failed", err, "/residents")
			return
		}
		data.Residents = all
		templates.Render(w, r, "finance_list", data)
		return
	}

	res, err := h.Residents.GetByID(ctx, residentID)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "load resident failed", err, "/finance", zap.String("resident_id", residentID))
		return
	}
	reports, err := h.Reports.ListByResident(ctx, residentID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list financial reports failed", err,
			"Không thể tải báo cáo tài chính.", "/residents/"+residentID, zap.String("resident_id", residentID))
		return
	}

	data.ResidentName = res.FullName
	data.BackURL = "/residents/" + residentID
	data.Reports, data.Outstanding = toRows(reports, time.Now())
	templates.Render(w, r, "finance_list", data)
}

// toRows also totals what is still unpaid.
func toRows(reports []models.FinancialReport, now time.Time) ([]reportRow, float64) {
	rows := make([]reportRow, 0, len(reports))
	var outstanding float64
	for _, rep := range reports {
		row := reportRow{
			ID:          rep.ID.Hex(),
			Title:       rep.Title,
			Amount:      rep.Amount,
			PeriodStart: rep.PeriodStart,
			PeriodEnd:   rep.PeriodEnd,
			DueDate:     rep.DueDate,
			Status:      rep.Status,
			StatusLabel: statusLabels[rep.Status],
			Notes:       rep.Notes,
		}
		switch rep.Status {
		case financialreportstore.StatusUnpaid:
			outstanding += rep.Amount
			row.Overdue = !rep.DueDate.IsZero() && now.After(rep.DueDate.Add(24*time.Hour))
		case financialreportstore.StatusPaid:
			row.DaysUsed = daysUsed(rep.PeriodStart, rep.PeriodEnd, now)
			row.Refund = models.RefundEstimate(rep.Amount, row.DaysUsed, rep.MonthlyPrice)
		}
		rows = append(rows, row)
	}
	return rows, outstanding
}

// daysUsed counts whole days from start up to now, capped at the period end.
func daysUsed(start, end, now time.Time) int {
	if start.IsZero() || now.Before(start) {
		return 0
	}
	if !end.IsZero() && now.After(end) {
		now = end
	}
	return int(now.Sub(start).Hours() / 24)
}

func listURL(residentID string) string {
	return "/finance?residentId=" + url.QueryEscape(residentID)
}
