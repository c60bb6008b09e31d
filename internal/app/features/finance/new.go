// internal/app/features/finance/new.go
package finance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/app/system/formutil"
	"github.com/dalemusser/nurseryhome/internal/app/system/inputval"
	"github.com/dalemusser/nurseryhome/internal/app/system/normalize"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /finance/new?residentId=                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeNew is where a resident approval lands. The form is prefilled with
// the first month and the resident's care-plan price.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	residentID := normalize.QueryParam(query.Get(r, "residentId"))
	if residentID == "" {
		http.Redirect(w, r, "/finance", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res, err := h.Residents.GetByID(ctx, residentID)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "load resident failed", err, "/finance", zap.String("resident_id", residentID))
		return
	}

	var price float64
	if plans, err := h.CarePlans.GetByResidentID(ctx, residentID); err != nil {
		h.Log.Warn("care plan lookup failed", zap.String("resident_id", residentID), zap.Error(err))
	} else {
		price = monthlyPrice(plans)
	}

	data := newFormData(r, prefill(residentID, price, time.Now()), res.FullName)
	data.Flash = h.SessionMgr.PopFlash(w, r)
	templates.Render(w, r, "finance_new", &data)
}

// monthlyPrice is the cost of the approved assignment, falling back to the
// first one with a price.
func monthlyPrice(plans []models.CarePlanAssignment) float64 {
	var fallback float64
	for _, a := range plans {
		if a.TotalMonthlyCost <= 0 {
			continue
		}
		if a.Status == models.StatusApproved || a.Status == models.StatusActive {
			return a.TotalMonthlyCost
		}
		if fallback == 0 {
			fallback = a.TotalMonthlyCost
		}
	}
	return fallback
}

func prefill(residentID string, price float64, now time.Time) inputval.FinancialReportForm {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, -1)
	return inputval.FinancialReportForm{
		ResidentID:   residentID,
		Title:        fmt.Sprintf("Phí chăm sóc tháng %02d/%d", start.Month(), start.Year()),
		Amount:       price,
		MonthlyPrice: price,
		PeriodStart:  start.Format(dateLayout),
		PeriodEnd:    end.Format(dateLayout),
		DueDate:      start.AddDate(0, 0, 7).Format(dateLayout),
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /finance/new                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Dữ liệu không hợp lệ.", "/finance")
		return
	}

	form := inputval.FinancialReportForm{
		ResidentID:   strings.TrimSpace(r.FormValue("resident_id")),
		Title:        strings.TrimSpace(r.FormValue("title")),
		Amount:       formutil.Float(r, "amount"),
		MonthlyPrice: formutil.Float(r, "monthly_price"),
		PeriodStart:  strings.TrimSpace(r.FormValue("period_start")),
		PeriodEnd:    strings.TrimSpace(r.FormValue("period_end")),
		DueDate:      strings.TrimSpace(r.FormValue("due_date")),
		Notes:        strings.TrimSpace(r.FormValue("notes")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Residents.GetByID(ctx, form.ResidentID)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "load resident failed", err, "/finance", zap.String("resident_id", form.ResidentID))
		return
	}

	v := inputval.Validate(form)
	start, _ := time.Parse(dateLayout, form.PeriodStart)
	end, _ := time.Parse(dateLayout, form.PeriodEnd)
	due, _ := time.Parse(dateLayout, form.DueDate)
	if v.Get("period_end") == "" && !start.IsZero() && end.Before(start) {
		v.Add("period_end", "Đến ngày phải sau hoặc bằng Từ ngày")
	}
	if v.HasErrors() {
		data := newFormData(r, form, res.FullName)
		data.AmountInput = r.FormValue("amount")
		data.PriceInput = r.FormValue("monthly_price")
		data.SetErrors(v)
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.Render(w, r, "finance_new", &data)
		return
	}

	rep := models.FinancialReport{
		ResidentID:   form.ResidentID,
		ResidentName: res.FullName,
		Title:        form.Title,
		Amount:       form.Amount,
		MonthlyPrice: form.MonthlyPrice,
		PeriodStart:  start,
		PeriodEnd:    end,
		DueDate:      due,
		Notes:        form.Notes,
	}
	u, _ := auth.CurrentUser(r)
	if u != nil {
		rep.CreatedByID = u.ID
		rep.CreatedByName = u.Name
	}

	created, err := h.Reports.Create(ctx, rep)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create financial report failed", err,
			"Không thể lưu báo cáo tài chính.", listURL(form.ResidentID), zap.String("resident_id", form.ResidentID))
		return
	}

	if u != nil {
		h.AuditLog.FinancialReportCreated(r.Context(), r, u.ID, form.ResidentID, created.ID.Hex())
	}
	h.flash(w, r, auth.Flash{
		Kind:    auth.FlashSuccess,
		Title:   "Đã tạo báo cáo tài chính",
		Message: form.Title + " cho " + res.FullName + ".",
		NextURL: listURL(form.ResidentID),
		Delay:   h.PostActionDelay,
	})
	http.Redirect(w, r, "/finance/new?residentId="+url.QueryEscape(form.ResidentID), http.StatusSeeOther)
}

func (h *Handler) flash(w http.ResponseWriter, r *http.Request, f auth.Flash) {
	if err := h.SessionMgr.SetFlash(w, r, f); err != nil {
		h.Log.Warn("set flash failed", zap.Error(err))
	}
}

func newFormData(r *http.Request, form inputval.FinancialReportForm, residentName string) formData {
	data := formData{ResidentName: residentName, Form: form}
	formutil.SetBase(&data.Base, r, "Tạo báo cáo tài chính", listURL(form.ResidentID))
	return data
}
