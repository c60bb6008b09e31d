// internal/app/features/careplans/new.go
package careplans

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/app/system/formutil"
	"github.com/dalemusser/nurseryhome/internal/app/system/inputval"
	"github.com/dalemusser/nurseryhome/internal/app/system/normalize"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /careplans/new                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	data := newFormData(r, inputval.CarePlanForm{Category: "main", DurationType: "monthly"}, "")
	data.Flash = h.SessionMgr.PopFlash(w, r)
	templates.Render(w, r, "careplan_new", &data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /careplans/new                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleCreate reads a plan with a variable number of service rows. Every
// row posts as services_included; blank rows are dropped.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Dữ liệu không hợp lệ.", "/careplans/new")
		return
	}

	form := inputval.CarePlanForm{
		PlanName:         normalize.Name(r.FormValue("plan_name")),
		Description:      strings.TrimSpace(r.FormValue("description")),
		MonthlyPrice:     formutil.Float(r, "monthly_price"),
		PlanType:         strings.TrimSpace(r.FormValue("plan_type")),
		Category:         normalize.Status(r.FormValue("category")),
		ServicesIncluded: formutil.Strings(r, "services_included"),
		StaffRatio:       strings.TrimSpace(r.FormValue("staff_ratio")),
		DurationType:     normalize.Status(r.FormValue("duration_type")),
	}

	if res := inputval.Validate(form); res.HasErrors() {
		data := newFormData(r, form, r.FormValue("monthly_price"))
		data.SetErrors(res)
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.Render(w, r, "careplan_new", &data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.CarePlans.Create(ctx, toPlan(form))
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "create care plan failed", err, "/careplans/new",
			zap.String("plan_name", form.PlanName))
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.CarePlanCreated(r.Context(), r, u.ID, created.ID, form.PlanName)
	}
	if err := h.SessionMgr.SetFlash(w, r, auth.Flash{
		Kind:    auth.FlashSuccess,
		Title:   "Tạo gói chăm sóc thành công!",
		Message: "Gói " + form.PlanName + " đã được thêm.",
		NextURL: "/careplans",
		Delay:   h.PostActionDelay,
	}); err != nil {
		h.Log.Warn("set flash failed", zap.Error(err))
	}
	http.Redirect(w, r, "/careplans/new", http.StatusSeeOther)
}

func newFormData(r *http.Request, form inputval.CarePlanForm, priceInput string) formData {
	services := form.ServicesIncluded
	if len(services) == 0 {
		services = []string{""}
	}
	data := formData{
		Form:       form,
		PriceInput: priceInput,
		Services:   services,
		Categories: categoryOptions,
		Durations:  durationOptions,
	}
	formutil.SetBase(&data.Base, r, "Tạo gói chăm sóc", "/careplans")
	return data
}

func toPlan(f inputval.CarePlanForm) models.CarePlan {
	return models.CarePlan{
		PlanName:         f.PlanName,
		Description:      f.Description,
		MonthlyPrice:     f.MonthlyPrice,
		PlanType:         f.PlanType,
		Category:         f.Category,
		ServicesIncluded: f.ServicesIncluded,
		StaffRatio:       f.StaffRatio,
		DurationType:     f.DurationType,
		IsActive:         true,
	}
}
