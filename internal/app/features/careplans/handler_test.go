package careplans

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/nurseryhome/internal/app/features/errors"
	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"go.uber.org/zap"
)

type fakePlans struct {
	created []models.CarePlan
}

func (f *fakePlans) GetAll(context.Context) ([]models.CarePlan, error) { return nil, nil }
func (f *fakePlans) Create(_ context.Context, p models.CarePlan) (models.CarePlan, error) {
	f.created = append(f.created, p)
	p.ID = "cp-new"
	return p, nil
}

func newTestHandler(t *testing.T, fp *fakePlans) *Handler {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only-32", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return NewHandler(fp, 2*time.Second, sm, uierrors.NewErrorLogger(logger), nil, logger)
}

func planForm() url.Values {
	return url.Values{
		"plan_name":         {"Chăm sóc cơ bản"},
		"description":       {"Chăm sóc hằng ngày cho người cao tuổi"},
		"monthly_price":     {"5.000.000"},
		"plan_type":         {"basic"},
		"category":          {"main"},
		"duration_type":     {"monthly"},
		"services_included": {"Ăn uống", " ", "Tắm rửa", "Khám định kỳ"},
	}
}

func post(h http.HandlerFunc, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/careplans/new", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "admin1", Role: models.RoleAdmin})
	rec := httptest.NewRecorder()
	func() {
		defer func() { _ = recover() }() // failure paths render without a booted engine
		h(rec, req)
	}()
	return rec
}

func TestHandleCreate_DropsBlankServiceRows(t *testing.T) {
	fp := &fakePlans{}
	h := newTestHandler(t, fp)

	rec := post(h.HandleCreate, planForm())

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/careplans/new" {
		t.Fatalf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if f := flashFrom(t, h.SessionMgr, rec); f == nil || f.NextURL != "/careplans" || f.Delay != 2*time.Second {
		t.Errorf("success page should move on to /careplans after the delay: %+v", f)
	}
	if len(fp.created) != 1 {
		t.Fatalf("created: %d", len(fp.created))
	}
	p := fp.created[0]
	if !reflect.DeepEqual(p.ServicesIncluded, []string{"Ăn uống", "Tắm rửa", "Khám định kỳ"}) {
		t.Errorf("services: %v", p.ServicesIncluded)
	}
	if p.MonthlyPrice != 5000000 {
		t.Errorf("price: got %v", p.MonthlyPrice)
	}
	if !p.IsActive {
		t.Error("new plans start active")
	}
}

func TestHandleCreate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(url.Values)
	}{
		{"duplicate services ignoring case", func(v url.Values) { v["services_included"] = []string{"Ăn uống", "ĂN UỐNG "} }},
		{"no services", func(v url.Values) { v["services_included"] = []string{" "} }},
		{"zero price", func(v url.Values) { v.Set("monthly_price", "0") }},
		{"unparsable price", func(v url.Values) { v.Set("monthly_price", "abc") }},
		{"unknown category", func(v url.Values) { v.Set("category", "vip") }},
		{"short name", func(v url.Values) { v.Set("plan_name", "ab") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := &fakePlans{}
			h := newTestHandler(t, fp)
			form := planForm()
			tt.mutate(form)

			rec := post(h.HandleCreate, form)

			if len(fp.created) != 0 {
				t.Error("backend should not be called")
			}
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("status: got %d", rec.Code)
			}
		})
	}
}

func TestSplitByCategory(t *testing.T) {
	plans := []models.CarePlan{
		{PlanName: "B", Category: "main", MonthlyPrice: 9},
		{PlanName: "S", Category: "supplementary", MonthlyPrice: 1},
		{PlanName: "A", Category: "main", MonthlyPrice: 3},
	}
	main, sup := splitByCategory(plans)
	if len(main) != 2 || main[0].PlanName != "A" || main[1].PlanName != "B" {
		t.Errorf("main: %+v", main)
	}
	if len(sup) != 1 || sup[0].PlanName != "S" {
		t.Errorf("supplementary: %+v", sup)
	}
}

// flashFrom replays the response cookies and pops the stored flash.
func flashFrom(t *testing.T, sm *auth.SessionManager, rec *httptest.ResponseRecorder) *auth.Flash {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return sm.PopFlash(httptest.NewRecorder(), req)
}
