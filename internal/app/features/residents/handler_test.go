package residents

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/nurseryhome/internal/app/features/errors"
	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/app/system/roomresolve"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/nurseryhome/internal/testutil"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type fakeResidents struct {
	all       []models.Resident
	deleted   []string
	deleteErr error
}

func (f *fakeResidents) GetAll(context.Context) ([]models.Resident, error) { return f.all, nil }
func (f *fakeResidents) GetByID(_ context.Context, id string) (models.Resident, error) {
	for _, r := range f.all {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Resident{}, errors.New("not found")
}
func (f *fakeResidents) GetByFamilyMemberID(_ context.Context, familyID string) ([]models.Resident, error) {
	var out []models.Resident
	for _, r := range f.all {
		if r.FamilyMemberID.ID() == familyID {
			out = append(out, r)
		}
	}
	return out, nil
}
func (f *fakeResidents) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type noPlans struct{}

func (noPlans) GetByResidentID(context.Context, string) ([]models.CarePlanAssignment, error) {
	return nil, nil
}

type fakeRooms map[string]string

func (f fakeRooms) Resolve(_ context.Context, id string) roomresolve.Result {
	if n, ok := f[id]; ok {
		return roomresolve.Result{RoomNumber: n, Found: true}
	}
	return roomresolve.Result{}
}

func (f fakeRooms) ResolveAll(ctx context.Context, ids []string) map[string]roomresolve.Result {
	out := make(map[string]roomresolve.Result, len(ids))
	for _, id := range ids {
		out[id] = f.Resolve(ctx, id)
	}
	return out
}

func sampleResidents() []models.Resident {
	dob := time.Date(1945, 1, 2, 0, 0, 0, 0, time.UTC)
	return []models.Resident{
		{
			ID: "r1", FullName: "Đặng Văn Hùng", CCCDID: "001045000123", DateOfBirth: &dob, Gender: "male",
			EmergencyContact: models.EmergencyContact{Name: "Đặng Thu", Phone: "0912345678", Relationship: "con gái"},
			FamilyMemberID:   models.NewRef[models.User]("f1"),
		},
		{ID: "r2", FullName: "Nguyễn Thị Lan", CCCDID: "079150000999", Gender: "female"},
	}
}

func newTestHandler(t *testing.T, fr *fakeResidents) (*Handler, *auth.SessionManager) {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only-32", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	rooms := fakeRooms{"r1": "101"}
	return NewHandler(fr, noPlans{}, rooms, sm, uierrors.NewErrorLogger(logger), nil, logger), sm
}

func TestFilterResidents(t *testing.T) {
	list := sampleResidents()

	tests := []struct {
		q    string
		want []string
	}{
		{"", []string{"r1", "r2"}},
		{"dang", []string{"r1"}},
		{"HÙNG", []string{"r1"}},
		{"thi lan", []string{"r2"}},
		{"079150", []string{"r2"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		got := filterResidents(list, tt.q)
		var ids []string
		for _, r := range got {
			ids = append(ids, r.ID)
		}
		if strings.Join(ids, ",") != strings.Join(tt.want, ",") {
			t.Errorf("q=%q: got %v, want %v", tt.q, ids, tt.want)
		}
	}
}

func TestBuildRows_KeepsOrderAndFallback(t *testing.T) {
	h, _ := newTestHandler(t, &fakeResidents{})
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := h.buildRows(context.Background(), sampleResidents(), now)

	if len(rows) != 2 || rows[0].ID != "r1" || rows[1].ID != "r2" {
		t.Fatalf("rows: %+v", rows)
	}
	if rows[0].RoomNumber != "101" || !rows[0].RoomAssigned {
		t.Errorf("r1 room: %+v", rows[0])
	}
	if rows[1].RoomNumber != roomresolve.Unassigned || rows[1].RoomAssigned {
		t.Errorf("r2 room: %+v", rows[1])
	}
	if rows[0].Age != 79 {
		t.Errorf("r1 age: got %d, want 79", rows[0].Age)
	}
	if rows[1].Age != -1 {
		t.Errorf("r2 age: got %d, want -1", rows[1].Age)
	}
	if rows[0].Gender != "Nam" || rows[1].Gender != "Nữ" {
		t.Errorf("genders: %q %q", rows[0].Gender, rows[1].Gender)
	}
}

func deleteRequest(id, name string) *http.Request {
	form := url.Values{"name": {name}}
	req := httptest.NewRequest(http.MethodPost, "/residents/"+id+"/delete", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithChiURLParam(req, "id", id)
	return auth.WithTestUser(req, &auth.SessionUser{ID: "admin1", Role: models.RoleAdmin})
}

func popFlash(sm *auth.SessionManager, rec *httptest.ResponseRecorder) *auth.Flash {
	req := httptest.NewRequest(http.MethodGet, "/residents", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return sm.PopFlash(httptest.NewRecorder(), req)
}

func TestHandleDelete_Success(t *testing.T) {
	fr := &fakeResidents{all: sampleResidents()}
	h, sm := newTestHandler(t, fr)

	rec := httptest.NewRecorder()
	h.HandleDelete(rec, deleteRequest("r2", "Nguyễn Thị Lan"))

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/residents" {
		t.Fatalf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if len(fr.deleted) != 1 || fr.deleted[0] != "r2" {
		t.Errorf("deleted: %v", fr.deleted)
	}
	f := popFlash(sm, rec)
	if f == nil || f.Kind != auth.FlashSuccess || !strings.Contains(f.Message, "Nguyễn Thị Lan") {
		t.Errorf("flash: %+v", f)
	}
}

func TestHandleDelete_FailureFlashesError(t *testing.T) {
	fr := &fakeResidents{all: sampleResidents(), deleteErr: errors.New("boom")}
	h, sm := newTestHandler(t, fr)

	rec := httptest.NewRecorder()
	h.HandleDelete(rec, deleteRequest("r2", "Nguyễn Thị Lan"))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d", rec.Code)
	}
	f := popFlash(sm, rec)
	if f == nil || f.Kind != auth.FlashError {
		t.Errorf("flash: %+v", f)
	}
}

func TestServeExport_Workbook(t *testing.T) {
	fr := &fakeResidents{all: sampleResidents()}
	h, _ := newTestHandler(t, fr)

	req := httptest.NewRequest(http.MethodGet, "/residents/export.xlsx?q=lan", nil)
	rec := httptest.NewRecorder()
	h.ServeExport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type: %q", ct)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(rosterSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want header + 1", len(rows))
	}
	if rows[0][0] != "Họ và tên" {
		t.Errorf("header: %v", rows[0])
	}
	if rows[1][0] != "Nguyễn Thị Lan" || rows[1][4] != roomresolve.Unassigned {
		t.Errorf("data row: %v", rows[1])
	}
}
