package approval

import (
	"context"
	"errors"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/dalemusser/nurseryhome/internal/domain/models"
)

// callLog records backend calls in order across all fakes.
type callLog struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
	block chan struct{}
}

func (l *callLog) record(call string) error {
	l.mu.Lock()
	l.calls = append(l.calls, call)
	err := l.fail[call]
	block := l.block
	l.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeUsers struct {
	log     *callLog
	pending []models.User
	gotRole string
}

func (f *fakeUsers) GetByRoleWithStatus(_ context.Context, role, status string) ([]models.User, error) {
	f.gotRole = role + "/" + status
	return f.pending, nil
}
func (f *fakeUsers) Approve(_ context.Context, id string) error {
	return f.log.record("approveUser(" + id + ")")
}
func (f *fakeUsers) Deactivate(_ context.Context, id, reason string) error {
	return f.log.record("deactivateUser(" + id + "," + reason + ")")
}

type fakeResidents struct {
	log     *callLog
	pending []models.Resident
	err     error
}

func (f *fakeResidents) GetPending(context.Context) ([]models.Resident, error) {
	return f.pending, f.err
}
func (f *fakeResidents) Approve(_ context.Context, id string) error {
	return f.log.record("approveResident(" + id + ")")
}
func (f *fakeResidents) Reject(_ context.Context, id, reason string) error {
	return f.log.record("rejectResident(" + id + "," + reason + ")")
}

type fakeCarePlans struct {
	log     *callLog
	pending []models.CarePlanAssignment
}

func (f *fakeCarePlans) GetPending(context.Context) ([]models.CarePlanAssignment, error) {
	return f.pending, nil
}
func (f *fakeCarePlans) Approve(_ context.Context, id string) error {
	return f.log.record("approveAssignment(" + id + ")")
}
func (f *fakeCarePlans) Reject(_ context.Context, id, reason string) error {
	return f.log.record("rejectAssignment(" + id + "," + reason + ")")
}

type fakeBeds struct {
	log     *callLog
	pending []models.BedAssignment
}

func (f *fakeBeds) GetPending(context.Context) ([]models.BedAssignment, error) {
	return f.pending, nil
}
func (f *fakeBeds) Approve(_ context.Context, id string) error {
	return f.log.record("approveAssignment(" + id + ")")
}
func (f *fakeBeds) Reject(_ context.Context, id, reason string) error {
	return f.log.record("rejectAssignment(" + id + "," + reason + ")")
}

type fixture struct {
	log       *callLog
	users     *fakeUsers
	residents *fakeResidents
	carePlans *fakeCarePlans
	beds      *fakeBeds
	svc       *Service
}

func newFixture() *fixture {
	l := &callLog{fail: map[string]error{}}
	f := &fixture{
		log:       l,
		users:     &fakeUsers{log: l},
		residents: &fakeResidents{log: l},
		carePlans: &fakeCarePlans{log: l},
		beds:      &fakeBeds{log: l},
	}
	f.svc = NewService(f.users, f.residents, f.carePlans, f.beds, nil)
	return f
}

func cpFor(id, residentID string) models.CarePlanAssignment {
	return models.CarePlanAssignment{ID: id, ResidentID: models.NewRef[models.Resident](residentID), Status: "pending"}
}

func bedFor(id, residentID string) models.BedAssignment {
	return models.BedAssignment{ID: id, ResidentID: models.NewRef[models.Resident](residentID), Status: "pending"}
}

func (f *fixture) load(t *testing.T) *Snapshot {
	t.Helper()
	snap, err := f.svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return snap
}

func TestApproveResidentCascadeOrderAndTitle(t *testing.T) {
	f := newFixture()
	f.residents.pending = []models.Resident{{ID: "R1", FullName: "Nguyễn Văn A", Status: models.StatusPending}}
	f.carePlans.pending = []models.CarePlanAssignment{cpFor("CP1", "R1")}
	f.beds.pending = []models.BedAssignment{bedFor("BA1", "R1")}

	snap := f.load(t)
	out, err := f.svc.Approve(context.Background(), snap, TabResidents, "R1")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}

	want := []string{"approveResident(R1)", "approveAssignment(CP1)", "approveAssignment(BA1)"}
	if got := f.log.list(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	if out.Kind != FullSuccess {
		t.Errorf("kind = %v, want full_success", out.Kind)
	}
	if out.Title != "Phê duyệt cư dân, gói chăm sóc và phân phòng thành công!" {
		t.Errorf("title = %q", out.Title)
	}
	if out.NextURL != "/finance/new?residentId=R1" {
		t.Errorf("next url = %q", out.NextURL)
	}
}

func TestApproveResidentWithoutDependentsMakesOneCall(t *testing.T) {
	f := newFixture()
	f.residents.pending = []models.Resident{{ID: "R2"}}
	f.carePlans.pending = []models.CarePlanAssignment{cpFor("CPX", "OTHER")}

	snap := f.load(t)
	out, _ := f.svc.Approve(context.Background(), snap, TabResidents, "R2")

	if got := f.log.list(); !reflect.DeepEqual(got, []string{"approveResident(R2)"}) {
		t.Fatalf("calls = %v", got)
	}
	if out.Title != "Phê duyệt cư dân thành công!" {
		t.Errorf("title = %q", out.Title)
	}
}

func TestApproveResidentTitleVariants(t *testing.T) {
	cases := []struct {
		name   string
		cp     bool
		bed    bool
		expect string
	}{
		{"care plan only", true, false, "Phê duyệt cư dân và gói chăm sóc thành công!"},
		{"bed only", false, true, "Phê duyệt cư dân và phân phòng thành công!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.residents.pending = []models.Resident{{ID: "R1"}}
			if tc.cp {
				f.carePlans.pending = []models.CarePlanAssignment{cpFor("CP1", "R1")}
			}
			if tc.bed {
				f.beds.pending = []models.BedAssignment{bedFor("BA1", "R1")}
			}
			out, _ := f.svc.Approve(context.Background(), f.load(t), TabResidents, "R1")
			if out.Title != tc.expect {
				t.Errorf("title = %q, want %q", out.Title, tc.expect)
			}
		})
	}
}

func TestApproveResidentPrimaryFailureStopsCascade(t *testing.T) {
	f := newFixture()
	f.residents.pending = []models.Resident{{ID: "R1"}}
	f.carePlans.pending = []models.CarePlanAssignment{cpFor("CP1", "R1")}
	f.beds.pending = []models.BedAssignment{bedFor("BA1", "R1")}
	f.log.fail["approveResident(R1)"] = errors.New("boom")

	out, _ := f.svc.Approve(context.Background(), f.load(t), TabResidents, "R1")
	if out.Kind != Failure {
		t.Fatalf("kind = %v, want failure", out.Kind)
	}
	if got := f.log.list(); len(got) != 1 {
		t.Fatalf("expected only the resident call, got %v", got)
	}
	if out.NextURL != "" {
		t.Errorf("failure should not navigate, got %q", out.NextURL)
	}
}

func TestApproveResidentSecondaryFailureIsPartial(t *testing.T) {
	f := newFixture()
	f.residents.pending = []models.Resident{{ID: "R1"}}
	f.carePlans.pending = []models.CarePlanAssignment{cpFor("CP1", "R1")}
	f.beds.pending = []models.BedAssignment{bedFor("BA1", "R1")}
	f.log.fail["approveAssignment(CP1)"] = errors.New("backend down")

	out, _ := f.svc.Approve(context.Background(), f.load(t), TabResidents, "R1")

	want := []string{"approveResident(R1)", "approveAssignment(CP1)", "approveAssignment(BA1)"}
	if got := f.log.list(); !reflect.DeepEqual(got, want) {
		t.Fatalf("bed approval must still run: calls = %v", got)
	}
	if out.Kind != PartialSuccess {
		t.Fatalf("kind = %v, want partial_success", out.Kind)
	}
	failed := out.Failed()
	if len(failed) != 1 || failed[0].ID != "CP1" || failed[0].Entity != EntityCarePlan {
		t.Fatalf("failed = %+v", failed)
	}
	if !strings.Contains(out.Detail, "CP1") {
		t.Errorf("detail should name the failed assignment: %q", out.Detail)
	}
	if !out.Succeeded() {
		t.Error("partial success still counts as succeeded")
	}
}

func TestRejectCancelledMakesNoCalls(t *testing.T) {
	f := newFixture()
	f.residents.pending = []models.Resident{{ID: "R1"}}
	f.carePlans.pending = []models.CarePlanAssignment{cpFor("CP1", "R1")}

	out, err := f.svc.Reject(context.Background(), f.load(t), TabResidents, "R1", nil)
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if out.Kind != Cancelled {
		t.Errorf("kind = %v, want cancelled", out.Kind)
	}
	if got := f.log.list(); len(got) != 0 {
		t.Errorf("expected no calls, got %v", got)
	}
}

func TestRejectResidentOrderAndEmptyReason(t *testing.T) {
	f := newFixture()
	f.residents.pending = []models.Resident{{ID: "R1"}}
	f.carePlans.pending = []models.CarePlanAssignment{cpFor("CP1", "R1")}
	f.beds.pending = []models.BedAssignment{bedFor("BA1", "R1")}

	empty := "   "
	out, _ := f.svc.Reject(context.Background(), f.load(t), TabResidents, "R1", &empty)

	want := []string{"rejectAssignment(CP1,)", "rejectAssignment(BA1,)", "rejectResident(R1,)"}
	if got := f.log.list(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	if out.Kind != FullSuccess {
		t.Errorf("kind = %v", out.Kind)
	}
}

func TestRejectResidentDependentFailureStillRejectsResident(t *testing.T) {
	f := newFixture()
	f.residents.pending = []models.Resident{{ID: "R1"}}
	f.carePlans.pending = []models.CarePlanAssignment{cpFor("CP1", "R1")}
	f.beds.pending = []models.BedAssignment{bedFor("BA1", "R1")}
	f.log.fail["rejectAssignment(CP1,trùng hồ sơ)"] = errors.New("nope")

	reason := "trùng hồ sơ"
	out, _ := f.svc.Reject(context.Background(), f.load(t), TabResidents, "R1", &reason)

	calls := f.log.list()
	if len(calls) != 3 || calls[2] != "rejectResident(R1,trùng hồ sơ)" {
		t.Fatalf("calls = %v", calls)
	}
	if out.Kind != PartialSuccess {
		t.Errorf("kind = %v, want partial_success", out.Kind)
	}
}

func TestUserTabActions(t *testing.T) {
	f := newFixture()
	f.users.pending = []models.User{{ID: "U1", Status: models.UserPending}}
	snap := f.load(t)

	if f.users.gotRole != "family/pending" {
		t.Errorf("pending users query = %q", f.users.gotRole)
	}

	out, _ := f.svc.Approve(context.Background(), snap, TabUsers, "U1")
	if out.Kind != FullSuccess || out.Title != "Phê duyệt tài khoản thành công!" {
		t.Errorf("approve outcome = %+v", out)
	}
	reason := "không xác minh được"
	out, _ = f.svc.Reject(context.Background(), snap, TabUsers, "U1", &reason)
	if out.Kind != FullSuccess || out.Title != "Đã từ chối tài khoản" {
		t.Errorf("reject outcome = %+v", out)
	}

	want := []string{"approveUser(U1)", "deactivateUser(U1,không xác minh được)"}
	if got := f.log.list(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %v", got)
	}
}

func TestBusyGuardRejectsConcurrentAction(t *testing.T) {
	f := newFixture()
	f.residents.pending = []models.Resident{{ID: "R1"}}
	snap := f.load(t)

	f.log.block = make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Approve(context.Background(), snap, TabResidents, "R1")
		done <- err
	}()

	// Wait until the first call is in flight.
	for len(f.log.list()) == 0 {
		runtime.Gosched()
	}

	if _, err := f.svc.Approve(context.Background(), snap, TabResidents, "R1"); !errors.Is(err, ErrBusy) {
		t.Errorf("second approve err = %v, want ErrBusy", err)
	}
	reason := "x"
	if _, err := f.svc.Reject(context.Background(), snap, TabUsers, "R1", &reason); !errors.Is(err, ErrBusy) {
		t.Errorf("reject on other tab err = %v, want ErrBusy", err)
	}

	close(f.log.block)
	if err := <-done; err != nil {
		t.Fatalf("first approve: %v", err)
	}

	f.log.mu.Lock()
	f.log.block = nil
	f.log.mu.Unlock()
	if _, err := f.svc.Approve(context.Background(), snap, TabResidents, "R1"); err != nil {
		t.Errorf("approve after completion: %v", err)
	}
}

func TestLoadFailsWhenAnyListFails(t *testing.T) {
	f := newFixture()
	f.residents.err = errors.New("unavailable")
	if _, err := f.svc.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestBuildIndexFirstMatchAndConflicts(t *testing.T) {
	ix := BuildIndex(
		[]models.CarePlanAssignment{cpFor("CP1", "R1"), cpFor("CP2", "R1"), cpFor("CP3", "R2")},
		[]models.BedAssignment{bedFor("BA1", "R2")},
	)

	cp, ok := ix.CarePlanFor("R1")
	if !ok || cp.ID != "CP1" {
		t.Errorf("R1 care plan = %+v, %v; want CP1", cp, ok)
	}
	if _, ok := ix.BedFor("R1"); ok {
		t.Error("R1 should have no bed")
	}
	if bed, ok := ix.BedFor("R2"); !ok || bed.ID != "BA1" {
		t.Errorf("R2 bed = %+v", bed)
	}

	if len(ix.Conflicts) != 1 {
		t.Fatalf("conflicts = %+v", ix.Conflicts)
	}
	c := ix.Conflicts[0]
	if c.ResidentID != "R1" || c.Kind != EntityCarePlan || !reflect.DeepEqual(c.AssignmentIDs, []string{"CP1", "CP2"}) {
		t.Errorf("conflict = %+v", c)
	}
}

func TestBuildIndexMatchesPopulatedResidentRef(t *testing.T) {
	populated := models.PopulatedRef("R9", models.Resident{ID: "R9", FullName: "Trần Thị B"})
	ix := BuildIndex([]models.CarePlanAssignment{{ID: "CP9", ResidentID: populated}}, nil)
	if cp, ok := ix.CarePlanFor("R9"); !ok || cp.ID != "CP9" {
		t.Errorf("populated ref not matched: %+v %v", cp, ok)
	}
}

func TestParseTab(t *testing.T) {
	if ParseTab("residents") != TabResidents || ParseTab(" RESIDENTS ") != TabResidents {
		t.Error("residents not parsed")
	}
	if ParseTab("") != TabUsers || ParseTab("bogus") != TabUsers {
		t.Error("default should be users")
	}
}
