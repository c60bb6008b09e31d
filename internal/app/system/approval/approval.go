// Package approval implements the admin approval workflow: pending user
// accounts, and pending residents together with their care-plan and bed
// assignments, approved or rejected as one cascade.
package approval

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Tab selects which pending list an action applies to.
type Tab string

const (
	TabUsers     Tab = "users"
	TabResidents Tab = "residents"
)

// ParseTab maps a query value to a Tab, defaulting to TabUsers.
func ParseTab(s string) Tab {
	if Tab(strings.ToLower(strings.TrimSpace(s))) == TabResidents {
		return TabResidents
	}
	return TabUsers
}

// ErrBusy is returned when an action for the same entity is already running.
var ErrBusy = errors.New("approval: action already in progress for this record")

// UserAPI is the subset of the users backend the workflow needs.
type UserAPI interface {
	GetByRoleWithStatus(ctx context.Context, role, status string) ([]models.User, error)
	Approve(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id, reason string) error
}

// ResidentAPI is the subset of the residents backend the workflow needs.
type ResidentAPI interface {
	GetPending(ctx context.Context) ([]models.Resident, error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id, reason string) error
}

// CarePlanAssignmentAPI is the care-plan assignment backend.
type CarePlanAssignmentAPI interface {
	GetPending(ctx context.Context) ([]models.CarePlanAssignment, error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id, reason string) error
}

// BedAssignmentAPI is the bed assignment backend.
type BedAssignmentAPI interface {
	GetPending(ctx context.Context) ([]models.BedAssignment, error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id, reason string) error
}

// Service runs approval actions against the backend.
type Service struct {
	Users     UserAPI
	Residents ResidentAPI
	CarePlans CarePlanAssignmentAPI
	Beds      BedAssignmentAPI
	Log       *zap.Logger

	// PendingUserRole is the role whose pending accounts need approval.
	PendingUserRole string
	// FinanceURL is where a successful resident approval leads next.
	FinanceURL string

	inflight sync.Map
}

// NewService wires a Service with default settings.
func NewService(users UserAPI, residents ResidentAPI, carePlans CarePlanAssignmentAPI, beds BedAssignmentAPI, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Users:           users,
		Residents:       residents,
		CarePlans:       carePlans,
		Beds:            beds,
		Log:             logger,
		PendingUserRole: models.RoleFamily,
		FinanceURL:      "/finance/new",
	}
}

// Snapshot is the four pending lists fetched together, plus their index.
type Snapshot struct {
	Users     []models.User
	Residents []models.Resident
	CarePlans []models.CarePlanAssignment
	Beds      []models.BedAssignment
	Index     Index
}

// ResidentRow pairs a pending resident with its pending assignments.
type ResidentRow struct {
	Resident models.Resident
	CarePlan *models.CarePlanAssignment
	Bed      *models.BedAssignment
}

// ResidentRows joins residents with the index for display.
func (s *Snapshot) ResidentRows() []ResidentRow {
	rows := make([]ResidentRow, 0, len(s.Residents))
	for _, res := range s.Residents {
		row := ResidentRow{Resident: res}
		if cp, ok := s.Index.CarePlanFor(res.ID); ok {
			row.CarePlan = &cp
		}
		if bed, ok := s.Index.BedFor(res.ID); ok {
			row.Bed = &bed
		}
		rows = append(rows, row)
	}
	return rows
}

// Load fetches all four pending lists concurrently. Any failure fails the
// whole load; the page cannot be shown from a partial snapshot.
func (s *Service) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		users, err := s.Users.GetByRoleWithStatus(gctx, s.PendingUserRole, models.UserPending)
		snap.Users = users
		return err
	})
	g.Go(func() error {
		residents, err := s.Residents.GetPending(gctx)
		snap.Residents = residents
		return err
	})
	g.Go(func() error {
		cps, err := s.CarePlans.GetPending(gctx)
		snap.CarePlans = cps
		return err
	})
	g.Go(func() error {
		beds, err := s.Beds.GetPending(gctx)
		snap.Beds = beds
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.Index = BuildIndex(snap.CarePlans, snap.Beds)
	for _, c := range snap.Index.Conflicts {
		s.Log.Warn("resident has more than one pending assignment; using the first",
			zap.String("resident_id", c.ResidentID),
			zap.String("kind", c.Kind),
			zap.Strings("assignment_ids", c.AssignmentIDs))
	}
	return snap, nil
}

// Approve approves a pending user or a pending resident with its cascade.
func (s *Service) Approve(ctx context.Context, snap *Snapshot, tab Tab, id string) (Outcome, error) {
	if !s.begin(id) {
		return Outcome{}, ErrBusy
	}
	defer s.end(id)

	if tab == TabUsers {
		return s.approveUser(ctx, id), nil
	}
	return s.approveResident(ctx, snap, id), nil
}

// Reject rejects a pending user or a pending resident with its cascade.
// A nil reason means the admin cancelled the prompt: no calls are made.
func (s *Service) Reject(ctx context.Context, snap *Snapshot, tab Tab, id string, reason *string) (Outcome, error) {
	if reason == nil {
		return Outcome{Kind: Cancelled, Tab: tab, ID: id}, nil
	}
	if !s.begin(id) {
		return Outcome{}, ErrBusy
	}
	defer s.end(id)

	text := strings.TrimSpace(*reason)
	if tab == TabUsers {
		return s.rejectUser(ctx, id, text), nil
	}
	return s.rejectResident(ctx, snap, id, text), nil
}

func (s *Service) approveUser(ctx context.Context, id string) Outcome {
	step := Step{Entity: EntityUser, ID: id, Action: ActionApprove}
	step.Err = s.Users.Approve(ctx, id)

	out := Outcome{Tab: TabUsers, ID: id, Steps: []Step{step}}
	if step.Err != nil {
		s.Log.Error("approve user failed", zap.String("user_id", id), zap.Error(step.Err))
		out.Kind = Failure
		out.Title = "Phê duyệt thất bại"
		out.Detail = "Không thể phê duyệt tài khoản. Vui lòng thử lại."
		return out
	}
	out.Kind = FullSuccess
	out.Title = "Phê duyệt tài khoản thành công!"
	out.Detail = "Tài khoản đã được kích hoạt và có thể đăng nhập."
	return out
}

func (s *Service) rejectUser(ctx context.Context, id, reason string) Outcome {
	step := Step{Entity: EntityUser, ID: id, Action: ActionDeactivate}
	step.Err = s.Users.Deactivate(ctx, id, reason)

	out := Outcome{Tab: TabUsers, ID: id, Steps: []Step{step}}
	if step.Err != nil {
		s.Log.Error("reject user failed", zap.String("user_id", id), zap.Error(step.Err))
		out.Kind = Failure
		out.Title = "Từ chối thất bại"
		out.Detail = "Không thể từ chối tài khoản. Vui lòng thử lại."
		return out
	}
	out.Kind = FullSuccess
	out.Title = "Đã từ chối tài khoản"
	out.Detail = "Tài khoản đã bị từ chối."
	if reason != "" {
		out.Detail += " Lý do: " + reason
	}
	return out
}

// approveResident calls resident -> care plan -> bed, in that order.
// Only a resident failure stops the cascade.
func (s *Service) approveResident(ctx context.Context, snap *Snapshot, id string) Outcome {
	cp, hasCP, bed, hasBed := s.dependents(snap, id)
	out := Outcome{Tab: TabResidents, ID: id}

	primary := Step{Entity: EntityResident, ID: id, Action: ActionApprove}
	primary.Err = s.Residents.Approve(ctx, id)
	out.Steps = append(out.Steps, primary)
	if primary.Err != nil {
		s.Log.Error("approve resident failed", zap.String("resident_id", id), zap.Error(primary.Err))
		out.Kind = Failure
		out.Title = "Phê duyệt thất bại"
		out.Detail = "Không thể phê duyệt cư dân. Vui lòng thử lại."
		return out
	}

	if hasCP {
		step := Step{Entity: EntityCarePlan, ID: cp.ID, Action: ActionApprove}
		step.Err = s.CarePlans.Approve(ctx, cp.ID)
		out.Steps = append(out.Steps, step)
	}
	if hasBed {
		step := Step{Entity: EntityBed, ID: bed.ID, Action: ActionApprove}
		step.Err = s.Beds.Approve(ctx, bed.ID)
		out.Steps = append(out.Steps, step)
	}

	out.Title = approveResidentTitle(hasCP, hasBed)
	out.Detail = approveResidentDetail(hasCP, hasBed)
	out.NextURL = s.FinanceURL + "?residentId=" + url.QueryEscape(id)
	out.Kind = FullSuccess
	if failed := out.Failed(); len(failed) > 0 {
		out.Kind = PartialSuccess
		out.Detail = partialNote(failed)
		s.logFailedSteps("approve resident cascade incomplete", id, failed)
	}
	return out
}

// rejectResident rejects each dependent independently, then the resident.
func (s *Service) rejectResident(ctx context.Context, snap *Snapshot, id, reason string) Outcome {
	cp, hasCP, bed, hasBed := s.dependents(snap, id)
	out := Outcome{Tab: TabResidents, ID: id}

	if hasCP {
		step := Step{Entity: EntityCarePlan, ID: cp.ID, Action: ActionReject}
		step.Err = s.CarePlans.Reject(ctx, cp.ID, reason)
		out.Steps = append(out.Steps, step)
	}
	if hasBed {
		step := Step{Entity: EntityBed, ID: bed.ID, Action: ActionReject}
		step.Err = s.Beds.Reject(ctx, bed.ID, reason)
		out.Steps = append(out.Steps, step)
	}

	primary := Step{Entity: EntityResident, ID: id, Action: ActionReject}
	primary.Err = s.Residents.Reject(ctx, id, reason)
	out.Steps = append(out.Steps, primary)
	if primary.Err != nil {
		s.Log.Error("reject resident failed", zap.String("resident_id", id), zap.Error(primary.Err))
		out.Kind = Failure
		out.Title = "Từ chối thất bại"
		out.Detail = "Không thể từ chối cư dân. Vui lòng thử lại."
		return out
	}

	out.Kind = FullSuccess
	out.Title = rejectResidentTitle(hasCP, hasBed)
	out.Detail = rejectResidentDetail(hasCP, hasBed, reason)
	if failed := out.Failed(); len(failed) > 0 {
		out.Kind = PartialSuccess
		out.Detail = partialNote(failed)
		s.logFailedSteps("reject resident cascade incomplete", id, failed)
	}
	return out
}

func (s *Service) dependents(snap *Snapshot, residentID string) (cp models.CarePlanAssignment, hasCP bool, bed models.BedAssignment, hasBed bool) {
	if snap == nil {
		return
	}
	cp, hasCP = snap.Index.CarePlanFor(residentID)
	bed, hasBed = snap.Index.BedFor(residentID)
	return
}

func (s *Service) logFailedSteps(msg, residentID string, failed []Step) {
	for _, f := range failed {
		s.Log.Warn(msg,
			zap.String("resident_id", residentID),
			zap.String("entity", f.Entity),
			zap.String("entity_id", f.ID),
			zap.String("action", f.Action),
			zap.Error(f.Err))
	}
}

func (s *Service) begin(id string) bool {
	_, loaded := s.inflight.LoadOrStore(id, struct{}{})
	return !loaded
}

func (s *Service) end(id string) {
	s.inflight.Delete(id)
}
