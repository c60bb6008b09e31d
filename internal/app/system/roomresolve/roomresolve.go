// Package roomresolve finds the room number to show for each resident on
// the roster. The backend does not store it on the resident, so it is
// joined from bed assignments, falling back to care-plan assignments.
package roomresolve

import (
	"context"
	"errors"
	"sync"

	"github.com/dalemusser/nurseryhome/internal/app/system/roomcache"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Unassigned is shown when no room can be resolved for a resident.
const Unassigned = "Chưa hoàn tất đăng ký"

// BedAssignmentLookup lists a resident's bed assignments.
type BedAssignmentLookup interface {
	GetByResidentID(ctx context.Context, residentID string) ([]models.BedAssignment, error)
}

// CarePlanLookup lists a resident's care-plan assignments.
type CarePlanLookup interface {
	GetByResidentID(ctx context.Context, residentID string) ([]models.CarePlanAssignment, error)
}

// RoomLookup fetches a room by id.
type RoomLookup interface {
	GetByID(ctx context.Context, id string) (models.Room, error)
}

// Cache caches room numbers by room id. Get returns roomcache.ErrMiss on a miss.
type Cache interface {
	Get(ctx context.Context, roomID string) (string, error)
	Set(ctx context.Context, roomID, roomNumber string) error
}

// Result is the resolution for one resident.
type Result struct {
	RoomNumber string
	Found      bool
	Err        error // set when a lookup failed; Found is then false
}

// Display returns the room number, or Unassigned.
func (r Result) Display() string {
	if r.Found {
		return r.RoomNumber
	}
	return Unassigned
}

// Resolver joins residents to room numbers.
type Resolver struct {
	Beds        BedAssignmentLookup
	CarePlans   CarePlanLookup
	Rooms       RoomLookup
	Cache       Cache // optional
	Log         *zap.Logger
	Concurrency int
}

// New returns a Resolver. cache may be nil.
func New(beds BedAssignmentLookup, carePlans CarePlanLookup, rooms RoomLookup, cache Cache, concurrency int, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Resolver{Beds: beds, CarePlans: carePlans, Rooms: rooms, Cache: cache, Concurrency: concurrency, Log: logger}
}

// Resolve finds the room for one resident:
//  1. the first bed assignment whose bed has a room;
//  2. if that room is populated with a number, use it;
//  3. otherwise fetch the room by id;
//  4. with no such bed assignment, the first care-plan assignment with a bed
//     room or assigned room, fetched by id;
//  5. otherwise the resident has no room.
func (r *Resolver) Resolve(ctx context.Context, residentID string) Result {
	beds, err := r.Beds.GetByResidentID(ctx, residentID)
	if err != nil {
		r.Log.Warn("bed assignment lookup failed; trying care plans",
			zap.String("resident_id", residentID), zap.Error(err))
	}
	for _, ba := range beds {
		ref := ba.RoomRef()
		if ref.IsZero() {
			continue
		}
		if ref.Doc != nil && ref.Doc.RoomNumber != "" {
			r.remember(ctx, ref.ID(), ref.Doc.RoomNumber)
			return Result{RoomNumber: ref.Doc.RoomNumber, Found: true}
		}
		return r.fetch(ctx, residentID, ref.ID())
	}

	plans, err := r.CarePlans.GetByResidentID(ctx, residentID)
	if err != nil {
		r.Log.Warn("care plan assignment lookup failed",
			zap.String("resident_id", residentID), zap.Error(err))
		return Result{Err: err}
	}
	for _, cp := range plans {
		if ref := cp.RoomRef(); ref.ID() != "" {
			return r.fetch(ctx, residentID, ref.ID())
		}
	}
	return Result{}
}

// ResolveAll resolves every resident with bounded concurrency and returns
// only once each one has a result. A failed lookup never affects other rows.
func (r *Resolver) ResolveAll(ctx context.Context, residentIDs []string) map[string]Result {
	out := make(map[string]Result, len(residentIDs))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(r.Concurrency)
	for _, id := range residentIDs {
		mu.Lock()
		_, seen := out[id]
		if !seen {
			out[id] = Result{}
		}
		mu.Unlock()
		if seen {
			continue
		}

		g.Go(func() error {
			res := r.Resolve(ctx, id)
			mu.Lock()
			out[id] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (r *Resolver) fetch(ctx context.Context, residentID, roomID string) Result {
	if r.Cache != nil {
		num, err := r.Cache.Get(ctx, roomID)
		switch {
		case err == nil && num != "":
			return Result{RoomNumber: num, Found: true}
		case err != nil && !errors.Is(err, roomcache.ErrMiss):
			r.Log.Warn("room cache read failed", zap.String("room_id", roomID), zap.Error(err))
		}
	}

	room, err := r.Rooms.GetByID(ctx, roomID)
	if err != nil {
		r.Log.Warn("room lookup failed",
			zap.String("resident_id", residentID), zap.String("room_id", roomID), zap.Error(err))
		return Result{Err: err}
	}
	if room.RoomNumber == "" {
		return Result{}
	}
	r.remember(ctx, roomID, room.RoomNumber)
	return Result{RoomNumber: room.RoomNumber, Found: true}
}

func (r *Resolver) remember(ctx context.Context, roomID, number string) {
	if r.Cache == nil || roomID == "" {
		return
	}
	if err := r.Cache.Set(ctx, roomID, number); err != nil {
		r.Log.Warn("room cache write failed", zap.String("room_id", roomID), zap.Error(err))
	}
}
