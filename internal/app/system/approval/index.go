package approval

import "github.com/dalemusser/nurseryhome/internal/domain/models"

// Conflict records a resident with more than one pending assignment of the
// same kind. The first match in backend order is still used; conflicts are
// surfaced so an admin can see that the choice was ambiguous.
type Conflict struct {
	ResidentID    string
	Kind          string // EntityCarePlan | EntityBed
	AssignmentIDs []string
}

// Index maps resident ids to their pending care-plan and bed assignments.
// It is built once per snapshot instead of scanning the lists per lookup.
type Index struct {
	carePlans map[string]models.CarePlanAssignment
	beds      map[string]models.BedAssignment
	Conflicts []Conflict
}

// BuildIndex indexes pending assignments by resident id. The first
// assignment for a resident wins, matching backend list order.
func BuildIndex(carePlans []models.CarePlanAssignment, beds []models.BedAssignment) Index {
	ix := Index{
		carePlans: make(map[string]models.CarePlanAssignment, len(carePlans)),
		beds:      make(map[string]models.BedAssignment, len(beds)),
	}

	cpIDs := grouper{}
	for _, a := range carePlans {
		rid := a.ResidentID.ID()
		if rid == "" {
			continue
		}
		if _, ok := ix.carePlans[rid]; !ok {
			ix.carePlans[rid] = a
		}
		cpIDs.add(rid, a.ID)
	}

	bedIDs := grouper{}
	for _, a := range beds {
		rid := a.ResidentID.ID()
		if rid == "" {
			continue
		}
		if _, ok := ix.beds[rid]; !ok {
			ix.beds[rid] = a
		}
		bedIDs.add(rid, a.ID)
	}

	ix.Conflicts = append(cpIDs.conflicts(EntityCarePlan), bedIDs.conflicts(EntityBed)...)
	return ix
}

// CarePlanFor returns the pending care-plan assignment for a resident.
func (ix Index) CarePlanFor(residentID string) (models.CarePlanAssignment, bool) {
	a, ok := ix.carePlans[residentID]
	return a, ok
}

// BedFor returns the pending bed assignment for a resident.
func (ix Index) BedFor(residentID string) (models.BedAssignment, bool) {
	a, ok := ix.beds[residentID]
	return a, ok
}

// grouper collects assignment ids per resident in first-seen order.
type grouper struct {
	order []string
	ids   map[string][]string
}

func (g *grouper) add(residentID, assignmentID string) {
	if g.ids == nil {
		g.ids = map[string][]string{}
	}
	if _, ok := g.ids[residentID]; !ok {
		g.order = append(g.order, residentID)
	}
	g.ids[residentID] = append(g.ids[residentID], assignmentID)
}

func (g *grouper) conflicts(kind string) []Conflict {
	var out []Conflict
	for _, rid := range g.order {
		if ids := g.ids[rid]; len(ids) > 1 {
			out = append(out, Conflict{ResidentID: rid, Kind: kind, AssignmentIDs: ids})
		}
	}
	return out
}
