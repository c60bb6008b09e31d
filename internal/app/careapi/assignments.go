package careapi

import (
	"context"
	"net/http"

	"github.com/dalemusser/nurseryhome/internal/domain/models"
)

// CarePlanAssignmentsAPI wraps /care-plan-assignments.
type CarePlanAssignmentsAPI struct{ c *Client }

// GetPending lists care-plan assignments awaiting approval.
func (a *CarePlanAssignmentsAPI) GetPending(ctx context.Context) ([]models.CarePlanAssignment, error) {
	var out []models.CarePlanAssignment
	err := a.c.call(ctx, http.MethodGet, "/care-plan-assignments/pending", nil, nil, nil, &out)
	return out, err
}

// Approve approves one assignment.
func (a *CarePlanAssignmentsAPI) Approve(ctx context.Context, id string) error {
	return a.c.call(ctx, http.MethodPatch, "/care-plan-assignments/{id}/approve", idParam(id), nil, nil, nil)
}

// Reject rejects one assignment.
func (a *CarePlanAssignmentsAPI) Reject(ctx context.Context, id, reason string) error {
	return a.c.call(ctx, http.MethodPatch, "/care-plan-assignments/{id}/reject", idParam(id), nil, reasonBody{Reason: reason}, nil)
}

// BedAssignmentsAPI wraps /bed-assignments.
type BedAssignmentsAPI struct{ c *Client }

// GetPending lists bed assignments awaiting approval.
func (a *BedAssignmentsAPI) GetPending(ctx context.Context) ([]models.BedAssignment, error) {
	var out []models.BedAssignment
	err := a.c.call(ctx, http.MethodGet, "/bed-assignments/pending", nil, nil, nil, &out)
	return out, err
}

// GetByResidentID lists a resident's bed assignments, beds and rooms populated.
func (a *BedAssignmentsAPI) GetByResidentID(ctx context.Context, residentID string) ([]models.BedAssignment, error) {
	var out []models.BedAssignment
	q := map[string]string{"resident_id": residentID}
	err := a.c.call(ctx, http.MethodGet, "/bed-assignments/by-resident", nil, q, nil, &out)
	return out, err
}

// Approve approves one assignment.
func (a *BedAssignmentsAPI) Approve(ctx context.Context, id string) error {
	return a.c.call(ctx, http.MethodPatch, "/bed-assignments/{id}/approve", idParam(id), nil, nil, nil)
}

// Reject rejects one assignment.
func (a *BedAssignmentsAPI) Reject(ctx context.Context, id, reason string) error {
	return a.c.call(ctx, http.MethodPatch, "/bed-assignments/{id}/reject", idParam(id), nil, reasonBody{Reason: reason}, nil)
}
