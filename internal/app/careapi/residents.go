package careapi

import (
	"context"
	"net/http"

	"github.com/dalemusser/nurseryhome/internal/domain/models"
)

// ResidentsAPI wraps /residents.
type ResidentsAPI struct{ c *Client }

// GetAll lists every resident visible to the caller.
func (a *ResidentsAPI) GetAll(ctx context.Context) ([]models.Resident, error) {
	var out []models.Resident
	err := a.c.call(ctx, http.MethodGet, "/residents", nil, nil, nil, &out)
	return out, err
}

// GetPending lists residents awaiting approval.
func (a *ResidentsAPI) GetPending(ctx context.Context) ([]models.Resident, error) {
	var out []models.Resident
	err := a.c.call(ctx, http.MethodGet, "/residents/pending", nil, nil, nil, &out)
	return out, err
}

// GetByID loads one resident.
func (a *ResidentsAPI) GetByID(ctx context.Context, id string) (models.Resident, error) {
	var out models.Resident
	err := a.c.call(ctx, http.MethodGet, "/residents/{id}", idParam(id), nil, nil, &out)
	return out, err
}

// GetByFamilyMemberID lists the residents linked to a family account.
func (a *ResidentsAPI) GetByFamilyMemberID(ctx context.Context, familyID string) ([]models.Resident, error) {
	var out []models.Resident
	err := a.c.call(ctx, http.MethodGet, "/residents/family-member/{id}", idParam(familyID), nil, nil, &out)
	return out, err
}

// Approve marks a pending resident approved.
func (a *ResidentsAPI) Approve(ctx context.Context, id string) error {
	return a.c.call(ctx, http.MethodPatch, "/residents/{id}/approve", idParam(id), nil, nil, nil)
}

// Reject marks a pending resident rejected.
func (a *ResidentsAPI) Reject(ctx context.Context, id, reason string) error {
	return a.c.call(ctx, http.MethodPatch, "/residents/{id}/reject", idParam(id), nil, reasonBody{Reason: reason}, nil)
}

// Delete removes the resident record only; the family account is kept.
func (a *ResidentsAPI) Delete(ctx context.Context, id string) error {
	return a.c.call(ctx, http.MethodDelete, "/residents/{id}", idParam(id), nil, nil, nil)
}
