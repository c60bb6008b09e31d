package careapi

import (
	"context"
	"net/http"

	"github.com/dalemusser/nurseryhome/internal/domain/models"
)

// CarePlansAPI wraps /care-plans.
type CarePlansAPI struct{ c *Client }

// GetAll lists the care-plan catalogue.
func (a *CarePlansAPI) GetAll(ctx context.Context) ([]models.CarePlan, error) {
	var out []models.CarePlan
	err := a.c.call(ctx, http.MethodGet, "/care-plans", nil, nil, nil, &out)
	return out, err
}

// GetByResidentID lists the care-plan assignments of a resident.
func (a *CarePlansAPI) GetByResidentID(ctx context.Context, residentID string) ([]models.CarePlanAssignment, error) {
	var out []models.CarePlanAssignment
	err := a.c.call(ctx, http.MethodGet, "/care-plans/resident/{id}", idParam(residentID), nil, nil, &out)
	return out, err
}

// Create adds a care plan to the catalogue.
func (a *CarePlansAPI) Create(ctx context.Context, plan models.CarePlan) (models.CarePlan, error) {
	var out models.CarePlan
	err := a.c.call(ctx, http.MethodPost, "/care-plans", nil, nil, plan, &out)
	return out, err
}

// RoomsAPI wraps /rooms.
type RoomsAPI struct{ c *Client }

// GetByID loads one room.
func (a *RoomsAPI) GetByID(ctx context.Context, id string) (models.Room, error) {
	var out models.Room
	err := a.c.call(ctx, http.MethodGet, "/rooms/{id}", idParam(id), nil, nil, &out)
	return out, err
}
