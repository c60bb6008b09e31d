package careapi

import (
	"context"
	"net/http"

	"github.com/dalemusser/nurseryhome/internal/domain/models"
)

// UsersAPI wraps /users.
type UsersAPI struct{ c *Client }

// GetByRoleWithStatus lists users with the given role and status.
func (a *UsersAPI) GetByRoleWithStatus(ctx context.Context, role, status string) ([]models.User, error) {
	var out []models.User
	q := map[string]string{"role": role, "status": status}
	err := a.c.call(ctx, http.MethodGet, "/users/by-role", nil, q, nil, &out)
	return out, err
}

// GetByID loads one user.
func (a *UsersAPI) GetByID(ctx context.Context, id string) (models.User, error) {
	var out models.User
	err := a.c.call(ctx, http.MethodGet, "/users/{id}", idParam(id), nil, nil, &out)
	return out, err
}

// Create registers a new user.
func (a *UsersAPI) Create(ctx context.Context, in models.UserInput) (models.User, error) {
	var out models.User
	err := a.c.call(ctx, http.MethodPost, "/users", nil, nil, in, &out)
	return out, err
}

// Update patches an existing user. Password is ignored by the backend on update.
func (a *UsersAPI) Update(ctx context.Context, id string, in models.UserInput) (models.User, error) {
	in.Password = ""
	var out models.User
	err := a.c.call(ctx, http.MethodPatch, "/users/{id}", idParam(id), nil, in, &out)
	return out, err
}

// Approve activates a pending account.
func (a *UsersAPI) Approve(ctx context.Context, id string) error {
	return a.c.call(ctx, http.MethodPatch, "/users/{id}/approve", idParam(id), nil, nil, nil)
}

// Deactivate rejects or deactivates an account with an optional reason.
func (a *UsersAPI) Deactivate(ctx context.Context, id, reason string) error {
	return a.c.call(ctx, http.MethodPatch, "/users/{id}/deactivate", idParam(id), nil, reasonBody{Reason: reason}, nil)
}
