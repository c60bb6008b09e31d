package careapi

import (
	"context"
	"net/http"

	"github.com/dalemusser/nurseryhome/internal/domain/models"
)

// AuthAPI wraps the backend's authentication endpoints.
type AuthAPI struct{ c *Client }

// LoginResult is the backend's response to a successful login.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	User        models.User `json:"user"`
}

// Login exchanges credentials for a bearer token.
// Typical failures: 401 bad credentials, 403 inactive account,
// 423 locked account, 404 unknown username.
func (a *AuthAPI) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var out LoginResult
	body := map[string]string{"username": username, "password": password}
	err := a.c.call(ctx, http.MethodPost, "/auth/login", nil, nil, body, &out)
	return out, err
}
