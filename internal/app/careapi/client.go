// Package careapi is a typed client for the nursing-home REST backend.
//
// The backend owns users, residents, care plans, assignments, beds, and
// rooms. Every call takes a context; the caller's bearer token travels in
// the context (see WithToken) so one Client can be shared by all requests.
package careapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
}

// Client groups the per-resource APIs over one resty client.
type Client struct {
	http *resty.Client
	log  *zap.Logger

	Auth                *AuthAPI
	Users               *UsersAPI
	Residents           *ResidentsAPI
	CarePlans           *CarePlansAPI
	CarePlanAssignments *CarePlanAssignmentsAPI
	BedAssignments      *BedAssignmentsAPI
	Rooms               *RoomsAPI
}

// New creates a Client. Only idempotent GETs are retried, and only on
// transport errors or 5xx responses; state-changing calls are sent once.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	hc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if resp == nil || resp.Request == nil || resp.Request.Method != http.MethodGet {
				return false
			}
			return err != nil || resp.StatusCode() >= 500
		})

	c := &Client{http: hc, log: logger}
	c.Auth = &AuthAPI{c: c}
	c.Users = &UsersAPI{c: c}
	c.Residents = &ResidentsAPI{c: c}
	c.CarePlans = &CarePlansAPI{c: c}
	c.CarePlanAssignments = &CarePlanAssignmentsAPI{c: c}
	c.BedAssignments = &BedAssignmentsAPI{c: c}
	c.Rooms = &RoomsAPI{c: c}
	return c
}

type tokenKey struct{}

// WithToken returns a context carrying the backend bearer token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the bearer token stored by WithToken, if any.
func TokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

// ErrNotFound is returned (wrapped in an *APIError) for 404 responses.
var ErrNotFound = errors.New("careapi: not found")

// APIError is a non-2xx response from the backend.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("careapi: %s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("careapi: %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// Unwrap lets errors.Is(err, ErrNotFound) match 404s.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// errorBody matches the backend's error envelope. Message may be a string
// or a list of validation messages.
type errorBody struct {
	Message json.RawMessage `json:"message"`
	Error   string          `json:"error"`
}

func (b errorBody) text() string {
	if len(b.Message) > 0 {
		var s string
		if err := json.Unmarshal(b.Message, &s); err == nil {
			return s
		}
		var list []string
		if err := json.Unmarshal(b.Message, &list); err == nil && len(list) > 0 {
			return list[0]
		}
	}
	return b.Error
}

// call performs one request. pathParams fill "{name}" placeholders in path.
func (c *Client) call(ctx context.Context, method, path string, pathParams map[string]string, query map[string]string, body, out any) error {
	req := c.http.R().SetContext(ctx)
	if tok := TokenFrom(ctx); tok != "" {
		req.SetAuthToken(tok)
	}
	if len(pathParams) > 0 {
		req.SetPathParams(pathParams)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.Warn("backend call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("careapi: %s %s: %w", method, path, err)
	}

	if resp.IsError() {
		var eb errorBody
		_ = json.Unmarshal(resp.Body(), &eb)
		return &APIError{Method: method, Path: path, Status: resp.StatusCode(), Message: eb.text()}
	}

	if out == nil {
		return nil
	}
	if err := decode(resp.Body(), out); err != nil {
		return fmt.Errorf("careapi: %s %s: decode: %w", method, path, err)
	}
	return nil
}

// decode unmarshals body into out, unwrapping a {"data": ...} envelope
// when the backend uses one.
func decode(body []byte, out any) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	if body[0] == '{' {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(body, &env); err == nil {
			if data, ok := env["data"]; ok {
				if _, hasID := env["_id"]; !hasID {
					body = data
				}
			}
		}
	}
	return json.Unmarshal(body, out)
}

func idParam(id string) map[string]string {
	return map[string]string{"id": id}
}

type reasonBody struct {
	Reason string `json:"reason,omitempty"`
}

// Ping reports whether the backend answers HTTP at all. Any status code
// counts as reachable; only transport failures are returned.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Head("/")
	if err != nil {
		return fmt.Errorf("careapi: ping: %w", err)
	}
	c.log.Debug("backend ping", zap.Int("status", resp.StatusCode()))
	return nil
}
