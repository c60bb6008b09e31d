package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", 24*time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("expected error for empty key")
	}
}

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

// requestKind sets the headers that decide how a denial is reported.
type requestKind string

const (
	html requestKind = "html"
	htmx requestKind = "htmx"
	api  requestKind = "api"
)

func newRequest(kind requestKind, target, role string) *http.Request {
	req := httptest.NewRequest("GET", target, nil)
	switch kind {
	case html:
		req.Header.Set("Accept", "text/html")
	case htmx:
		req.Header.Set("HX-Request", "true")
	case api:
		req.Header.Set("Accept", "application/json")
	}
	if role != "" {
		req = withTestUser(req, role)
	}
	return req
}

func TestMiddleware(t *testing.T) {
	sm := newTestSessionManager(t)
	signedIn := sm.RequireSignedIn(ok)
	staffOnly := sm.RequireRole("admin", "staff")(ok)

	tests := []struct {
		name       string
		handler    http.Handler
		kind       requestKind
		role       string
		wantStatus int
		wantHeader string // Location or HX-Redirect prefix
	}{
		{"signed out html", signedIn, html, "", http.StatusSeeOther, "/login?return=%2Fresidents"},
		{"signed out htmx", signedIn, htmx, "", http.StatusUnauthorized, "/login?return="},
		{"signed out api", signedIn, api, "", http.StatusUnauthorized, ""},
		{"signed in", signedIn, html, "family", http.StatusOK, ""},
		{"role: signed out", staffOnly, html, "", http.StatusSeeOther, "/login"},
		{"role: admin", staffOnly, html, "admin", http.StatusOK, ""},
		{"role: staff", staffOnly, html, "staff", http.StatusOK, ""},
		{"role: upper case", staffOnly, html, "STAFF", http.StatusOK, ""},
		{"role: family html", staffOnly, html, "family", http.StatusSeeOther, "/forbidden"},
		{"role: family htmx", staffOnly, htmx, "family", http.StatusForbidden, "/forbidden"},
		{"role: family api", staffOnly, api, "family", http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, newRequest(tt.kind, "/residents", tt.role))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantHeader == "" {
				return
			}
			got := rec.Header().Get("Location")
			if tt.kind == htmx {
				got = rec.Header().Get("HX-Redirect")
			}
			if !strings.HasPrefix(got, tt.wantHeader) {
				t.Errorf("redirect = %q, want prefix %q", got, tt.wantHeader)
			}
		})
	}
}

func TestCurrentUser(t *testing.T) {
	if _, found := auth.CurrentUser(httptest.NewRequest("GET", "/", nil)); found {
		t.Error("expected no user on a bare request")
	}
	u, found := auth.CurrentUser(withTestUser(httptest.NewRequest("GET", "/", nil), "staff"))
	if !found || u.Role != "staff" || u.Token != "tok" {
		t.Errorf("user = %+v, found = %v", u, found)
	}
}

// withTestUser injects a SessionUser into the request context for testing.
// This simulates what LoadSessionUser middleware does.
func withTestUser(r *http.Request, role string) *http.Request {
	user := &auth.SessionUser{
		ID:      "64b7f0c2a1e4d3b2c1a09f87",
		Name:    "Test User",
		LoginID: "testuser",
		Role:    role,
		Token:   "tok",
	}
	return auth.WithTestUser(r, user)
}

// replay copies the cookies set on rec onto a fresh request.
func replay(rec *httptest.ResponseRecorder, target string) *http.Request {
	req := httptest.NewRequest("GET", target, nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSignIn_LoadSessionUser_RoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	err := sm.SignIn(rec, httptest.NewRequest("POST", "/login", nil), auth.SessionUser{
		ID: "u1", Name: "Nguyễn Văn An", LoginID: "an", Role: "Admin", Token: "jwt-token",
	})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	var got *auth.SessionUser
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))
	h.ServeHTTP(httptest.NewRecorder(), replay(rec, "/dashboard"))

	if got == nil {
		t.Fatal("expected user loaded from session")
	}
	if got.ID != "u1" || got.Role != "admin" || got.Token != "jwt-token" || got.Name != "Nguyễn Văn An" {
		t.Errorf("user = %+v", got)
	}
}

func TestSignOut_ExpiresCookie(t *testing.T) {
	sm := newTestSessionManager(t)
	rec := httptest.NewRecorder()
	if err := sm.SignOut(rec, httptest.NewRequest("GET", "/logout", nil)); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected expiring cookie, got %+v", cookies)
	}
}

func TestFlash_PopsOnce(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	err := sm.SetFlash(rec, httptest.NewRequest("POST", "/approvals/x", nil), auth.Flash{
		Kind: auth.FlashSuccess, Title: "Xong", NextURL: "/finance/new", Delay: 1500 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("SetFlash: %v", err)
	}

	rec2 := httptest.NewRecorder()
	f := sm.PopFlash(rec2, replay(rec, "/approvals"))
	if f == nil || f.Title != "Xong" || f.NextURL != "/finance/new" {
		t.Fatalf("flash = %+v", f)
	}
	if f.DelaySeconds() != 2 {
		t.Errorf("DelaySeconds = %d, want 2", f.DelaySeconds())
	}

	if again := sm.PopFlash(httptest.NewRecorder(), replay(rec2, "/approvals")); again != nil {
		t.Errorf("flash should be consumed, got %+v", again)
	}
}
