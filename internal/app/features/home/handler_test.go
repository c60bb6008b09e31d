package home_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/nurseryhome/internal/app/features/home"
	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"go.uber.org/zap"
)

func TestServeRoot_Redirects(t *testing.T) {
	tests := []struct {
		name string
		user *auth.SessionUser
		want string
	}{
		{"visitor", nil, "/login"},
		{"admin", &auth.SessionUser{ID: "a1", Role: "admin"}, "/approvals"},
		{"staff", &auth.SessionUser{ID: "s1", Role: "staff"}, "/residents"},
		{"family", &auth.SessionUser{ID: "f1", Role: "family"}, "/family/messages"},
	}

	handler := home.NewHandler(zap.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.user != nil {
				req = auth.WithTestUser(req, tt.user)
			}
			rec := httptest.NewRecorder()

			handler.ServeRoot(rec, req)

			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
			}
			if loc := rec.Header().Get("Location"); loc != tt.want {
				t.Errorf("Location: got %q, want %q", loc, tt.want)
			}
		})
	}
}
