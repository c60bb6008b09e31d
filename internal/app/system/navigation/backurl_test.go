package navigation

import (
	"net/http/httptest"
	"testing"
)

func TestSafeBackURL(t *testing.T) {
	tests := []struct {
		name   string
		target string
		opts   BackURLOptions
		want   string
	}{
		{"valid return", "/x?return=/residents/r1", ResidentsBackURL, "/residents/r1"},
		{"wrong prefix", "/x?return=/users", ResidentsBackURL, "/residents"},
		{"excluded action", "/x?return=/residents/r1/delete", ResidentsBackURL, "/residents"},
		{"external", "/x?return=https://evil.example.com/", ResidentsBackURL, "/residents"},
		{"no return", "/x", UsersBackURL, "/users"},
		{"preserves tab", "/x?tab=residents", ApprovalsBackURL, "/approvals?tab=residents"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if got := SafeBackURL(r, tt.opts); got != tt.want {
				t.Errorf("SafeBackURL(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}
