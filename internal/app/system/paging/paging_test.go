package paging

import (
	"net/http/httptest"
	"testing"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		target string
		want   int
	}{
		{"/audit", 1},
		{"/audit?page=3", 3},
		{"/audit?page=0", 1},
		{"/audit?page=-2", 1},
		{"/audit?page=abc", 1},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.target, nil)
		if got := ParsePage(r); got != tt.want {
			t.Errorf("ParsePage(%q) = %d, want %d", tt.target, got, tt.want)
		}
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(1, 50); got != 0 {
		t.Errorf("Offset(1) = %d, want 0", got)
	}
	if got := Offset(3, 50); got != 100 {
		t.Errorf("Offset(3) = %d, want 100", got)
	}
	if got := Offset(0, 50); got != 0 {
		t.Errorf("Offset(0) = %d, want 0", got)
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		total int64
		shown int
		want  Window
	}{
		{
			name: "empty",
			page: 1, total: 0, shown: 0,
			want: Window{Page: 1, TotalPages: 1, PrevPage: 1, NextPage: 1},
		},
		{
			name: "first of three",
			page: 1, total: 120, shown: 50,
			want: Window{Page: 1, TotalPages: 3, Total: 120, RangeStart: 1, RangeEnd: 50,
				HasNext: true, PrevPage: 1, NextPage: 2},
		},
		{
			name: "last partial page",
			page: 3, total: 120, shown: 20,
			want: Window{Page: 3, TotalPages: 3, Total: 120, RangeStart: 101, RangeEnd: 120,
				HasPrev: true, PrevPage: 2, NextPage: 3},
		},
		{
			name: "past the end",
			page: 5, total: 120, shown: 0,
			want: Window{Page: 5, TotalPages: 3, Total: 120, HasPrev: true, PrevPage: 4, NextPage: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(tt.page, 50, tt.total, tt.shown); got != tt.want {
				t.Errorf("Compute() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
