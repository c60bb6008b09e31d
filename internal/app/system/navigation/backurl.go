// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/residents").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedSubpaths are subpath patterns to reject (e.g., "/edit", "/delete", "/new").
	// These prevent redirect loops back to action pages.
	ExcludedSubpaths []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string

	// PreserveQueryParam is an optional query parameter to preserve in the fallback URL.
	// For example, "tab" keeps the approvals tab the admin was on.
	PreserveQueryParam string
}

// SafeBackURL returns the "return" target carried by the query string or
// form when it is a local path that opts allows, and opts.Fallback
// otherwise. With PreserveQueryParam set, that parameter's current value
// is carried over onto the fallback.
//
//	back := navigation.SafeBackURL(r, navigation.ResidentsBackURL)
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}
	if ret != "" && opts.allowed(ret) {
		return ret
	}
	return opts.fallback(r)
}

func (o BackURLOptions) allowed(ret string) bool {
	if o.AllowedPrefix != "" && !strings.HasPrefix(ret, o.AllowedPrefix) {
		return false
	}
	for _, sub := range o.ExcludedSubpaths {
		if strings.Contains(ret, sub) {
			return false
		}
	}
	return true
}

func (o BackURLOptions) fallback(r *http.Request) string {
	if o.PreserveQueryParam == "" {
		return o.Fallback
	}
	v := query.Get(r, o.PreserveQueryParam)
	if v == "" {
		v = strings.TrimSpace(r.FormValue(o.PreserveQueryParam))
	}
	if v == "" {
		return o.Fallback
	}
	u, err := url.Parse(o.Fallback)
	if err != nil {
		return o.Fallback
	}
	q := u.Query()
	q.Set(o.PreserveQueryParam, v)
	u.RawQuery = q.Encode()
	return u.String()
}

// Common back URL configurations for reuse across packages.
var (
	// ResidentsBackURL is used by roster, medical record, and photo pages.
	ResidentsBackURL = BackURLOptions{
		AllowedPrefix:    "/residents",
		ExcludedSubpaths: []string{"/delete", "/new", "/export"},
		Fallback:         "/residents",
	}

	// UsersBackURL is used by the user create/edit pages.
	UsersBackURL = BackURLOptions{
		AllowedPrefix:    "/users",
		ExcludedSubpaths: []string{"/edit", "/new"},
		Fallback:         "/users",
	}

	// ApprovalsBackURL keeps the selected tab when returning to approvals.
	ApprovalsBackURL = BackURLOptions{
		AllowedPrefix:      "/approvals",
		ExcludedSubpaths:   []string{"/approve", "/reject"},
		Fallback:           "/approvals",
		PreserveQueryParam: "tab",
	}
)
