// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
)

// UserCtx returns the user's role (lowercased), name, backend id, and a found flag.
// If no user is present it returns "visitor", "", "", false.
func UserCtx(r *http.Request) (role string, name string, userID string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok || user.ID == "" {
		return "visitor", "", "", false
	}
	return strings.ToLower(user.Role), user.Name, user.ID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// IsStaff reports whether the current user works at the home (admins included).
func IsStaff(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && (role == models.RoleStaff || role == models.RoleAdmin)
}

// IsFamily reports whether the current user is a resident's family member.
func IsFamily(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleFamily
}

// CanDeleteResidents reports whether the current user may delete residents.
func CanDeleteResidents(r *http.Request) bool {
	return IsAdmin(r)
}

// HomePath is the landing page for a role.
func HomePath(role string) string {
	switch strings.ToLower(role) {
	case models.RoleAdmin:
		return "/approvals"
	case models.RoleStaff:
		return "/residents"
	case models.RoleFamily:
		return "/family/messages"
	default:
		return "/login"
	}
}
