// internal/domain/models/user.go
package models

// User statuses as reported by the backend.
const (
	UserPending   = "pending"
	UserActive    = "active"
	UserInactive  = "inactive"
	UserSuspended = "suspended"
	UserDeleted   = "deleted"
)

// Roles known to the application.
const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleFamily = "family"
)

// User is an account held by the backend (admins, staff, family members).
type User struct {
	ID       string `json:"_id"`
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Status   string `json:"status"`
	Role     string `json:"role"`
	Position string `json:"position,omitempty"` // staff only
	Notes    string `json:"notes,omitempty"`
}

// UserInput is the payload for creating or updating a user.
// Password is only sent on create.
type UserInput struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
	Status   string `json:"status,omitempty"`
	Position string `json:"position,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Password string `json:"password,omitempty"`
}
