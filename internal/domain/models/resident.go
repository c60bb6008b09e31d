// internal/domain/models/resident.go
package models

import "time"

// Lifecycle statuses shared by residents, care-plan assignments, and bed assignments.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusActive   = "active"
)

// EmergencyContact is embedded in Resident.
type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship,omitempty"`
}

// Resident is a person living (or registering to live) in the home.
// Deleting a resident never deletes the linked family account.
type Resident struct {
	ID               string           `json:"_id"`
	FullName         string           `json:"full_name"`
	CCCDID           string           `json:"cccd_id"`
	Gender           string           `json:"gender,omitempty"`
	DateOfBirth      *time.Time       `json:"date_of_birth,omitempty"`
	AdmissionDate    *time.Time       `json:"admission_date,omitempty"`
	MedicalHistory   string           `json:"medical_history,omitempty"`
	Allergies        []string         `json:"allergies,omitempty"`
	EmergencyContact EmergencyContact `json:"emergency_contact"`
	FamilyMemberID   Ref[User]        `json:"family_member_id"`
	Status           string           `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
}

// AgeAt returns the resident's age in whole years at the given time,
// or -1 when the date of birth is unknown.
func (r Resident) AgeAt(now time.Time) int {
	if r.DateOfBirth == nil || r.DateOfBirth.IsZero() {
		return -1
	}
	dob := r.DateOfBirth.In(now.Location())
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
