// internal/domain/models/careplan.go
package models

// CarePlan is a care package offered by the home.
type CarePlan struct {
	ID                string   `json:"_id,omitempty"`
	PlanName          string   `json:"plan_name"`
	Description       string   `json:"description"`
	MonthlyPrice      float64  `json:"monthly_price"`
	PlanType          string   `json:"plan_type"`
	Category          string   `json:"category"` // main | supplementary
	ServicesIncluded  []string `json:"services_included"`
	StaffRatio        string   `json:"staff_ratio"`
	DurationType      string   `json:"duration_type"` // monthly | quarterly | yearly
	Prerequisites     []string `json:"prerequisites,omitempty"`
	ContraIndications []string `json:"contraindications,omitempty"`
	IsActive          bool     `json:"is_active"`
}

// CarePlanAssignment links a resident to one or more care plans and is
// subject to admin approval before billing begins.
type CarePlanAssignment struct {
	ID               string          `json:"_id"`
	ResidentID       Ref[Resident]   `json:"resident_id"`
	CarePlanIDs      []Ref[CarePlan] `json:"care_plan_ids,omitempty"`
	BedID            Ref[Bed]        `json:"bed_id"`
	AssignedRoomID   Ref[Room]       `json:"assigned_room_id"`
	TotalMonthlyCost float64         `json:"total_monthly_cost,omitempty"`
	Status           string          `json:"status"`
	Reason           string          `json:"reason,omitempty"`
}

// RoomRef returns the room reachable from the assignment, preferring the
// bed's room over assigned_room_id.
func (a CarePlanAssignment) RoomRef() Ref[Room] {
	if a.BedID.Doc != nil && !a.BedID.Doc.RoomID.IsZero() {
		return a.BedID.Doc.RoomID
	}
	return a.AssignedRoomID
}
