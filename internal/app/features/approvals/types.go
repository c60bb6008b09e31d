// internal/app/features/approvals/types.go
package approvals

import (
	"github.com/dalemusser/nurseryhome/internal/app/system/approval"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
)

type userRow struct {
	ID       string
	FullName string
	Username string
	Email    string
	Phone    string
}

type residentRow struct {
	ID            string
	FullName      string
	CCCDID        string
	Age           int
	FamilyName    string
	HasCarePlan   bool
	CarePlanNames []string
	MonthlyCost   float64
	HasBed        bool
	BedLabel      string
}

type listData struct {
	viewdata.BaseVM

	Tab           string
	Users         []userRow
	Residents     []residentRow
	UserCount     int
	ResidentCount int
	Conflicts     []approval.Conflict
}
