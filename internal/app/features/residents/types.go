// internal/app/features/residents/types.go
package residents

import (
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
)

// rosterRow is one resident as shown on the roster and in the export.
type rosterRow struct {
	ID               string
	FullName         string
	CCCDID           string
	Gender           string
	Age              int // -1 when the date of birth is unknown
	RoomNumber       string
	RoomAssigned     bool
	ContactName      string
	ContactPhone     string
	ContactRelation  string
	Status           string
	AdmissionDateStr string
}

type listData struct {
	viewdata.BaseVM

	Query     string
	Rows      []rosterRow
	Total     int
	CanDelete bool
}

type carePlanLine struct {
	Names       []string
	MonthlyCost float64
	Status      string
}

type viewData struct {
	viewdata.BaseVM

	Resident  models.Resident
	Row       rosterRow
	CarePlans []carePlanLine
	CanDelete bool
}

type familyData struct {
	viewdata.BaseVM

	Rows []rosterRow
}
