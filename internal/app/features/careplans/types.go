// internal/app/features/careplans/types.go
package careplans

import (
	"github.com/dalemusser/nurseryhome/internal/app/system/formutil"
	"github.com/dalemusser/nurseryhome/internal/app/system/inputval"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
)

type option struct {
	Value string
	Label string
}

var categoryOptions = []option{
	{"main", "Gói chính"},
	{"supplementary", "Gói bổ sung"},
}

var durationOptions = []option{
	{"monthly", "Hàng tháng"},
	{"quarterly", "Hàng quý"},
	{"yearly", "Hàng năm"},
}

type listData struct {
	viewdata.BaseVM

	Main          []models.CarePlan
	Supplementary []models.CarePlan
}

type formData struct {
	formutil.Base

	Form       inputval.CarePlanForm
	PriceInput string
	// Services always has at least one row so the form shows an input.
	Services   []string
	Categories []option
	Durations  []option
}
