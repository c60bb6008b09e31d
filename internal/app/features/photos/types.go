// internal/app/features/photos/types.go
package photos

import (
	"time"

	"github.com/dalemusser/nurseryhome/internal/app/system/formutil"
	"github.com/dalemusser/nurseryhome/internal/app/system/inputval"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
)

type option struct {
	Value string
	Label string
}

var activityOptions = []option{
	{"", "Không phân loại"},
	{"meal", "Bữa ăn"},
	{"exercise", "Vận động"},
	{"entertainment", "Giải trí"},
	{"health", "Chăm sóc sức khỏe"},
	{"event", "Sự kiện"},
}

func activityLabel(v string) string {
	for _, o := range activityOptions {
		if o.Value == v {
			return o.Label
		}
	}
	return v
}

type photoCard struct {
	URL          string
	Caption      string
	Activity     string
	ResidentName string
	UploadedBy   string
	CreatedAt    time.Time
}

type galleryData struct {
	viewdata.BaseVM

	Photos  []photoCard
	CanPost bool
}

type uploadData struct {
	formutil.Base

	Form       inputval.PhotoForm
	Residents  []models.Resident
	Activities []option
	MaxMB      int64
}
