// internal/app/features/medicalrecords/types.go
package medicalrecords

import (
	"html/template"
	"time"

	"github.com/dalemusser/nurseryhome/internal/app/system/formutil"
	"github.com/dalemusser/nurseryhome/internal/app/system/inputval"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
)

type option struct {
	Value string
	Label string
}

var recordTypeOptions = []option{
	{"checkup", "Khám định kỳ"},
	{"medication", "Dùng thuốc"},
	{"incident", "Sự cố"},
	{"other", "Khác"},
}

func recordTypeLabel(v string) string {
	for _, o := range recordTypeOptions {
		if o.Value == v {
			return o.Label
		}
	}
	return v
}

type recordRow struct {
	ID          string
	Type        string
	Title       string
	Diagnosis   string
	Treatment   string
	Medications []string
	Notes       template.HTML
	RecordedAt  time.Time
	RecordedBy  string
}

type listData struct {
	viewdata.BaseVM

	ResidentID   string
	ResidentName string
	Records      []recordRow
}

type formData struct {
	formutil.Base

	ResidentName string
	Form         inputval.MedicalRecordForm
	// Medications always has at least one row so the form shows an input.
	Medications []string
	RecordTypes []option
}
