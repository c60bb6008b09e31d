// Package formutil provides helpers for form re-rendering with validation errors.
//
// When a submission fails validation the form is rendered again with the
// values the user typed, a summary error, and a per-field error map.
//
//	type newCarePlanData struct {
//		formutil.Base
//		Form inputval.CarePlanForm
//	}
//
//	data := newCarePlanData{Form: form}
//	formutil.SetBase(&data.Base, r, "Tạo gói chăm sóc", "/careplans")
//	data.SetErrors(res)
//	templates.Render(w, r, "careplan_new", data)
package formutil

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/nurseryhome/internal/app/system/inputval"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
)

// Base contains common fields for form pages.
type Base struct {
	viewdata.BaseVM
	Error  template.HTML
	Errors map[string]string
}

// SetBase populates the embedded BaseVM from the request.
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	b.BaseVM = viewdata.NewBaseVM(r, title, backDefault)
}

// SetError sets the summary error.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}

// SetErrors copies a validation result onto the form.
func (b *Base) SetErrors(res inputval.Result) {
	b.Errors = res.Map()
	if res.HasErrors() {
		b.SetError("Vui lòng kiểm tra lại các trường được đánh dấu.")
	}
}

// FieldError returns the message for one field; templates call it by name.
func (b *Base) FieldError(field string) string {
	return b.Errors[field]
}

// Strings returns every non-empty, trimmed value posted under key, in order.
// Dynamic list rows all post the same field name.
func Strings(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.Form[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Float parses a numeric field. Commas are thousands separators, and so are
// dots when there is more than one ("5.000.000"). Anything unparsable
// becomes 0 and fails the positivity rule downstream.
func Float(r *http.Request, key string) float64 {
	s := strings.TrimSpace(r.FormValue(key))
	if s == "" {
		return 0
	}
	if strings.Count(s, ".") > 1 {
		s = strings.ReplaceAll(s, ".", "")
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// Int parses an integer field, returning def when empty or invalid.
func Int(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.FormValue(key)))
	if err != nil {
		return def
	}
	return n
}
