// internal/app/features/medicalrecords/new.go
package medicalrecords

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/app/system/formutil"
	"github.com/dalemusser/nurseryhome/internal/app/system/htmlsanitize"
	"github.com/dalemusser/nurseryhome/internal/app/system/inputval"
	"github.com/dalemusser/nurseryhome/internal/app/system/normalize"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /residents/{residentID}/medical-records/new                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	residentID := chi.URLParam(r, "residentID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Residents.GetByID(ctx, residentID)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "load resident failed", err, "/residents", zap.String("resident_id", residentID))
		return
	}

	data := newFormData(r, inputval.MedicalRecordForm{ResidentID: residentID, RecordType: "checkup"}, res.FullName)
	data.Flash = h.SessionMgr.PopFlash(w, r)
	templates.Render(w, r, "medicalrecord_new", &data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /residents/{residentID}/medical-records/new                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	residentID := chi.URLParam(r, "residentID")
	listURL := recordsURL(residentID)

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Dữ liệu không hợp lệ.", listURL)
		return
	}

	form := inputval.MedicalRecordForm{
		ResidentID:  residentID,
		RecordType:  normalize.Status(r.FormValue("record_type")),
		Title:       strings.TrimSpace(r.FormValue("title")),
		Diagnosis:   strings.TrimSpace(r.FormValue("diagnosis")),
		Treatment:   strings.TrimSpace(r.FormValue("treatment")),
		Medications: formutil.Strings(r, "medications"),
		Notes:       strings.TrimSpace(r.FormValue("notes")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Residents.GetByID(ctx, residentID)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "load resident failed", err, "/residents", zap.String("resident_id", residentID))
		return
	}

	if v := inputval.Validate(form); v.HasErrors() {
		data := newFormData(r, form, res.FullName)
		data.SetErrors(v)
		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.Render(w, r, "medicalrecord_new", &data)
		return
	}

	rec := models.MedicalRecord{
		ResidentID:   residentID,
		ResidentName: res.FullName,
		RecordType:   form.RecordType,
		Title:        form.Title,
		Diagnosis:    form.Diagnosis,
		Treatment:    form.Treatment,
		Medications:  form.Medications,
		Notes:        htmlsanitize.Sanitize(form.Notes),
	}
	u, _ := auth.CurrentUser(r)
	if u != nil {
		rec.CreatedByID = u.ID
		rec.CreatedByName = u.Name
	}

	created, err := h.Records.Create(ctx, rec)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create medical record failed", err,
			"Không thể lưu hồ sơ y tế.", listURL, zap.String("resident_id", residentID))
		return
	}

	if u != nil {
		h.AuditLog.MedicalRecordCreated(r.Context(), r, u.ID, residentID, created.ID.Hex())
	}
	if err := h.SessionMgr.SetFlash(w, r, auth.Flash{
		Kind:    auth.FlashSuccess,
		Title:   "Đã lưu hồ sơ y tế",
		Message: "Hồ sơ \"" + form.Title + "\" của " + res.FullName + " đã được thêm.",
		NextURL: listURL,
		Delay:   h.PostActionDelay,
	}); err != nil {
		h.Log.Warn("set flash failed", zap.Error(err))
	}
	http.Redirect(w, r, listURL+"/new", http.StatusSeeOther)
}

func recordsURL(residentID string) string {
	return "/residents/" + residentID + "/medical-records"
}

func newFormData(r *http.Request, form inputval.MedicalRecordForm, residentName string) formData {
	meds := form.Medications
	if len(meds) == 0 {
		meds = []string{""}
	}
	data := formData{
		ResidentName: residentName,
		Form:         form,
		Medications:  meds,
		RecordTypes:  recordTypeOptions,
	}
	formutil.SetBase(&data.Base, r, "Thêm hồ sơ y tế", recordsURL(form.ResidentID))
	return data
}
