// internal/app/features/medicalrecords/list.go
package medicalrecords

import (
	"context"
	"net/http"

	"github.com/dalemusser/nurseryhome/internal/app/system/htmlsanitize"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /residents/{residentID}/medical-records                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	residentID := chi.URLParam(r, "residentID")
	back := "/residents/" + residentID

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res, err := h.Residents.GetByID(ctx, residentID)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "load resident failed", err, "/residents", zap.String("resident_id", residentID))
		return
	}

	recs, err := h.Records.ListByResident(ctx, residentID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list medical records failed", err,
			"Không thể tải hồ sơ y tế.", back, zap.String("resident_id", residentID))
		return
	}

	data := listData{
		BaseVM:       viewdata.NewBaseVM(r, "Hồ sơ y tế", back),
		ResidentID:   residentID,
		ResidentName: res.FullName,
		Records:      toRows(recs),
	}
	data.Flash = h.SessionMgr.PopFlash(w, r)

	templates.Render(w, r, "medicalrecords_list", data)
}

func toRows(recs []models.MedicalRecord) []recordRow {
	rows := make([]recordRow, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, recordRow{
			ID:          rec.ID.Hex(),
			Type:        recordTypeLabel(rec.RecordType),
			Title:       rec.Title,
			Diagnosis:   rec.Diagnosis,
			Treatment:   rec.Treatment,
			Medications: rec.Medications,
			Notes:       htmlsanitize.PrepareForDisplay(rec.Notes),
			RecordedAt:  rec.RecordedAt,
			RecordedBy:  rec.CreatedByName,
		})
	}
	return rows
}
