// internal/app/features/residents/roster.go
package residents

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/nurseryhome/internal/app/system/roomresolve"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

// fold lowercases and strips diacritics so "Đặng" matches "dang".
func fold(s string) string {
	s = strings.NewReplacer("Đ", "D", "đ", "d").Replace(s)
	return text.Fold(s)
}

// filterResidents keeps residents whose folded name or CCCD contains q.
func filterResidents(list []models.Resident, q string) []models.Resident {
	q = strings.TrimSpace(q)
	if q == "" {
		return list
	}
	needle := fold(q)
	out := make([]models.Resident, 0, len(list))
	for _, res := range list {
		if strings.Contains(fold(res.FullName), needle) || strings.Contains(res.CCCDID, q) {
			out = append(out, res)
		}
	}
	return out
}

// buildRows resolves every resident's room and returns rows in input
// order. It returns only after every row has a result.
func (h *Handler) buildRows(ctx context.Context, list []models.Resident, now time.Time) []rosterRow {
	ids := make([]string, 0, len(list))
	for _, res := range list {
		ids = append(ids, res.ID)
	}
	rooms := h.Rooms.ResolveAll(ctx, ids)

	rows := make([]rosterRow, 0, len(list))
	for _, res := range list {
		rows = append(rows, toRow(res, rooms[res.ID], now))
	}
	return rows
}

func toRow(res models.Resident, room roomresolve.Result, now time.Time) rosterRow {
	row := rosterRow{
		ID:              res.ID,
		FullName:        res.FullName,
		CCCDID:          res.CCCDID,
		Gender:          genderLabel(res.Gender),
		Age:             res.AgeAt(now),
		RoomNumber:      room.Display(),
		RoomAssigned:    room.Found,
		ContactName:     res.EmergencyContact.Name,
		ContactPhone:    res.EmergencyContact.Phone,
		ContactRelation: res.EmergencyContact.Relationship,
		Status:          res.Status,
	}
	if res.AdmissionDate != nil {
		row.AdmissionDateStr = res.AdmissionDate.In(now.Location()).Format("02/01/2006")
	}
	return row
}

func genderLabel(g string) string {
	switch strings.ToLower(g) {
	case "male":
		return "Nam"
	case "female":
		return "Nữ"
	default:
		return g
	}
}
