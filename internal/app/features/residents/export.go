// internal/app/features/residents/export.go
package residents

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/nurseryhome/internal/app/system/normalize"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const rosterSheet = "Cư dân"

var rosterHeaders = []string{
	"Họ và tên", "CCCD", "Giới tính", "Tuổi", "Số phòng",
	"Người liên hệ", "Số điện thoại", "Quan hệ", "Ngày nhập viện", "Trạng thái",
}

var rosterWidths = []float64{28, 16, 10, 8, 22, 24, 16, 14, 16, 12}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /residents/export.xlsx?q=                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	all, err := h.Residents.GetAll(ctx)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "list residents for export failed", err, "/residents")
		return
	}

	now := time.Now()
	rows := h.buildRows(ctx, filterResidents(all, normalize.QueryParam(query.Get(r, "q"))), now)

	b, err := rosterWorkbook(rows)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build roster workbook failed", err, "Không thể xuất danh sách.", "/residents",
			zap.Int("rows", len(rows)))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=cu-dan-%s.xlsx", now.Format("20060102")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// rosterWorkbook renders roster rows as an .xlsx file.
func rosterWorkbook(rows []rosterRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(rosterSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, title := range rosterHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(rosterSheet, cell, title); err != nil {
			return nil, fmt.Errorf("header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(rosterSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("header style %s: %w", cell, err)
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(rosterSheet, col, col, rosterWidths[i]); err != nil {
			return nil, fmt.Errorf("column width %s: %w", col, err)
		}
	}

	for n, row := range rows {
		age := ""
		if row.Age >= 0 {
			age = strconv.Itoa(row.Age)
		}
		values := []any{
			row.FullName, row.CCCDID, row.Gender, age, row.RoomNumber,
			row.ContactName, row.ContactPhone, row.ContactRelation, row.AdmissionDateStr, row.Status,
		}
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(rosterSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
	}

	if err := f.SetPanes(rosterSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
