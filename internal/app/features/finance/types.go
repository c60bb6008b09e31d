// internal/app/features/finance/types.go
package finance

import (
	"time"

	financialreportstore "github.com/dalemusser/nurseryhome/internal/app/store/financialreports"
	"github.com/dalemusser/nurseryhome/internal/app/system/formutil"
	"github.com/dalemusser/nurseryhome/internal/app/system/inputval"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
)

const dateLayout = "2006-01-02"

var statusLabels = map[string]string{
	financialreportstore.StatusUnpaid:   "Chưa thanh toán",
	financialreportstore.StatusPaid:     "Đã thanh toán",
	financialreportstore.StatusRefunded: "Đã hoàn tiền",
}

type reportRow struct {
	ID          string
	Title       string
	Amount      float64
	PeriodStart time.Time
	PeriodEnd   time.Time
	DueDate     time.Time
	Status      string
	StatusLabel string
	Overdue     bool
	// Refund is only meaningful for paid reports; see models.RefundEstimate.
	DaysUsed int
	Refund   float64
	Notes    string
}

type listData struct {
	viewdata.BaseVM

	Residents    []models.Resident // picker shown when no resident is selected
	ResidentID   string
	ResidentName string
	Reports      []reportRow
	Outstanding  float64
	CanEdit      bool
}

type formData struct {
	formutil.Base

	ResidentName string
	Form         inputval.FinancialReportForm
	AmountInput  string
	PriceInput   string
}
