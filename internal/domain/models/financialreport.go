// internal/domain/models/financialreport.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FinancialReport records a billing entry for a resident after admission
// has been approved.
type FinancialReport struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	ResidentID    string             `bson:"resident_id"`
	ResidentName  string             `bson:"resident_name"`
	Title         string             `bson:"title"`
	Amount        float64            `bson:"amount"`
	MonthlyPrice  float64            `bson:"monthly_price"`
	PeriodStart   time.Time          `bson:"period_start"`
	PeriodEnd     time.Time          `bson:"period_end"`
	DueDate       time.Time          `bson:"due_date"`
	Status        string             `bson:"status"` // unpaid | paid | refunded
	Notes         string             `bson:"notes,omitempty"`
	CreatedByID   string             `bson:"created_by_id"`
	CreatedByName string             `bson:"created_by_name"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

// RefundEstimate is the informational refund shown to families:
// paid - daysUsed * monthlyPrice / 30, never below zero. It is displayed
// only; nothing in this application enforces it.
func RefundEstimate(paid float64, daysUsed int, monthlyPrice float64) float64 {
	if daysUsed < 0 {
		daysUsed = 0
	}
	refund := paid - float64(daysUsed)*monthlyPrice/30
	if refund < 0 {
		return 0
	}
	return refund
}
