// internal/app/store/financialreports/financialreportstore.go
package financialreportstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Report statuses.
const (
	StatusUnpaid   = "unpaid"
	StatusPaid     = "paid"
	StatusRefunded = "refunded"
)

// ErrInvalid is returned when a financial report is missing a required field.
var ErrInvalid = errors.New("invalid financial report")

var ErrNotFound = errors.New("financial report not found")

func validStatus(s string) bool {
	return s == StatusUnpaid || s == StatusPaid || s == StatusRefunded
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("financial_reports")}
}

// Create inserts a report. Status defaults to unpaid.
func (s *Store) Create(ctx context.Context, r models.FinancialReport) (models.FinancialReport, error) {
	if strings.TrimSpace(r.ResidentID) == "" {
		return models.FinancialReport{}, fmt.Errorf("%w: resident_id is required", ErrInvalid)
	}
	if r.Amount <= 0 {
		return models.FinancialReport{}, fmt.Errorf("%w: amount must be positive", ErrInvalid)
	}
	if !r.PeriodEnd.IsZero() && r.PeriodEnd.Before(r.PeriodStart) {
		return models.FinancialReport{}, fmt.Errorf("%w: period_end must not precede period_start", ErrInvalid)
	}
	if r.Status == "" {
		r.Status = StatusUnpaid
	}
	if !validStatus(r.Status) {
		return models.FinancialReport{}, fmt.Errorf("%w: status must be unpaid, paid or refunded", ErrInvalid)
	}
	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.CreatedAt = now
	r.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.FinancialReport{}, err
	}
	return r, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.FinancialReport, error) {
	var r models.FinancialReport
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.FinancialReport{}, ErrNotFound
	}
	return r, err
}

// ListByResident returns a resident's reports, latest period first.
func (s *Store) ListByResident(ctx context.Context, residentID string) ([]models.FinancialReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "period_start", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"resident_id": residentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.FinancialReport
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetStatus changes a report's payment status.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if !validStatus(status) {
		return fmt.Errorf("%w: status must be unpaid, paid or refunded", ErrInvalid)
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
