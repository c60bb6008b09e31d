// internal/app/store/medicalrecords/medicalrecordstore.go
package medicalrecordstore

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

// ErrInvalid is returned when a medical record is missing a required field.
var ErrInvalid = errors.New("invalid medical record")

var ErrNotFound = errors.New("medical record not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("medical_records")}
}

// Create inserts a record. RecordedAt defaults to now.
func (s *Store) Create(ctx context.Context, rec models.MedicalRecord) (models.MedicalRecord, error) {
	if strings.TrimSpace(rec.ResidentID) == "" {
		return models.MedicalRecord{}, fmt.Errorf("%w: resident_id is required", ErrInvalid)
	}
	if strings.TrimSpace(rec.Title) == "" {
		return models.MedicalRecord{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	now := time.Now().UTC()
	rec.ID = primitive.NewObjectID()
	rec.CreatedAt = now
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = now
	}
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		return models.MedicalRecord{}, err
	}
	return rec, nil
}

// GetByID returns one record.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.MedicalRecord, error) {
	var rec models.MedicalRecord
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.MedicalRecord{}, ErrNotFound
	}
	return rec, err
}

// ListByResident returns a resident's records, most recent first.
func (s *Store) ListByResident(ctx context.Context, residentID string) ([]models.MedicalRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "recorded_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"resident_id": residentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.MedicalRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByResident removes every record for a deleted resident.
func (s *Store) DeleteByResident(ctx context.Context, residentID string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"resident_id": residentID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
