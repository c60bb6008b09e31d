// internal/domain/models/medicalrecord.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MedicalRecord is a clinical note written by staff about a resident.
type MedicalRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	ResidentID    string             `bson:"resident_id"`
	ResidentName  string             `bson:"resident_name"`
	RecordType    string             `bson:"record_type"` // checkup | medication | incident | other
	Title         string             `bson:"title"`
	Diagnosis     string             `bson:"diagnosis,omitempty"`
	Treatment     string             `bson:"treatment,omitempty"`
	Medications   []string           `bson:"medications,omitempty"`
	Notes         string             `bson:"notes,omitempty"` // sanitized HTML
	RecordedAt    time.Time          `bson:"recorded_at"`
	CreatedByID   string             `bson:"created_by_id"`
	CreatedByName string             `bson:"created_by_name"`
	CreatedAt     time.Time          `bson:"created_at"`
}
