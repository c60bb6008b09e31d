package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data in the
// app-owned collections.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateMessage inserts a message. A zero timestamp becomes now.
func (f *Fixtures) CreateMessage(ctx context.Context, m models.Message) models.Message {
	f.t.Helper()

	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	if _, err := f.db.Collection("messages").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test message: %v", err)
	}
	return m
}

// FamilyMessage builds an unread message from a family member to staff.
func FamilyMessage(familyID, staffID, content string, at time.Time) models.Message {
	return models.Message{
		SenderID:      familyID,
		SenderName:    "Gia đình " + familyID,
		SenderRole:    models.RoleFamily,
		RecipientID:   staffID,
		RecipientName: "Nhân viên " + staffID,
		Content:       content,
		Timestamp:     at,
	}
}

// StaffMessage builds a message from staff to a family member.
func StaffMessage(staffID, familyID, content string, at time.Time) models.Message {
	return models.Message{
		SenderID:      staffID,
		SenderName:    "Nhân viên " + staffID,
		SenderRole:    models.RoleStaff,
		RecipientID:   familyID,
		RecipientName: "Gia đình " + familyID,
		Content:       content,
		Timestamp:     at,
		Read:          true,
	}
}

// CreateMedicalRecord inserts a medical record for the resident.
func (f *Fixtures) CreateMedicalRecord(ctx context.Context, residentID, title string, recordedAt time.Time) models.MedicalRecord {
	f.t.Helper()

	now := time.Now().UTC()
	rec := models.MedicalRecord{
		ID:            primitive.NewObjectID(),
		ResidentID:    residentID,
		ResidentName:  "Cư dân " + residentID,
		RecordType:    "checkup",
		Title:         title,
		RecordedAt:    recordedAt,
		CreatedByID:   "staff1",
		CreatedByName: "Test Staff",
		CreatedAt:     now,
	}
	if _, err := f.db.Collection("medical_records").InsertOne(ctx, rec); err != nil {
		f.t.Fatalf("failed to create test medical record: %v", err)
	}
	return rec
}

// CreatePhoto inserts photo metadata for the resident.
func (f *Fixtures) CreatePhoto(ctx context.Context, residentID, caption string) models.Photo {
	f.t.Helper()

	p := models.Photo{
		ID:             primitive.NewObjectID(),
		ResidentID:     residentID,
		ResidentName:   "Cư dân " + residentID,
		Caption:        caption,
		FileName:       primitive.NewObjectID().Hex() + ".jpg",
		StoragePath:    "photos/" + residentID,
		ContentType:    "image/jpeg",
		SizeBytes:      1024,
		UploadedByID:   "staff1",
		UploadedByName: "Test Staff",
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := f.db.Collection("photos").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test photo: %v", err)
	}
	return p
}
