// internal/domain/models/photo.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Photo is metadata for an image shared with a resident's family.
// The bytes live in file storage under StoragePath.
type Photo struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	ResidentID     string             `bson:"resident_id"`
	ResidentName   string             `bson:"resident_name"`
	Caption        string             `bson:"caption"`
	ActivityType   string             `bson:"activity_type,omitempty"`
	Tags           []string           `bson:"tags,omitempty"`
	FileName       string             `bson:"file_name"`
	StoragePath    string             `bson:"storage_path"`
	ContentType    string             `bson:"content_type"`
	SizeBytes      int64              `bson:"size_bytes"`
	UploadedByID   string             `bson:"uploaded_by_id"`
	UploadedByName string             `bson:"uploaded_by_name"`
	TakenAt        *time.Time         `bson:"taken_at,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"`
}
