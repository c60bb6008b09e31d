// internal/app/store/photos/photostore.go
package photostore

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

// ErrInvalid is returned when a photo is missing a required field.
var ErrInvalid = errors.New("invalid photo")

var ErrNotFound = errors.New("photo not found")

// Store keeps photo metadata; the image bytes live in file storage.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("photos")}
}

// Create inserts photo metadata after the file has been stored.
func (s *Store) Create(ctx context.Context, p models.Photo) (models.Photo, error) {
	if strings.TrimSpace(p.ResidentID) == "" {
		return models.Photo{}, fmt.Errorf("%w: resident_id is required", ErrInvalid)
	}
	if strings.TrimSpace(p.StoragePath) == "" {
		return models.Photo{}, fmt.Errorf("%w: storage_path is required", ErrInvalid)
	}
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Photo{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Photo, error) {
	var p models.Photo
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Photo{}, ErrNotFound
	}
	return p, err
}

func (s *Store) find(ctx context.Context, filter bson.M, limit int64) ([]models.Photo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Photo
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByResidents returns photos for any of the residents, newest first.
// An empty id list returns no photos.
func (s *Store) ListByResidents(ctx context.Context, residentIDs []string) ([]models.Photo, error) {
	if len(residentIDs) == 0 {
		return nil, nil
	}
	return s.find(ctx, bson.M{"resident_id": bson.M{"$in": residentIDs}}, 0)
}

// ListRecent returns the newest photos across all residents.
func (s *Store) ListRecent(ctx context.Context, limit int64) ([]models.Photo, error) {
	return s.find(ctx, bson.M{}, limit)
}

// Delete removes the metadata. The caller removes the stored file.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
