// internal/app/store/messages/messagestore.go
package messagestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/nurseryhome/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrEmptyContent is returned when a message has no text after trimming.
var ErrEmptyContent = errors.New("message content is empty")

// ErrDuplicateSend is returned when a message with the same client id was
// already stored, i.e. the send form was submitted twice.
var ErrDuplicateSend = errors.New("message already sent")

// ErrMissingParty is returned when a message has no sender or recipient.
var ErrMissingParty = errors.New("message needs a sender and a recipient")

// Store is the append-only staff/family message log.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("messages")}
}

// Insert appends a message. The id and timestamp are assigned here and the
// message starts unread.
func (s *Store) Insert(ctx context.Context, m models.Message) (models.Message, error) {
	m.Content = strings.TrimSpace(m.Content)
	if m.Content == "" {
		return models.Message{}, ErrEmptyContent
	}
	if m.SenderID == "" || m.RecipientID == "" {
		return models.Message{}, ErrMissingParty
	}
	m.ID = primitive.NewObjectID()
	m.Timestamp = time.Now().UTC()
	m.Read = false

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Message{}, ErrDuplicateSend
		}
		return models.Message{}, err
	}
	return m, nil
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns the whole log oldest first. Staff share one inbox.
func (s *Store) ListAll(ctx context.Context) ([]models.Message, error) {
	return s.find(ctx, bson.M{})
}

// ListForFamily returns the messages a family member sent or received,
// oldest first.
func (s *Store) ListForFamily(ctx context.Context, familyID string) ([]models.Message, error) {
	return s.find(ctx, bson.M{"$or": []bson.M{
		{"sender_id": familyID},
		{"recipient_id": familyID},
	}})
}

// MarkReadFrom marks every unread message sent by senderID as read and
// returns how many changed.
func (s *Store) MarkReadFrom(ctx context.Context, senderID string) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"sender_id": senderID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// MarkReadTo marks staff replies addressed to recipientID as read. Used
// when a family member opens their conversation.
func (s *Store) MarkReadTo(ctx context.Context, recipientID string) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"recipient_id": recipientID, "sender_role": bson.M{"$ne": models.RoleFamily}, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CountUnreadFromFamily counts family-authored messages still unread.
func (s *Store) CountUnreadFromFamily(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"sender_role": models.RoleFamily, "read": false})
}
