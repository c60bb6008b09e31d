// internal/domain/models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is one entry of the staff/family message log.
// SenderRole is RoleFamily or RoleStaff.
type Message struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID      string             `bson:"client_id,omitempty" json:"client_id,omitempty"`
	SenderID      string             `bson:"sender_id" json:"sender_id"`
	SenderName    string             `bson:"sender_name" json:"sender_name"`
	SenderRole    string             `bson:"sender_role" json:"sender_role"`
	RecipientID   string             `bson:"recipient_id" json:"recipient_id"`
	RecipientName string             `bson:"recipient_name" json:"recipient_name"`
	ResidentName  string             `bson:"resident_name,omitempty" json:"resident_name,omitempty"`
	Content       string             `bson:"content" json:"content"`
	Timestamp     time.Time          `bson:"timestamp" json:"timestamp"`
	Read          bool               `bson:"read" json:"read"`
}

// Contact is the per-family-member conversation summary shown to staff.
type Contact struct {
	ID           string
	Name         string
	ResidentName string
	LastMessage  Message
	UnreadCount  int
}
