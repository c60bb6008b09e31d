// Package conversations derives the staff inbox from the flat message log.
// Contacts are always recomputed from messages; there is no second copy of
// unread counts to keep in sync.
package conversations

import (
	"sort"

	"github.com/dalemusser/nurseryhome/internal/domain/models"
)

// ContactID is the family member a message belongs to: the sender when a
// family member wrote it, otherwise the recipient.
func ContactID(m models.Message) string {
	if m.SenderRole == models.RoleFamily {
		return m.SenderID
	}
	return m.RecipientID
}

func contactName(m models.Message) string {
	if m.SenderRole == models.RoleFamily {
		return m.SenderName
	}
	return m.RecipientName
}

// DeriveContacts builds one contact per family member in a single pass.
// LastMessage changes only on a strictly newer timestamp, so the first of
// two equal timestamps wins. UnreadCount counts unread family-authored
// messages. Contacts are ordered by last message, newest first.
func DeriveContacts(msgs []models.Message) []models.Contact {
	byID := make(map[string]*models.Contact)
	order := make([]string, 0)

	for _, m := range msgs {
		id := ContactID(m)
		if id == "" {
			continue
		}
		c, ok := byID[id]
		if !ok {
			c = &models.Contact{ID: id, Name: contactName(m), ResidentName: m.ResidentName, LastMessage: m}
			byID[id] = c
			order = append(order, id)
		} else if m.Timestamp.After(c.LastMessage.Timestamp) {
			c.LastMessage = m
		}
		if c.Name == "" {
			c.Name = contactName(m)
		}
		if c.ResidentName == "" {
			c.ResidentName = m.ResidentName
		}
		if !m.Read && m.SenderRole == models.RoleFamily {
			c.UnreadCount++
		}
	}

	out := make([]models.Contact, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessage.Timestamp.After(out[j].LastMessage.Timestamp)
	})
	return out
}

// TotalUnread sums unread counts across contacts.
func TotalUnread(contacts []models.Contact) int {
	n := 0
	for _, c := range contacts {
		n += c.UnreadCount
	}
	return n
}

// Thread returns the messages exchanged with one family member, oldest first.
func Thread(msgs []models.Message, contactID string) []models.Message {
	var out []models.Message
	for _, m := range msgs {
		if ContactID(m) == contactID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
