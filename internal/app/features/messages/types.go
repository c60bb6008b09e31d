// internal/app/features/messages/types.go
package messages

import (
	"time"

	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
)

type bubble struct {
	Author  string
	Content string
	At      time.Time
	Mine    bool
}

type inboxData struct {
	viewdata.BaseVM

	Contacts    []models.Contact
	TotalUnread int
	Selected    *models.Contact
	Thread      []bubble
	ClientID    string
}

type familyData struct {
	viewdata.BaseVM

	Thread   []bubble
	Unread   int
	ClientID string
}

// bubbles marks messages written from the viewer's side as Mine.
func bubbles(msgs []models.Message, mine func(models.Message) bool) []bubble {
	out := make([]bubble, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, bubble{
			Author:  m.SenderName,
			Content: m.Content,
			At:      m.Timestamp,
			Mine:    mine(m),
		})
	}
	return out
}
