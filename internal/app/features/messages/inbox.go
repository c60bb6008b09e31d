// internal/app/features/messages/inbox.go
package messages

import (
	"context"
	"net/http"

	"github.com/dalemusser/nurseryhome/internal/app/system/conversations"
	"github.com/dalemusser/nurseryhome/internal/app/system/normalize"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/google/uuid"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /messages?contact=<familyID>                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeInbox lists conversations and shows the selected thread. It does not
// change read state; selecting a contact posts to /messages/open first.
func (h *Handler) ServeInbox(w http.ResponseWriter, r *http.Request) {
	contactID := normalize.QueryParam(query.Get(r, "contact"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	msgs, err := h.Messages.ListAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list messages failed", err, "Không thể tải tin nhắn.", "/residents")
		return
	}

	data := buildInbox(msgs, contactID)
	data.BaseVM = viewdata.NewBaseVM(r, "Tin nhắn", "/residents")
	data.ClientID = uuid.NewString()
	data.Flash = h.SessionMgr.PopFlash(w, r)

	templates.Render(w, r, "messages_inbox", data)
}

func buildInbox(msgs []models.Message, contactID string) inboxData {
	contacts := conversations.DeriveContacts(msgs)
	data := inboxData{
		Contacts:    contacts,
		TotalUnread: conversations.TotalUnread(contacts),
	}
	for i := range contacts {
		if contacts[i].ID == contactID {
			data.Selected = &contacts[i]
			break
		}
	}
	if data.Selected != nil {
		data.Thread = bubbles(conversations.Thread(msgs, contactID), func(m models.Message) bool {
			return m.SenderRole != models.RoleFamily
		})
	}
	return data
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /family/messages                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeFamily(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	msgs, err := h.Messages.ListForFamily(ctx, u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list messages failed", err, "Không thể tải tin nhắn.", "/family/residents")
		return
	}

	data := familyData{
		BaseVM: viewdata.NewBaseVM(r, "Tin nhắn với nhân viên", "/family/residents"),
		Thread: bubbles(msgs, func(m models.Message) bool {
			return m.SenderID == u.ID
		}),
		Unread:   unreadFor(msgs, u.ID),
		ClientID: uuid.NewString(),
	}
	data.Flash = h.SessionMgr.PopFlash(w, r)

	templates.Render(w, r, "messages_family", data)
}

// unreadFor counts unread messages addressed to familyID.
func unreadFor(msgs []models.Message, familyID string) int {
	n := 0
	for _, m := range msgs {
		if m.RecipientID == familyID && !m.Read {
			n++
		}
	}
	return n
}
