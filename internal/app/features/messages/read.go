// internal/app/features/messages/read.go
package messages

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| POST /messages/open                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleOpen selects a conversation: every unread message from that family
// member is marked read in one update, then the inbox derives its contact
// list again from the stored log.
func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Dữ liệu không hợp lệ.", "/messages")
		return
	}
	contactID := strings.TrimSpace(r.FormValue("contact_id"))
	if contactID == "" {
		http.Redirect(w, r, "/messages", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Messages.MarkReadFrom(ctx, contactID); err != nil {
		h.Log.Warn("mark read failed", zap.String("contact_id", contactID), zap.Error(err))
	}
	http.Redirect(w, r, "/messages?contact="+url.QueryEscape(contactID), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /family/messages/read                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleFamilyRead(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Messages.MarkReadTo(ctx, u.ID); err != nil {
		h.Log.Warn("mark read failed", zap.String("family_id", u.ID), zap.Error(err))
	}
	http.Redirect(w, r, "/family/messages", http.StatusSeeOther)
}
