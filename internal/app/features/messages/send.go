// internal/app/features/messages/send.go
package messages

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/app/system/conversations"
	"github.com/dalemusser/nurseryhome/internal/app/system/htmlsanitize"
	"github.com/dalemusser/nurseryhome/internal/app/system/inputval"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	messagestore "github.com/dalemusser/nurseryhome/internal/app/store/messages"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"go.uber.org/zap"
)

func currentUser(r *http.Request) (*auth.SessionUser, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok || u == nil {
		return &auth.SessionUser{}, false
	}
	return u, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /messages/send                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleStaffSend replies to a family member who already has a conversation.
func (h *Handler) HandleStaffSend(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Dữ liệu không hợp lệ.", "/messages")
		return
	}
	u, _ := currentUser(r)
	form := readForm(r)
	back := "/messages?contact=" + url.QueryEscape(form.RecipientID)

	if res := inputval.Validate(form); res.HasErrors() {
		h.flash(w, r, auth.FlashWarning, "Chưa gửi được tin nhắn", res.First())
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	msgs, err := h.Messages.ListAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list messages failed", err, "Không thể tải tin nhắn.", "/messages")
		return
	}
	var contact *models.Contact
	for _, c := range conversations.DeriveContacts(msgs) {
		if c.ID == form.RecipientID {
			contact = &c
			break
		}
	}
	if contact == nil {
		h.flash(w, r, auth.FlashError, "Không tìm thấy cuộc trò chuyện", "Người nhận chưa có tin nhắn nào.")
		http.Redirect(w, r, "/messages", http.StatusSeeOther)
		return
	}

	h.insert(ctx, w, r, models.Message{
		ClientID:      r.FormValue("client_id"),
		SenderID:      u.ID,
		SenderName:    u.Name,
		SenderRole:    models.RoleStaff,
		RecipientID:   contact.ID,
		RecipientName: contact.Name,
		ResidentName:  contact.ResidentName,
		Content:       form.Content,
	}, back)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /family/messages/send                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleFamilySend(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Dữ liệu không hợp lệ.", "/family/messages")
		return
	}
	u, _ := currentUser(r)
	form := readForm(r)
	form.RecipientID = StaffInbox

	if res := inputval.Validate(form); res.HasErrors() {
		h.flash(w, r, auth.FlashWarning, "Chưa gửi được tin nhắn", res.First())
		http.Redirect(w, r, "/family/messages", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var residentName string
	if rs, err := h.Residents.GetByFamilyMemberID(ctx, u.ID); err != nil {
		h.Log.Warn("family resident lookup failed", zap.String("family_id", u.ID), zap.Error(err))
	} else {
		names := make([]string, 0, len(rs))
		for _, res := range rs {
			names = append(names, res.FullName)
		}
		residentName = strings.Join(names, ", ")
	}

	h.insert(ctx, w, r, models.Message{
		ClientID:      r.FormValue("client_id"),
		SenderID:      u.ID,
		SenderName:    u.Name,
		SenderRole:    models.RoleFamily,
		RecipientID:   StaffInbox,
		RecipientName: "Nhân viên",
		ResidentName:  residentName,
		Content:       form.Content,
	}, "/family/messages")
}

func readForm(r *http.Request) inputval.MessageForm {
	return inputval.MessageForm{
		RecipientID: strings.TrimSpace(r.FormValue("recipient_id")),
		Content:     htmlsanitize.StripTags(r.FormValue("content")),
	}
}

// insert stores m and redirects to back. A resubmitted form hits the
// client id index and is treated as already sent.
func (h *Handler) insert(ctx context.Context, w http.ResponseWriter, r *http.Request, m models.Message, back string) {
	_, err := h.Messages.Insert(ctx, m)
	switch {
	case err == nil, errors.Is(err, messagestore.ErrDuplicateSend):
		http.Redirect(w, r, back, http.StatusSeeOther)
	case errors.Is(err, messagestore.ErrEmptyContent):
		h.flash(w, r, auth.FlashWarning, "Chưa gửi được tin nhắn", "Nội dung tin nhắn trống.")
		http.Redirect(w, r, back, http.StatusSeeOther)
	default:
		h.Log.Error("insert message failed", zap.String("sender_id", m.SenderID), zap.Error(err))
		h.flash(w, r, auth.FlashError, "Gửi tin nhắn thất bại", "Vui lòng thử lại.")
		http.Redirect(w, r, back, http.StatusSeeOther)
	}
}

func (h *Handler) flash(w http.ResponseWriter, r *http.Request, kind, title, msg string) {
	if err := h.SessionMgr.SetFlash(w, r, auth.Flash{Kind: kind, Title: title, Message: msg}); err != nil {
		h.Log.Warn("set flash failed", zap.Error(err))
	}
}
