// internal/app/features/users/form.go
package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/nurseryhome/internal/app/careapi"
	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/app/system/formutil"
	"github.com/dalemusser/nurseryhome/internal/app/system/inputval"
	"github.com/dalemusser/nurseryhome/internal/app/system/navigation"
	"github.com/dalemusser/nurseryhome/internal/app/system/normalize"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /users/new                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	data := h.newFormData(r, "", true, inputval.UserForm{Role: models.RoleStaff, Status: models.UserActive})
	data.Flash = h.SessionMgr.PopFlash(w, r)
	templates.Render(w, r, "user_form", &data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /users/new                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Dữ liệu không hợp lệ.", "/users/new")
		return
	}

	form := readForm(r)
	if res := inputval.ValidateUser(form, true); res.HasErrors() {
		h.reRender(w, r, "", true, form, res, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Users.Create(ctx, toInput(form))
	if err != nil {
		if msg, field := backendFormError(err); msg != "" {
			h.reRender(w, r, "", true, form, fieldResult(field, msg), msg)
			return
		}
		h.ErrLog.LogBackendError(w, r, "create user failed", err, "/users/new",
			zap.String("username", form.Username))
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.UserCreated(r.Context(), r, u.ID, created.ID, form.Role)
	}
	h.flash(w, r, auth.Flash{
		Kind:    auth.FlashSuccess,
		Title:   "Tạo tài khoản thành công!",
		Message: "Tài khoản " + form.Username + " đã được tạo.",
		NextURL: "/users",
		Delay:   h.PostActionDelay,
	})
	http.Redirect(w, r, "/users/new", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /users/{id}/edit                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	existing, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "load user failed", err, "/users", zap.String("user_id", id))
		return
	}

	data := h.newFormData(r, id, false, fromUser(existing))
	data.Flash = h.SessionMgr.PopFlash(w, r)
	templates.Render(w, r, "user_form", &data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /users/{id}/edit                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	back := "/users/" + id + "/edit"

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Dữ liệu không hợp lệ.", back)
		return
	}

	form := readForm(r)
	form.Password = ""
	if res := inputval.ValidateUser(form, false); res.HasErrors() {
		h.reRender(w, r, id, false, form, res, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	existing, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "load user failed", err, "/users", zap.String("user_id", id))
		return
	}

	if _, err := h.Users.Update(ctx, id, toInput(form)); err != nil {
		if msg, field := backendFormError(err); msg != "" {
			h.reRender(w, r, id, false, form, fieldResult(field, msg), msg)
			return
		}
		h.ErrLog.LogBackendError(w, r, "update user failed", err, back, zap.String("user_id", id))
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.UserUpdated(r.Context(), r, u.ID, id, strings.Join(changedFields(fromUser(existing), form), ","))
	}
	h.flash(w, r, auth.Flash{
		Kind:    auth.FlashSuccess,
		Title:   "Cập nhật tài khoản thành công!",
		Message: "Thông tin tài khoản " + form.Username + " đã được lưu.",
		NextURL: "/users",
		Delay:   h.PostActionDelay,
	})
	http.Redirect(w, r, back, http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) newFormData(r *http.Request, id string, creating bool, form inputval.UserForm) formData {
	title := "Chỉnh sửa tài khoản"
	if creating {
		title = "Tạo tài khoản"
	}
	data := formData{ID: id, Creating: creating, Form: form, Roles: roleOptions, Statuses: statusOptions}
	formutil.SetBase(&data.Base, r, title, "/users")
	data.BackURL = navigation.SafeBackURL(r, navigation.UsersBackURL)
	return data
}

func (h *Handler) reRender(w http.ResponseWriter, r *http.Request, id string, creating bool, form inputval.UserForm, res inputval.Result, summary string) {
	form.Password = ""
	data := h.newFormData(r, id, creating, form)
	data.SetErrors(res)
	if summary != "" {
		data.SetError(summary)
	}
	w.WriteHeader(http.StatusUnprocessableEntity)
	templates.Render(w, r, "user_form", &data)
}

func (h *Handler) flash(w http.ResponseWriter, r *http.Request, f auth.Flash) {
	if err := h.SessionMgr.SetFlash(w, r, f); err != nil {
		h.Log.Warn("set flash failed", zap.Error(err))
	}
}

// readForm normalizes the posted fields. Create and edit share it.
func readForm(r *http.Request) inputval.UserForm {
	return inputval.UserForm{
		FullName: normalize.Name(r.FormValue("full_name")),
		Username: normalize.Username(r.FormValue("username")),
		Email:    normalize.Email(r.FormValue("email")),
		Phone:    normalize.Phone(r.FormValue("phone")),
		Role:     normalize.Role(r.FormValue("role")),
		Status:   normalize.Status(r.FormValue("status")),
		Position: strings.TrimSpace(r.FormValue("position")),
		Notes:    strings.TrimSpace(r.FormValue("notes")),
		Password: r.FormValue("password"),
	}
}

func toInput(f inputval.UserForm) models.UserInput {
	in := models.UserInput{
		FullName: f.FullName,
		Username: f.Username,
		Email:    f.Email,
		Phone:    f.Phone,
		Role:     f.Role,
		Status:   f.Status,
		Notes:    f.Notes,
		Password: f.Password,
	}
	if f.Role == models.RoleStaff || f.Role == models.RoleAdmin {
		in.Position = f.Position
	}
	return in
}

func fromUser(u models.User) inputval.UserForm {
	return inputval.UserForm{
		FullName: u.FullName,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     u.Role,
		Status:   u.Status,
		Position: u.Position,
		Notes:    u.Notes,
	}
}

// changedFields lists the form keys whose values differ.
func changedFields(before, after inputval.UserForm) []string {
	var out []string
	pairs := []struct {
		key  string
		a, b string
	}{
		{"full_name", before.FullName, after.FullName},
		{"username", before.Username, after.Username},
		{"email", before.Email, after.Email},
		{"phone", before.Phone, after.Phone},
		{"role", before.Role, after.Role},
		{"status", before.Status, after.Status},
		{"position", before.Position, after.Position},
		{"notes", before.Notes, after.Notes},
	}
	for _, p := range pairs {
		if p.a != p.b {
			out = append(out, p.key)
		}
	}
	return out
}

// backendFormError turns a backend rejection the admin can fix into a
// message and the field it belongs to. Other errors return "".
func backendFormError(err error) (msg, field string) {
	switch {
	case careapi.IsStatus(err, http.StatusConflict):
		return "Tên đăng nhập hoặc email đã tồn tại.", "username"
	case careapi.IsStatus(err, http.StatusBadRequest):
		return "Máy chủ từ chối dữ liệu: " + apiMessage(err), ""
	}
	return "", ""
}

func apiMessage(err error) string {
	var apiErr *careapi.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "dữ liệu không hợp lệ."
}

func fieldResult(field, msg string) inputval.Result {
	var res inputval.Result
	if field != "" {
		res.Add(field, msg)
	}
	return res
}
