// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/nurseryhome/internal/app/system/authz"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Message string
}

// Handler is the errors feature handler.
// No dependencies; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	RenderForbidden(w, r, "", "")
}

// Unauthorized renders a friendly "sign in required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	RenderUnauthorized(w, r, "")
}

// NotFound renders the not-found page for unmatched routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusNotFound, "Không tìm thấy trang", "Trang bạn yêu cầu không tồn tại.", "")
}

// RenderUnauthorized shows the "sign in required" page.
// If backURL is empty, it defaults to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	renderPage(w, r, http.StatusUnauthorized, "Cần đăng nhập", "Vui lòng đăng nhập để tiếp tục.", backURL)
}

// RenderForbidden shows the access error page with a message.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "Bạn không có quyền truy cập trang này."
	}
	renderPage(w, r, http.StatusForbidden, "Không có quyền truy cập", msg, backURL)
}

func renderPage(w http.ResponseWriter, r *http.Request, status int, title, msg, backURL string) {
	role, _, _, _ := authz.UserCtx(r)
	vm := viewdata.NewBaseVM(r, title, authz.HomePath(role))
	if backURL != "" {
		vm.BackURL = backURL
	}
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", pageData{BaseVM: vm, Message: msg})
}
