// internal/app/features/login/handler.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The backend id that uniquely identifies a user record
//   - LoginID / loginID / login_id: The username typed on the login form

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/nurseryhome/internal/app/careapi"
	uierrors "github.com/dalemusser/nurseryhome/internal/app/features/errors"
	"github.com/dalemusser/nurseryhome/internal/app/system/auditlog"
	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/app/system/authz"
	"github.com/dalemusser/nurseryhome/internal/app/system/inputval"
	"github.com/dalemusser/nurseryhome/internal/app/system/normalize"
	"github.com/dalemusser/nurseryhome/internal/app/system/ratelimit"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/nurseryhome/internal/app/system/viewdata"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// Authenticator exchanges credentials for a backend token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (careapi.LoginResult, error)
}

type Handler struct {
	Auth       Authenticator
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(authn Authenticator, sessionMgr *auth.SessionManager, limiter *ratelimit.LoginLimiter, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:       authn,
		SessionMgr: sessionMgr,
		Limiter:    limiter,
		ErrLog:     errLog,
		AuditLog:   audit,
		Log:        logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Username  string
	ReturnURL string
}

// Messages shown for backend refusals.
const (
	msgBadCredentials = "Tên đăng nhập hoặc mật khẩu không đúng."
	msgDisabled       = "Tài khoản của bạn chưa được kích hoạt hoặc đã bị vô hiệu hóa."
	msgLocked         = "Tài khoản đã bị khóa do đăng nhập sai nhiều lần. Vui lòng liên hệ quản trị viên."
	msgNotFound       = "Không tìm thấy tài khoản với tên đăng nhập này."
	msgTimeout        = "Máy chủ phản hồi quá lâu. Vui lòng thử lại."
	msgBackend        = "Không thể đăng nhập lúc này. Vui lòng thử lại sau."
)

// classify maps a login error to the message and audit reason.
func classify(err error) (string, auditlog.LoginFailure) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout, auditlog.LoginTimeout
	case careapi.IsStatus(err, http.StatusUnauthorized):
		return msgBadCredentials, auditlog.LoginBadCredentials
	case careapi.IsStatus(err, http.StatusForbidden):
		return msgDisabled, auditlog.LoginUserDisabled
	case careapi.IsStatus(err, http.StatusLocked):
		return msgLocked, auditlog.LoginLocked
	case careapi.IsStatus(err, http.StatusNotFound), errors.Is(err, careapi.ErrNotFound):
		return msgNotFound, auditlog.LoginUserNotFound
	default:
		return msgBackend, auditlog.LoginBackendError
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, authz.HomePath(u.Role), http.StatusSeeOther)
		return
	}
	h.render(w, r, "", "", query.Get(r, "return"))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Dữ liệu không hợp lệ.", "/login")
		return
	}

	form := inputval.LoginForm{
		Username: normalize.Username(r.FormValue("username")),
		Password: r.FormValue("password"),
	}
	ret := r.FormValue("return")

	if res := inputval.Validate(form); res.HasErrors() {
		h.render(w, r, res.First(), form.Username, ret)
		return
	}

	if h.Limiter != nil {
		if ok, msg := h.Limiter.Check(r, form.Username); !ok {
			h.AuditLog.LoginFailed(r.Context(), r, form.Username, auditlog.LoginRateLimited)
			w.WriteHeader(http.StatusTooManyRequests)
			h.render(w, r, msg, form.Username, ret)
			return
		}
	}

	// The backend gets timeouts.Login() to answer; after that the attempt
	// is abandoned and reported as a timeout.
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Login())
	defer cancel()

	res, err := h.Auth.Login(ctx, form.Username, form.Password)
	if err == nil && res.AccessToken == "" {
		err = errors.New("login response without access token")
	}
	if err != nil {
		if ctx.Err() != nil {
			err = context.DeadlineExceeded
		}
		msg, reason := classify(err)
		h.Log.Info("login refused",
			zap.String("login_id", form.Username),
			zap.String("reason", string(reason)),
			zap.Error(err))
		h.AuditLog.LoginFailed(r.Context(), r, form.Username, reason)
		h.render(w, r, msg, form.Username, ret)
		return
	}

	u := auth.SessionUser{
		ID:      res.User.ID,
		Name:    res.User.FullName,
		LoginID: form.Username,
		Role:    normalize.Role(res.User.Role),
		Token:   res.AccessToken,
	}
	if u.Name == "" {
		u.Name = form.Username
	}

	if err := h.SessionMgr.SignIn(w, r, u); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("login_id", form.Username))
		h.render(w, r, "Không thể tạo phiên đăng nhập. Vui lòng thử lại.", form.Username, ret)
		return
	}
	if h.Limiter != nil {
		h.Limiter.Succeeded(form.Username)
	}
	h.AuditLog.LoginSuccess(r.Context(), r, u.ID, u.LoginID, u.Role)

	dest := urlutil.SafeReturn(ret, "", authz.HomePath(u.Role))
	if u.Role == models.RoleFamily && !isFamilyPath(dest) {
		dest = authz.HomePath(u.Role)
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// isFamilyPath reports whether a family member may land on dest.
func isFamilyPath(dest string) bool {
	return dest == "/family" || strings.HasPrefix(dest, "/family/")
}

/*─────────────────────────────────────────────────────────────────────────────*
| helper: render the form                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) render(w http.ResponseWriter, r *http.Request, msg, username, ret string) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Đăng nhập", "/"),
		Error:     msg,
		Username:  username,
		ReturnURL: ret,
	})
}
