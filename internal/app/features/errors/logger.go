// internal/app/features/errors/logger.go
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/nurseryhome/internal/app/careapi"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and shows the user a
// friendly page instead of the raw error.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error, extra []zap.Field) []zap.Field {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	return append(fields, extra...)
}

// LogServerError logs at error level and renders a 500 page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string, extra ...zap.Field) {
	e.Log.Error(msg, e.fields(r, err, extra)...)
	renderPage(w, r, http.StatusInternalServerError, "Đã xảy ra lỗi", userMsg, backURL)
}

// LogBadRequest logs at warn level and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string, extra ...zap.Field) {
	e.Log.Warn(msg, e.fields(r, err, extra)...)
	renderPage(w, r, http.StatusBadRequest, "Yêu cầu không hợp lệ", userMsg, backURL)
}

// HTMXLogServerError logs and answers an HTMX request with a bare 500 so
// the swap target shows the message.
func (e *ErrorLogger) HTMXLogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string, extra ...zap.Field) {
	e.Log.Error(msg, e.fields(r, err, extra)...)
	http.Error(w, userMsg, http.StatusInternalServerError)
}

// LogBackendError handles a failed call to the care backend. An expired
// token sends the user back to the login page; a missing record shows
// the not-found page; anything else is a bad gateway.
func (e *ErrorLogger) LogBackendError(w http.ResponseWriter, r *http.Request, msg string, err error, backURL string, extra ...zap.Field) {
	switch {
	case careapi.IsStatus(err, http.StatusUnauthorized):
		e.Log.Info(msg+": backend session expired", e.fields(r, err, extra)...)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case stderrors.Is(err, careapi.ErrNotFound):
		e.Log.Warn(msg, e.fields(r, err, extra)...)
		renderPage(w, r, http.StatusNotFound, "Không tìm thấy", "Không tìm thấy dữ liệu yêu cầu.", backURL)
	default:
		e.Log.Error(msg, e.fields(r, err, extra)...)
		renderPage(w, r, http.StatusBadGateway, "Không kết nối được máy chủ",
			"Máy chủ dữ liệu đang gặp sự cố. Vui lòng thử lại sau.", backURL)
	}
}
