// internal/app/features/approvals/handler.go
package approvals

import (
	"time"

	uierrors "github.com/dalemusser/nurseryhome/internal/app/features/errors"
	"github.com/dalemusser/nurseryhome/internal/app/system/approval"
	"github.com/dalemusser/nurseryhome/internal/app/system/auditlog"
	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler serves the admin approval queue.
type Handler struct {
	Service    *approval.Service
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger

	// PostActionDelay is how long a success modal stays up before the
	// page moves on to the outcome's NextURL.
	PostActionDelay time.Duration
}

func NewHandler(svc *approval.Service, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, delay time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		Service:         svc,
		SessionMgr:      sm,
		ErrLog:          errLog,
		AuditLog:        audit,
		Log:             logger,
		PostActionDelay: delay,
	}
}
