// internal/app/features/users/handler.go
package users

import (
	"context"
	"time"

	uierrors "github.com/dalemusser/nurseryhome/internal/app/features/errors"
	"github.com/dalemusser/nurseryhome/internal/app/system/auditlog"
	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"go.uber.org/zap"
)

// UserAPI is the part of the users backend account management needs.
type UserAPI interface {
	GetByRoleWithStatus(ctx context.Context, role, status string) ([]models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, in models.UserInput) (models.User, error)
	Update(ctx context.Context, id string, in models.UserInput) (models.User, error)
}

// Handler serves account management for admins.
type Handler struct {
	Users      UserAPI
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger

	// PostActionDelay is how long a success modal stays up before the page
	// moves on to the list.
	PostActionDelay time.Duration
}

func NewHandler(users UserAPI, delay time.Duration, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sm,
		ErrLog:     errLog,
		AuditLog:   audit,
		Log:        logger,

		PostActionDelay: delay,
	}
}
