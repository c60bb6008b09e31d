// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"

	uierrors "github.com/dalemusser/nurseryhome/internal/app/features/errors"
	"github.com/dalemusser/nurseryhome/internal/app/store/audit"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"go.uber.org/zap"
)

// EventQuery reads the audit trail.
type EventQuery interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	CountByFilter(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

// UserLookup resolves actor ids to display names.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

type Handler struct {
	Events EventQuery
	Users  UserLookup
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs the audit log viewer.
func NewHandler(events EventQuery, users UserLookup, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Events: events,
		Users:  users,
		ErrLog: errLog,
		Log:    logger,
	}
}
