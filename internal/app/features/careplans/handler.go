// internal/app/features/careplans/handler.go
package careplans

import (
	"context"
	"time"

	uierrors "github.com/dalemusser/nurseryhome/internal/app/features/errors"
	"github.com/dalemusser/nurseryhome/internal/app/system/auditlog"
	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"go.uber.org/zap"
)

// CarePlanAPI is the care plans backend.
type CarePlanAPI interface {
	GetAll(ctx context.Context) ([]models.CarePlan, error)
	Create(ctx context.Context, plan models.CarePlan) (models.CarePlan, error)
}

type Handler struct {
	CarePlans  CarePlanAPI
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger

	// PostActionDelay is how long a success modal stays up before the page
	// moves on to the list.
	PostActionDelay time.Duration
}

func NewHandler(plans CarePlanAPI, delay time.Duration, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		CarePlans:  plans,
		SessionMgr: sm,
		ErrLog:     errLog,
		AuditLog:   audit,
		Log:        logger,

		PostActionDelay: delay,
	}
}
