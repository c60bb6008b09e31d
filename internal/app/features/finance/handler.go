// internal/app/features/finance/handler.go
package finance

import (
	"context"
	"time"

	uierrors "github.com/dalemusser/nurseryhome/internal/app/features/errors"
	"github.com/dalemusser/nurseryhome/internal/app/system/auditlog"
	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store persists financial reports.
type Store interface {
	Create(ctx context.Context, r models.FinancialReport) (models.FinancialReport, error)
	ListByResident(ctx context.Context, residentID string) ([]models.FinancialReport, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

// ResidentAPI is the part of the residents backend billing needs.
type ResidentAPI interface {
	GetAll(ctx context.Context) ([]models.Resident, error)
	GetByID(ctx context.Context, id string) (models.Resident, error)
}

// CarePlanLookup lists a resident's care-plan assignments; the monthly
// price is prefilled from them.
type CarePlanLookup interface {
	GetByResidentID(ctx context.Context, residentID string) ([]models.CarePlanAssignment, error)
}

type Handler struct {
	Reports    Store
	Residents  ResidentAPI
	CarePlans  CarePlanLookup
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger

	// PostActionDelay is how long a success modal stays up before the page
	// moves on to the list.
	PostActionDelay time.Duration
}

func NewHandler(reports Store, residents ResidentAPI, carePlans CarePlanLookup, delay time.Duration, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Reports:    reports,
		Residents:  residents,
		CarePlans:  carePlans,
		SessionMgr: sm,
		ErrLog:     errLog,
		AuditLog:   audit,
		Log:        logger,

		PostActionDelay: delay,
	}
}
