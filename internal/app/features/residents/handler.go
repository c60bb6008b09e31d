// internal/app/features/residents/handler.go
package residents

import (
	"context"

	uierrors "github.com/dalemusser/nurseryhome/internal/app/features/errors"
	"github.com/dalemusser/nurseryhome/internal/app/system/auditlog"
	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/app/system/roomresolve"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"go.uber.org/zap"
)

// ResidentAPI is the part of the residents backend the roster uses.
type ResidentAPI interface {
	GetAll(ctx context.Context) ([]models.Resident, error)
	GetByID(ctx context.Context, id string) (models.Resident, error)
	GetByFamilyMemberID(ctx context.Context, familyID string) ([]models.Resident, error)
	Delete(ctx context.Context, id string) error
}

// CarePlanLookup lists a resident's care-plan assignments.
type CarePlanLookup interface {
	GetByResidentID(ctx context.Context, residentID string) ([]models.CarePlanAssignment, error)
}

// RoomResolver maps residents to room numbers.
type RoomResolver interface {
	Resolve(ctx context.Context, residentID string) roomresolve.Result
	ResolveAll(ctx context.Context, residentIDs []string) map[string]roomresolve.Result
}

// Handler serves the resident roster for staff and the family view.
type Handler struct {
	Residents  ResidentAPI
	CarePlans  CarePlanLookup
	Rooms      RoomResolver
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(residents ResidentAPI, carePlans CarePlanLookup, rooms RoomResolver, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Residents:  residents,
		CarePlans:  carePlans,
		Rooms:      rooms,
		SessionMgr: sm,
		ErrLog:     errLog,
		AuditLog:   audit,
		Log:        logger,
	}
}
