// internal/app/features/medicalrecords/handler.go
package medicalrecords

import (
	"context"
	"time"

	uierrors "github.com/dalemusser/nurseryhome/internal/app/features/errors"
	"github.com/dalemusser/nurseryhome/internal/app/system/auditlog"
	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"go.uber.org/zap"
)

// Store persists medical records.
type Store interface {
	Create(ctx context.Context, rec models.MedicalRecord) (models.MedicalRecord, error)
	ListByResident(ctx context.Context, residentID string) ([]models.MedicalRecord, error)
}

// ResidentLookup fetches the resident a record belongs to.
type ResidentLookup interface {
	GetByID(ctx context.Context, id string) (models.Resident, error)
}

type Handler struct {
	Records    Store
	Residents  ResidentLookup
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger

	// PostActionDelay is how long a success modal stays up before the page
	// moves on to the list.
	PostActionDelay time.Duration
}

func NewHandler(records Store, residents ResidentLookup, delay time.Duration, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Records:    records,
		Residents:  residents,
		SessionMgr: sm,
		ErrLog:     errLog,
		AuditLog:   audit,
		Log:        logger,

		PostActionDelay: delay,
	}
}
