// internal/app/features/photos/handler.go
package photos

import (
	"context"
	"time"

	uierrors "github.com/dalemusser/nurseryhome/internal/app/features/errors"
	"github.com/dalemusser/nurseryhome/internal/app/system/auditlog"
	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PhotoStore persists photo metadata.
type PhotoStore interface {
	Create(ctx context.Context, p models.Photo) (models.Photo, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Photo, error)
	ListRecent(ctx context.Context, limit int64) ([]models.Photo, error)
	ListByResidents(ctx context.Context, residentIDs []string) ([]models.Photo, error)
}

// ResidentAPI is the part of the residents backend photos need.
type ResidentAPI interface {
	GetAll(ctx context.Context) ([]models.Resident, error)
	GetByID(ctx context.Context, id string) (models.Resident, error)
	GetByFamilyMemberID(ctx context.Context, familyID string) ([]models.Resident, error)
}

// recentLimit caps the staff gallery.
const recentLimit = 60

type Handler struct {
	Photos     PhotoStore
	Files      storage.Store
	Residents  ResidentAPI
	MaxBytes   int64
	SessionMgr *auth.SessionManager

	// PostActionDelay is how long the upload success modal stays up.
	PostActionDelay time.Duration

	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(photos PhotoStore, files storage.Store, residents ResidentAPI, maxBytes int64, delay time.Duration, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Photos:          photos,
		Files:           files,
		Residents:       residents,
		MaxBytes:        maxBytes,
		SessionMgr:      sm,
		PostActionDelay: delay,
		ErrLog:          errLog,
		AuditLog:        audit,
		Log:             logger,
	}
}
