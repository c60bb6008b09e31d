// internal/app/features/messages/handler.go
package messages

import (
	"context"

	uierrors "github.com/dalemusser/nurseryhome/internal/app/features/errors"
	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/domain/models"
	"go.uber.org/zap"
)

// StaffInbox is the recipient id of family-authored messages. Staff share
// one inbox, so family members never address an individual.
const StaffInbox = "staff"

// Store is the message log.
type Store interface {
	Insert(ctx context.Context, m models.Message) (models.Message, error)
	ListAll(ctx context.Context) ([]models.Message, error)
	ListForFamily(ctx context.Context, familyID string) ([]models.Message, error)
	MarkReadFrom(ctx context.Context, senderID string) (int64, error)
	MarkReadTo(ctx context.Context, recipientID string) (int64, error)
}

// ResidentLookup finds the residents linked to a family member.
type ResidentLookup interface {
	GetByFamilyMemberID(ctx context.Context, familyID string) ([]models.Resident, error)
}

type Handler struct {
	Messages   Store
	Residents  ResidentLookup
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(store Store, residents ResidentLookup, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Messages:   store,
		Residents:  residents,
		SessionMgr: sm,
		ErrLog:     errLog,
		Log:        logger,
	}
}
