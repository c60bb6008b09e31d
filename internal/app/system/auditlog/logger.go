// internal/app/system/auditlog/logger.go
package auditlog

// Terminology: User Identifiers
//   - UserID / userID / user_id: The backend id that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable username typed on the login page

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/dalemusser/nurseryhome/internal/app/store/audit"
	"github.com/dalemusser/nurseryhome/internal/app/system/approval"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for admin action events (approvals, residents, users, records).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header first (for reverse proxies)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.TargetID != "" {
		fields = append(fields, zap.String("target_id", event.TargetID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// LoginFailure names why the backend refused a login.
type LoginFailure string

const (
	LoginBadCredentials LoginFailure = "bad_credentials"
	LoginUserDisabled   LoginFailure = "user_disabled"
	LoginLocked         LoginFailure = "locked"
	LoginUserNotFound   LoginFailure = "user_not_found"
	LoginTimeout        LoginFailure = "timeout"
	LoginRateLimited    LoginFailure = "rate_limit"
	LoginBackendError   LoginFailure = "backend_error"
)

var loginFailureEvents = map[LoginFailure]string{
	LoginBadCredentials: audit.EventLoginFailedBadCredential,
	LoginUserDisabled:   audit.EventLoginFailedUserDisabled,
	LoginLocked:         audit.EventLoginFailedLocked,
	LoginUserNotFound:   audit.EventLoginFailedUserNotFound,
	LoginTimeout:        audit.EventLoginFailedTimeout,
	LoginRateLimited:    audit.EventLoginFailedRateLimit,
	LoginBackendError:   audit.EventLoginFailedBackend,
}

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID, loginID, role string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		ActorID:   userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"login_id": loginID,
			"role":     role,
		},
	})
}

// LoginFailed logs a refused login attempt.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, attemptedLoginID string, reason LoginFailure) {
	eventType, ok := loginFailureEvents[reason]
	if !ok {
		eventType = audit.EventLoginFailedBackend
	}
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     eventType,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: strings.ReplaceAll(string(reason), "_", " "),
		Details: map[string]string{
			"attempted_login_id": attemptedLoginID,
		},
	})
}

// Logout logs a user logout.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		ActorID:   userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// --- Approval Events ---

// Approval logs an approve or reject action on the approvals page.
// Each cascade step lands in Details as "<entity>:<id>" => "ok" or the error text.
func (l *Logger) Approval(ctx context.Context, r *http.Request, actorID string, approve bool, out approval.Outcome) {
	if out.Kind == approval.Cancelled {
		return
	}

	var eventType string
	switch {
	case out.Tab == approval.TabUsers && approve:
		eventType = audit.EventUserApproved
	case out.Tab == approval.TabUsers:
		eventType = audit.EventUserRejected
	case approve:
		eventType = audit.EventResidentApproved
	default:
		eventType = audit.EventResidentRejected
	}

	details := map[string]string{"outcome": out.Kind.String()}
	for _, s := range out.Steps {
		key := s.Entity + ":" + s.ID
		if s.Err != nil {
			details[key] = s.Action + " failed: " + s.Err.Error()
		} else {
			details[key] = s.Action + " ok"
		}
	}

	event := audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		ActorID:   actorID,
		TargetID:  out.ID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   out.Succeeded(),
		Details:   details,
	}
	if !out.Succeeded() {
		event.FailureReason = out.Detail
	}
	l.Log(ctx, event)
}

// --- Admin Events ---

func (l *Logger) admin(ctx context.Context, r *http.Request, eventType, actorID, targetID string, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		ActorID:   actorID,
		TargetID:  targetID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   details,
	})
}

// ResidentDeleted logs deletion of a resident from the roster.
func (l *Logger) ResidentDeleted(ctx context.Context, r *http.Request, actorID, residentID, residentName string) {
	l.admin(ctx, r, audit.EventResidentDeleted, actorID, residentID, map[string]string{
		"resident_name": residentName,
	})
}

// UserCreated logs creation of a user account.
func (l *Logger) UserCreated(ctx context.Context, r *http.Request, actorID, userID, role string) {
	l.admin(ctx, r, audit.EventUserCreated, actorID, userID, map[string]string{
		"role": role,
	})
}

// UserUpdated logs an edit of a user account.
func (l *Logger) UserUpdated(ctx context.Context, r *http.Request, actorID, userID, fieldsChanged string) {
	l.admin(ctx, r, audit.EventUserUpdated, actorID, userID, map[string]string{
		"fields_changed": fieldsChanged,
	})
}

// CarePlanCreated logs creation of a care plan.
func (l *Logger) CarePlanCreated(ctx context.Context, r *http.Request, actorID, carePlanID, planName string) {
	l.admin(ctx, r, audit.EventCarePlanCreated, actorID, carePlanID, map[string]string{
		"plan_name": planName,
	})
}

// MedicalRecordCreated logs a new medical record for a resident.
func (l *Logger) MedicalRecordCreated(ctx context.Context, r *http.Request, actorID, residentID, recordID string) {
	l.admin(ctx, r, audit.EventMedicalRecordCreated, actorID, residentID, map[string]string{
		"record_id": recordID,
	})
}

// PhotoUploaded logs a photo upload for a resident.
func (l *Logger) PhotoUploaded(ctx context.Context, r *http.Request, actorID, residentID, fileName string) {
	l.admin(ctx, r, audit.EventPhotoUploaded, actorID, residentID, map[string]string{
		"file_name": fileName,
	})
}

// FinancialReportCreated logs a financial report for a resident.
func (l *Logger) FinancialReportCreated(ctx context.Context, r *http.Request, actorID, residentID, reportID string) {
	l.admin(ctx, r, audit.EventFinancialReportCreated, actorID, residentID, map[string]string{
		"report_id": reportID,
	})
}
