// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging, CORS, body limits).
type AppConfig struct {
	// MongoDB holds the records this app owns (messages, medical records,
	// photos, financial reports, audit events).
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Session lifetime

	// REST backend that owns users, residents, assignments and rooms
	APIBaseURL    string
	APITimeout    time.Duration
	APIRetryCount int // retries for idempotent GETs only

	// Login
	LoginTimeout     time.Duration // the sign-in call gives up after this long
	LoginMaxAttempts int
	LoginWindow      time.Duration

	// Room number cache (Redis). A blank address disables it.
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	RoomCacheTTL      time.Duration
	RosterConcurrency int

	// Photo uploads
	UploadPath     string // local directory for photo files
	UploadMaxBytes int64

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// How long success pages wait before moving on (e.g. to billing after an approval)
	PostActionDelay time.Duration
}
