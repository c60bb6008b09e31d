// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the nursing home app.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, api_base_url, etc.
//   - Environment variables: NURSERYHOME_MONGO_URI, NURSERYHOME_API_BASE_URL, etc.
//   - Command-line flags: --mongo_uri, --api_base_url, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "nursery_home", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "nurseryhome-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "12h", Desc: "Session lifetime"},

	// REST backend
	{Name: "api_base_url", Default: "http://localhost:5000/api", Desc: "Base URL of the nursing home REST backend"},
	{Name: "api_timeout", Default: "15s", Desc: "Timeout for one backend request"},
	{Name: "api_retry_count", Default: 2, Desc: "Retries for idempotent backend GETs"},

	// Login
	{Name: "login_timeout", Default: "6s", Desc: "Give up on a sign-in attempt after this long"},
	{Name: "login_max_attempts", Default: 5, Desc: "Failed sign-ins allowed per username and IP within login_window"},
	{Name: "login_window", Default: "15m", Desc: "Window for counting failed sign-ins"},

	// Room cache
	{Name: "redis_addr", Default: "", Desc: "Redis address for the room number cache (blank disables it)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
	{Name: "room_cache_ttl", Default: "10m", Desc: "How long room numbers stay cached"},
	{Name: "roster_concurrency", Default: 8, Desc: "Concurrent room lookups when building the roster"},

	// Photo uploads
	{Name: "upload_path", Default: "./uploads", Desc: "Directory for uploaded photos"},
	{Name: "upload_max_bytes", Default: 10 << 20, Desc: "Largest accepted photo in bytes"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "post_action_delay", Default: "2s", Desc: "Delay before a success page navigates on"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// NURSERYHOME_* environment variables and flags with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "NURSERYHOME", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 12*time.Hour),

		APIBaseURL:    strings.TrimRight(appValues.String("api_base_url"), "/"),
		APITimeout:    appValues.Duration("api_timeout", 15*time.Second),
		APIRetryCount: appValues.Int("api_retry_count"),

		LoginTimeout:     appValues.Duration("login_timeout", 6*time.Second),
		LoginMaxAttempts: appValues.Int("login_max_attempts"),
		LoginWindow:      appValues.Duration("login_window", 15*time.Minute),

		RedisAddr:         appValues.String("redis_addr"),
		RedisPassword:     appValues.String("redis_password"),
		RedisDB:           appValues.Int("redis_db"),
		RoomCacheTTL:      appValues.Duration("room_cache_ttl", 10*time.Minute),
		RosterConcurrency: appValues.Int("roster_concurrency"),

		UploadPath:     appValues.String("upload_path"),
		UploadMaxBytes: int64(appValues.Int("upload_max_bytes")),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		PostActionDelay: appValues.Duration("post_action_delay", 2*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateAppConfig(appCfg)
}

// validateAppConfig holds the checks that need no logger or core config.
func validateAppConfig(appCfg AppConfig) error {
	u, err := url.Parse(appCfg.APIBaseURL)
	if appCfg.APIBaseURL == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_base_url must be an http(s) URL, got %q", appCfg.APIBaseURL)
	}
	if appCfg.RosterConcurrency <= 0 {
		return fmt.Errorf("roster_concurrency must be positive, got %d", appCfg.RosterConcurrency)
	}
	if appCfg.LoginTimeout <= 0 {
		return fmt.Errorf("login_timeout must be positive, got %s", appCfg.LoginTimeout)
	}
	if appCfg.LoginMaxAttempts <= 0 {
		return fmt.Errorf("login_max_attempts must be positive, got %d", appCfg.LoginMaxAttempts)
	}
	if appCfg.UploadMaxBytes <= 0 {
		return fmt.Errorf("upload_max_bytes must be positive, got %d", appCfg.UploadMaxBytes)
	}
	if strings.TrimSpace(appCfg.UploadPath) == "" {
		return fmt.Errorf("upload_path is required")
	}
	for key, v := range map[string]string{"audit_log_auth": appCfg.AuditLogAuth, "audit_log_admin": appCfg.AuditLogAdmin} {
		switch v {
		case "all", "db", "log", "off":
		default:
			return fmt.Errorf("%s must be all, db, log or off, got %q", key, v)
		}
	}
	return nil
}
