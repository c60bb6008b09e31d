// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/nurseryhome/internal/app/careapi"
	approvalsfeature "github.com/dalemusser/nurseryhome/internal/app/features/approvals"
	auditlogfeature "github.com/dalemusser/nurseryhome/internal/app/features/auditlog"
	careplansfeature "github.com/dalemusser/nurseryhome/internal/app/features/careplans"
	errorsfeature "github.com/dalemusser/nurseryhome/internal/app/features/errors"
	financefeature "github.com/dalemusser/nurseryhome/internal/app/features/finance"
	healthfeature "github.com/dalemusser/nurseryhome/internal/app/features/health"
	homefeature "github.com/dalemusser/nurseryhome/internal/app/features/home"
	loginfeature "github.com/dalemusser/nurseryhome/internal/app/features/login"
	logoutfeature "github.com/dalemusser/nurseryhome/internal/app/features/logout"
	medicalrecordsfeature "github.com/dalemusser/nurseryhome/internal/app/features/medicalrecords"
	messagesfeature "github.com/dalemusser/nurseryhome/internal/app/features/messages"
	photosfeature "github.com/dalemusser/nurseryhome/internal/app/features/photos"
	residentsfeature "github.com/dalemusser/nurseryhome/internal/app/features/residents"
	usersfeature "github.com/dalemusser/nurseryhome/internal/app/features/users"
	"github.com/dalemusser/nurseryhome/internal/app/store/audit"
	financialreportstore "github.com/dalemusser/nurseryhome/internal/app/store/financialreports"
	medicalrecordstore "github.com/dalemusser/nurseryhome/internal/app/store/medicalrecords"
	messagestore "github.com/dalemusser/nurseryhome/internal/app/store/messages"
	photostore "github.com/dalemusser/nurseryhome/internal/app/store/photos"
	"github.com/dalemusser/nurseryhome/internal/app/system/approval"
	"github.com/dalemusser/nurseryhome/internal/app/system/auditlog"
	"github.com/dalemusser/nurseryhome/internal/app/system/auth"
	"github.com/dalemusser/nurseryhome/internal/app/system/ratelimit"
	"github.com/dalemusser/nurseryhome/internal/app/system/roomresolve"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. Records the backend owns (users,
// residents, care plans, beds, rooms) go through one careapi.Client; the
// records this app owns live in MongoDB.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	db := deps.NurseryHomeMongoDatabase
	auditStore := audit.New(db)
	auditLogger := auditlog.New(auditStore, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	api := careapi.New(careapi.Config{
		BaseURL:    appCfg.APIBaseURL,
		Timeout:    appCfg.APITimeout,
		RetryCount: appCfg.APIRetryCount,
	}, logger)

	// A typed-nil *roomcache.Cache must not reach the resolver or health
	// check as a non-nil interface.
	var cache roomresolve.Cache
	var cachePinger healthfeature.Pinger
	if deps.RoomCache != nil {
		cache = deps.RoomCache
		cachePinger = deps.RoomCache
	}
	resolver := roomresolve.New(api.BedAssignments, api.CarePlans, api.Rooms, cache, appCfg.RosterConcurrency, logger)
	approvalSvc := approval.NewService(api.Users, api.Residents, api.CarePlanAssignments, api.BedAssignments, logger)

	// Photos are only reachable through the photos feature's access check,
	// so the store gets no public base URL.
	files, err := storage.NewLocal(storage.LocalConfig{BasePath: appCfg.UploadPath})
	if err != nil {
		logger.Error("upload directory init failed", zap.String("upload_path", appCfg.UploadPath), zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// gorilla/csrf checks the Referer on requests it believes are HTTPS;
	// outside prod we serve plain HTTP.
	if !secure {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
			})
		})
	}
	csrfKey := []byte(appCfg.SessionKey)
	if len(csrfKey) > 32 {
		csrfKey = csrfKey[:32]
	}
	r.Use(csrf.Protect(csrfKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(errorsHandler.Forbidden)),
	))

	// Loads SessionUser into context if logged in, then hands the user's
	// backend token to every careapi call made for this request.
	r.Use(sessionMgr.LoadSessionUser)
	r.Use(withBackendToken)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.NurseryHomeMongoClient, api, cachePinger, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	limiter := ratelimit.NewLoginLimiter(appCfg.LoginMaxAttempts, appCfg.LoginWindow)
	loginHandler := loginfeature.NewHandler(api.Auth, sessionMgr, limiter, errLog, auditLogger, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLogger, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Error pages
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Approval queue (admin)
	approvalsHandler := approvalsfeature.NewHandler(approvalSvc, sessionMgr, errLog, auditLogger, appCfg.PostActionDelay, logger)
	r.Mount("/approvals", approvalsfeature.Routes(approvalsHandler, sessionMgr))

	// Residents and their medical records
	residentsHandler := residentsfeature.NewHandler(api.Residents, api.CarePlans, resolver, sessionMgr, errLog, auditLogger, logger)
	medicalHandler := medicalrecordsfeature.NewHandler(medicalrecordstore.New(db), api.Residents, appCfg.PostActionDelay, sessionMgr, errLog, auditLogger, logger)
	r.Mount("/residents/{residentID}/medical-records", medicalrecordsfeature.Routes(medicalHandler, sessionMgr))
	r.Mount("/residents", residentsfeature.Routes(residentsHandler, sessionMgr))

	// Accounts and care plan catalogue
	usersHandler := usersfeature.NewHandler(api.Users, appCfg.PostActionDelay, sessionMgr, errLog, auditLogger, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

	careplansHandler := careplansfeature.NewHandler(api.CarePlans, appCfg.PostActionDelay, sessionMgr, errLog, auditLogger, logger)
	r.Mount("/careplans", careplansfeature.Routes(careplansHandler, sessionMgr))

	auditHandler := auditlogfeature.NewHandler(auditStore, api.Users, errLog, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	// Photos, messaging and billing
	photosHandler := photosfeature.NewHandler(photostore.New(db), files, api.Residents, appCfg.UploadMaxBytes, appCfg.PostActionDelay, sessionMgr, errLog, auditLogger, logger)
	r.Mount("/photos", photosfeature.Routes(photosHandler, sessionMgr))

	messagesHandler := messagesfeature.NewHandler(messagestore.New(db), api.Residents, sessionMgr, errLog, logger)
	r.Mount("/messages", messagesfeature.Routes(messagesHandler, sessionMgr))

	financeHandler := financefeature.NewHandler(financialreportstore.New(db), api.Residents, api.CarePlans, appCfg.PostActionDelay, sessionMgr, errLog, auditLogger, logger)
	r.Mount("/finance", financefeature.Routes(financeHandler, sessionMgr))

	// Family member views
	r.Mount("/family/residents", residentsfeature.FamilyRoutes(residentsHandler, sessionMgr))
	r.Mount("/family/photos", photosfeature.FamilyRoutes(photosHandler, sessionMgr))
	r.Mount("/family/messages", messagesfeature.FamilyRoutes(messagesHandler, sessionMgr))

	return r, nil
}

// withBackendToken copies the signed-in user's bearer token into the
// request context, where careapi picks it up.
func withBackendToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := auth.CurrentUser(r); ok && u.Token != "" {
			r = r.WithContext(careapi.WithToken(r.Context(), u.Token))
		}
		next.ServeHTTP(w, r)
	})
}
