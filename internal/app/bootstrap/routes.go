// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	authconfirmfeature "github.com/thedevbrian/folio/internal/app/features/authconfirm"
	errorsfeature "github.com/thedevbrian/folio/internal/app/features/errors"
	healthfeature "github.com/thedevbrian/folio/internal/app/features/health"
	homefeature "github.com/thedevbrian/folio/internal/app/features/home"
	loginfeature "github.com/thedevbrian/folio/internal/app/features/login"
	logoutfeature "github.com/thedevbrian/folio/internal/app/features/logout"
	postsfeature "github.com/thedevbrian/folio/internal/app/features/posts"
	signupfeature "github.com/thedevbrian/folio/internal/app/features/signup"
	successfeature "github.com/thedevbrian/folio/internal/app/features/success"
	appresources "github.com/thedevbrian/folio/internal/app/resources"
	"github.com/thedevbrian/folio/internal/app/store/accounts"
	"github.com/thedevbrian/folio/internal/app/store/comments"
	"github.com/thedevbrian/folio/internal/app/store/emailverify"
	"github.com/thedevbrian/folio/internal/app/store/ratelimit"
	userstore "github.com/thedevbrian/folio/internal/app/store/users"
	"github.com/thedevbrian/folio/internal/app/system/auth"
	"github.com/thedevbrian/folio/internal/app/system/honeypot"
	"github.com/thedevbrian/folio/internal/app/system/metrics"
	"github.com/thedevbrian/folio/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, index setup, and
// Startup have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser re-reads the profile on each request, so a purged
	// account ends its sessions.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase, logger))

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Pages pop the login toast through the session manager.
	viewdata.Init(sessionMgr)

	// One gate for every public form.
	gate := honeypot.New(honeypot.Config{
		HashKey:    []byte(appCfg.HoneypotKey),
		MinElapsed: appCfg.HoneypotMinElapsed,
		MaxAge:     appCfg.HoneypotMaxAge,
	})

	accountStore := accounts.New(deps.MongoDatabase)
	userStore := userstore.New(deps.MongoDatabase)
	verifyStore := emailverify.New(deps.MongoDatabase, appCfg.ConfirmTokenTTL)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	r.Use(middleware.CORSFromConfig(coreCfg))
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Session middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("folio_csrf"),
		csrf.FieldName("csrf_token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			http.Error(w, "CSRF token invalid or missing", http.StatusForbidden)
		})),
	}
	// In dev mode, trust localhost origins for CSRF validation.
	if !secure {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:3000",
			"127.0.0.1:8080",
			"127.0.0.1:3000",
		}))
	}
	if appCfg.SessionDomain != "" {
		csrfOpts = append(csrfOpts, csrf.Domain(appCfg.SessionDomain))
	}
	r.Use(csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...))

	// ─────────────────────────────────────────────────────────────────────────────
	// Operational endpoints
	// ─────────────────────────────────────────────────────────────────────────────

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	r.Handle("/metrics", metrics.Handler())

	// /assets/* serves embedded assets (bundled into the binary)
	r.Handle("/assets/*", appresources.AssetsHandler("/assets"))

	// ─────────────────────────────────────────────────────────────────────────────
	// Public pages
	// ─────────────────────────────────────────────────────────────────────────────

	homeHandler := homefeature.NewHandler(deps.Content, deps.Mailer, deps.Newsletter, gate, appCfg.MailContactTo, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	r.Mount("/success", successfeature.Routes())

	postsHandler := postsfeature.NewHandler(deps.Content, comments.New(deps.MongoDatabase), gate, logger)
	r.Mount("/posts", postsfeature.Routes(postsHandler))

	// ─────────────────────────────────────────────────────────────────────────────
	// Authentication
	// ─────────────────────────────────────────────────────────────────────────────

	signupHandler := signupfeature.NewHandler(accountStore, userStore, verifyStore, deps.Mailer, gate, appCfg.BaseURL, logger)
	r.Mount("/signup", signupfeature.Routes(signupHandler))

	// A nil Limiter disables the lockout; keep the interface nil rather
	// than holding a nil *ratelimit.Store.
	var limiter loginfeature.Limiter
	if appCfg.RateLimitEnabled {
		limiter = ratelimit.New(deps.MongoDatabase, appCfg.LoginMaxAttempts, appCfg.LoginWindow, appCfg.LoginLockout)
	}
	loginHandler := loginfeature.NewHandler(accountStore, limiter, sessionMgr, gate, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	confirmHandler := authconfirmfeature.NewHandler(verifyStore, accountStore, sessionMgr, logger)
	r.Mount("/auth", authconfirmfeature.Routes(confirmHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler(logger)
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	return r, nil
}
