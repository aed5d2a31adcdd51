// Package api assembles the HTTP surface: route registration, middleware
// chains and the OpenAPI configuration.
package api

import (
	auditAPI "passvault/internal/app/server/api/http/audit"
	credentialAPI "passvault/internal/app/server/api/http/credential"
	healthAPI "passvault/internal/app/server/api/http/health"
	leakcheckAPI "passvault/internal/app/server/api/http/leakcheck"
	"passvault/internal/app/server/api/http/middleware"
	"passvault/internal/app/server/api/http/middleware/auth"
	"passvault/internal/app/server/api/http/middleware/logger"
	notificationAPI "passvault/internal/app/server/api/http/notification"
	userAPI "passvault/internal/app/server/api/http/user"
	"passvault/internal/domain/audit"
	"passvault/internal/domain/credential"
	"passvault/internal/domain/leakcheck"
	"passvault/internal/domain/notification"
	"passvault/internal/domain/session"
	"passvault/internal/domain/user"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

// Deps carries the wired services the handlers sit on.
type Deps struct {
	User         user.Servicer
	Session      session.Servicer
	Credential   credential.Servicer
	Audit        audit.Servicer
	Notification notification.Servicer
	LeakCheck    leakcheck.Servicer
	Log          *slog.Logger
}

type Handlers struct {
	Health       *healthAPI.Handler
	User         *userAPI.Handler
	Credential   *credentialAPI.Handler
	Audit        *auditAPI.Handler
	Notification *notificationAPI.Handler
	LeakCheck    *leakcheckAPI.Handler
}

// New builds a *chi.Mux with every operation registered through huma.
func New(d Deps) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("PassVault API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(d)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Credential.SetupRoutes(API)
	h.Audit.SetupRoutes(API)
	h.Notification.SetupRoutes(API)
	h.LeakCheck.SetupRoutes(API)

	return mux
}

func handlers(d Deps) *Handlers {
	authMW := auth.New(d.Session, d.Log)
	loggerMW := logger.New(d.Log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(d.Log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	public := middlewares.GetAllAndClear()
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	userHandler := userAPI.NewHandler(d.User, d.Session, d.Notification, d.Log, public, middlewares.GetAllAndClear())

	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	credentialHandler := credentialAPI.NewHandler(d.Credential, d.Log, middlewares.GetAllAndClear())

	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	auditHandler := auditAPI.NewHandler(d.Audit, d.Log, middlewares.GetAllAndClear())

	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	notificationHandler := notificationAPI.NewHandler(d.Notification, d.Log, middlewares.GetAllAndClear())

	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	leakcheckHandler := leakcheckAPI.NewHandler(d.LeakCheck, d.Log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:       healthHandler,
		User:         userHandler,
		Credential:   credentialHandler,
		Audit:        auditHandler,
		Notification: notificationHandler,
		LeakCheck:    leakcheckHandler,
	}
}
