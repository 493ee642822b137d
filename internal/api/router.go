package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/trackly/project-tracker/internal/api/handler"
	"github.com/trackly/project-tracker/internal/api/metrics"
	"github.com/trackly/project-tracker/internal/api/middleware"
	"github.com/trackly/project-tracker/internal/core/domain"
	"github.com/trackly/project-tracker/internal/core/ports"
	"github.com/trackly/project-tracker/internal/core/validation"
)

// Deps are the services the HTTP facade exposes.
type Deps struct {
	Auth          ports.AuthService
	Projects      ports.ProjectRepository
	Notifications ports.NotificationQueue
	Forms         *validation.Validator
	Store         ports.KVStore
	StorageDriver string
	// Registry receives the HTTP and tracker metrics. Nil means a fresh one.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) (*echo.Echo, error) {
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if err := metrics.Register(reg, deps.Notifications.Len); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator(deps.Forms)
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Notifications, deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "tracker",
		Registerer: reg,
	}))

	authHandler := handler.NewAuthHandler(deps.Auth)
	projectHandler := handler.NewProjectHandler(deps.Projects, deps.Notifications)
	formHandler := handler.NewFormHandler(deps.Forms)
	notificationHandler := handler.NewNotificationHandler(deps.Notifications)
	healthHandler := handler.NewHealthHandler(deps.Store, deps.StorageDriver)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/session", authHandler.Session)

	// --- Session-guarded routes ---
	session := middleware.RequireSession(deps.Auth)
	e.GET("/dashboard", projectHandler.Dashboard, session)

	projects := e.Group("/projects", session)
	projects.GET("", projectHandler.List)
	projects.POST("", projectHandler.Create)
	projects.PUT("/:id", projectHandler.Update)
	projects.DELETE("/:id", projectHandler.Delete, middleware.RBAC(domain.RoleAdmin))

	// --- Forms ---
	e.GET("/forms/project/defaults", projectHandler.Defaults)
	e.POST("/forms/login/validate", formHandler.ValidateLogin)
	e.POST("/forms/project/validate", formHandler.ValidateProject)
	e.POST("/forms/project/start-date", formHandler.ChangeStartDate)

	// --- Notifications ---
	e.GET("/notifications", notificationHandler.List)
	e.POST("/notifications", notificationHandler.Push)
	e.DELETE("/notifications", notificationHandler.Clear)
	e.DELETE("/notifications/:id", notificationHandler.Dismiss)

	// --- Health probes and tooling (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}

// requestLogger logs one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
