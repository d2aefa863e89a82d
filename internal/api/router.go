package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sgea/academic-events/docs"
	"github.com/sgea/academic-events/internal/api/handler"
	"github.com/sgea/academic-events/internal/api/middleware"
	"github.com/sgea/academic-events/internal/core/domain"
	"github.com/sgea/academic-events/internal/core/ports"
	"github.com/sgea/academic-events/internal/infrastructure/db/redis"
	"github.com/sgea/academic-events/internal/infrastructure/http/handlers"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Users        ports.UserService
	Events       ports.EventService
	Enrollment   ports.EnrollmentService
	Certificates ports.CertificateService
	Audit        ports.AuditTrail
	Limiter      ports.RateLimiter
	Readiness    *handlers.HealthDependenciesHandler
	JWTSecret    string
	Log          zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("sgea"))

	// --- Operational endpoints ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	if d.Readiness != nil {
		e.GET("/health/ready", d.Readiness.Readiness)
	}
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authMW := middleware.Auth(d.JWTSecret)
	organizerOnly := middleware.RBAC(domain.RoleOrganizer)
	limit := func(scope string) echo.MiddlewareFunc {
		return middleware.RateLimit(d.Limiter, scope, d.Log)
	}

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Users)
	e.POST("/auth/register", authHandler.Register)
	e.GET("/auth/confirm/:token", authHandler.Confirm)
	e.POST("/auth/login", authHandler.Login)

	v1 := e.Group("/v1")

	// --- Events ---
	eventHandler := handler.NewEventHandler(d.Events)
	v1.GET("/events", eventHandler.List, middleware.OptionalAuth(d.JWTSecret), limit(redis.ScopeEventList))
	v1.GET("/events/:id", eventHandler.Get)
	v1.POST("/events", eventHandler.Create, authMW, organizerOnly)
	v1.PUT("/events/:id", eventHandler.Update, authMW, organizerOnly)
	v1.DELETE("/events/:id", eventHandler.Delete, authMW, organizerOnly)

	// --- Registrations ---
	enrollmentHandler := handler.NewEnrollmentHandler(d.Enrollment)
	v1.POST("/events/:id/registrations", enrollmentHandler.Enroll, authMW, limit(redis.ScopeRegistration))
	v1.DELETE("/events/:id/registrations", enrollmentHandler.Cancel, authMW)
	v1.GET("/events/:id/registrations", enrollmentHandler.ListByEvent, authMW, organizerOnly)
	v1.PUT("/events/:id/registrations/:user_id/presence", enrollmentHandler.ConfirmPresence, authMW, organizerOnly)
	v1.GET("/me/registrations", enrollmentHandler.Mine, authMW)

	// --- Certificates ---
	certificateHandler := handler.NewCertificateHandler(d.Certificates)
	v1.GET("/me/certificates", certificateHandler.Mine, authMW)
	v1.GET("/certificates/:id/download", certificateHandler.Download, authMW)
	v1.POST("/certificates/batch", certificateHandler.RunBatch, authMW, organizerOnly)

	// --- Audit ---
	auditHandler := handler.NewAuditHandler(d.Audit)
	v1.GET("/audit-logs", auditHandler.List, authMW, organizerOnly)

	return e
}
