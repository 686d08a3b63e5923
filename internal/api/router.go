package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/verityai/kyc-platform/docs"
	"github.com/verityai/kyc-platform/internal/api/handler"
	"github.com/verityai/kyc-platform/internal/api/middleware"
	"github.com/verityai/kyc-platform/internal/core/domain"
	"github.com/verityai/kyc-platform/internal/core/ports"
)

// Dependencies carries everything the router needs; wiring happens in main.
type Dependencies struct {
	Auth      ports.AuthService
	Cases     ports.CaseService
	Documents ports.DocumentService
	Team      ports.TeamService
	Audit     ports.AuditService
	APIKeys   ports.APIKeyService

	Mongo   *mongo.Database
	Redis   *redis.Client
	Storage handler.StoragePinger

	JWTSecret  string
	PublicRPS  float64
	PublicBurst int

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("kyc"))

	auth := middleware.Auth(deps.JWTSecret)
	canReview := middleware.RBAC(domain.RoleAdmin, domain.RoleReviewer)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	e.POST("/auth/signup", authHandler.SignUp)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, auth)

	// --- Authenticated API ---
	caseHandler := handler.NewCaseHandler(deps.Cases, deps.Documents)
	v1 := e.Group("/v1", auth)
	v1.POST("/cases", caseHandler.Create, canReview)
	v1.GET("/cases", caseHandler.List)
	v1.GET("/cases/:id", caseHandler.Get)
	v1.PATCH("/cases/:id/status", caseHandler.UpdateStatus, canReview)
	v1.PATCH("/cases/:id/assign", caseHandler.Assign, canReview)
	v1.GET("/documents/:id/url", caseHandler.DocumentURL)
	v1.GET("/dashboard/stats", caseHandler.Stats)

	teamHandler := handler.NewTeamHandler(deps.Team)
	v1.GET("/team", teamHandler.List)
	v1.PATCH("/team/:id/role", teamHandler.UpdateRole, adminOnly)
	v1.DELETE("/team/:id", teamHandler.Remove, adminOnly)

	auditHandler := handler.NewAuditHandler(deps.Audit)
	v1.GET("/audit", auditHandler.List)

	keyHandler := handler.NewAPIKeyHandler(deps.APIKeys)
	v1.POST("/apikeys", keyHandler.Create, adminOnly)
	v1.GET("/apikeys", keyHandler.List)
	v1.DELETE("/apikeys/:id", keyHandler.Revoke, adminOnly)

	// --- Public onboarding routes (unauthenticated, rate limited) ---
	publicHandler := handler.NewPublicHandler(deps.Cases, deps.Documents, deps.Log)
	public := e.Group("/public", middleware.RateLimit(deps.PublicRPS, deps.PublicBurst))
	public.GET("/cases/:id", publicHandler.LookupCase)
	public.POST("/documents/upload", publicHandler.UploadDocument)

	// --- Ops endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis, deps.Storage)
	e.GET("/health", healthHandler.Liveness)             // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness)   // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
