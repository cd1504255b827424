package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/jobradar/jobradar/docs"
	"github.com/jobradar/jobradar/internal/api/handler"
	"github.com/jobradar/jobradar/internal/api/middleware"
	"github.com/jobradar/jobradar/internal/core/domain"
	"github.com/jobradar/jobradar/internal/core/ports"
)

// Deps carries everything the router needs wired in.
type Deps struct {
	Auth   ports.AuthService
	Jobs   ports.JobService
	Stats  ports.StatsService
	Ingest ports.IngestService
	Notify ports.NotifyService

	JobRepo  ports.JobRepository
	UserRepo ports.UserRepository

	Mongo *mongo.Database
	Redis *redis.Client

	JWTSecret  string
	CronSecret string
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("jobradar"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	jobHandler := handler.NewJobHandler(deps.Jobs)
	statsHandler := handler.NewStatsHandler(deps.Stats)
	cronHandler := handler.NewCronHandler(deps.Ingest, deps.Notify, deps.JobRepo, deps.UserRepo)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes and operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Cron triggers (shared-secret auth) ---
	cron := e.Group("/cron", middleware.CronAuth(deps.CronSecret))
	cron.POST("/fetch-jobs", cronHandler.FetchJobs)
	cron.POST("/send-emails", cronHandler.SendEmails)
	cron.GET("/send-emails", cronHandler.Status)

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret))
	v1.GET("/jobs", jobHandler.List)
	v1.POST("/jobs", jobHandler.Create, middleware.RBAC(domain.RoleAdmin))
	v1.PUT("/jobs/:id/applied", jobHandler.SetApplied)
	v1.GET("/stats", statsHandler.Get)

	return e
}
