package api

import (
	"context"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/smilecare/clinic-admin-api/internal/api/handler"
	"github.com/smilecare/clinic-admin-api/internal/api/middleware"
	"github.com/smilecare/clinic-admin-api/internal/core/domain"
	"github.com/smilecare/clinic-admin-api/internal/core/service"
	mongodb "github.com/smilecare/clinic-admin-api/internal/infrastructure/db/mongo"
	redisdb "github.com/smilecare/clinic-admin-api/internal/infrastructure/db/redis"
	"github.com/smilecare/clinic-admin-api/internal/infrastructure/upstream"
	"github.com/smilecare/clinic-admin-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes
// registered. Sessions idle for a day are evicted; the janitor stops when
// ctx is cancelled.
func NewRouter(ctx context.Context, db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("clinic"))

	// --- Infrastructure ---
	userRepo := mongodb.NewUserRepository(db)
	pageAccessRepo := mongodb.NewPageAccessRepository(db)
	sourceCache := redisdb.NewSourceCache(rdb, cfg.Redis.CacheTTL, log)
	upstreamClient := upstream.NewClient(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Token:   cfg.Upstream.Token,
		Timeout: cfg.Upstream.Timeout,
	}, sourceCache, log)

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour)
	accessService := service.NewAccessService(ctx, service.AccessOptions{
		Passwords: service.TierPasswords{
			domain.TierStaff:     cfg.Access.StaffPassword,
			domain.TierOwner:     cfg.Access.OwnerPassword,
			domain.TierSuperUser: cfg.Access.SuperUserPassword,
		},
		Store:           pageAccessRepo,
		LockoutCooldown: cfg.Access.LockoutCooldown,
	}, log)
	accessService.StartJanitor(ctx, 10*time.Minute, 24*time.Hour)
	reportService := service.NewReportService(upstreamClient, cfg.Access.DefaultSittingFee, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	sessionHandler := handler.NewSessionHandler(accessService)
	guardHandler := handler.NewGuardHandler(accessService)
	accessHandler := handler.NewAccessHandler(accessService)
	reportHandler := handler.NewReportHandler(reportService)
	exportHandler := handler.NewExportHandler(reportService)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Authenticated routes ---
	auth := middleware.Auth(cfg.JWTSecret)
	v1 := e.Group("/v1", auth)

	v1.GET("/session", sessionHandler.Current)
	v1.POST("/session/downgrade", sessionHandler.Downgrade)
	v1.POST("/session/reset", sessionHandler.Reset)

	v1.GET("/pages/:page_id/access", guardHandler.Evaluate)
	v1.POST("/pages/:page_id/unlock", guardHandler.Unlock)
	v1.DELETE("/pages/:page_id/unlock", guardHandler.Cancel)

	settings := v1.Group("/access", middleware.PageGuard(accessService, "access-settings"))
	settings.GET("/pages", accessHandler.ListPages)
	settings.PUT("/pages/:page_id", accessHandler.SetPageTier)

	reports := v1.Group("/reports")
	guard := func(pageID string) echo.MiddlewareFunc {
		return middleware.PageGuard(accessService, pageID)
	}
	reports.GET("/attendance", reportHandler.Attendance, guard("attendance-report"))
	reports.GET("/treatments", reportHandler.Treatments, guard("treatment-report"))
	reports.GET("/sales", reportHandler.Sales, guard("sales-report"))
	reports.GET("/field-trips", reportHandler.FieldTrips, guard("field-trip-report"))
	reports.GET("/doctor-fees", reportHandler.DoctorFees, guard("doctor-fee-report"))
	reports.GET("/expenses", reportHandler.Expenses, guard("expense-report"))
	reports.GET("/salaries", reportHandler.Salaries, guard("salary-report"))
	reports.GET("/financial", reportHandler.Financial, guard("financial-report"))
	reports.GET("/financial/export", exportHandler.FinancialXLSX, guard("financial-report"))

	return e
}
