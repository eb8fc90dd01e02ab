package routes

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfront-pos/internal/config"
	domainRepo "github.com/sangkips/shopfront-pos/internal/domain/repository"
	"github.com/sangkips/shopfront-pos/internal/presentation/http/handler"
	"github.com/sangkips/shopfront-pos/internal/presentation/http/middleware"
	"github.com/sangkips/shopfront-pos/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Checkout *handler.CheckoutHandler
	CashFlow *handler.CashFlowHandler
	Sale     *handler.SaleHandler
	Sync     *handler.SyncHandler
	Report   *handler.ReportHandler
	Printer  *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Logger          *slog.Logger
	// Ctx bounds background work started by the router (limiter cleanup).
	Ctx context.Context
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	rateLimiter := middleware.NewOperatorRateLimiter(rateLimiterConfig(&deps.Cfg.RateLimit))
	ctx := deps.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	go rateLimiter.Run(ctx)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":       "ok",
			"service":      deps.Cfg.App.Name,
			"rate_limiter": rateLimiter.Stats(),
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		public := v1.Group("")
		public.Use(rateLimiter.Middleware())
		registerAuthRoutes(public, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func rateLimiterConfig(cfg *config.RateLimitConfig) middleware.RateLimiterConfig {
	rl := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rl.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rl.BurstSize = cfg.Requests
	}
	rl.CleanupInterval = 5 * time.Minute
	rl.EntryTTL = 10 * time.Minute
	return rl
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/auth/me", h.Auth.Me)

	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	registerCheckoutRoutes(protected, h, idempotent)
	registerCashFlowRoutes(protected, h, idempotent)
	registerSaleRoutes(protected, h)
	registerSyncRoutes(protected, h)
	registerReportRoutes(protected, h)
	registerPrinterRoutes(protected, h)
}

func registerCheckoutRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	protected.GET("/goods/:code", h.Checkout.LookupGoods)

	checkout := protected.Group("/checkout")
	{
		checkout.GET("", h.Checkout.Cart)
		checkout.DELETE("", h.Checkout.Clear)
		checkout.POST("/items", h.Checkout.AddItem)
		checkout.POST("/custom-items", h.Checkout.AddCustomItem)
		checkout.POST("/discounts", h.Checkout.AddDiscount)
		checkout.DELETE("/lines/last", h.Checkout.RemoveLast)
		checkout.POST("/settlement", h.Checkout.BeginSettlement)
		checkout.DELETE("/settlement", h.Checkout.CancelSettlement)
		checkout.GET("/settlement/initial-amount", h.Checkout.InitialAmount)
		checkout.POST("/tenders", h.Checkout.SubmitTender)
		checkout.POST("/complete", idempotent, h.Checkout.Complete)
	}
}

func registerCashFlowRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	cashflow := protected.Group("/cashflow")
	{
		cashflow.GET("", h.CashFlow.Day)
		cashflow.POST("", idempotent, h.CashFlow.Record)
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers) {
	sales := protected.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.GET("/:name", h.Sale.Get)
	}
}

func registerSyncRoutes(protected *gin.RouterGroup, h *Handlers) {
	sync := protected.Group("/sync")
	{
		sync.POST("/sweep", h.Sync.Sweep)
		sync.POST("/requeue", h.Sync.Requeue)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	{
		reports.GET("/daily", h.Report.DailySummary)
		reports.GET("/daily/workbook", h.Report.DailyWorkbook)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
		printer.POST("/reprint", h.Printer.Reprint)
	}
}
