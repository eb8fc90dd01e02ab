package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfront-pos/internal/application/service"
	"github.com/sangkips/shopfront-pos/internal/config"
	"github.com/sangkips/shopfront-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/shopfront-pos/internal/domain/repository"
	"github.com/sangkips/shopfront-pos/internal/infrastructure/repository"
	"github.com/sangkips/shopfront-pos/internal/infrastructure/vendor"
	"github.com/sangkips/shopfront-pos/internal/presentation/http/handler"
	"github.com/sangkips/shopfront-pos/internal/presentation/http/routes"
	"github.com/sangkips/shopfront-pos/pkg/logger"
	"github.com/sangkips/shopfront-pos/pkg/printer"
	"github.com/sangkips/shopfront-pos/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logr, closeLog, err := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Dir: cfg.Log.Dir})
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logr)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize JWT manager
	refreshExpiry := cfg.JWT.RefreshExpiryHours
	if refreshExpiry < cfg.JWT.ExpiryHours {
		refreshExpiry = cfg.JWT.ExpiryHours
	}
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours, refreshExpiry)

	if len(cfg.Operators) == 0 {
		logr.Warn("no operators configured, nobody can log in (set POS_OPERATORS)")
	}

	// Initialize repositories
	goodsRepo, err := repository.NewGoodsRepository(cfg.Data.GoodsFile)
	if err != nil {
		logr.Error("failed to load goods master", "file", cfg.Data.GoodsFile, "error", err)
		os.Exit(1)
	}
	saleRepo := repository.NewSaleRepository(cfg.Data.Dir, logr)
	cashFlowRepo := repository.NewCashFlowRepository(cfg.Data.Dir, logr)
	idempotencyRepo := repository.NewIdempotencyRepository()

	// Vendor sync
	pipeline := vendor.NewPipelineFromConfig(&cfg.Vendor, cfg.Data.ReportsDir, logr)
	syncService := service.NewSyncService(pipeline, cfg.Data.Dir, cfg.Vendor.SyncOnSale, logr)

	// Initialize thermal printer
	printerService := newPrinterService(cfg, saleRepo, logr)

	// Initialize services
	authService := service.NewAuthService(cfg.Operators, jwtManager)
	checkoutService := service.NewCheckoutService(goodsRepo, saleRepo, printerService, syncService, logr)
	cashFlowService := service.NewCashFlowService(cashFlowRepo)
	reportService := service.NewReportService(saleRepo, cashFlowRepo, cfg.Data.ReportsDir, logr)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Checkout: handler.NewCheckoutHandler(checkoutService),
		CashFlow: handler.NewCashFlowHandler(cashFlowService),
		Sale:     handler.NewSaleHandler(saleRepo),
		Sync:     handler.NewSyncHandler(syncService),
		Report:   handler.NewReportHandler(reportService),
		Printer:  handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Logger:          logr,
		Ctx:             ctx,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("starting server", "name", cfg.App.Name, "port", port, "env", cfg.App.Env, "simulate", cfg.Vendor.Simulate)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", "error", err)
	}
}

func newPrinterService(cfg *config.Config, saleRepo domainRepo.SaleRepository, logr *slog.Logger) *service.PrinterService {
	thermalPrinter, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.Target(), cfg.Printer.Timeout)
	if err != nil {
		logr.Warn("failed to initialize printer, receipts will not print", "error", err)
		thermalPrinter = printer.NewNullPrinter()
	}

	var layout *printer.Layout
	if cfg.Printer.LayoutFile != "" {
		layout, err = printer.LoadLayout(cfg.Printer.LayoutFile)
		if err != nil {
			logr.Warn("receipt layout not loaded, using default", "file", cfg.Printer.LayoutFile, "error", err)
			layout = nil
		}
	}

	return service.NewPrinterService(thermalPrinter, saleRepo, service.PrinterOptions{
		Type:       cfg.Printer.Type,
		CharWidth:  cfg.Printer.CharWidth,
		KickDrawer: cfg.Printer.KickDrawer,
		Header: entity.ReceiptHeader{
			StoreName: cfg.App.StoreName,
			Address:   cfg.App.StoreAddress,
			Phone:     cfg.App.StorePhone,
		},
		Layout: layout,
	}, logr)
}
