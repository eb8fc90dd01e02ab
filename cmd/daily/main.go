// Command daily is the end-of-day batch: it sweeps unsynced sales to the
// vendor, backs up the month in monthly mode and writes the daily report.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sangkips/shopfront-pos/internal/application/service"
	"github.com/sangkips/shopfront-pos/internal/config"
	"github.com/sangkips/shopfront-pos/internal/infrastructure/backup"
	"github.com/sangkips/shopfront-pos/internal/infrastructure/repository"
	"github.com/sangkips/shopfront-pos/internal/infrastructure/vendor"
	"github.com/sangkips/shopfront-pos/pkg/logger"
	"github.com/spf13/pflag"
)

func main() {
	mode := pflag.StringP("mode", "m", string(service.DailyModeDaily), "daily or monthly (monthly also backs up the month)")
	requeue := pflag.Bool("requeue", false, "move pending records back for another attempt before the sweep")
	date := pflag.String("date", "", "report day as YYYY-MM-DD (default today)")
	pflag.Parse()

	cfg := config.Load()

	logr, closeLog, err := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Dir: cfg.Log.Dir})
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	code := run(cfg, logr, *mode, *requeue, *date)
	closeLog()
	os.Exit(code)
}

func run(cfg *config.Config, logr *slog.Logger, mode string, requeue bool, date string) int {
	opts := service.DailyOptions{Mode: service.DailyMode(mode), Requeue: requeue}
	switch opts.Mode {
	case service.DailyModeDaily, service.DailyModeMonthly:
	default:
		logr.Error("unknown mode", "mode", mode)
		return 2
	}
	if date != "" {
		day, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			logr.Error("invalid date", "date", date, "error", err)
			return 2
		}
		opts.Day = day
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	target, err := backupTarget(ctx, &cfg.Backup)
	if err != nil {
		logr.Error("backup target unavailable", "type", cfg.Backup.Type, "error", err)
		return 1
	}

	saleRepo := repository.NewSaleRepository(cfg.Data.Dir, logr)
	cashFlowRepo := repository.NewCashFlowRepository(cfg.Data.Dir, logr)
	pipeline := vendor.NewPipelineFromConfig(&cfg.Vendor, cfg.Data.ReportsDir, logr)

	daily := service.NewDailyService(
		service.NewSyncService(pipeline, cfg.Data.Dir, true, logr),
		service.NewReportService(saleRepo, cashFlowRepo, cfg.Data.ReportsDir, logr),
		target,
		cfg.Data.Dir,
		logr,
	)

	res, err := daily.Run(ctx, opts)
	if err != nil {
		logr.Error("daily batch failed", "mode", mode, "error", err)
		return 1
	}

	logr.Info("daily batch finished",
		"mode", mode,
		"succeeded", res.Sweep.Succeeded,
		"pending", res.Sweep.Pending,
		"report", res.ReportPath,
		"sales", res.Summary.Sales,
		"total", res.Summary.Total,
	)
	if res.Backup != nil {
		logr.Info("backup written", "target", res.Backup.Target, "month", res.Backup.Month, "files", len(res.Backup.Files))
	}
	return 0
}

// backupTarget returns nil when backups are switched off.
func backupTarget(ctx context.Context, cfg *config.BackupConfig) (backup.Target, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "dir":
		return backup.NewDirTarget(cfg.Dir), nil
	case "s3":
		return backup.NewS3Target(ctx, backup.S3Config{
			Bucket:   cfg.Bucket,
			Region:   cfg.Region,
			Endpoint: cfg.Endpoint,
			Prefix:   cfg.Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown backup type %q (use none, dir or s3)", cfg.Type)
	}
}
