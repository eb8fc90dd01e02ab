package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sangkips/shopfront-pos/internal/infrastructure/backup"
)

// DailyMode selects how much of the end-of-day batch runs.
type DailyMode string

const (
	// DailyModeDaily syncs and writes the day's report.
	DailyModeDaily DailyMode = "daily"
	// DailyModeMonthly additionally backs up the current month.
	DailyModeMonthly DailyMode = "monthly"
)

// DailyOptions configures one batch run.
type DailyOptions struct {
	Mode    DailyMode
	Requeue bool
	Day     time.Time
}

// DailyResult collects what each step of the batch produced.
type DailyResult struct {
	Sweep      *SweepResult   `json:"sweep,omitempty"`
	Backup     *backup.Result `json:"backup,omitempty"`
	ReportPath string         `json:"report_path,omitempty"`
	Summary    *DailySummary  `json:"summary,omitempty"`
}

// DailyService is the end-of-day batch: sweep, optional backup and report.
type DailyService struct {
	sync    *SyncService
	reports *ReportService
	target  backup.Target
	dataDir string
	logger  *slog.Logger
}

// NewDailyService creates the batch runner. target may be nil when no
// backup is configured.
func NewDailyService(sync *SyncService, reports *ReportService, target backup.Target, dataDir string, logger *slog.Logger) *DailyService {
	return &DailyService{sync: sync, reports: reports, target: target, dataDir: dataDir, logger: logger}
}

// Run executes the batch. A sweep already in progress is an error; a failed
// backup is logged and the report is still written.
func (s *DailyService) Run(ctx context.Context, opts DailyOptions) (*DailyResult, error) {
	day := opts.Day
	if day.IsZero() {
		day = time.Now()
	}
	res := &DailyResult{}

	sweep, err := s.sync.Sweep(ctx, opts.Requeue)
	if err != nil {
		return res, err
	}
	res.Sweep = sweep

	if opts.Mode == DailyModeMonthly && s.target != nil {
		month := day.Format("200601")
		b, err := backup.Month(ctx, s.target, s.dataDir, month, s.logger)
		if err != nil {
			s.logger.Error("monthly backup failed", "month", month, "target", s.target.String(), "error", err)
		}
		res.Backup = b
	}

	path, sum, err := s.reports.WriteDaily(ctx, day)
	if err != nil {
		return res, err
	}
	res.ReportPath = path
	res.Summary = sum
	return res, nil
}
