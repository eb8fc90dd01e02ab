package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sangkips/shopfront-pos/internal/domain/enum"
	"github.com/sangkips/shopfront-pos/internal/infrastructure/vendor"
	"github.com/sangkips/shopfront-pos/pkg/apperror"
)

// SyncPipeline is the part of the vendor pipeline the service drives.
type SyncPipeline interface {
	SyncOne(ctx context.Context, path string) (vendor.Outcome, error)
	SyncAll(ctx context.Context, dataDir string) (map[string]vendor.Outcome, error)
	RequeuePending(dataDir string) ([]string, error)
}

// SweepResult summarises one pass over the data directory.
type SweepResult struct {
	Requeued  []string                  `json:"requeued,omitempty"`
	Outcomes  map[string]vendor.Outcome `json:"outcomes"`
	Succeeded int                       `json:"succeeded"`
	Pending   int                       `json:"pending"`
}

// SyncService pushes recorded sales to the vendor, either one at a time
// right after checkout or as a sweep over everything still unsynced.
type SyncService struct {
	pipeline   SyncPipeline
	dataDir    string
	syncOnSale bool
	logger     *slog.Logger
}

// NewSyncService creates a new sync service
func NewSyncService(pipeline SyncPipeline, dataDir string, syncOnSale bool, logger *slog.Logger) *SyncService {
	return &SyncService{pipeline: pipeline, dataDir: dataDir, syncOnSale: syncOnSale, logger: logger}
}

// SyncSale syncs a freshly recorded sale. Failures only leave the record for
// the next sweep, so nothing is returned.
func (s *SyncService) SyncSale(ctx context.Context, path string) {
	if !s.syncOnSale {
		return
	}
	out, err := s.pipeline.SyncOne(ctx, path)
	if errors.Is(err, apperror.ErrSweepInProgress) {
		s.logger.Info("sweep running, sale left for it", "path", path)
		return
	}
	if err != nil {
		s.logger.Warn("sale sync failed", "path", path, "error", err)
		return
	}
	s.logger.Info("sale synced", "path", out.Path, "state", out.State)
}

// Sweep syncs every unsynced record. With requeue set, pending records are
// first moved back to their month directory so they are retried too.
func (s *SyncService) Sweep(ctx context.Context, requeue bool) (*SweepResult, error) {
	res := &SweepResult{}
	if requeue {
		moved, err := s.Requeue()
		if err != nil {
			return nil, err
		}
		res.Requeued = moved
	}

	outcomes, err := s.pipeline.SyncAll(ctx, s.dataDir)
	if err != nil {
		return nil, err
	}
	res.Outcomes = outcomes
	for _, out := range outcomes {
		switch out.State {
		case enum.SyncStateSuccess:
			res.Succeeded++
		case enum.SyncStatePending:
			res.Pending++
		}
	}
	s.logger.Info("sync sweep finished", "records", len(outcomes), "succeeded", res.Succeeded, "pending", res.Pending)
	return res, nil
}

// Requeue moves every pending record back into its month directory.
func (s *SyncService) Requeue() ([]string, error) {
	moved, err := s.pipeline.RequeuePending(s.dataDir)
	if err != nil {
		return moved, err
	}
	if len(moved) > 0 {
		s.logger.Info("pending records requeued", "count", len(moved))
	}
	return moved, nil
}
