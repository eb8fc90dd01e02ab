package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sangkips/shopfront-pos/internal/domain/entity"
	"github.com/sangkips/shopfront-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/shopfront-pos/internal/domain/repository"
	"github.com/sangkips/shopfront-pos/pkg/apperror"
	"github.com/sangkips/shopfront-pos/pkg/fileutil"
)

type cashFlowRepository struct {
	dataDir string
	now     func() time.Time
	logger  *slog.Logger
}

// NewCashFlowRepository creates the store for till movements under
// <dataDir>/cashflow/<YYYYMM>/.
func NewCashFlowRepository(dataDir string, logger *slog.Logger) domainRepo.CashFlowRepository {
	return &cashFlowRepository{dataDir: dataDir, now: time.Now, logger: logger}
}

func (r *cashFlowRepository) RecordDeposit(ctx context.Context, amount int64) (string, error) {
	return r.write(ctx, enum.CashFlowDeposit, amount)
}

func (r *cashFlowRepository) RecordWithdraw(ctx context.Context, amount int64) (string, error) {
	return r.write(ctx, enum.CashFlowWithdraw, amount)
}

func (r *cashFlowRepository) write(ctx context.Context, kind enum.CashFlowType, amount int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ts := r.now()
	record := &entity.CashFlowRecord{
		Type:      kind,
		Timestamp: ts.Format(entity.TimestampLayout),
		Amount:    amount,
	}

	dir := filepath.Join(r.dataDir, "cashflow", ts.Format(monthLayout))
	path, err := fileutil.WriteJSONExclusive(dir, string(kind)+"_"+ts.Format(fileTimeLayout), ".json", record)
	if err != nil {
		return "", apperror.NewPersistenceError("Failed to record "+string(kind), err)
	}
	r.logger.Info("recorded cash flow", "type", kind, "amount", amount, "path", path)
	return path, nil
}

func (r *cashFlowRepository) ListDay(ctx context.Context, day time.Time) ([]entity.CashFlowRecord, error) {
	dir := filepath.Join(r.dataDir, "cashflow", day.Format(monthLayout))
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	stamp := "_" + day.Format("20060102") + "_"
	var records []entity.CashFlowRecord
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") || !strings.Contains(e.Name(), stamp) {
			continue
		}
		var rec entity.CashFlowRecord
		path := filepath.Join(dir, e.Name())
		if err := fileutil.ReadJSON(path, &rec); err != nil {
			r.logger.Warn("skipping unreadable cash flow record", "path", path, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
