package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/sangkips/shopfront-pos/internal/domain/entity"
	"github.com/sangkips/shopfront-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/shopfront-pos/internal/domain/repository"
	"github.com/sangkips/shopfront-pos/pkg/apperror"
	"github.com/sangkips/shopfront-pos/pkg/fileutil"
	"github.com/sangkips/shopfront-pos/pkg/pagination"
)

const (
	monthLayout    = "200601"
	fileTimeLayout = "20060102_150405"
	salePrefix     = "sales_"
)

var monthDirPattern = regexp.MustCompile(`^\d{6}$`)

// IsMonthDir reports whether name is a YYYYMM record directory.
func IsMonthDir(name string) bool {
	return monthDirPattern.MatchString(name)
}

// IsSaleFile reports whether name looks like a sale record file.
func IsSaleFile(name string) bool {
	return strings.HasPrefix(name, salePrefix) && strings.HasSuffix(name, ".json")
}

type saleRepository struct {
	dataDir string
	now     func() time.Time
	logger  *slog.Logger
}

// NewSaleRepository creates the file-backed sale store rooted at dataDir.
// Records land in <dataDir>/<YYYYMM>/sales_<YYYYMMDD_HHMMSS>.json.
func NewSaleRepository(dataDir string, logger *slog.Logger) domainRepo.SaleRepository {
	return &saleRepository{dataDir: dataDir, now: time.Now, logger: logger}
}

func (r *saleRepository) RecordSale(ctx context.Context, input *domainRepo.RecordSaleInput) (*domainRepo.StoredSale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ts := input.Timestamp
	if ts.IsZero() {
		ts = r.now()
	}
	fileTS := ts.Format(fileTimeLayout)

	txID := input.TransactionID
	if txID == "" {
		txID = fileTS
	}

	cart := input.Cart
	if cart == nil {
		cart = []entity.CartItem{}
	}
	payments := input.Payments
	if payments == nil {
		payments = []entity.Payment{}
	}

	record := entity.SaleRecord{
		TransactionID: txID,
		Timestamp:     ts.Format(entity.TimestampLayout),
		Cart:          cart,
		TotalDue:      input.TotalDue,
		Payments:      payments,
		Change:        input.Change,
	}

	dir := filepath.Join(r.dataDir, ts.Format(monthLayout))
	path, err := fileutil.WriteJSONExclusive(dir, salePrefix+fileTS, ".json", record)
	if err != nil {
		return nil, apperror.NewPersistenceError("Failed to record sale", err)
	}
	r.logger.Info("recorded sale", "path", path, "transaction_id", txID, "total_due", input.TotalDue)
	return &domainRepo.StoredSale{Path: path, State: enum.SyncStateNew, Record: record}, nil
}

func (r *saleRepository) Load(_ context.Context, path string) (*entity.SaleRecord, error) {
	var record entity.SaleRecord
	if err := fileutil.ReadJSON(path, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *saleRepository) ListMonth(ctx context.Context, month string, params *pagination.PaginationParams) ([]domainRepo.StoredSale, int64, error) {
	if !IsMonthDir(month) {
		return nil, 0, apperror.NewFieldError("month", "month must be in YYYYMM form")
	}
	sales, err := r.collect(ctx, salePrefix+month)
	if err != nil {
		return nil, 0, err
	}
	return pagination.Slice(sales, params), int64(len(sales)), nil
}

func (r *saleRepository) ListDay(ctx context.Context, day time.Time) ([]domainRepo.StoredSale, error) {
	return r.collect(ctx, salePrefix+day.Format("20060102"))
}

func (r *saleRepository) Find(ctx context.Context, name string) (*domainRepo.StoredSale, error) {
	if !IsSaleFile(name) || filepath.Base(name) != name || len(name) < len(salePrefix)+6 {
		return nil, apperror.NewFieldError("name", "not a sale record name")
	}
	sales, err := r.collect(ctx, strings.TrimSuffix(name, ".json"))
	if err != nil {
		return nil, err
	}
	for i := range sales {
		if filepath.Base(sales[i].Path) == name {
			return &sales[i], nil
		}
	}
	return nil, apperror.NewNotFoundError("Sale")
}

// collect reads every sale whose file name starts with prefix, across the
// month directory and the pending and success directories. Unreadable files
// are logged and skipped.
func (r *saleRepository) collect(ctx context.Context, prefix string) ([]domainRepo.StoredSale, error) {
	month := strings.TrimPrefix(prefix, salePrefix)[:6]
	sources := []struct {
		dir   string
		state enum.SyncState
	}{
		{filepath.Join(r.dataDir, month), enum.SyncStateNew},
		{filepath.Join(r.dataDir, enum.SyncStatePending.Dir()), enum.SyncStatePending},
		{filepath.Join(r.dataDir, enum.SyncStateSuccess.Dir()), enum.SyncStateSuccess},
	}

	var sales []domainRepo.StoredSale
	for _, src := range sources {
		entries, err := os.ReadDir(src.dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", src.dir, err)
		}
		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if e.IsDir() || !IsSaleFile(e.Name()) || !strings.HasPrefix(e.Name(), prefix) {
				continue
			}
			path := filepath.Join(src.dir, e.Name())
			var record entity.SaleRecord
			if err := fileutil.ReadJSON(path, &record); err != nil {
				r.logger.Warn("skipping unreadable sale record", "path", path, "error", err)
				continue
			}
			sales = append(sales, domainRepo.StoredSale{Path: path, State: src.state, Record: record})
		}
	}

	sort.Slice(sales, func(i, j int) bool {
		return filepath.Base(sales[i].Path) < filepath.Base(sales[j].Path)
	})
	return sales, nil
}
