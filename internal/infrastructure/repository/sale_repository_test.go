package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sangkips/shopfront-pos/internal/domain/entity"
	"github.com/sangkips/shopfront-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/shopfront-pos/internal/domain/repository"
	"github.com/sangkips/shopfront-pos/pkg/apperror"
	"github.com/sangkips/shopfront-pos/pkg/logger"
	"github.com/sangkips/shopfront-pos/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var saleTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local)

func sampleSale() *domainRepo.RecordSaleInput {
	return &domainRepo.RecordSaleInput{
		Cart: []entity.CartItem{
			{GoodsID: "ab-001", Name: "りんごジュース", UnitPrice: 150, Quantity: 2},
			{Name: "手書き商品", UnitPrice: 300, Quantity: 1},
		},
		TotalDue: 600,
		Payments: []entity.Payment{{Method: enum.PaymentMethodCash, Amount: decimal.NewFromInt(1000)}},
		Change:   400,
		Timestamp: saleTime,
	}
}

func TestRecordSaleLayout(t *testing.T) {
	dir := t.TempDir()
	repo := NewSaleRepository(dir, logger.Discard())

	stored, err := repo.RecordSale(context.Background(), sampleSale())
	require.NoError(t, err)
	path := stored.Path
	assert.Equal(t, filepath.Join(dir, "202503", "sales_20250314_092653.json"), path)
	assert.Equal(t, enum.SyncStateNew, stored.State)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\"name\": \"りんごジュース\"")
	assert.Contains(t, string(raw), "\"amount\": 1000")
	assert.Contains(t, string(raw), "\"timestamp\": \"2025-03-14T09:26:53\"")

	record, err := repo.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "20250314_092653", record.TransactionID)
	assert.Equal(t, int64(600), record.TotalDue)
	assert.Equal(t, int64(400), record.Change)
	require.Len(t, record.Payments, 1)
	assert.True(t, record.Payments[0].Amount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, record.TransactionID, stored.Record.TransactionID)
	assert.Equal(t, record.Timestamp, stored.Record.Timestamp)
	assert.Equal(t, record.Cart, stored.Record.Cart)
}

func TestRecordSaleSameSecondDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	repo := NewSaleRepository(dir, logger.Discard())

	first, err := repo.RecordSale(context.Background(), sampleSale())
	require.NoError(t, err)

	in := sampleSale()
	in.TransactionID = "T-2"
	second, err := repo.RecordSale(context.Background(), in)
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
	assert.FileExists(t, first.Path)
	assert.FileExists(t, second.Path)
}

func TestRecordSaleDefaultsTimestampToNow(t *testing.T) {
	dir := t.TempDir()
	repo := NewSaleRepository(dir, logger.Discard()).(*saleRepository)
	repo.now = func() time.Time { return saleTime }

	in := sampleSale()
	in.Timestamp = time.Time{}
	stored, err := repo.RecordSale(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "202503", "sales_20250314_092653.json"), stored.Path)
}

func TestRecordSaleWriteFailureIsPersistenceError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))

	repo := NewSaleRepository(blocker, logger.Discard())
	_, err := repo.RecordSale(context.Background(), sampleSale())

	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 500, appErr.Code)
}

func TestListMonthAcrossStates(t *testing.T) {
	dir := t.TempDir()
	repo := NewSaleRepository(dir, logger.Discard())
	ctx := context.Background()

	p1, err := repo.RecordSale(ctx, sampleSale())
	require.NoError(t, err)
	in := sampleSale()
	in.Timestamp = saleTime.Add(time.Hour)
	_, err = repo.RecordSale(ctx, in)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "success"), 0o755))
	require.NoError(t, os.Rename(p1.Path, filepath.Join(dir, "success", filepath.Base(p1.Path))))

	sales, total, err := repo.ListMonth(ctx, "202503", pagination.DefaultPagination())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, sales, 2)
	assert.Equal(t, enum.SyncStateSuccess, sales[0].State)
	assert.Equal(t, enum.SyncStateNew, sales[1].State)

	day, err := repo.ListDay(ctx, saleTime)
	require.NoError(t, err)
	assert.Len(t, day, 2)
}

func TestListMonthRejectsBadMonth(t *testing.T) {
	repo := NewSaleRepository(t.TempDir(), logger.Discard())
	_, _, err := repo.ListMonth(context.Background(), "2025-03", pagination.DefaultPagination())
	require.Error(t, err)
	assert.Equal(t, 422, apperror.GetAppError(err).Code)
}

func TestFindAcrossStates(t *testing.T) {
	dir := t.TempDir()
	repo := NewSaleRepository(dir, logger.Discard())
	ctx := context.Background()

	stored, err := repo.RecordSale(ctx, sampleSale())
	require.NoError(t, err)
	path := stored.Path
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pending"), 0o755))
	moved := filepath.Join(dir, "pending", filepath.Base(path))
	require.NoError(t, os.Rename(path, moved))

	found, err := repo.Find(ctx, filepath.Base(path))
	require.NoError(t, err)
	assert.Equal(t, moved, found.Path)
	assert.Equal(t, enum.SyncStatePending, found.State)

	_, err = repo.Find(ctx, "sales_20250314_000000.json")
	assert.Equal(t, 404, apperror.GetAppError(err).Code)

	_, err = repo.Find(ctx, "../secrets.json")
	assert.Equal(t, 422, apperror.GetAppError(err).Code)
}
