package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sangkips/shopfront-pos/internal/domain/entity"
	"github.com/sangkips/shopfront-pos/internal/domain/enum"
	infraRepo "github.com/sangkips/shopfront-pos/internal/infrastructure/repository"
	"github.com/sangkips/shopfront-pos/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type reportFixture struct {
	svc        *ReportService
	dataDir    string
	reportsDir string
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	dataDir := t.TempDir()
	reportsDir := filepath.Join(t.TempDir(), "reports")
	sales := infraRepo.NewSaleRepository(dataDir, logger.Discard())
	flows := &fakeCashFlow{}

	recordSaleAt(t, sales, baseTime, 850, 150, entity.Payment{Method: enum.PaymentMethodCash, Amount: yenOf(1000)})
	pending := recordSaleAt(t, sales, baseTime.Add(time.Minute), 300, 0, entity.Payment{Method: enum.PaymentMethodCard, Amount: yenOf(300)})
	recordSaleAt(t, sales, baseTime.AddDate(0, 0, 1), 999, 0, entity.Payment{Method: enum.PaymentMethodCash, Amount: yenOf(999)})

	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "pending"), 0o755))
	require.NoError(t, os.Rename(pending, filepath.Join(dataDir, "pending", filepath.Base(pending))))

	flows.add(enum.CashFlowDeposit, 5000, baseTime)
	flows.add(enum.CashFlowWithdraw, 1000, baseTime)
	flows.add(enum.CashFlowDeposit, 7777, baseTime.AddDate(0, 0, -1))

	return &reportFixture{
		svc:        NewReportService(sales, flows, reportsDir, logger.Discard()),
		dataDir:    dataDir,
		reportsDir: reportsDir,
	}
}

func TestSummarize(t *testing.T) {
	f := newReportFixture(t)

	sum, sales, err := f.svc.Summarize(context.Background(), baseTime)
	require.NoError(t, err)
	assert.Len(t, sales, 2)

	assert.Equal(t, "2025-06-02", sum.Date)
	assert.Equal(t, 2, sum.Sales)
	assert.Equal(t, int64(1150), sum.Total)
	assert.Equal(t, int64(1000), sum.ByMethod[enum.PaymentMethodCash])
	assert.Equal(t, int64(300), sum.ByMethod[enum.PaymentMethodCard])
	assert.Equal(t, int64(150), sum.Change)
	assert.Equal(t, int64(5000), sum.Deposits)
	assert.Equal(t, int64(1000), sum.Withdrawals)
	assert.Equal(t, int64(1000-150+5000-1000), sum.CashInDrawer)
	assert.Equal(t, 1, sum.Pending)
}

func TestWriteDaily(t *testing.T) {
	f := newReportFixture(t)

	path, sum, err := f.svc.WriteDaily(context.Background(), baseTime)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.reportsDir, "daily_20250602.xlsx"), path)
	assert.Equal(t, 2, sum.Sales)

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{summarySheet, salesSheet}, wb.GetSheetList())

	count, err := wb.GetCellValue(summarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", count)

	total, err := wb.GetCellValue(summarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "1150", total)

	rows, err := wb.GetRows(salesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "取引ID", rows[0][0])
	assert.Equal(t, "20250602_100000", rows[1][0])
	assert.Equal(t, "10:00:00", rows[1][1])
	assert.Equal(t, "new", rows[1][2])
	assert.Equal(t, "pending", rows[2][2])
	assert.Equal(t, "クレカ", rows[2][5])
}

func TestWriteDailyEmptyDay(t *testing.T) {
	f := newReportFixture(t)

	path, sum, err := f.svc.WriteDaily(context.Background(), baseTime.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Zero(t, sum.Sales)
	assert.FileExists(t, path)
}
