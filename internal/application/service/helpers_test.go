package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/shopfront-pos/internal/domain/entity"
	"github.com/sangkips/shopfront-pos/internal/domain/enum"
	"github.com/sangkips/shopfront-pos/internal/domain/repository"
	infraRepo "github.com/sangkips/shopfront-pos/internal/infrastructure/repository"
	"github.com/sangkips/shopfront-pos/internal/infrastructure/vendor"
	"github.com/sangkips/shopfront-pos/pkg/logger"
	"github.com/shopspring/decimal"
)

var baseTime = time.Date(2025, 6, 2, 10, 0, 0, 0, time.Local)

type fakePrinter struct {
	mu   sync.Mutex
	jobs [][]byte
	err  error
}

func (p *fakePrinter) Print(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, append([]byte(nil), data...))
	return nil
}

func (p *fakePrinter) Close() error      { return nil }
func (p *fakePrinter) IsConnected() bool { return p.err == nil }

func (p *fakePrinter) Jobs() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.jobs
}

type fakeSyncer struct {
	mu    sync.Mutex
	paths []string
}

func (s *fakeSyncer) SyncSale(_ context.Context, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
}

// brokenSales fails every write and delegates everything else.
type brokenSales struct {
	repository.SaleRepository
}

func (b brokenSales) RecordSale(context.Context, *repository.RecordSaleInput) (*repository.StoredSale, error) {
	return nil, errors.New("disk full")
}

// sweptSales moves every freshly written record into success/ before the
// caller sees it, the way a concurrent sweep can.
type sweptSales struct {
	repository.SaleRepository
	dataDir string
}

func (s sweptSales) RecordSale(ctx context.Context, in *repository.RecordSaleInput) (*repository.StoredSale, error) {
	stored, err := s.SaleRepository.RecordSale(ctx, in)
	if err != nil {
		return nil, err
	}
	dst := filepath.Join(s.dataDir, "success")
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return nil, err
	}
	if err := os.Rename(stored.Path, filepath.Join(dst, filepath.Base(stored.Path))); err != nil {
		return nil, err
	}
	return stored, nil
}

func testGoods() repository.GoodsRepository {
	return infraRepo.NewGoodsRepositoryFromList([]entity.Goods{
		{Code6: "100001", GoodsID: "ABC-1", Name: "りんご", SellingPrice: decimal.NewFromInt(150)},
		{Code6: "100002", Name: "バナナ", SellingPrice: decimal.RequireFromString("55.9")},
	})
}

type checkoutFixture struct {
	svc     *CheckoutService
	sales   repository.SaleRepository
	printer *fakePrinter
	syncer  *fakeSyncer
	dataDir string
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	dataDir := t.TempDir()
	log := logger.Discard()
	sales := infraRepo.NewSaleRepository(dataDir, log)
	p := &fakePrinter{}
	ps := NewPrinterService(p, sales, PrinterOptions{
		Type:       "spool",
		CharWidth:  48,
		KickDrawer: true,
		Header:     entity.ReceiptHeader{StoreName: "テスト店"},
	}, log)
	syncer := &fakeSyncer{}

	svc := NewCheckoutService(testGoods(), sales, ps, syncer, log)
	svc.now = func() time.Time { return baseTime }
	svc.runAsync = func(f func()) { f() }

	return &checkoutFixture{svc: svc, sales: sales, printer: p, syncer: syncer, dataDir: dataDir}
}

type fakeCashFlow struct {
	mu      sync.Mutex
	records []entity.CashFlowRecord
}

func (f *fakeCashFlow) add(kind enum.CashFlowType, amount int64, at time.Time) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, entity.CashFlowRecord{Type: kind, Timestamp: at.Format(entity.TimestampLayout), Amount: amount})
	return string(kind) + "_" + at.Format("20060102_150405") + ".json"
}

func (f *fakeCashFlow) RecordDeposit(_ context.Context, amount int64) (string, error) {
	return f.add(enum.CashFlowDeposit, amount, baseTime), nil
}

func (f *fakeCashFlow) RecordWithdraw(_ context.Context, amount int64) (string, error) {
	return f.add(enum.CashFlowWithdraw, amount, baseTime), nil
}

func (f *fakeCashFlow) ListDay(_ context.Context, day time.Time) ([]entity.CashFlowRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := day.Format("2006-01-02")
	var out []entity.CashFlowRecord
	for _, r := range f.records {
		if len(r.Timestamp) >= 10 && r.Timestamp[:10] == prefix {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakePipeline struct {
	mu       sync.Mutex
	synced   []string
	sweeps   int
	requeued []string
	syncErr  error
	sweepErr error
	outcomes map[string]vendor.Outcome
}

func (p *fakePipeline) SyncOne(_ context.Context, path string) (vendor.Outcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.syncErr != nil {
		return vendor.Outcome{}, p.syncErr
	}
	p.synced = append(p.synced, path)
	return vendor.Outcome{State: enum.SyncStateSuccess, Path: path}, nil
}

func (p *fakePipeline) SyncAll(_ context.Context, _ string) (map[string]vendor.Outcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sweeps++
	if p.sweepErr != nil {
		return nil, p.sweepErr
	}
	return p.outcomes, nil
}

func (p *fakePipeline) RequeuePending(_ string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requeued, nil
}

// recordSaleAt writes a sale through the real repository.
func recordSaleAt(t *testing.T, sales repository.SaleRepository, at time.Time, total, change int64, payments ...entity.Payment) string {
	t.Helper()
	stored, err := sales.RecordSale(context.Background(), &repository.RecordSaleInput{
		Cart:      []entity.CartItem{{GoodsID: "abc-1", Name: "りんご", UnitPrice: total, Quantity: 1}},
		TotalDue:  total,
		Payments:  payments,
		Change:    change,
		Timestamp: at,
	})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	return stored.Path
}
