package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sangkips/shopfront-pos/internal/domain/enum"
	"github.com/sangkips/shopfront-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	salesSheet   = "Sales"
)

// DailySummary aggregates one trading day.
type DailySummary struct {
	Date         string                       `json:"date"`
	Sales        int                          `json:"sales"`
	Total        int64                        `json:"total"`
	ByMethod     map[enum.PaymentMethod]int64 `json:"by_method"`
	Change       int64                        `json:"change"`
	Deposits     int64                        `json:"deposits"`
	Withdrawals  int64                        `json:"withdrawals"`
	CashInDrawer int64                        `json:"cash_in_drawer"`
	Pending      int                          `json:"pending"`
}

// ReportService builds end-of-day figures and workbooks.
type ReportService struct {
	sales      repository.SaleRepository
	cashflow   repository.CashFlowRepository
	reportsDir string
	logger     *slog.Logger
}

// NewReportService creates a new report service
func NewReportService(sales repository.SaleRepository, cashflow repository.CashFlowRepository, reportsDir string, logger *slog.Logger) *ReportService {
	return &ReportService{sales: sales, cashflow: cashflow, reportsDir: reportsDir, logger: logger}
}

// Summarize totals the sales and till movements of day. Cash in drawer is
// cash taken minus change given plus deposits minus withdrawals.
func (s *ReportService) Summarize(ctx context.Context, day time.Time) (*DailySummary, []repository.StoredSale, error) {
	sales, err := s.sales.ListDay(ctx, day)
	if err != nil {
		return nil, nil, err
	}
	flows, err := s.cashflow.ListDay(ctx, day)
	if err != nil {
		return nil, nil, err
	}

	sum := &DailySummary{
		Date:     day.Format("2006-01-02"),
		Sales:    len(sales),
		ByMethod: make(map[enum.PaymentMethod]int64),
	}
	byMethod := make(map[enum.PaymentMethod]decimal.Decimal)
	for _, sale := range sales {
		sum.Total += sale.Record.TotalDue
		sum.Change += sale.Record.Change
		if sale.State == enum.SyncStatePending {
			sum.Pending++
		}
		for _, p := range sale.Record.Payments {
			byMethod[p.Method] = byMethod[p.Method].Add(p.Amount)
		}
	}
	for m, v := range byMethod {
		sum.ByMethod[m] = v.IntPart()
	}
	for _, f := range flows {
		switch f.Type {
		case enum.CashFlowDeposit:
			sum.Deposits += f.Amount
		case enum.CashFlowWithdraw:
			sum.Withdrawals += f.Amount
		}
	}
	sum.CashInDrawer = sum.ByMethod[enum.PaymentMethodCash] - sum.Change + sum.Deposits - sum.Withdrawals
	return sum, sales, nil
}

// WriteDaily writes reports/daily_<YYYYMMDD>.xlsx with a summary sheet and
// one row per sale.
func (s *ReportService) WriteDaily(ctx context.Context, day time.Time) (string, *DailySummary, error) {
	sum, sales, err := s.Summarize(ctx, day)
	if err != nil {
		return "", nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return "", nil, fmt.Errorf("report: %w", err)
	}
	if _, err := f.NewSheet(salesSheet); err != nil {
		return "", nil, fmt.Errorf("report: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", nil, fmt.Errorf("report: %w", err)
	}

	rows := [][]any{
		{"日付", sum.Date},
		{"売上件数", sum.Sales},
		{"売上合計", sum.Total},
	}
	for _, m := range enum.DefaultPaymentMethods() {
		rows = append(rows, []any{m.Label(), sum.ByMethod[m]})
	}
	for m, v := range sum.ByMethod {
		if _, known := methodRank(m); !known {
			rows = append(rows, []any{m.Label(), v})
		}
	}
	rows = append(rows,
		[]any{"お釣り", sum.Change},
		[]any{"入金", sum.Deposits},
		[]any{"出金", sum.Withdrawals},
		[]any{"現金在高", sum.CashInDrawer},
		[]any{"未同期", sum.Pending},
	)
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return "", nil, fmt.Errorf("report: %w", err)
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 14); err != nil {
		return "", nil, fmt.Errorf("report: %w", err)
	}

	header := []any{"取引ID", "時刻", "状態", "点数", "合計", "支払方法", "お預り", "お釣り"}
	if err := f.SetSheetRow(salesSheet, "A1", &header); err != nil {
		return "", nil, fmt.Errorf("report: %w", err)
	}
	if err := f.SetCellStyle(salesSheet, "A1", "H1", bold); err != nil {
		return "", nil, fmt.Errorf("report: %w", err)
	}
	for i, sale := range sales {
		row := saleRow(&sale)
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(salesSheet, cell, &row); err != nil {
			return "", nil, fmt.Errorf("report: %w", err)
		}
	}

	if err := os.MkdirAll(s.reportsDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("report: %w", err)
	}
	path := filepath.Join(s.reportsDir, "daily_"+day.Format("20060102")+".xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", nil, fmt.Errorf("report: save %s: %w", path, err)
	}
	s.logger.Info("daily report written", "path", path, "sales", sum.Sales, "total", sum.Total)
	return path, sum, nil
}

func saleRow(sale *repository.StoredSale) []any {
	r := &sale.Record
	clock := r.Timestamp
	if t, err := r.Time(); err == nil {
		clock = t.Format("15:04:05")
	}
	var items int
	for _, c := range r.Cart {
		items += c.Quantity
	}
	var paid decimal.Decimal
	for _, p := range r.Payments {
		paid = paid.Add(p.Amount)
	}
	return []any{r.TransactionID, clock, string(sale.State), items, r.TotalDue, r.PrimaryMethod(), paid.IntPart(), r.Change}
}

func methodRank(m enum.PaymentMethod) (int, bool) {
	for i, known := range enum.DefaultPaymentMethods() {
		if known == m {
			return i, true
		}
	}
	return 0, false
}
