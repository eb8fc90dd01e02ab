package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sangkips/shopfront-pos/internal/domain/entity"
	"github.com/sangkips/shopfront-pos/internal/domain/repository"
	"github.com/sangkips/shopfront-pos/pkg/printer"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrinterOptions configures receipt output.
type PrinterOptions struct {
	Type       string
	CharWidth  int
	KickDrawer bool
	Header     entity.ReceiptHeader
	Layout     *printer.Layout
}

// PrinterService composes receipts from sale records and prints them.
type PrinterService struct {
	printer  printer.Printer
	saleRepo repository.SaleRepository
	opts     PrinterOptions
	logger   *slog.Logger
}

// NewPrinterService creates a new printer service. A nil layout falls back to
// printer.DefaultLayout.
func NewPrinterService(p printer.Printer, saleRepo repository.SaleRepository, opts PrinterOptions, logger *slog.Logger) *PrinterService {
	if opts.CharWidth <= 0 {
		opts.CharWidth = 48
	}
	if opts.Layout == nil {
		opts.Layout = printer.DefaultLayout(opts.CharWidth)
	}
	return &PrinterService{printer: p, saleRepo: saleRepo, opts: opts, logger: logger}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.opts.Type != "none" && s.opts.Type != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.opts.Type,
	}
}

// TestPrint sends a sample receipt without opening the drawer.
func (s *PrinterService) TestPrint() (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header:        s.opts.Header,
		TransactionID: "TEST",
		Date:          "----/--/-- --:--:--",
		Cashier:       "System",
		PaymentMethod: "現金",
		Items: []entity.ReceiptItem{
			{Name: "テスト商品A", Quantity: 1, UnitPrice: 110, Total: 110},
			{Name: "テスト商品B", Quantity: 2, UnitPrice: 55, Total: 110},
		},
		Total:  220,
		Paid:   1000,
		Change: 780,
	}
	receipt.TaxBase, receipt.Tax = inclusiveTax(receipt.Total)

	data := FormatReceipt(receipt, s.opts.Layout, s.opts.CharWidth, false)
	if err := s.printer.Print(data); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

// BuildReceipt composes the receipt for a recorded sale.
func (s *PrinterService) BuildReceipt(record *entity.SaleRecord, cashier string) *entity.Receipt {
	date := record.Timestamp
	if t, err := record.Time(); err == nil {
		date = t.Format(s.opts.Layout.Body.DateTime.GoLayout())
	}

	receipt := &entity.Receipt{
		Header:        s.opts.Header,
		TransactionID: record.TransactionID,
		Date:          date,
		Cashier:       cashier,
		Total:         record.TotalDue,
		Change:        record.Change,
	}

	var gross int64
	for _, item := range record.Cart {
		line := item.LineTotal()
		gross += line
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     line,
		})
	}
	if gross > record.TotalDue {
		receipt.Discount = gross - record.TotalDue
	}

	labels := make([]string, 0, len(record.Payments))
	for _, p := range record.Payments {
		receipt.Paid += p.Amount.IntPart()
		labels = append(labels, p.Method.Label())
	}
	receipt.PaymentMethod = strings.Join(labels, "/")
	receipt.TaxBase, receipt.Tax = inclusiveTax(receipt.Total)
	return receipt
}

// PrintSale prints the receipt for a just-recorded sale and opens the cash
// drawer when configured. A print failure is returned with the receipt; the
// sale itself stands.
func (s *PrinterService) PrintSale(record *entity.SaleRecord, cashier string) (*entity.Receipt, error) {
	receipt := s.BuildReceipt(record, cashier)
	data := FormatReceipt(receipt, s.opts.Layout, s.opts.CharWidth, s.opts.KickDrawer)
	if err := s.printer.Print(data); err != nil {
		s.logger.Error("printer error", "transaction_id", record.TransactionID, "error", err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

// ReprintSale prints a copy of a stored sale, found by file name. The drawer
// stays shut.
func (s *PrinterService) ReprintSale(ctx context.Context, name, cashier string) (*entity.Receipt, error) {
	stored, err := s.saleRepo.Find(ctx, name)
	if err != nil {
		return nil, err
	}
	receipt := s.BuildReceipt(&stored.Record, cashier)
	data := FormatReceipt(receipt, s.opts.Layout, s.opts.CharWidth, false)
	if err := s.printer.Print(data); err != nil {
		s.logger.Error("printer error", "sale", name, "error", err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

// inclusiveTax splits a 10% tax-inclusive total into base and tax.
func inclusiveTax(total int64) (base, tax int64) {
	base = total * 10 / 11
	return base, total - base
}

var yen = message.NewPrinter(language.Japanese)

func formatYen(v int64) string {
	return yen.Sprintf("%d", v)
}

// FormatReceipt converts a Receipt into ESC/POS bytes following layout.
func FormatReceipt(r *entity.Receipt, layout *printer.Layout, charWidth int, kickDrawer bool) []byte {
	doc := printer.NewDocument(charWidth)
	width := doc.Width()

	// Header
	if len(layout.Header) == 0 {
		doc.SetAlign(printer.AlignCenter).
			SetBold(true).
			SetFontSize(printer.FontDouble).
			Text(r.Header.StoreName).
			SetFontSize(printer.FontNormal).
			SetBold(false)
		if r.Header.Address != "" {
			doc.Text(r.Header.Address)
		}
		if r.Header.Phone != "" {
			doc.Text(r.Header.Phone)
		}
	}
	for _, line := range layout.Header {
		if line.Text == "" {
			continue
		}
		doc.SetAlign(printer.AlignCode(line.Align)).SetBold(line.Weight == "bold")
		if line.Size == "large" {
			doc.SetFontSize(printer.FontDouble)
		}
		doc.Text(line.Text).SetFontSize(printer.FontNormal).SetBold(false)
	}
	doc.SetAlign(printer.AlignLeft).LineFeed()

	// Sale info
	doc.Text(strings.TrimSpace(layout.Body.DateTime.Label + " " + r.Date))
	if r.TransactionID != "" {
		doc.KeyValue("No.", r.TransactionID)
	}
	if r.Cashier != "" {
		doc.KeyValue("担当", r.Cashier)
	}

	sep := layout.Body.Separator
	doc.Text(sep)

	// Items
	var header strings.Builder
	for _, col := range layout.Body.Columns {
		if col.Align == "right" {
			header.WriteString(printer.PadLeft(col.Name, col.Width))
		} else {
			header.WriteString(printer.Fit(col.Name, col.Width))
		}
	}
	doc.SetBold(true).Text(header.String()).SetBold(false).Text(sep)

	for _, item := range r.Items {
		var line strings.Builder
		for _, col := range layout.Body.Columns {
			switch col.Name {
			case printer.ColumnName:
				line.WriteString(printer.Fit(item.Name, col.Width))
			case printer.ColumnQuantity, "数":
				line.WriteString(printer.PadLeft(fmt.Sprint(item.Quantity), col.Width))
			case printer.ColumnUnitPrice:
				line.WriteString(printer.PadLeft(formatYen(item.UnitPrice), col.Width))
			case printer.ColumnAmount:
				line.WriteString(printer.PadLeft(formatYen(item.Total), col.Width))
			default:
				line.WriteString(strings.Repeat(" ", col.Width))
			}
		}
		doc.Text(line.String())
	}
	doc.Text(sep)

	// Totals
	if r.Discount > 0 {
		doc.KeyValue("値引き", "-"+formatYen(r.Discount))
	}
	doc.SetBold(true).KeyValue("合計", "¥"+formatYen(r.Total)).SetBold(false)
	doc.KeyValue("10%対象", formatYen(r.Total))
	prefix, suffix := "(内消費税等 10%", formatYen(r.Tax)+")"
	gap := width - printer.TextWidth(prefix) - printer.TextWidth(suffix)
	if gap < 0 {
		gap = 0
	}
	doc.Text(prefix + strings.Repeat(" ", gap) + suffix)
	doc.Text(sep)

	// Footer
	values := map[string]string{
		"total":           formatYen(r.Total),
		"pay_amount":      formatYen(r.Paid),
		"change":          formatYen(r.Change),
		"pay_method_name": r.PaymentMethod,
	}
	for _, line := range layout.Footer {
		doc.SetAlign(printer.AlignCode(line.Align)).Text(printer.Expand(line.Text, values))
	}
	doc.SetAlign(printer.AlignLeft)

	doc.FeedLines(3).PartialCut()
	if kickDrawer {
		doc.KickDrawer()
	}
	return doc.Bytes()
}
