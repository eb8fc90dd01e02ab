package service

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/sangkips/shopfront-pos/internal/domain/entity"
	"github.com/sangkips/shopfront-pos/internal/domain/enum"
	"github.com/sangkips/shopfront-pos/internal/domain/repository"
	"github.com/sangkips/shopfront-pos/pkg/apperror"
	"github.com/shopspring/decimal"
)

// maxAdHocName is how many characters of an unknown code become the item name.
const maxAdHocName = 20

// SaleSyncer pushes one recorded sale to the vendor in the background.
type SaleSyncer interface {
	SyncSale(ctx context.Context, path string)
}

type lineKind int

const (
	lineItem lineKind = iota
	lineItemDiscount
	lineOrderDiscount
)

// CartView is a snapshot of the active checkout.
type CartView struct {
	Items          []entity.CartItem `json:"items"`
	ItemDiscounts  []entity.Discount `json:"item_discounts"`
	OrderDiscounts []entity.Discount `json:"order_discounts"`
	Subtotal       int64             `json:"subtotal"`
	Total          int64             `json:"total"`
	Settling       bool              `json:"settling"`
	RemainingDue   *decimal.Decimal  `json:"remaining_due,omitempty"`
	Tenders        []Tender          `json:"tenders,omitempty"`
}

// Settlement is the state of a checkout awaiting payment.
type Settlement struct {
	TotalDue     int64           `json:"total_due"`
	RemainingDue decimal.Decimal `json:"remaining_due"`
	Settled      bool            `json:"settled"`
}

// CompletedSale is returned once a sale is recorded.
type CompletedSale struct {
	Path       string             `json:"path"`
	Record     *entity.SaleRecord `json:"record"`
	Receipt    *entity.Receipt    `json:"receipt,omitempty"`
	PrintError string             `json:"print_error,omitempty"`
}

// CheckoutService owns the single active checkout of the terminal: cart,
// discount lists and the payment session of the current settlement.
type CheckoutService struct {
	goods    repository.GoodsRepository
	sales    repository.SaleRepository
	printer  *PrinterService
	syncer   SaleSyncer
	logger   *slog.Logger
	now      func() time.Time
	runAsync func(func())

	mu        sync.Mutex
	cart      []entity.CartItem
	lines     []lineKind
	discounts DiscountBook
	session   *PaymentSession
	totalDue  int64
	remaining decimal.Decimal
	settled   bool
}

// NewCheckoutService creates the checkout controller. printer and syncer may
// be nil.
func NewCheckoutService(
	goods repository.GoodsRepository,
	sales repository.SaleRepository,
	printer *PrinterService,
	syncer SaleSyncer,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		goods:    goods,
		sales:    sales,
		printer:  printer,
		syncer:   syncer,
		logger:   logger,
		now:      time.Now,
		runAsync: func(f func()) { go f() },
	}
}

// LookupGoods resolves a scanned or typed code.
func (s *CheckoutService) LookupGoods(code string) (*entity.Goods, error) {
	g, ok := s.goods.Lookup(code)
	if !ok {
		return nil, apperror.NewNotFoundError("Goods")
	}
	return g, nil
}

// AddItem adds one unit of the goods registered under code.
func (s *CheckoutService) AddItem(code string) (*entity.CartItem, error) {
	g, err := s.LookupGoods(code)
	if err != nil {
		return nil, err
	}
	goodsID := g.GoodsID
	if goodsID == "" {
		goodsID = strings.ToLower(strings.TrimSpace(code))
	}
	return s.addLine(entity.CartItem{GoodsID: goodsID, Name: g.Name, UnitPrice: g.UnitPrice(), Quantity: 1})
}

// AddCustomItem adds an item that is not in the goods master. The name is
// cut to 20 characters and the line has no goods id, so it is never sent as
// a stock movement.
func (s *CheckoutService) AddCustomItem(name string, unitPrice int64, quantity int) (*entity.CartItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "Name is required")
	}
	if r := []rune(name); len(r) > maxAdHocName {
		name = string(r[:maxAdHocName])
	}
	if unitPrice < 0 {
		return nil, apperror.NewFieldError("price", "Price cannot be negative")
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, apperror.NewFieldError("quantity", "Quantity must be at least 1")
	}
	return s.addLine(entity.CartItem{Name: name, UnitPrice: unitPrice, Quantity: quantity})
}

func (s *CheckoutService) addLine(item entity.CartItem) (*entity.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return nil, err
	}
	s.cart = append(s.cart, item)
	s.lines = append(s.lines, lineItem)
	return &item, nil
}

// ApplyItemDiscount adds a fixed (yen) or percent discount to cart line index.
func (s *CheckoutService) ApplyItemDiscount(index int, kind entity.DiscountKind, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	var err error
	if kind == entity.DiscountFixed {
		var amount int64
		if amount, err = wholeYen(value); err == nil {
			err = s.discounts.ApplyItemFixed(index, len(s.cart), amount)
		}
	} else {
		err = s.discounts.ApplyItemPercent(index, len(s.cart), value)
	}
	if err != nil {
		return err
	}
	s.lines = append(s.lines, lineItemDiscount)
	return nil
}

// ApplyOrderDiscount adds a fixed (yen) or percent discount to the subtotal.
func (s *CheckoutService) ApplyOrderDiscount(kind entity.DiscountKind, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	var err error
	if kind == entity.DiscountFixed {
		var amount int64
		if amount, err = wholeYen(value); err == nil {
			err = s.discounts.ApplyOrderFixed(amount)
		}
	} else {
		err = s.discounts.ApplyOrderPercent(value)
	}
	if err != nil {
		return err
	}
	s.lines = append(s.lines, lineOrderDiscount)
	return nil
}

// wholeYen converts a fixed discount amount, which must be a whole number of
// yen that fits an int64.
func wholeYen(value float64) (int64, error) {
	if math.IsNaN(value) || value != math.Trunc(value) || math.Abs(value) >= math.MaxInt64 {
		return 0, apperror.NewFieldError("value", "Fixed discount must be a whole yen amount")
	}
	return int64(value), nil
}

// RemoveLast undoes the most recent line: an order discount, an item
// discount or an item. Discounts on an item always come after it in the
// journal, so an item is only removed once its discounts are gone.
func (s *CheckoutService) RemoveLast() (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return nil, err
	}
	if len(s.lines) == 0 {
		return s.view(), nil
	}

	last := s.lines[len(s.lines)-1]
	s.lines = s.lines[:len(s.lines)-1]
	switch last {
	case lineOrderDiscount:
		s.discounts.UndoOrder()
	case lineItemDiscount:
		s.discounts.UndoItem()
	case lineItem:
		s.cart = s.cart[:len(s.cart)-1]
	}
	return s.view(), nil
}

// Clear empties the cart and discounts and abandons any settlement.
func (s *CheckoutService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Cart returns a snapshot of the active checkout.
func (s *CheckoutService) Cart() *CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// BeginSettlement freezes the cart, computes the amount due and opens a
// fresh payment session.
func (s *CheckoutService) BeginSettlement() (*Settlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cart) == 0 {
		return nil, apperror.ErrEmptyCart
	}
	if s.session == nil {
		s.totalDue = s.discounts.Total(s.cart)
		s.remaining = decimal.NewFromInt(s.totalDue)
		s.session = NewPaymentSession()
		s.settled = s.totalDue == 0
	}
	return s.settlement(), nil
}

// CancelSettlement drops the payment session and unfreezes the cart.
func (s *CheckoutService) CancelSettlement() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	s.settled = false
	s.totalDue = 0
	s.remaining = decimal.Zero
}

// InitialAmount is the pre-filled tender amount for method.
func (s *CheckoutService) InitialAmount(method enum.PaymentMethod) (*decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, apperror.ErrNoActiveCheckout
	}
	return InitialAmount(method, s.remaining), nil
}

// SubmitTender applies one payment to the open settlement.
func (s *CheckoutService) SubmitTender(method enum.PaymentMethod, amount decimal.Decimal) (*PaymentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, apperror.ErrNoActiveCheckout
	}
	if s.settled {
		return nil, apperror.NewBadRequestError("Checkout is already settled")
	}

	result, err := s.session.Submit(method, s.remaining, amount)
	if err != nil {
		return nil, err
	}
	switch result.Status {
	case enum.PaymentStatusPending:
		s.remaining = result.RemainingDue
	case enum.PaymentStatusComplete:
		s.remaining = decimal.Zero
		s.settled = true
	}
	return result, nil
}

// Complete records the settled sale, prints its receipt and hands it to the
// background sync. Only a failed record write fails the call; the checkout
// then stays settled so it can be retried. Once the record is written the
// checkout is reset before anything else can fail.
func (s *CheckoutService) Complete(ctx context.Context, cashier string) (*CompletedSale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, apperror.ErrNoActiveCheckout
	}
	if !s.settled {
		return nil, apperror.ErrCheckoutNotSettled
	}

	payments := s.session.Payments()
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	totalDue := s.totalDue
	change := paid.Sub(decimal.NewFromInt(totalDue)).IntPart()
	if change < 0 {
		change = 0
	}

	cart := append([]entity.CartItem(nil), s.cart...)
	stored, err := s.sales.RecordSale(ctx, &repository.RecordSaleInput{
		Cart:      cart,
		TotalDue:  totalDue,
		Payments:  payments,
		Change:    change,
		Timestamp: s.now(),
	})
	if err != nil {
		s.logger.Error("failed to record sale", "error", err)
		return nil, err
	}
	s.resetLocked()

	record := stored.Record
	done := &CompletedSale{Path: stored.Path, Record: &record}

	if s.printer != nil {
		receipt, perr := s.printer.PrintSale(&record, cashier)
		done.Receipt = receipt
		if perr != nil {
			done.PrintError = perr.Error()
		}
	}

	if s.syncer != nil {
		syncer, path := s.syncer, stored.Path
		s.runAsync(func() { syncer.SyncSale(context.Background(), path) })
	}

	s.logger.Info("sale completed", "path", stored.Path, "total_due", totalDue, "change", change, "cashier", cashier)
	return done, nil
}

func (s *CheckoutService) editable() error {
	if s.session != nil {
		return apperror.NewBadRequestError("Cart is locked while payment is in progress")
	}
	return nil
}

func (s *CheckoutService) resetLocked() {
	s.cart = nil
	s.lines = nil
	s.discounts.Clear()
	s.session = nil
	s.settled = false
	s.totalDue = 0
	s.remaining = decimal.Zero
}

func (s *CheckoutService) settlement() *Settlement {
	return &Settlement{TotalDue: s.totalDue, RemainingDue: s.remaining, Settled: s.settled}
}

func (s *CheckoutService) view() *CartView {
	v := &CartView{
		Items:          append([]entity.CartItem{}, s.cart...),
		ItemDiscounts:  s.discounts.ItemDiscounts(),
		OrderDiscounts: s.discounts.OrderDiscounts(),
		Total:          s.discounts.Total(s.cart),
		Settling:       s.session != nil,
	}
	for _, item := range s.cart {
		v.Subtotal += item.LineTotal()
	}
	if s.session != nil {
		remaining := s.remaining
		v.RemainingDue = &remaining
		v.Tenders = s.session.Tenders()
	}
	return v
}
