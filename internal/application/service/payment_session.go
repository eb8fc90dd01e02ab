package service

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sangkips/shopfront-pos/internal/domain/entity"
	"github.com/sangkips/shopfront-pos/internal/domain/enum"
	"github.com/sangkips/shopfront-pos/pkg/apperror"
	"github.com/shopspring/decimal"
)

// PaymentResult classifies one tender.
type PaymentResult struct {
	Status       enum.PaymentStatus `json:"status"`
	RemainingDue decimal.Decimal    `json:"remaining_due"`
	Change       decimal.Decimal    `json:"change"`
	Message      string             `json:"message,omitempty"`
}

// Tender is one submitted payment and whether it was accepted.
type Tender struct {
	Method   enum.PaymentMethod `json:"method"`
	Amount   decimal.Decimal    `json:"amount"`
	Accepted bool               `json:"accepted"`
}

// PaymentSession accumulates the tenders of a single checkout. Each checkout
// gets its own session, so totals never leak from one sale into the next.
type PaymentSession struct {
	mu      sync.Mutex
	totals  map[enum.PaymentMethod]decimal.Decimal
	tenders []Tender
}

// NewPaymentSession creates an empty session.
func NewPaymentSession() *PaymentSession {
	return &PaymentSession{totals: make(map[enum.PaymentMethod]decimal.Decimal)}
}

// Submit records a tender of amount against remainingDue.
//
// The running total for method always grows by amount. If money is still
// owed the result is pending. An exact payment, or any cash payment, settles
// the checkout and cash in excess becomes change. A non-cash overpayment is a
// warning: remainingDue is reported unchanged and the tender is marked
// rejected, although it stays in the running total.
func (s *PaymentSession) Submit(method enum.PaymentMethod, remainingDue, amount decimal.Decimal) (*PaymentResult, error) {
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.totals[method] = s.totals[method].Add(amount)
	newRemaining := remainingDue.Sub(amount)

	switch {
	case newRemaining.IsPositive():
		s.tenders = append(s.tenders, Tender{Method: method, Amount: amount, Accepted: true})
		return &PaymentResult{
			Status:       enum.PaymentStatusPending,
			RemainingDue: newRemaining,
			Change:       decimal.Zero,
			Message:      fmt.Sprintf("残り¥%sの支払いをお待ちしております", newRemaining.Truncate(0).String()),
		}, nil

	case newRemaining.IsZero() || method.IsCash():
		s.tenders = append(s.tenders, Tender{Method: method, Amount: amount, Accepted: true})
		return &PaymentResult{
			Status:       enum.PaymentStatusComplete,
			RemainingDue: decimal.Zero,
			Change:       decimal.Max(decimal.Zero, newRemaining.Neg()),
		}, nil

	default:
		s.tenders = append(s.tenders, Tender{Method: method, Amount: amount, Accepted: false})
		return &PaymentResult{
			Status:       enum.PaymentStatusWarning,
			RemainingDue: remainingDue,
			Change:       decimal.Zero,
			Message:      fmt.Sprintf("注意！未決済額を¥%s上回っています", newRemaining.Neg().Truncate(0).String()),
		}, nil
	}
}

// Reset zeroes every running total and forgets all tenders.
func (s *PaymentSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totals = make(map[enum.PaymentMethod]decimal.Decimal)
	s.tenders = nil
}

// Summary returns the running total per method, rejected tenders included.
// Methods with nothing accumulated are omitted.
func (s *PaymentSession) Summary() map[enum.PaymentMethod]decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[enum.PaymentMethod]decimal.Decimal, len(s.totals))
	for m, v := range s.totals {
		if v.IsPositive() {
			out[m] = v
		}
	}
	return out
}

// AcceptedSummary is like Summary but counts accepted tenders only.
func (s *PaymentSession) AcceptedSummary() map[enum.PaymentMethod]decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[enum.PaymentMethod]decimal.Decimal)
	for _, t := range s.tenders {
		if t.Accepted {
			out[t.Method] = out[t.Method].Add(t.Amount)
		}
	}
	return out
}

// Tenders returns every submitted tender in order.
func (s *PaymentSession) Tenders() []Tender {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Tender(nil), s.tenders...)
}

// Payments builds the persisted payment list from the accepted tenders, one
// entry per method, in the order the terminal offers methods.
func (s *PaymentSession) Payments() []entity.Payment {
	summary := s.AcceptedSummary()
	return paymentsFromSummary(summary)
}

func paymentsFromSummary(summary map[enum.PaymentMethod]decimal.Decimal) []entity.Payment {
	rank := make(map[enum.PaymentMethod]int)
	for i, m := range enum.DefaultPaymentMethods() {
		rank[m] = i + 1
	}
	methods := make([]enum.PaymentMethod, 0, len(summary))
	for m, v := range summary {
		if v.IsPositive() {
			methods = append(methods, m)
		}
	}
	sort.Slice(methods, func(i, j int) bool {
		ri, rj := rank[methods[i]], rank[methods[j]]
		if ri == 0 && rj == 0 {
			return methods[i] < methods[j]
		}
		if ri == 0 || rj == 0 {
			return ri != 0
		}
		return ri < rj
	})

	payments := make([]entity.Payment, 0, len(methods))
	for _, m := range methods {
		payments = append(payments, entity.Payment{Method: m, Amount: summary[m]})
	}
	return payments
}

// InitialAmount is the amount to pre-fill for a tender: nothing for cash,
// the remaining balance for every other method.
func InitialAmount(method enum.PaymentMethod, remainingDue decimal.Decimal) *decimal.Decimal {
	if method.IsCash() {
		return nil
	}
	v := remainingDue
	return &v
}
