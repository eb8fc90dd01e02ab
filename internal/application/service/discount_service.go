package service

import (
	"github.com/sangkips/shopfront-pos/internal/domain/entity"
	"github.com/sangkips/shopfront-pos/pkg/apperror"
	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

// CalculateTotal applies item discounts to unit prices, sums the lines and
// then applies order discounts to the subtotal. Discounts compose in order:
// each one acts on the result of the previous. Fixed amounts floor at zero,
// percentages round half up. Item discounts pointing outside the cart are
// ignored.
func CalculateTotal(cart []entity.CartItem, itemDiscounts, orderDiscounts []entity.Discount) int64 {
	prices := make([]int64, len(cart))
	for i, item := range cart {
		prices[i] = item.UnitPrice
	}

	for _, d := range itemDiscounts {
		if d.Index == nil || *d.Index < 0 || *d.Index >= len(prices) {
			continue
		}
		idx := *d.Index
		prices[idx] = applyDiscount(prices[idx], d)
	}

	var total int64
	for i, item := range cart {
		total += prices[i] * int64(item.Quantity)
	}

	for _, d := range orderDiscounts {
		total = applyDiscount(total, d)
	}
	return total
}

func applyDiscount(amount int64, d entity.Discount) int64 {
	if d.Kind == entity.DiscountFixed {
		if amount -= d.Amount; amount < 0 {
			return 0
		}
		return amount
	}
	return roundHalfUp(decimal.NewFromInt(amount).Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(d.Fraction))))
}

// roundHalfUp is floor(x + 0.5).
func roundHalfUp(x decimal.Decimal) int64 {
	return x.Add(half).Floor().IntPart()
}

// DiscountBook holds the item and order discount lists of one checkout.
// Entries are validated on the way in; CalculateTotal itself never fails.
type DiscountBook struct {
	item  []entity.Discount
	order []entity.Discount
}

// ApplyItemFixed takes amount yen off the unit price of line index.
func (b *DiscountBook) ApplyItemFixed(index, cartLen int, amount int64) error {
	if err := validateIndex(index, cartLen); err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	b.item = append(b.item, entity.FixedItemDiscount(index, amount))
	return nil
}

// ApplyItemPercent takes percent% off the unit price of line index.
func (b *DiscountBook) ApplyItemPercent(index, cartLen int, percent float64) error {
	if err := validateIndex(index, cartLen); err != nil {
		return err
	}
	if err := validatePercent(percent); err != nil {
		return err
	}
	b.item = append(b.item, entity.PercentItemDiscount(index, percent))
	return nil
}

// ApplyOrderFixed takes amount yen off the subtotal.
func (b *DiscountBook) ApplyOrderFixed(amount int64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	b.order = append(b.order, entity.FixedOrderDiscount(amount))
	return nil
}

// ApplyOrderPercent takes percent% off the subtotal.
func (b *DiscountBook) ApplyOrderPercent(percent float64) error {
	if err := validatePercent(percent); err != nil {
		return err
	}
	b.order = append(b.order, entity.PercentOrderDiscount(percent))
	return nil
}

// UndoItem drops the most recent item discount.
func (b *DiscountBook) UndoItem() bool {
	if len(b.item) == 0 {
		return false
	}
	b.item = b.item[:len(b.item)-1]
	return true
}

// UndoOrder drops the most recent order discount.
func (b *DiscountBook) UndoOrder() bool {
	if len(b.order) == 0 {
		return false
	}
	b.order = b.order[:len(b.order)-1]
	return true
}

// Clear empties both lists.
func (b *DiscountBook) Clear() {
	b.item = nil
	b.order = nil
}

// ItemDiscounts returns a copy of the item discount list.
func (b *DiscountBook) ItemDiscounts() []entity.Discount {
	return append([]entity.Discount(nil), b.item...)
}

// OrderDiscounts returns a copy of the order discount list.
func (b *DiscountBook) OrderDiscounts() []entity.Discount {
	return append([]entity.Discount(nil), b.order...)
}

// Total is CalculateTotal over cart with the book's discounts.
func (b *DiscountBook) Total(cart []entity.CartItem) int64 {
	return CalculateTotal(cart, b.item, b.order)
}

func validateIndex(index, cartLen int) error {
	if index < 0 || index >= cartLen {
		return apperror.NewFieldError("index", "Discount target is not a cart line")
	}
	return nil
}

func validateAmount(amount int64) error {
	if amount <= 0 {
		return apperror.NewFieldError("amount", "Discount amount must be greater than zero")
	}
	return nil
}

func validatePercent(percent float64) error {
	if percent <= 0 || percent > 100 {
		return apperror.NewFieldError("percent", "Discount percent must be between 0 and 100")
	}
	return nil
}
