package entity

import (
	"encoding/json"
	"fmt"
)

// DiscountKind tells fixed-amount and percentage discounts apart.
type DiscountKind int

const (
	DiscountFixed DiscountKind = iota
	DiscountPercent
)

func (k DiscountKind) String() string {
	if k == DiscountPercent {
		return "percent"
	}
	return "fixed"
}

func (k DiscountKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *DiscountKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "fixed":
		*k = DiscountFixed
	case "percent":
		*k = DiscountPercent
	default:
		return fmt.Errorf("unknown discount kind %q", s)
	}
	return nil
}

// Discount is either Fixed{index?, amount} or Percent{index?, fraction}.
// Index is set for item-level discounts and nil for order-level ones.
// Fraction is normalised to 0..1.
type Discount struct {
	Kind     DiscountKind `json:"kind"`
	Index    *int         `json:"index,omitempty"`
	Amount   int64        `json:"amount,omitempty"`
	Fraction float64      `json:"fraction,omitempty"`
}

// FixedItemDiscount takes amount yen off the unit price of cart line index.
func FixedItemDiscount(index int, amount int64) Discount {
	return Discount{Kind: DiscountFixed, Index: &index, Amount: amount}
}

// PercentItemDiscount takes percent% off the unit price of cart line index.
func PercentItemDiscount(index int, percent float64) Discount {
	return Discount{Kind: DiscountPercent, Index: &index, Fraction: percent / 100}
}

// FixedOrderDiscount takes amount yen off the subtotal.
func FixedOrderDiscount(amount int64) Discount {
	return Discount{Kind: DiscountFixed, Amount: amount}
}

// PercentOrderDiscount takes percent% off the subtotal.
func PercentOrderDiscount(percent float64) Discount {
	return Discount{Kind: DiscountPercent, Fraction: percent / 100}
}

// IsItemLevel reports whether the discount targets a single cart line.
func (d Discount) IsItemLevel() bool {
	return d.Index != nil
}
