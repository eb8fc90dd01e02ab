package entity

import (
	"encoding/json"

	"github.com/sangkips/shopfront-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Payment is one settled tender as it is persisted with the sale.
type Payment struct {
	Method enum.PaymentMethod `json:"method"`
	Amount decimal.Decimal    `json:"amount"`
}

// MarshalJSON writes the amount as a bare JSON number so records stay
// readable by the reporting tools that consume them.
func (p Payment) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Method enum.PaymentMethod `json:"method"`
		Amount json.Number        `json:"amount"`
	}{
		Method: p.Method,
		Amount: json.Number(p.Amount.String()),
	})
}
