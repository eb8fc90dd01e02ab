package request

import "github.com/shopspring/decimal"

// AddItemRequest adds one unit of a scanned or typed goods code.
type AddItemRequest struct {
	Code string `json:"code" binding:"required"`
}

// AddCustomItemRequest adds an item that is not in the goods master.
type AddCustomItemRequest struct {
	Name     string `json:"name" binding:"required"`
	Price    int64  `json:"price" binding:"min=0"`
	Quantity int    `json:"quantity" binding:"omitempty,min=1"`
}

// DiscountRequest applies a discount. With Index set it targets that cart
// line, otherwise the whole order.
type DiscountRequest struct {
	Kind  string  `json:"kind" binding:"required,oneof=fixed percent"`
	Value float64 `json:"value" binding:"required,gt=0"`
	Index *int    `json:"index" binding:"omitempty,min=0"`
}

// TenderRequest submits one payment. Amount accepts a JSON number or a
// numeric string.
type TenderRequest struct {
	Method string          `json:"method" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// CompleteRequest finishes a settled checkout.
type CompleteRequest struct {
	Cashier string `json:"cashier"`
}
