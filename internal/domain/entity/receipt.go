package entity

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Total     int64  `json:"total"`
}

// Receipt is a value object representing a printable receipt.
// It is NOT persisted; it is composed from a sale record at print time.
type Receipt struct {
	Header        ReceiptHeader `json:"header"`
	TransactionID string        `json:"transaction_id"`
	Date          string        `json:"date"`
	Cashier       string        `json:"cashier,omitempty"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	Items         []ReceiptItem `json:"items"`
	Discount      int64         `json:"discount,omitempty"`
	Total         int64         `json:"total"`
	TaxBase       int64         `json:"tax_base"`
	Tax           int64         `json:"tax"`
	Paid          int64         `json:"paid"`
	Change        int64         `json:"change"`
}
