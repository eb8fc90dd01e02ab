package enum

import "strings"

// PaymentMethod is the label the operator picks for a tender. No card
// authorisation happens behind it; only cash can produce change.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodQR   PaymentMethod = "qr"
)

var methodLabels = map[PaymentMethod]string{
	PaymentMethodCash: "現金",
	PaymentMethodCard: "クレカ",
	PaymentMethodQR:   "QR",
}

// ParsePaymentMethod accepts either the code or the shop-floor label.
// Unknown labels are kept verbatim so shops can add their own methods.
func ParsePaymentMethod(s string) PaymentMethod {
	s = strings.TrimSpace(s)
	for m, label := range methodLabels {
		if s == label || strings.EqualFold(s, string(m)) {
			return m
		}
	}
	return PaymentMethod(s)
}

// IsCash reports whether the method can give change.
func (m PaymentMethod) IsCash() bool {
	return m == PaymentMethodCash
}

// Label is the text printed on receipts and sent to the vendor.
func (m PaymentMethod) Label() string {
	if l, ok := methodLabels[m]; ok {
		return l
	}
	return string(m)
}

// DefaultPaymentMethods is the order the terminal offers methods in.
func DefaultPaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentMethodCash, PaymentMethodCard, PaymentMethodQR}
}
