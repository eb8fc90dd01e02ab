package enum

import (
	"encoding/json"
	"fmt"
)

// PaymentStatus is the outcome of submitting one tender to a checkout.
type PaymentStatus int

const (
	// PaymentStatusPending means a balance remains; the caller re-prompts.
	PaymentStatusPending PaymentStatus = iota
	// PaymentStatusComplete means the checkout is settled.
	PaymentStatusComplete
	// PaymentStatusWarning means a non-cash tender exceeded the balance and
	// was rejected. The checkout stays open.
	PaymentStatusWarning
)

func (s PaymentStatus) String() string {
	switch s {
	case PaymentStatusPending:
		return "pending"
	case PaymentStatusComplete:
		return "complete"
	case PaymentStatusWarning:
		return "warning"
	}
	return fmt.Sprintf("PaymentStatus(%d)", int(s))
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "pending":
		*s = PaymentStatusPending
	case "complete":
		*s = PaymentStatusComplete
	case "warning":
		*s = PaymentStatusWarning
	default:
		return fmt.Errorf("unknown payment status %q", str)
	}
	return nil
}
