package entity

import "github.com/sangkips/shopfront-pos/internal/domain/enum"

// CashFlowRecord is a till deposit or withdrawal. Written once, never moved.
type CashFlowRecord struct {
	Type      enum.CashFlowType `json:"type"`
	Timestamp string            `json:"timestamp"`
	Amount    int64             `json:"amount"`
}
