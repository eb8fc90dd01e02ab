package entity

import "time"

// IdempotencyKey stores the response of a processed request so a repeated
// submit with the same key replays it instead of acting twice.
type IdempotencyKey struct {
	Key          string
	Operator     string
	Endpoint     string // e.g. "POST /api/v1/checkout/complete"
	ResponseCode int
	ResponseBody string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// IsExpired checks if the idempotency key has expired at now.
func (i *IdempotencyKey) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
