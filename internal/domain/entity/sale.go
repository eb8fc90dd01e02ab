package entity

import "time"

// TimestampLayout is the ISO-8601 form stored in records (local time, no zone).
const TimestampLayout = "2006-01-02T15:04:05"

// SaleRecord is a completed checkout as written to disk. It is written once
// and never modified; its sync state is the directory it sits in.
type SaleRecord struct {
	TransactionID string     `json:"transaction_id"`
	Timestamp     string     `json:"timestamp"`
	Cart          []CartItem `json:"cart"`
	TotalDue      int64      `json:"total_due"`
	Payments      []Payment  `json:"payments"`
	Change        int64      `json:"change"`
}

// Time parses the record timestamp. Records written with a zone offset are
// accepted as well.
func (s *SaleRecord) Time() (time.Time, error) {
	if t, err := time.ParseInLocation(TimestampLayout, s.Timestamp, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s.Timestamp)
}

// PrimaryMethod is the first tender's method, or "" for an unpaid record.
func (s *SaleRecord) PrimaryMethod() string {
	if len(s.Payments) == 0 {
		return ""
	}
	return s.Payments[0].Method.Label()
}
