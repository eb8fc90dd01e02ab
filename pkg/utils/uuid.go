package utils

import "github.com/google/uuid"

// NewRequestID returns a fresh request identifier.
func NewRequestID() string {
	return uuid.NewString()
}

// NewSessionID identifies one operator login across token refreshes.
func NewSessionID() string {
	return uuid.NewString()
}
