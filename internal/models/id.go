package models

import "github.com/google/uuid"

// NewTradeID returns a unique identifier for a trade record.
func NewTradeID() string {
	return uuid.NewString()
}
