package models

import "time"

// CardStatus defines the derived validity classification of a card
type CardStatus string

// Card status constants
const (
	CardStatusValid    CardStatus = "valid"    // Expires more than 30 days from now
	CardStatusExpiring CardStatus = "expiring" // Still valid but within the 30-day renewal window
	CardStatusExpired  CardStatus = "expired"  // Expiration date is at or before now
)

// ExpiringWindow is the period before expiration during which a card is
// still valid but flagged for renewal attention.
const ExpiringWindow = 30 * 24 * time.Hour

// IsValidCardStatus reports whether s is one of the known status values.
func IsValidCardStatus(s string) bool {
	switch CardStatus(s) {
	case CardStatusValid, CardStatusExpiring, CardStatusExpired:
		return true
	}
	return false
}

// ComputeCardStatus classifies a card by its expiration date relative to now.
// The expiring window is inclusive at its upper bound: a card expiring
// exactly 30 days from now is "expiring", not "valid".
func ComputeCardStatus(validUntil, now time.Time) CardStatus {
	if !validUntil.After(now) {
		return CardStatusExpired
	}
	if !validUntil.After(now.Add(ExpiringWindow)) {
		return CardStatusExpiring
	}
	return CardStatusValid
}
