package models

import "time"

// Verification is the latest email verification code issued for an address.
type Verification struct {
	Email     string
	Code      string
	ExpiresAt time.Time
	SentAt    time.Time
	Verified  bool
}
