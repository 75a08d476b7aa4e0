package domain

import (
	"time"
)

// Revocation records a revoked certificate serial.
// A serial is revoked at most once and revocation is permanent.
type Revocation struct {
	Serial    string
	Reason    string
	RevokedAt time.Time
}

// DefaultRevocationReason is stored when the caller gives no reason.
const DefaultRevocationReason = "unspecified"
