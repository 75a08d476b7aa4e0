// Package domain defines the identities and sessions of the file sharing service:
// users bound to CA issued certificates, single-use login challenges and the
// bearer tokens handed out after a successful challenge-response login.
package domain

import "time"

const (
	// UserOrganization is the organization placed in every user certificate subject.
	UserOrganization = "Secure File Sharing Users"

	// ChallengeSize is the number of random bytes in a login challenge.
	ChallengeSize = 32

	// DefaultChallengeTTL is how long an issued challenge can be answered.
	DefaultChallengeTTL = 5 * time.Minute
)
