package domain

import "time"

// PlatformToken is a user's stored credential for one platform. The secret
// is encrypted before it reaches persistence; one token per (user, platform),
// overwritten on refresh and never shared across users.
type PlatformToken struct {
	UserID          string
	Platform        string
	EncryptedSecret string
	UpdatedAt       time.Time
}
