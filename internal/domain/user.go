package domain

import "time"

// Tier is the capability class of a user. It controls the monthly publish
// quota and access to restricted platform adapters.
type Tier string

const (
	TierFree  Tier = "free"
	TierAdmin Tier = "admin"
)

// FreeTierMonthlyCap is the number of publishes a free user gets per
// calendar month.
const FreeTierMonthlyCap = 20

// User represents an authenticated user of the system. Users are created at
// registration and never deleted.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Tier         Tier
	AccessToken  string
	QuotaCount   int
	QuotaResetAt time.Time
	CreatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin capability.
func (u *User) IsAdmin() bool {
	return u.Tier == TierAdmin
}
