package domain

import (
	"errors"
	"time"
)

// ErrCredentialNotFound is returned by partial updates that matched no row.
var ErrCredentialNotFound = errors.New("credential not found")

// Credential holds one user's OAuth grant for an external provider. A user
// has at most one credential per provider.
//
// RefreshToken may be empty: Google only issues one on the first consent (or
// when access is re-requested with the consent prompt). ExpiresAt is epoch
// seconds; zero means the expiry is unknown and the token is treated as
// already expired.
type Credential struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	UserID            string    `json:"user_id" gorm:"uniqueIndex:idx_credentials_user_provider;not null"`
	Provider          string    `json:"provider" gorm:"uniqueIndex:idx_credentials_user_provider;not null"`
	ProviderAccountID string    `json:"provider_account_id"`
	AccessToken       string    `json:"-"`
	RefreshToken      string    `json:"-"`
	ExpiresAt         int64     `json:"expires_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Expired reports whether the access token is unusable at the given instant.
func (c *Credential) Expired(now time.Time) bool {
	return c.ExpiresAt == 0 || c.ExpiresAt <= now.Unix()
}
