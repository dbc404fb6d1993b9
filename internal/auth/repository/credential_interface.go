package repository

import authdomain "uniwork-backend/internal/auth/domain"

// CredentialRepository defines the interface for OAuth credential storage.
// Read misses return (nil, nil); partial updates that match no row return
// domain.ErrCredentialNotFound so callers can decide how loud to be about it.
type CredentialRepository interface {
	// GetCredential returns the user's credential for a provider, or nil
	GetCredential(userID, provider string) (*authdomain.Credential, error)
	// Upsert creates the credential or replaces its token fields on conflict
	Upsert(cred *authdomain.Credential) error
	// UpdateTokens persists a refreshed access token and its expiry together
	UpdateTokens(userID, provider, accessToken string, expiresAt int64) error
	// Invalidate forces the credential into the expired state
	Invalidate(userID, provider string) error
	// Revoke removes the credential entirely
	Revoke(userID, provider string) error
	// ListConnected returns credentials that still carry an access token
	ListConnected(provider string) ([]*authdomain.Credential, error)
	// ListByProvider returns all credentials for a provider, connected or not
	ListByProvider(provider string) ([]*authdomain.Credential, error)
	// InvalidateAll expires every credential for a provider, returning the count
	InvalidateAll(provider string) (int64, error)
}
