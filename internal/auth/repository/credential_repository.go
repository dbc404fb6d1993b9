package repository

import (
	"errors"
	"time"

	authdomain "uniwork-backend/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// credentialRepository implements CredentialRepository on gorm
type credentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{
		db: db,
	}
}

func (r *credentialRepository) GetCredential(userID, provider string) (*authdomain.Credential, error) {
	var cred authdomain.Credential
	err := r.db.Where("user_id = ? AND provider = ?", userID, provider).First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepository) Upsert(cred *authdomain.Credential) error {
	if cred.ID == "" {
		cred.ID = uuid.New().String()
	}
	cred.CreatedAt = time.Now()
	cred.UpdatedAt = time.Now()

	// A repeat sign-in usually carries no refresh token; the stored one must
	// survive the upsert in that case.
	cols := []string{"provider_account_id", "access_token", "expires_at", "updated_at"}
	if cred.RefreshToken != "" {
		cols = append(cols, "refresh_token")
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(cred).Error
}

// UpdateTokens writes the access token and expiry in one statement so a
// reader never observes a new token with the old expiry.
func (r *credentialRepository) UpdateTokens(userID, provider, accessToken string, expiresAt int64) error {
	result := r.db.Model(&authdomain.Credential{}).
		Where("user_id = ? AND provider = ?", userID, provider).
		Updates(map[string]interface{}{
			"access_token": accessToken,
			"expires_at":   expiresAt,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return authdomain.ErrCredentialNotFound
	}
	return nil
}

// Invalidate backdates the expiry so every consumer sees the credential as
// expired on its next read.
func (r *credentialRepository) Invalidate(userID, provider string) error {
	result := r.db.Model(&authdomain.Credential{}).
		Where("user_id = ? AND provider = ?", userID, provider).
		Updates(map[string]interface{}{
			"expires_at": time.Now().Add(-time.Hour).Unix(),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return authdomain.ErrCredentialNotFound
	}
	return nil
}

func (r *credentialRepository) Revoke(userID, provider string) error {
	return r.db.Where("user_id = ? AND provider = ?", userID, provider).Delete(&authdomain.Credential{}).Error
}

func (r *credentialRepository) ListConnected(provider string) ([]*authdomain.Credential, error) {
	var creds []*authdomain.Credential
	err := r.db.Where("provider = ? AND access_token <> ''", provider).Find(&creds).Error
	if err != nil {
		return nil, err
	}
	return creds, nil
}

func (r *credentialRepository) ListByProvider(provider string) ([]*authdomain.Credential, error) {
	var creds []*authdomain.Credential
	err := r.db.Where("provider = ?", provider).Find(&creds).Error
	if err != nil {
		return nil, err
	}
	return creds, nil
}

func (r *credentialRepository) InvalidateAll(provider string) (int64, error) {
	result := r.db.Model(&authdomain.Credential{}).
		Where("provider = ?", provider).
		Updates(map[string]interface{}{
			"expires_at": time.Now().Add(-time.Hour).Unix(),
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
