package usecase

import (
	"context"

	authdomain "uniwork-backend/internal/auth/domain"
	authdto "uniwork-backend/internal/auth/dto"
)

// AuthUsecase defines the interface for authentication operations
type AuthUsecase interface {
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	// GoogleSignIn exchanges an OAuth authorization code, signs the user in
	// and stores the Google credential for background sync
	GoogleSignIn(ctx context.Context, code string) (*authdto.TokenResponse, error)
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)
	Logout(refreshToken string) error
	ValidateToken(tokenString string) (*authdomain.User, error)
	// RevokeGoogle removes the stored Google credential for a user
	RevokeGoogle(userID string) error
	// ResetGoogleTokens expires every stored Google credential
	ResetGoogleTokens() (int64, error)
	// FixGoogleCredentials removes credentials that can never refresh, forcing
	// those users through consent again
	FixGoogleCredentials() (*authdto.CredentialFixReport, error)
}
