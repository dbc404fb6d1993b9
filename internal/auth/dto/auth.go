package dto

import authdomain "uniwork-backend/internal/auth/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

type GoogleSignInRequest struct {
	Code string `json:"code" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	User         *authdomain.User `json:"user"`
	// GoogleConnected is false when the Google grant cannot sustain
	// background sync and the client should re-run consent.
	GoogleConnected bool `json:"google_connected"`
}

// CredentialFixReport summarizes an admin pass over stored Google credentials.
type CredentialFixReport struct {
	Checked int `json:"checked"`
	Removed int `json:"removed"`
}
