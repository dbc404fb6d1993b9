package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	authdomain "uniwork-backend/internal/auth/domain"
	"uniwork-backend/internal/auth/repository"
	"uniwork-backend/pkg/faults"
	"uniwork-backend/pkg/googleauth"
	"uniwork-backend/pkg/retry"
)

// TokenSource records where a resolved access token came from.
type TokenSource string

const (
	TokenSourceStored        TokenSource = "stored"
	TokenSourceRefreshed     TokenSource = "refreshed"
	TokenSourceStaleFallback TokenSource = "stale-fallback"
)

// ResolvedToken is an access token ready for a provider call.
type ResolvedToken struct {
	Token  string
	Source TokenSource
}

// TokenResolver produces a usable access token for a user, refreshing through
// the provider when the stored one has expired.
type TokenResolver struct {
	creds     repository.CredentialRepository
	refresher googleauth.Refresher
	retry     retry.Policy
	now       func() time.Time
}

func NewTokenResolver(creds repository.CredentialRepository, refresher googleauth.Refresher) *TokenResolver {
	return &TokenResolver{
		creds:     creds,
		refresher: refresher,
		retry:     retry.DefaultPolicy,
		now:       time.Now,
	}
}

// Resolve returns the stored token when it is still valid, otherwise refreshes
// and persists the result. A refresh rejected by the provider invalidates the
// credential and surfaces faults.ErrNeedsReauth; a refresh that merely could
// not be completed falls back to the stale stored token, leaving the provider
// call to be the judge of it.
func (r *TokenResolver) Resolve(ctx context.Context, userID, provider string) (*ResolvedToken, error) {
	cred, err := r.creds.GetCredential(userID, provider)
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}
	if cred == nil {
		return nil, faults.ErrNeedsReauth
	}

	if !cred.Expired(r.now()) {
		return &ResolvedToken{Token: cred.AccessToken, Source: TokenSourceStored}, nil
	}

	if cred.RefreshToken == "" {
		return nil, faults.ErrNeedsReauth
	}

	var result *googleauth.RefreshResult
	err = r.retry.Do(ctx, func() error {
		var rerr error
		result, rerr = r.refresher.Refresh(ctx, cred.RefreshToken)
		return rerr
	})
	if err != nil {
		if faults.IsTerminalAuth(err) {
			// The grant itself is dead. Mark the credential so nothing else
			// keeps trying it.
			if ierr := r.creds.Invalidate(userID, provider); ierr != nil {
				log.Printf("[TokenResolver] failed to invalidate credential for user %s: %v", userID, ierr)
			}
			return nil, fmt.Errorf("%w: %w", faults.ErrNeedsReauth, err)
		}
		if cred.AccessToken != "" {
			log.Printf("[TokenResolver] refresh unavailable for user %s, using stale token: %v", userID, err)
			return &ResolvedToken{Token: cred.AccessToken, Source: TokenSourceStaleFallback}, nil
		}
		return nil, fmt.Errorf("%w: no token to fall back to", faults.ErrNeedsReauth)
	}

	expiresAt := r.now().Add(time.Duration(result.ExpiresIn) * time.Second).Unix()
	if perr := r.creds.UpdateTokens(userID, provider, result.AccessToken, expiresAt); perr != nil {
		// The fresh token is still good for this pass even if it could not be
		// persisted.
		if errors.Is(perr, authdomain.ErrCredentialNotFound) {
			log.Printf("[TokenResolver] credential for user %s disappeared during refresh", userID)
		} else {
			log.Printf("[TokenResolver] failed to persist refreshed token for user %s: %v", userID, perr)
		}
	}
	return &ResolvedToken{Token: result.AccessToken, Source: TokenSourceRefreshed}, nil
}
