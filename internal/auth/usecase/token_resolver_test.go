package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "uniwork-backend/internal/auth/domain"
	"uniwork-backend/pkg/faults"
	"uniwork-backend/pkg/googleauth"
	"uniwork-backend/pkg/retry"
)

type fakeCredentialRepo struct {
	cred        *authdomain.Credential
	getErr      error
	updateErr   error
	updated     bool
	updatedTok  string
	updatedExp  int64
	invalidated bool
}

func (f *fakeCredentialRepo) GetCredential(userID, provider string) (*authdomain.Credential, error) {
	return f.cred, f.getErr
}

func (f *fakeCredentialRepo) Upsert(cred *authdomain.Credential) error { return nil }

func (f *fakeCredentialRepo) UpdateTokens(userID, provider, accessToken string, expiresAt int64) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = true
	f.updatedTok = accessToken
	f.updatedExp = expiresAt
	return nil
}

func (f *fakeCredentialRepo) Invalidate(userID, provider string) error {
	f.invalidated = true
	return nil
}

func (f *fakeCredentialRepo) Revoke(userID, provider string) error { return nil }

func (f *fakeCredentialRepo) ListConnected(provider string) ([]*authdomain.Credential, error) {
	return nil, nil
}

func (f *fakeCredentialRepo) ListByProvider(provider string) ([]*authdomain.Credential, error) {
	return nil, nil
}

func (f *fakeCredentialRepo) InvalidateAll(provider string) (int64, error) { return 0, nil }

type fakeRefresher struct {
	result *googleauth.RefreshResult
	err    error
	calls  int
}

func (f *fakeRefresher) Refresh(ctx context.Context, refreshToken string) (*googleauth.RefreshResult, error) {
	f.calls++
	return f.result, f.err
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestResolver(repo *fakeCredentialRepo, ref *fakeRefresher) *TokenResolver {
	r := NewTokenResolver(repo, ref)
	r.now = func() time.Time { return testNow }
	r.retry = retry.Policy{MaxAttempts: 3, Backoff: time.Millisecond, MaxBackoff: time.Millisecond}
	return r
}

func validCredential() *authdomain.Credential {
	return &authdomain.Credential{
		UserID:       "u1",
		Provider:     "google",
		AccessToken:  "A1",
		RefreshToken: "R1",
		ExpiresAt:    testNow.Add(30 * time.Minute).Unix(),
	}
}

func expiredCredential() *authdomain.Credential {
	c := validCredential()
	c.ExpiresAt = testNow.Add(-time.Minute).Unix()
	return c
}

func TestResolveStoredTokenStillValid(t *testing.T) {
	repo := &fakeCredentialRepo{cred: validCredential()}
	ref := &fakeRefresher{}

	got, err := newTestResolver(repo, ref).Resolve(context.Background(), "u1", "google")
	require.NoError(t, err)
	assert.Equal(t, "A1", got.Token)
	assert.Equal(t, TokenSourceStored, got.Source)
	assert.Zero(t, ref.calls)
}

func TestResolveRefreshesExpiredToken(t *testing.T) {
	repo := &fakeCredentialRepo{cred: expiredCredential()}
	ref := &fakeRefresher{result: &googleauth.RefreshResult{AccessToken: "A2", ExpiresIn: 3600}}

	got, err := newTestResolver(repo, ref).Resolve(context.Background(), "u1", "google")
	require.NoError(t, err)
	assert.Equal(t, "A2", got.Token)
	assert.Equal(t, TokenSourceRefreshed, got.Source)

	// Token and expiry persisted together.
	assert.True(t, repo.updated)
	assert.Equal(t, "A2", repo.updatedTok)
	assert.Equal(t, testNow.Add(time.Hour).Unix(), repo.updatedExp)
}

func TestResolveExpiryUnknownTreatedAsExpired(t *testing.T) {
	cred := validCredential()
	cred.ExpiresAt = 0
	repo := &fakeCredentialRepo{cred: cred}
	ref := &fakeRefresher{result: &googleauth.RefreshResult{AccessToken: "A2", ExpiresIn: 3600}}

	got, err := newTestResolver(repo, ref).Resolve(context.Background(), "u1", "google")
	require.NoError(t, err)
	assert.Equal(t, TokenSourceRefreshed, got.Source)
	assert.Equal(t, 1, ref.calls)
}

func TestResolveTerminalRefreshInvalidatesCredential(t *testing.T) {
	repo := &fakeCredentialRepo{cred: expiredCredential()}
	ref := &fakeRefresher{err: &faults.TerminalAuthError{Op: "refresh", Reason: "invalid_grant"}}

	_, err := newTestResolver(repo, ref).Resolve(context.Background(), "u1", "google")
	assert.ErrorIs(t, err, faults.ErrNeedsReauth)
	assert.True(t, repo.invalidated)
	assert.Equal(t, 1, ref.calls, "terminal failures must not be retried")
}

func TestResolveTransportFailureFallsBackToStaleToken(t *testing.T) {
	repo := &fakeCredentialRepo{cred: expiredCredential()}
	ref := &fakeRefresher{err: &faults.TransportError{Op: "refresh", Err: errors.New("connection reset")}}

	got, err := newTestResolver(repo, ref).Resolve(context.Background(), "u1", "google")
	require.NoError(t, err)
	assert.Equal(t, "A1", got.Token)
	assert.Equal(t, TokenSourceStaleFallback, got.Source)
	assert.Equal(t, 3, ref.calls, "transport failures are retried before falling back")
	assert.False(t, repo.invalidated)
}

func TestResolveExpiredWithoutRefreshToken(t *testing.T) {
	cred := expiredCredential()
	cred.RefreshToken = ""
	repo := &fakeCredentialRepo{cred: cred}
	ref := &fakeRefresher{}

	_, err := newTestResolver(repo, ref).Resolve(context.Background(), "u1", "google")
	assert.ErrorIs(t, err, faults.ErrNeedsReauth)
	assert.Zero(t, ref.calls)
}

func TestResolveMissingCredential(t *testing.T) {
	repo := &fakeCredentialRepo{}
	ref := &fakeRefresher{}

	_, err := newTestResolver(repo, ref).Resolve(context.Background(), "u1", "google")
	assert.ErrorIs(t, err, faults.ErrNeedsReauth)
}

func TestResolvePersistenceFailureStillReturnsFreshToken(t *testing.T) {
	repo := &fakeCredentialRepo{cred: expiredCredential(), updateErr: errors.New("db down")}
	ref := &fakeRefresher{result: &googleauth.RefreshResult{AccessToken: "A2", ExpiresIn: 3600}}

	got, err := newTestResolver(repo, ref).Resolve(context.Background(), "u1", "google")
	require.NoError(t, err)
	assert.Equal(t, "A2", got.Token)
	assert.Equal(t, TokenSourceRefreshed, got.Source)
}
