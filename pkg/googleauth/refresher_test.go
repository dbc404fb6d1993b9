package googleauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniwork-backend/pkg/faults"
)

func TestRefreshSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "R1", r.PostForm.Get("refresh_token"))
		assert.Equal(t, "cid", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"A2","expires_in":3600}`))
	}))
	defer srv.Close()

	r := NewRefresherForEndpoint("cid", "secret", srv.URL, 5*time.Second)
	res, err := r.Refresh(context.Background(), "R1")
	require.NoError(t, err)
	assert.Equal(t, "A2", res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
}

func TestRefreshInvalidGrantIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Token has been expired or revoked."}`))
	}))
	defer srv.Close()

	r := NewRefresherForEndpoint("cid", "secret", srv.URL, 5*time.Second)
	_, err := r.Refresh(context.Background(), "dead")
	require.Error(t, err)
	assert.True(t, faults.IsTerminalAuth(err))
	assert.False(t, faults.IsRetryable(err))
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestRefreshServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	r := NewRefresherForEndpoint("cid", "secret", srv.URL, 5*time.Second)
	_, err := r.Refresh(context.Background(), "R1")
	require.Error(t, err)
	assert.True(t, faults.IsRetryable(err))
	assert.False(t, faults.IsTerminalAuth(err))
}

func TestRefreshNetworkErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	r := NewRefresherForEndpoint("cid", "secret", srv.URL, time.Second)
	_, err := r.Refresh(context.Background(), "R1")
	require.Error(t, err)
	assert.True(t, faults.IsRetryable(err))
}

func TestRefreshEmptyAccessTokenIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"expires_in":3600}`))
	}))
	defer srv.Close()

	r := NewRefresherForEndpoint("cid", "secret", srv.URL, 5*time.Second)
	_, err := r.Refresh(context.Background(), "R1")
	require.Error(t, err)
	assert.True(t, faults.IsTerminalAuth(err))
}
