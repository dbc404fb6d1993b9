// Package faults defines the failure taxonomy shared by the token lifecycle
// and the sync path. Failures are classified once, at the point of the
// provider call, and never re-interpreted upstream.
package faults

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// ErrNeedsReauth is the policy-level signal that no usable token exists and
// interactive re-authentication is required. It is not a transport error and
// must reach the user-facing layer distinct from transient failures.
var ErrNeedsReauth = errors.New("re-authentication required")

// TransportError wraps a network, timeout or otherwise retryable provider
// failure. A later attempt may succeed with no state change.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TerminalAuthError means the provider explicitly rejected our credentials
// (typically an invalid or expired refresh token). Retrying cannot help; the
// stored credential must be invalidated.
type TerminalAuthError struct {
	Op     string
	Reason string
}

func (e *TerminalAuthError) Error() string {
	return fmt.Sprintf("%s: provider rejected credentials: %s", e.Op, e.Reason)
}

// IsRetryable reports whether err may succeed on a later attempt with no
// state change.
func IsRetryable(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsTerminalAuth reports whether err means the credential can never work again.
func IsTerminalAuth(err error) bool {
	var te *TerminalAuthError
	return errors.As(err, &te)
}

// ClassifyProviderError maps an error from a Google API call into the
// taxonomy. 401/403 mean the access token was rejected, which for a resource
// call surfaces as terminal for this token; everything else (5xx, network,
// context deadline) is retryable transport.
func ClassifyProviderError(op string, err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &TerminalAuthError{Op: op, Reason: gerr.Message}
		}
		if gerr.Code >= 400 && gerr.Code < 500 {
			// Other 4xx are caller bugs, not worth retrying, but they are not
			// an auth problem either. Surface them as-is.
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return &TransportError{Op: op, Err: err}
}
