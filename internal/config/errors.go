package config

import "errors"

// Sentinel errors for internal use.
var (
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrProviderUnavailable is returned when no provider handle can be
	// located. Every connector operation except the authorization probe
	// fails with it.
	ErrProviderUnavailable = errors.New("no provider available")

	// ErrUserRejected is returned when the wallet user declines the
	// account-access prompt (provider error code 4001).
	ErrUserRejected = errors.New("user rejected the request")

	ErrNoEventSupport = errors.New("provider does not support event subscription")
	ErrBridgeClosed   = errors.New("bridge connection closed")
)

// Error codes — shared with the host application via API responses.
const (
	ErrorProviderUnavailable = "ERROR_PROVIDER_UNAVAILABLE"
	ErrorUserRejected        = "ERROR_USER_REJECTED"
	ErrorActivateFailed      = "ERROR_ACTIVATE_FAILED"
	ErrorQueryFailed         = "ERROR_QUERY_FAILED"
	ErrorDatabase            = "ERROR_DATABASE"
	ErrorInvalidConfig       = "ERROR_INVALID_CONFIG"
	ErrorInvalidRequest      = "ERROR_INVALID_REQUEST"
)
