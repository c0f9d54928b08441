package payments

import "errors"

var (
	// ErrAuthRequired means checkout was attempted without a signed-in user.
	ErrAuthRequired = errors.New("authentication required")

	// ErrInvalidAmount means the resolved amount is zero or negative.
	ErrInvalidAmount = errors.New("payment amount must be positive")

	// ErrGatewayUnavailable means the gateway key is not configured.
	ErrGatewayUnavailable = errors.New("payment gateway is not configured")

	// ErrInvalidSignature means the gateway callback failed verification.
	// The payment stays pending; nothing downstream runs.
	ErrInvalidSignature = errors.New("payment signature verification failed")
)
