package port

import "errors"

// Sentinel errors used across ports.
var (
	// ErrInvalidArgument marks a caller-supplied precondition violation.
	// Reported synchronously, never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDimensionMismatch marks an embedding whose length does not match the
	// provider's fixed dimension. Data-integrity fault: never stored, never
	// used for search.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrRetrievalFailed wraps any collaborator failure during a search.
	ErrRetrievalFailed = errors.New("retrieval failed")

	// Provider failure classes, for operator-facing diagnostics. Retry policy
	// belongs to callers, not to the provider adapters.
	ErrProviderUnauthorized = errors.New("provider rejected credentials")
	ErrProviderNotFound     = errors.New("provider model or endpoint not found")
	ErrProviderRateLimited  = errors.New("provider rate limited")
	ErrProviderUnavailable  = errors.New("provider unavailable")
)
