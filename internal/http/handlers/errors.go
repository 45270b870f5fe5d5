// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// These symbolic constants are mapped to HTTP responses via the `fail()`
// helper and give clients a stable, machine-readable error taxonomy alongside
// human-readable messages. Codes are lowercase snake_case; generic codes
// mirror common HTTP status semantics, domain-specific codes carry business
// outcomes a status alone cannot.
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeTokenExpired      = "token_expired"
	ErrCodeInvalidProvider   = "invalid_provider_token"
	ErrCodeAlreadyRegistered = "already_registered"
	ErrCodeMethodNotAllowed  = "method_not_allowed"
)
