// Package common defines shared constants and sentinel errors used across
// the PlasticosLC console packages. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Token errors (malformed or unreadable bearer token).
	ErrInvalidToken = errors.New("invalid token")

	// Validation errors for data received from the API or read back from storage.
	ErrorInvalidPayload = errors.New("invalid payload")
)
