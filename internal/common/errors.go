// Package common defines sentinel errors shared by the journal client and the
// mirror server. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Entry store errors.
	ErrNotFound       = errors.New("not found")
	ErrStorageFailure = errors.New("storage failure")
	ErrLoadFailure    = errors.New("load failure")
	ErrSyncFailure    = errors.New("sync failure")

	// Validation errors.
	ErrInvalidEmotion = errors.New("invalid emotion")
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidEntry   = errors.New("invalid entry")

	// Remote errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("remote unavailable")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
