package domain

import "errors"

var (
	// ErrNetwork covers transport failures and unexpected remote statuses.
	ErrNetwork = errors.New("network error")
	// ErrParse is returned when a remote payload cannot be decoded.
	ErrParse = errors.New("parse error")
	// ErrAuthFailure is the only failure sign-in reports, whatever the cause.
	ErrAuthFailure = errors.New("authentication failed")
	// ErrNotFound is returned when a mutation or lookup target is absent.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState is returned for cart mutations before the cart is loaded.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidInput marks malformed caller input.
	ErrInvalidInput = errors.New("invalid input")
)

// AuthFailedMessage is shown for every sign-in failure, whatever the cause.
const AuthFailedMessage = "Authentication failed"
