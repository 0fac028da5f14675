package shared

import "errors"

var (
	// ErrMissingToken indicates the request carried no bearer token.
	ErrMissingToken = errors.New("bearer token missing")
	// ErrInvalidToken indicates the bearer token failed verification.
	ErrInvalidToken = errors.New("bearer token invalid")
)
