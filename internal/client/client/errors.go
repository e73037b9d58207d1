package client

import "errors"

var (
	ErrUnavailable      = errors.New("server unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrInvalidResponse  = errors.New("invalid response")
)
