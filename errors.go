package main

import "errors"

var (
	ErrEventNotFound          = errors.New("event not found")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrInvalidInput           = errors.New("invalid input")
)
