package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWrongPassword      = errors.New("current password does not match")

	// ErrInvalidImage rejects empty or absent upload payloads.
	ErrInvalidImage = errors.New("invalid image payload")
)
