package model

import "errors"

var (
	// User related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already registered")

	// Credential and token errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrWrongTokenType     = errors.New("wrong token type")
	ErrMalformedClaims    = errors.New("malformed token claims")
	ErrUnauthorized       = errors.New("unauthorized")

	// Task related errors
	ErrTaskNotFound = errors.New("task not found")

	// Generic errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("service unavailable")
)
