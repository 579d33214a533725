package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")

	// Sprite related errors
	ErrSpriteNotFound = errors.New("sprite not found")
	ErrUpstream       = errors.New("upstream unavailable")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
