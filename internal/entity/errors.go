package entity

import "errors"

var (
	// Event errors
	ErrEventNotFound   = errors.New("event not found")
	ErrEventFull       = errors.New("event is full")
	ErrInvalidCapacity = errors.New("invalid event capacity")
	ErrInvalidCategory = errors.New("invalid event category")
	ErrDuplicateEvent  = errors.New("duplicate event id")

	// Query errors
	ErrInvalidSort = errors.New("invalid sort mode")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Reminder errors
	ErrInvalidEmail = errors.New("invalid email format")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)
