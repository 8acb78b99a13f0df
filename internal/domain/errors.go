package domain

import "errors"

// Lookup errors
var (
	ErrEventNotFound    = errors.New("event not found")
	ErrAttendeeNotFound = errors.New("attendee not found for this event")
)

// Auth errors
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrNoSession       = errors.New("no valid session")
)

var ErrNoValidAttendees = errors.New("no valid attendees found in CSV")
