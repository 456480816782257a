package profile

import "errors"

var (
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrInvalidAvailability = errors.New("availability must use weekday short names (Mon..Sun)")
	ErrNotFound            = errors.New("profile not found")
)
