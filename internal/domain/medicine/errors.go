package medicine

import "errors"

var (
	ErrNotFound        = errors.New("medicine not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidExpiry   = errors.New("expiry date is in the past")
	ErrInvalidTiming   = errors.New("invalid intake timing")
	ErrInvalidCategory = errors.New("invalid medicine category")
)
