package schedule

import "errors"

var (
	ErrNotFound            = errors.New("schedule not found")
	ErrInvalidCardinality  = errors.New("dose times must match doses per day (1..6)")
	ErrInvalidDoseTime     = errors.New("dose time must be HH:MM")
	ErrInvalidMealRelation = errors.New("invalid meal relation")
	ErrCrossOwnerViolation = errors.New("medicine belongs to another patient")
	ErrNotActive           = errors.New("schedule is not active")
)
