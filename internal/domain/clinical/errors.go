package clinical

import "errors"

var (
	ErrQueryNotFound       = errors.New("query not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrNotConnected        = errors.New("no approved patient-doctor connection")
	ErrNotAssigned         = errors.New("doctor is not assigned to this record")
	ErrStateConflict       = errors.New("illegal state transition")
	ErrInvalidIntent       = errors.New("invalid appointment intent")
	ErrInvalidModality     = errors.New("invalid appointment modality")
	ErrInvalidTime         = errors.New("appointment time must be HH:MM")
)
