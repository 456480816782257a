package clinical

import (
	"context"
	"time"
)

type QueryRepository interface {
	// CreateWithAppointment persists the query and, when companion is
	// non-nil, the companion appointment in the same transaction.
	CreateWithAppointment(ctx context.Context, q *DoctorQuery, companion *Appointment) error

	GetByKey(ctx context.Context, queryKey string) (*DoctorQuery, error)
	ListByPatient(ctx context.Context, patientKey string) ([]*DoctorQuery, error)
	ListByDoctor(ctx context.Context, doctorKey string) ([]*DoctorQuery, error)

	// Respond applies pending → answered under a row lock; a concurrent
	// transition surfaces as ErrStateConflict.
	Respond(ctx context.Context, queryKey, doctorKey, response string, at time.Time) (*DoctorQuery, error)

	// Resolve applies pending/answered → resolved under a row lock.
	Resolve(ctx context.Context, queryKey string, at time.Time) (*DoctorQuery, error)

	// Cancel applies pending → cancelled under a row lock.
	Cancel(ctx context.Context, queryKey string) (*DoctorQuery, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByKey(ctx context.Context, appointmentKey string) (*Appointment, error)
	ListByPatient(ctx context.Context, patientKey string) ([]*Appointment, error)
	ListByDoctor(ctx context.Context, doctorKey string) ([]*Appointment, error)

	// Transition locks the row, verifies the move with CanTransitionTo, and
	// persists the new state.
	Transition(ctx context.Context, appointmentKey string, newState AppointmentState) (*Appointment, error)

	// Decline cancels a requested appointment under a row lock; declining an
	// appointment in any other state fails with ErrStateConflict, so a decline
	// racing an approve cannot cancel a just-scheduled row.
	Decline(ctx context.Context, appointmentKey string) (*Appointment, error)

	// Reschedule is a two-row transaction: inserts the replacement in state
	// scheduled and cancels the old row with a back-reference to the new key.
	// Returns the replacement.
	Reschedule(ctx context.Context, appointmentKey string, cmd *RescheduleCommand) (*Appointment, error)
}
