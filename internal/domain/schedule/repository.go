package schedule

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, s *Schedule) error

	// GetByKey returns ErrNotFound when absent.
	GetByKey(ctx context.Context, scheduleKey string) (*Schedule, error)

	ListByPatient(ctx context.Context, patientKey string) ([]*Schedule, error)

	// MarkTaken records a dose in one transaction: stamps last_taken and
	// decrements both the schedule's remaining quantity and the medicine's
	// catalog quantity by one, floored at zero. Both rows are locked for the
	// duration. Fails with ErrNotActive on a paused schedule.
	MarkTaken(ctx context.Context, scheduleKey string, at time.Time) (*Schedule, error)

	// RegisterMissed increments the missed-dose counter under a row lock.
	RegisterMissed(ctx context.Context, scheduleKey string) (*Schedule, error)

	// SetStatus pauses or resumes the schedule.
	SetStatus(ctx context.Context, scheduleKey string, status Status) error

	Delete(ctx context.Context, scheduleKey string) error
}
