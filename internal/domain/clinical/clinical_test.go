package clinical

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueryLifecycle(t *testing.T) {
	q := &DoctorQuery{State: QueryPending}

	err := q.Respond("take it after meals", time.Now())
	assert.NoError(t, err)
	assert.Equal(t, QueryAnswered, q.State)
	assert.NotNil(t, q.DoctorResponse)
	assert.NotNil(t, q.RespondedAt)

	err = q.Resolve(time.Now())
	assert.NoError(t, err)
	assert.Equal(t, QueryResolved, q.State)
	assert.NotNil(t, q.ResolvedAt)
}

func TestQueryResolveDirectlyFromPending(t *testing.T) {
	q := &DoctorQuery{State: QueryPending}
	assert.NoError(t, q.Resolve(time.Now()))
	assert.Equal(t, QueryResolved, q.State)
}

func TestQueryRespondAfterResolutionConflicts(t *testing.T) {
	q := &DoctorQuery{State: QueryResolved}
	assert.ErrorIs(t, q.Respond("too late", time.Now()), ErrStateConflict)
}

func TestQueryCancelledIsTerminal(t *testing.T) {
	q := &DoctorQuery{State: QueryCancelled}
	assert.False(t, q.CanTransitionTo(QueryAnswered))
	assert.False(t, q.CanTransitionTo(QueryResolved))
}

func TestAppointmentApproveThenComplete(t *testing.T) {
	a := &Appointment{State: AppointmentRequested}

	assert.NoError(t, a.Approve())
	assert.Equal(t, AppointmentScheduled, a.State)

	assert.NoError(t, a.Complete())
	assert.Equal(t, AppointmentCompleted, a.State)
}

func TestAppointmentDeclineThenApproveConflicts(t *testing.T) {
	a := &Appointment{State: AppointmentRequested}

	assert.NoError(t, a.Decline())
	assert.Equal(t, AppointmentCancelled, a.State)

	assert.ErrorIs(t, a.Approve(), ErrStateConflict)
}

func TestAppointmentCompleteWithoutApprovalConflicts(t *testing.T) {
	a := &Appointment{State: AppointmentRequested}
	assert.ErrorIs(t, a.Complete(), ErrStateConflict)
}

func TestAppointmentRescheduleOnlyFromScheduled(t *testing.T) {
	a := &Appointment{State: AppointmentRequested}
	assert.False(t, a.CanTransitionTo(AppointmentRescheduled))

	a.State = AppointmentScheduled
	assert.True(t, a.CanTransitionTo(AppointmentRescheduled))

	a.State = AppointmentCompleted
	assert.False(t, a.CanTransitionTo(AppointmentRescheduled))
}

func TestAppointmentIntentIsValid(t *testing.T) {
	assert.True(t, IntentNone.IsValid())
	assert.True(t, IntentVideoCall.IsValid())
	assert.True(t, IntentClinicVisit.IsValid())
	assert.False(t, AppointmentIntent("House Call").IsValid())
}
