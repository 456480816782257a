package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/medremind/medremind/internal/domain/clinical"
)

func newTestClinicalService(queries *MockQueryRepository, appointments *MockAppointmentRepository, relations *MockAccessRepository) *ClinicalService {
	return NewClinicalService(queries, appointments, relations, newTestAuditService(), testCollector, zap.NewNop())
}

func connectedRelations() *MockAccessRepository {
	return &MockAccessRepository{
		IsConnectedFunc: func(ctx context.Context, patientKey, doctorKey string) (bool, error) {
			return true, nil
		},
	}
}

func TestSubmitQuery_RequiresConnection(t *testing.T) {
	svc := newTestClinicalService(&MockQueryRepository{}, &MockAppointmentRepository{}, &MockAccessRepository{})

	_, _, err := svc.SubmitQuery(context.Background(), &clinical.SubmitQueryCommand{
		PatientKey:        "PAT11111",
		DoctorKey:         "DOC22222",
		Question:          "Is this dosage right?",
		AppointmentIntent: clinical.IntentNone,
	})

	assert.ErrorIs(t, err, clinical.ErrNotConnected)
}

func TestSubmitQuery_WithoutAppointmentIntent(t *testing.T) {
	var gotCompanion *clinical.Appointment
	queries := &MockQueryRepository{
		CreateWithAppointmentFunc: func(ctx context.Context, q *clinical.DoctorQuery, companion *clinical.Appointment) error {
			q.QueryKey = "DQ12345"
			gotCompanion = companion
			return nil
		},
	}
	svc := newTestClinicalService(queries, &MockAppointmentRepository{}, connectedRelations())

	q, apt, err := svc.SubmitQuery(context.Background(), &clinical.SubmitQueryCommand{
		PatientKey:        "PAT11111",
		DoctorKey:         "DOC22222",
		Question:          "Is this dosage right?",
		AppointmentIntent: clinical.IntentNone,
	})

	assert.NoError(t, err)
	assert.Equal(t, "DQ12345", q.QueryKey)
	assert.Nil(t, apt)
	assert.Nil(t, gotCompanion)
}

func TestSubmitQuery_WithAppointmentIntentCreatesCompanion(t *testing.T) {
	preferred := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	queries := &MockQueryRepository{
		CreateWithAppointmentFunc: func(ctx context.Context, q *clinical.DoctorQuery, companion *clinical.Appointment) error {
			q.QueryKey = "DQ12345"
			companion.AppointmentKey = "APT54321"
			return nil
		},
	}
	svc := newTestClinicalService(queries, &MockAppointmentRepository{}, connectedRelations())

	q, apt, err := svc.SubmitQuery(context.Background(), &clinical.SubmitQueryCommand{
		PatientKey:        "PAT11111",
		DoctorKey:         "DOC22222",
		Question:          "Need a video consult",
		AppointmentIntent: clinical.IntentVideoCall,
		PreferredDate:     &preferred,
		PreferredTime:     "10:30",
	})

	assert.NoError(t, err)
	assert.Equal(t, clinical.QueryPending, q.State)
	assert.NotNil(t, apt)
	assert.Equal(t, clinical.AppointmentRequested, apt.State)
	assert.Equal(t, clinical.ModalityVideoCall, apt.Modality)
	assert.Equal(t, preferred, apt.AppointmentDate)
}

func TestSubmitQuery_EmptyQuestionRejected(t *testing.T) {
	svc := newTestClinicalService(&MockQueryRepository{}, &MockAppointmentRepository{}, connectedRelations())

	_, _, err := svc.SubmitQuery(context.Background(), &clinical.SubmitQueryCommand{
		PatientKey:        "PAT11111",
		DoctorKey:         "DOC22222",
		Question:          "   ",
		AppointmentIntent: clinical.IntentNone,
	})

	var validErr *ValidationError
	assert.ErrorAs(t, err, &validErr)
}

func TestRequestAppointment_RequiresConnection(t *testing.T) {
	svc := newTestClinicalService(&MockQueryRepository{}, &MockAppointmentRepository{}, &MockAccessRepository{})

	_, err := svc.RequestAppointment(context.Background(), &clinical.RequestAppointmentCommand{
		PatientKey:      "PAT11111",
		DoctorKey:       "DOC22222",
		AppointmentDate: time.Now().AddDate(0, 0, 3),
		AppointmentTime: "14:00",
		Modality:        clinical.ModalityClinicVisit,
	})

	assert.ErrorIs(t, err, clinical.ErrNotConnected)
}

func TestRequestAppointment_RejectsBadTime(t *testing.T) {
	svc := newTestClinicalService(&MockQueryRepository{}, &MockAppointmentRepository{}, connectedRelations())

	_, err := svc.RequestAppointment(context.Background(), &clinical.RequestAppointmentCommand{
		PatientKey:      "PAT11111",
		DoctorKey:       "DOC22222",
		AppointmentDate: time.Now().AddDate(0, 0, 3),
		AppointmentTime: "2pm",
		Modality:        clinical.ModalityClinicVisit,
	})

	assert.ErrorIs(t, err, clinical.ErrInvalidTime)
}

func TestApproveAppointment_RejectsUnassignedDoctor(t *testing.T) {
	appointments := &MockAppointmentRepository{
		GetByKeyFunc: func(ctx context.Context, appointmentKey string) (*clinical.Appointment, error) {
			return &clinical.Appointment{
				AppointmentKey: appointmentKey,
				DoctorKey:      "DOC99999",
				State:          clinical.AppointmentRequested,
			}, nil
		},
	}
	svc := newTestClinicalService(&MockQueryRepository{}, appointments, &MockAccessRepository{})

	_, err := svc.ApproveAppointment(context.Background(), "APT54321", "DOC22222")
	assert.ErrorIs(t, err, clinical.ErrNotAssigned)
}

func TestDeclineAppointment_AfterApprovalConflicts(t *testing.T) {
	state := clinical.AppointmentScheduled
	appointments := &MockAppointmentRepository{
		GetByKeyFunc: func(ctx context.Context, appointmentKey string) (*clinical.Appointment, error) {
			return &clinical.Appointment{
				AppointmentKey: appointmentKey,
				DoctorKey:      "DOC22222",
				State:          state,
			}, nil
		},
		DeclineFunc: func(ctx context.Context, appointmentKey string) (*clinical.Appointment, error) {
			// The store re-checks the state under its row lock; the approve
			// already landed, so the decline must fail.
			if state != clinical.AppointmentRequested {
				return nil, clinical.ErrStateConflict
			}
			return &clinical.Appointment{AppointmentKey: appointmentKey, State: clinical.AppointmentCancelled}, nil
		},
	}
	svc := newTestClinicalService(&MockQueryRepository{}, appointments, &MockAccessRepository{})

	_, err := svc.DeclineAppointment(context.Background(), "APT54321", "DOC22222")
	assert.ErrorIs(t, err, clinical.ErrStateConflict)
}

func TestResolveQuery_RejectsForeignPatient(t *testing.T) {
	resolved := false
	queries := &MockQueryRepository{
		GetByKeyFunc: func(ctx context.Context, queryKey string) (*clinical.DoctorQuery, error) {
			return &clinical.DoctorQuery{QueryKey: queryKey, PatientKey: "PAT11111", State: clinical.QueryAnswered}, nil
		},
		ResolveFunc: func(ctx context.Context, queryKey string, at time.Time) (*clinical.DoctorQuery, error) {
			resolved = true
			return &clinical.DoctorQuery{QueryKey: queryKey, State: clinical.QueryResolved}, nil
		},
	}
	svc := newTestClinicalService(queries, &MockAppointmentRepository{}, &MockAccessRepository{})

	_, err := svc.ResolveQuery(context.Background(), "DQ12345", "PAT99999")
	assert.ErrorIs(t, err, ErrCrossOwner)
	assert.False(t, resolved, "a stranger's resolve must never reach the store")
}

func TestResolveQuery_OwnerResolves(t *testing.T) {
	queries := &MockQueryRepository{
		GetByKeyFunc: func(ctx context.Context, queryKey string) (*clinical.DoctorQuery, error) {
			return &clinical.DoctorQuery{QueryKey: queryKey, PatientKey: "PAT11111", State: clinical.QueryAnswered}, nil
		},
		ResolveFunc: func(ctx context.Context, queryKey string, at time.Time) (*clinical.DoctorQuery, error) {
			return &clinical.DoctorQuery{QueryKey: queryKey, PatientKey: "PAT11111", State: clinical.QueryResolved}, nil
		},
	}
	svc := newTestClinicalService(queries, &MockAppointmentRepository{}, &MockAccessRepository{})

	q, err := svc.ResolveQuery(context.Background(), "DQ12345", "PAT11111")
	assert.NoError(t, err)
	assert.Equal(t, clinical.QueryResolved, q.State)
}

func TestCancelQuery_RejectsForeignPatient(t *testing.T) {
	queries := &MockQueryRepository{
		GetByKeyFunc: func(ctx context.Context, queryKey string) (*clinical.DoctorQuery, error) {
			return &clinical.DoctorQuery{QueryKey: queryKey, PatientKey: "PAT11111", State: clinical.QueryPending}, nil
		},
	}
	svc := newTestClinicalService(queries, &MockAppointmentRepository{}, &MockAccessRepository{})

	_, err := svc.CancelQuery(context.Background(), "DQ12345", "PAT99999")
	assert.ErrorIs(t, err, ErrCrossOwner)
}

func TestCompleteAppointment_RejectsUnassignedDoctor(t *testing.T) {
	appointments := &MockAppointmentRepository{
		GetByKeyFunc: func(ctx context.Context, appointmentKey string) (*clinical.Appointment, error) {
			return &clinical.Appointment{
				AppointmentKey: appointmentKey,
				DoctorKey:      "DOC99999",
				State:          clinical.AppointmentScheduled,
			}, nil
		},
	}
	svc := newTestClinicalService(&MockQueryRepository{}, appointments, &MockAccessRepository{})

	_, err := svc.CompleteAppointment(context.Background(), "APT54321", "DOC22222")
	assert.ErrorIs(t, err, clinical.ErrNotAssigned)
}

func TestCancelAppointment_RejectsForeignPatient(t *testing.T) {
	appointments := &MockAppointmentRepository{
		GetByKeyFunc: func(ctx context.Context, appointmentKey string) (*clinical.Appointment, error) {
			return &clinical.Appointment{
				AppointmentKey: appointmentKey,
				PatientKey:     "PAT11111",
				State:          clinical.AppointmentRequested,
			}, nil
		},
	}
	svc := newTestClinicalService(&MockQueryRepository{}, appointments, &MockAccessRepository{})

	_, err := svc.CancelAppointment(context.Background(), "APT54321", "PAT99999")
	assert.ErrorIs(t, err, ErrCrossOwner)
}

func TestReschedule_RejectsUnassignedDoctor(t *testing.T) {
	appointments := &MockAppointmentRepository{
		GetByKeyFunc: func(ctx context.Context, appointmentKey string) (*clinical.Appointment, error) {
			return &clinical.Appointment{
				AppointmentKey: appointmentKey,
				DoctorKey:      "DOC99999",
				State:          clinical.AppointmentScheduled,
			}, nil
		},
	}
	svc := newTestClinicalService(&MockQueryRepository{}, appointments, &MockAccessRepository{})

	_, err := svc.Reschedule(context.Background(), "APT54321", "DOC22222", time.Now().AddDate(0, 0, 7), "11:00")
	assert.ErrorIs(t, err, clinical.ErrNotAssigned)
}

func TestReschedule_ReturnsReplacement(t *testing.T) {
	newDate := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	appointments := &MockAppointmentRepository{
		GetByKeyFunc: func(ctx context.Context, appointmentKey string) (*clinical.Appointment, error) {
			return &clinical.Appointment{
				AppointmentKey: appointmentKey,
				DoctorKey:      "DOC22222",
				State:          clinical.AppointmentScheduled,
			}, nil
		},
		RescheduleFunc: func(ctx context.Context, appointmentKey string, cmd *clinical.RescheduleCommand) (*clinical.Appointment, error) {
			return &clinical.Appointment{
				AppointmentKey:  "APT77777",
				AppointmentDate: cmd.NewDate,
				AppointmentTime: cmd.NewTime,
				State:           clinical.AppointmentScheduled,
			}, nil
		},
	}
	svc := newTestClinicalService(&MockQueryRepository{}, appointments, &MockAccessRepository{})

	a, err := svc.Reschedule(context.Background(), "APT54321", "DOC22222", newDate, "11:00")
	assert.NoError(t, err)
	assert.Equal(t, "APT77777", a.AppointmentKey)
	assert.Equal(t, clinical.AppointmentScheduled, a.State)
}
