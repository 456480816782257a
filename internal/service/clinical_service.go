package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/medremind/medremind/internal/domain"
	"github.com/medremind/medremind/internal/domain/access"
	"github.com/medremind/medremind/internal/domain/clinical"
	"github.com/medremind/medremind/pkg/metrics"
)

// ClinicalService mediates patient-doctor interactions. Every operation that
// opens a new interaction requires an approved patient-doctor request.
type ClinicalService struct {
	queries      clinical.QueryRepository
	appointments clinical.AppointmentRepository
	relations    access.Repository
	auditSvc     *AuditService
	collector    *metrics.Collector
	log          *zap.Logger
}

func NewClinicalService(
	queries clinical.QueryRepository,
	appointments clinical.AppointmentRepository,
	relations access.Repository,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *ClinicalService {
	return &ClinicalService{
		queries:      queries,
		appointments: appointments,
		relations:    relations,
		auditSvc:     auditSvc,
		collector:    collector,
		log:          log,
	}
}

// SubmitQuery files a question with a connected doctor. When the patient also
// asked for an appointment, the companion row is created in the same
// transaction and both keys are returned.
func (s *ClinicalService) SubmitQuery(ctx context.Context, cmd *clinical.SubmitQueryCommand) (*clinical.DoctorQuery, *clinical.Appointment, error) {
	if strings.TrimSpace(cmd.Question) == "" {
		return nil, nil, &ValidationError{Fields: []string{"question is required"}}
	}
	if !cmd.AppointmentIntent.IsValid() {
		return nil, nil, clinical.ErrInvalidIntent
	}

	connected, err := s.relations.IsConnected(ctx, cmd.PatientKey, cmd.DoctorKey)
	if err != nil {
		return nil, nil, err
	}
	if !connected {
		return nil, nil, clinical.ErrNotConnected
	}

	doctorKey := cmd.DoctorKey
	q := &clinical.DoctorQuery{
		PatientKey:        cmd.PatientKey,
		DoctorKey:         &doctorKey,
		Question:          cmd.Question,
		AppointmentIntent: cmd.AppointmentIntent,
		PreferredDate:     cmd.PreferredDate,
		PreferredTime:     cmd.PreferredTime,
		State:             clinical.QueryPending,
	}

	var companion *clinical.Appointment
	if cmd.AppointmentIntent != clinical.IntentNone {
		date := time.Now()
		if cmd.PreferredDate != nil {
			date = *cmd.PreferredDate
		}
		companion = &clinical.Appointment{
			PatientKey:      cmd.PatientKey,
			DoctorKey:       cmd.DoctorKey,
			AppointmentDate: date,
			AppointmentTime: cmd.PreferredTime,
			Modality:        clinical.Modality(cmd.AppointmentIntent),
			State:           clinical.AppointmentRequested,
			Notes:           cmd.Question,
		}
	}

	if err := s.queries.CreateWithAppointment(ctx, q, companion); err != nil {
		s.log.Error("failed to submit query", zap.Error(err))
		return nil, nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserKey:      cmd.PatientKey,
		UserRole:     string(domain.RolePatient),
		Action:       "create",
		ResourceType: "doctor_query",
		ResourceKey:  q.QueryKey,
	})

	return q, companion, nil
}

func (s *ClinicalService) RespondToQuery(ctx context.Context, queryKey, doctorKey, response string) (*clinical.DoctorQuery, error) {
	if strings.TrimSpace(response) == "" {
		return nil, &ValidationError{Fields: []string{"response is required"}}
	}

	q, err := s.queries.Respond(ctx, queryKey, doctorKey, response, time.Now())
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserKey:      doctorKey,
		UserRole:     string(domain.RoleDoctor),
		Action:       "update",
		ResourceType: "doctor_query",
		ResourceKey:  queryKey,
	})

	return q, nil
}

// assertOwningPatient rejects patients acting on queries filed by someone
// else.
func (s *ClinicalService) assertOwningPatient(ctx context.Context, queryKey, patientKey string) error {
	q, err := s.queries.GetByKey(ctx, queryKey)
	if err != nil {
		return err
	}
	if q.PatientKey != patientKey {
		return ErrCrossOwner
	}
	return nil
}

func (s *ClinicalService) ResolveQuery(ctx context.Context, queryKey, patientKey string) (*clinical.DoctorQuery, error) {
	if err := s.assertOwningPatient(ctx, queryKey, patientKey); err != nil {
		return nil, err
	}
	return s.queries.Resolve(ctx, queryKey, time.Now())
}

func (s *ClinicalService) CancelQuery(ctx context.Context, queryKey, patientKey string) (*clinical.DoctorQuery, error) {
	if err := s.assertOwningPatient(ctx, queryKey, patientKey); err != nil {
		return nil, err
	}
	return s.queries.Cancel(ctx, queryKey)
}

func (s *ClinicalService) ListQueriesForPatient(ctx context.Context, patientKey string) ([]*clinical.DoctorQuery, error) {
	return s.queries.ListByPatient(ctx, patientKey)
}

func (s *ClinicalService) ListQueriesForDoctor(ctx context.Context, doctorKey string) ([]*clinical.DoctorQuery, error) {
	return s.queries.ListByDoctor(ctx, doctorKey)
}

// RequestAppointment books a slot with a connected doctor; the row starts in
// state requested until the doctor approves it.
func (s *ClinicalService) RequestAppointment(ctx context.Context, cmd *clinical.RequestAppointmentCommand) (*clinical.Appointment, error) {
	if !cmd.Modality.IsValid() {
		return nil, clinical.ErrInvalidModality
	}
	if _, err := time.Parse("15:04", cmd.AppointmentTime); err != nil {
		return nil, clinical.ErrInvalidTime
	}

	connected, err := s.relations.IsConnected(ctx, cmd.PatientKey, cmd.DoctorKey)
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, clinical.ErrNotConnected
	}

	a := &clinical.Appointment{
		PatientKey:      cmd.PatientKey,
		DoctorKey:       cmd.DoctorKey,
		AppointmentDate: cmd.AppointmentDate,
		AppointmentTime: cmd.AppointmentTime,
		Modality:        cmd.Modality,
		State:           clinical.AppointmentRequested,
		Notes:           cmd.Notes,
	}
	if err := s.appointments.Create(ctx, a); err != nil {
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, err
	}

	s.collector.AppointmentsTotal.WithLabelValues(string(a.State)).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserKey:      cmd.PatientKey,
		UserRole:     string(domain.RolePatient),
		Action:       "create",
		ResourceType: "appointment",
		ResourceKey:  a.AppointmentKey,
	})

	return a, nil
}

// assertAssignedDoctor rejects doctors acting on appointments that are not
// theirs.
func (s *ClinicalService) assertAssignedDoctor(ctx context.Context, appointmentKey, doctorKey string) error {
	a, err := s.appointments.GetByKey(ctx, appointmentKey)
	if err != nil {
		return err
	}
	if a.DoctorKey != doctorKey {
		return clinical.ErrNotAssigned
	}
	return nil
}

func (s *ClinicalService) ApproveAppointment(ctx context.Context, appointmentKey, doctorKey string) (*clinical.Appointment, error) {
	if err := s.assertAssignedDoctor(ctx, appointmentKey, doctorKey); err != nil {
		return nil, err
	}
	a, err := s.appointments.Transition(ctx, appointmentKey, clinical.AppointmentScheduled)
	if err != nil {
		return nil, err
	}
	s.collector.AppointmentsTotal.WithLabelValues(string(a.State)).Inc()
	return a, nil
}

func (s *ClinicalService) DeclineAppointment(ctx context.Context, appointmentKey, doctorKey string) (*clinical.Appointment, error) {
	if err := s.assertAssignedDoctor(ctx, appointmentKey, doctorKey); err != nil {
		return nil, err
	}
	a, err := s.appointments.Decline(ctx, appointmentKey)
	if err != nil {
		return nil, err
	}
	s.collector.AppointmentsTotal.WithLabelValues(string(a.State)).Inc()
	return a, nil
}

func (s *ClinicalService) CompleteAppointment(ctx context.Context, appointmentKey, doctorKey string) (*clinical.Appointment, error) {
	if err := s.assertAssignedDoctor(ctx, appointmentKey, doctorKey); err != nil {
		return nil, err
	}
	a, err := s.appointments.Transition(ctx, appointmentKey, clinical.AppointmentCompleted)
	if err != nil {
		return nil, err
	}
	s.collector.AppointmentsTotal.WithLabelValues(string(a.State)).Inc()
	return a, nil
}

func (s *ClinicalService) CancelAppointment(ctx context.Context, appointmentKey, patientKey string) (*clinical.Appointment, error) {
	a, err := s.appointments.GetByKey(ctx, appointmentKey)
	if err != nil {
		return nil, err
	}
	if a.PatientKey != patientKey {
		return nil, ErrCrossOwner
	}
	a, err = s.appointments.Transition(ctx, appointmentKey, clinical.AppointmentCancelled)
	if err != nil {
		return nil, err
	}
	s.collector.AppointmentsTotal.WithLabelValues(string(a.State)).Inc()
	return a, nil
}

// Reschedule replaces a scheduled appointment with a new one atomically; the
// old row ends cancelled with a back-reference to the replacement.
func (s *ClinicalService) Reschedule(ctx context.Context, appointmentKey, doctorKey string, newDate time.Time, newTime string) (*clinical.Appointment, error) {
	if _, err := time.Parse("15:04", newTime); err != nil {
		return nil, clinical.ErrInvalidTime
	}
	if err := s.assertAssignedDoctor(ctx, appointmentKey, doctorKey); err != nil {
		return nil, err
	}
	a, err := s.appointments.Reschedule(ctx, appointmentKey, &clinical.RescheduleCommand{
		NewDate: newDate,
		NewTime: newTime,
	})
	if err != nil {
		return nil, err
	}
	s.collector.AppointmentsTotal.WithLabelValues("rescheduled").Inc()
	return a, nil
}

func (s *ClinicalService) ListAppointmentsForPatient(ctx context.Context, patientKey string) ([]*clinical.Appointment, error) {
	return s.appointments.ListByPatient(ctx, patientKey)
}

func (s *ClinicalService) ListAppointmentsForDoctor(ctx context.Context, doctorKey string) ([]*clinical.Appointment, error) {
	return s.appointments.ListByDoctor(ctx, doctorKey)
}
