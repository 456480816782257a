package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/medremind/medremind/internal/domain"
	"github.com/medremind/medremind/internal/domain/access"
	"github.com/medremind/medremind/internal/domain/medicine"
	"github.com/medremind/medremind/internal/domain/schedule"
	"github.com/medremind/medremind/internal/domain/user"
	"github.com/medremind/medremind/pkg/metrics"
)

// AccessService owns the two consent workflows. Guardian requests are
// approved by the patient; patient-doctor requests are approved by the
// doctor. Nothing clinical flows between two users until the relevant
// request is approved.
type AccessService struct {
	relations access.Repository
	users     user.Repository
	medicines medicine.Repository
	schedules schedule.Repository
	auditSvc  *AuditService
	collector *metrics.Collector
	log       *zap.Logger
}

func NewAccessService(
	relations access.Repository,
	users user.Repository,
	medicines medicine.Repository,
	schedules schedule.Repository,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *AccessService {
	return &AccessService{
		relations: relations,
		users:     users,
		medicines: medicines,
		schedules: schedules,
		auditSvc:  auditSvc,
		collector: collector,
		log:       log,
	}
}

func (s *AccessService) requireRole(ctx context.Context, userKey string, role domain.Role) (*user.User, error) {
	u, err := s.users.GetByKey(ctx, userKey)
	if err != nil {
		return nil, err
	}
	if u.Role != role {
		return nil, user.ErrInvalidRole
	}
	return u, nil
}

// BindGuardian files a guardian's access request against a patient. The
// guardian's contact details are snapshotted onto the request so the patient
// can judge it before the guardian fills in a profile.
func (s *AccessService) BindGuardian(ctx context.Context, cmd *access.CreateGuardianRequestCommand) (*access.GuardianAccessRequest, error) {
	if _, err := s.requireRole(ctx, cmd.GuardianKey, domain.RoleGuardian); err != nil {
		return nil, err
	}
	if _, err := s.requireRole(ctx, cmd.PatientKey, domain.RolePatient); err != nil {
		return nil, err
	}

	r := &access.GuardianAccessRequest{
		PatientKey:   cmd.PatientKey,
		GuardianKey:  cmd.GuardianKey,
		GuardianName: cmd.GuardianName,
		Relationship: cmd.Relationship,
		Mobile:       cmd.Mobile,
		Email:        cmd.Email,
		State:        access.StatePending,
	}
	if err := s.relations.CreateGuardianRequest(ctx, r); err != nil {
		return nil, err
	}

	s.collector.AccessRequestsTotal.WithLabelValues("guardian", string(access.StatePending)).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserKey:      cmd.GuardianKey,
		UserRole:     string(domain.RoleGuardian),
		Action:       "create",
		ResourceType: "guardian_access_request",
		ResourceKey:  r.RequestKey,
	})

	return r, nil
}

// ResolveGuardianRequest applies the patient's decision. Only the patient
// named on the request may approve, deny, or later revoke it.
func (s *AccessService) ResolveGuardianRequest(ctx context.Context, actorKey, requestKey string, newState access.RequestState) (*access.GuardianAccessRequest, error) {
	if !newState.IsValid() || newState == access.StatePending {
		return nil, access.ErrStateConflict
	}

	r, err := s.relations.GetGuardianRequest(ctx, requestKey)
	if err != nil {
		return nil, err
	}
	if r.PatientKey != actorKey {
		return nil, access.ErrNotAuthorized
	}

	r, err = s.relations.TransitionGuardianRequest(ctx, requestKey, newState)
	if err != nil {
		return nil, err
	}

	s.collector.AccessRequestsTotal.WithLabelValues("guardian", string(newState)).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserKey:      actorKey,
		UserRole:     string(domain.RolePatient),
		Action:       "update",
		ResourceType: "guardian_access_request",
		ResourceKey:  requestKey,
	})

	return r, nil
}

// DeleteGuardianRequest removes a settled request. Either party may delete;
// pending requests must be resolved first.
func (s *AccessService) DeleteGuardianRequest(ctx context.Context, actorKey, requestKey string) error {
	r, err := s.relations.GetGuardianRequest(ctx, requestKey)
	if err != nil {
		return err
	}
	if r.PatientKey != actorKey && r.GuardianKey != actorKey {
		return access.ErrNotAuthorized
	}
	return s.relations.DeleteGuardianRequest(ctx, requestKey)
}

func (s *AccessService) ListGuardianRequestsForPatient(ctx context.Context, patientKey string) ([]*access.GuardianAccessRequest, error) {
	return s.relations.ListGuardianRequestsForPatient(ctx, patientKey)
}

func (s *AccessService) ListGuardianRequestsForGuardian(ctx context.Context, guardianKey string) ([]*access.GuardianAccessRequest, error) {
	return s.relations.ListGuardianRequestsForGuardian(ctx, guardianKey)
}

// RequestDoctor files a patient's connection request with a doctor.
func (s *AccessService) RequestDoctor(ctx context.Context, patientKey, doctorKey string) (*access.PatientDoctorRequest, error) {
	if _, err := s.requireRole(ctx, patientKey, domain.RolePatient); err != nil {
		return nil, err
	}
	if _, err := s.requireRole(ctx, doctorKey, domain.RoleDoctor); err != nil {
		return nil, err
	}

	r := &access.PatientDoctorRequest{
		PatientKey: patientKey,
		DoctorKey:  doctorKey,
		State:      access.StatePending,
	}
	if err := s.relations.CreatePatientDoctorRequest(ctx, r); err != nil {
		return nil, err
	}

	s.collector.AccessRequestsTotal.WithLabelValues("patient_doctor", string(access.StatePending)).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserKey:      patientKey,
		UserRole:     string(domain.RolePatient),
		Action:       "create",
		ResourceType: "patient_doctor_request",
		ResourceKey:  r.RequestKey,
	})

	return r, nil
}

// ResolvePatientDoctorRequest applies the doctor's decision. Only the doctor
// named on the request may approve or deny it, and settled requests stay put.
func (s *AccessService) ResolvePatientDoctorRequest(ctx context.Context, actorKey, requestKey string, newState access.RequestState) (*access.PatientDoctorRequest, error) {
	if !newState.IsValid() || newState == access.StatePending {
		return nil, access.ErrStateConflict
	}

	r, err := s.relations.GetPatientDoctorRequest(ctx, requestKey)
	if err != nil {
		return nil, err
	}
	if r.DoctorKey != actorKey {
		return nil, access.ErrNotAuthorized
	}

	r, err = s.relations.TransitionPatientDoctorRequest(ctx, requestKey, newState)
	if err != nil {
		return nil, err
	}

	s.collector.AccessRequestsTotal.WithLabelValues("patient_doctor", string(newState)).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserKey:      actorKey,
		UserRole:     string(domain.RoleDoctor),
		Action:       "update",
		ResourceType: "patient_doctor_request",
		ResourceKey:  requestKey,
	})

	return r, nil
}

func (s *AccessService) DeletePatientDoctorRequest(ctx context.Context, actorKey, requestKey string) error {
	r, err := s.relations.GetPatientDoctorRequest(ctx, requestKey)
	if err != nil {
		return err
	}
	if r.PatientKey != actorKey && r.DoctorKey != actorKey {
		return access.ErrNotAuthorized
	}
	return s.relations.DeletePatientDoctorRequest(ctx, requestKey)
}

func (s *AccessService) ListPatientDoctorRequestsForPatient(ctx context.Context, patientKey string) ([]*access.PatientDoctorRequest, error) {
	return s.relations.ListPatientDoctorRequestsForPatient(ctx, patientKey)
}

func (s *AccessService) ListPatientDoctorRequestsForDoctor(ctx context.Context, doctorKey string) ([]*access.PatientDoctorRequest, error) {
	return s.relations.ListPatientDoctorRequestsForDoctor(ctx, doctorKey)
}

func (s *AccessService) IsConnected(ctx context.Context, patientKey, doctorKey string) (bool, error) {
	return s.relations.IsConnected(ctx, patientKey, doctorKey)
}

// ListMedicinesForGuardian is the guardian's read-only window into the
// patient's cabinet. It requires a currently approved access request.
func (s *AccessService) ListMedicinesForGuardian(ctx context.Context, guardianKey, patientKey string) ([]*medicine.Medicine, error) {
	ok, err := s.relations.HasApprovedGuardianAccess(ctx, guardianKey, patientKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, access.ErrNotAuthorized
	}
	return s.medicines.ListByPatient(ctx, patientKey, nil)
}

// ListSchedulesForGuardian exposes the patient's dosing plans, including
// missed-dose counters, to an approved guardian.
func (s *AccessService) ListSchedulesForGuardian(ctx context.Context, guardianKey, patientKey string) ([]*schedule.Schedule, error) {
	ok, err := s.relations.HasApprovedGuardianAccess(ctx, guardianKey, patientKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, access.ErrNotAuthorized
	}
	return s.schedules.ListByPatient(ctx, patientKey)
}
