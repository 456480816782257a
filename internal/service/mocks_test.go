package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/medremind/medremind/internal/domain"
	"github.com/medremind/medremind/internal/domain/access"
	"github.com/medremind/medremind/internal/domain/clinical"
	"github.com/medremind/medremind/internal/domain/medicine"
	"github.com/medremind/medremind/internal/domain/schedule"
	"github.com/medremind/medremind/internal/domain/user"
	"github.com/medremind/medremind/pkg/metrics"
)

// The collector registers with the default prometheus registry, so it is
// created once for the whole test binary.
var testCollector = metrics.NewCollector("test")

func newTestAuditService() *AuditService {
	return NewAuditService(&MockAuditRepository{}, testCollector, zap.NewNop())
}

// --- MockUserRepository ---

var _ user.Repository = (*MockUserRepository)(nil)

type MockUserRepository struct {
	CreateFunc         func(ctx context.Context, u *user.User) error
	GetByKeyFunc       func(ctx context.Context, userKey string) (*user.User, error)
	GetByLoginFunc     func(ctx context.Context, loginName string, role domain.Role) (*user.User, error)
	ExistsByLoginFunc  func(ctx context.Context, loginName string) (bool, error)
	SetActiveFunc      func(ctx context.Context, userKey string, active bool) error
	TouchLastLoginFunc func(ctx context.Context, userKey string) error
	DeleteFunc         func(ctx context.Context, userKey string) error

	CreateCallCount int32
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	return nil
}

func (m *MockUserRepository) GetByKey(ctx context.Context, userKey string) (*user.User, error) {
	if m.GetByKeyFunc != nil {
		return m.GetByKeyFunc(ctx, userKey)
	}
	return nil, errors.New("GetByKeyFunc not implemented in mock")
}

func (m *MockUserRepository) GetByLogin(ctx context.Context, loginName string, role domain.Role) (*user.User, error) {
	if m.GetByLoginFunc != nil {
		return m.GetByLoginFunc(ctx, loginName, role)
	}
	return nil, errors.New("GetByLoginFunc not implemented in mock")
}

func (m *MockUserRepository) ExistsByLogin(ctx context.Context, loginName string) (bool, error) {
	if m.ExistsByLoginFunc != nil {
		return m.ExistsByLoginFunc(ctx, loginName)
	}
	return false, nil
}

func (m *MockUserRepository) SetActive(ctx context.Context, userKey string, active bool) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, userKey, active)
	}
	return nil
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, userKey string) error {
	if m.TouchLastLoginFunc != nil {
		return m.TouchLastLoginFunc(ctx, userKey)
	}
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, userKey string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userKey)
	}
	return nil
}

// --- MockMedicineRepository ---

var _ medicine.Repository = (*MockMedicineRepository)(nil)

type MockMedicineRepository struct {
	CreateFunc            func(ctx context.Context, m *medicine.Medicine) error
	GetByKeyFunc          func(ctx context.Context, medicineKey string) (*medicine.Medicine, error)
	ListByPatientFunc     func(ctx context.Context, patientKey string, q *medicine.ListMedicinesQuery) ([]*medicine.Medicine, error)
	DeleteFunc            func(ctx context.Context, medicineKey string) error
	DecrementQuantityFunc func(ctx context.Context, medicineKey string, n int) (int, error)
}

func (m *MockMedicineRepository) Create(ctx context.Context, med *medicine.Medicine) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, med)
	}
	return nil
}

func (m *MockMedicineRepository) GetByKey(ctx context.Context, medicineKey string) (*medicine.Medicine, error) {
	if m.GetByKeyFunc != nil {
		return m.GetByKeyFunc(ctx, medicineKey)
	}
	return nil, errors.New("GetByKeyFunc not implemented in mock")
}

func (m *MockMedicineRepository) ListByPatient(ctx context.Context, patientKey string, q *medicine.ListMedicinesQuery) ([]*medicine.Medicine, error) {
	if m.ListByPatientFunc != nil {
		return m.ListByPatientFunc(ctx, patientKey, q)
	}
	return nil, nil
}

func (m *MockMedicineRepository) Delete(ctx context.Context, medicineKey string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, medicineKey)
	}
	return nil
}

func (m *MockMedicineRepository) DecrementQuantity(ctx context.Context, medicineKey string, n int) (int, error) {
	if m.DecrementQuantityFunc != nil {
		return m.DecrementQuantityFunc(ctx, medicineKey, n)
	}
	return 0, nil
}

// --- MockScheduleRepository ---

var _ schedule.Repository = (*MockScheduleRepository)(nil)

type MockScheduleRepository struct {
	CreateFunc         func(ctx context.Context, s *schedule.Schedule) error
	GetByKeyFunc       func(ctx context.Context, scheduleKey string) (*schedule.Schedule, error)
	ListByPatientFunc  func(ctx context.Context, patientKey string) ([]*schedule.Schedule, error)
	MarkTakenFunc      func(ctx context.Context, scheduleKey string, at time.Time) (*schedule.Schedule, error)
	RegisterMissedFunc func(ctx context.Context, scheduleKey string) (*schedule.Schedule, error)
	SetStatusFunc      func(ctx context.Context, scheduleKey string, status schedule.Status) error
	DeleteFunc         func(ctx context.Context, scheduleKey string) error
}

func (m *MockScheduleRepository) Create(ctx context.Context, s *schedule.Schedule) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	return nil
}

func (m *MockScheduleRepository) GetByKey(ctx context.Context, scheduleKey string) (*schedule.Schedule, error) {
	if m.GetByKeyFunc != nil {
		return m.GetByKeyFunc(ctx, scheduleKey)
	}
	return nil, errors.New("GetByKeyFunc not implemented in mock")
}

func (m *MockScheduleRepository) ListByPatient(ctx context.Context, patientKey string) ([]*schedule.Schedule, error) {
	if m.ListByPatientFunc != nil {
		return m.ListByPatientFunc(ctx, patientKey)
	}
	return nil, nil
}

func (m *MockScheduleRepository) MarkTaken(ctx context.Context, scheduleKey string, at time.Time) (*schedule.Schedule, error) {
	if m.MarkTakenFunc != nil {
		return m.MarkTakenFunc(ctx, scheduleKey, at)
	}
	return nil, errors.New("MarkTakenFunc not implemented in mock")
}

func (m *MockScheduleRepository) RegisterMissed(ctx context.Context, scheduleKey string) (*schedule.Schedule, error) {
	if m.RegisterMissedFunc != nil {
		return m.RegisterMissedFunc(ctx, scheduleKey)
	}
	return nil, errors.New("RegisterMissedFunc not implemented in mock")
}

func (m *MockScheduleRepository) SetStatus(ctx context.Context, scheduleKey string, status schedule.Status) error {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, scheduleKey, status)
	}
	return nil
}

func (m *MockScheduleRepository) Delete(ctx context.Context, scheduleKey string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, scheduleKey)
	}
	return nil
}

// --- MockAccessRepository ---

var _ access.Repository = (*MockAccessRepository)(nil)

type MockAccessRepository struct {
	CreateGuardianRequestFunc           func(ctx context.Context, r *access.GuardianAccessRequest) error
	GetGuardianRequestFunc              func(ctx context.Context, requestKey string) (*access.GuardianAccessRequest, error)
	ListGuardianRequestsForPatientFunc  func(ctx context.Context, patientKey string) ([]*access.GuardianAccessRequest, error)
	ListGuardianRequestsForGuardianFunc func(ctx context.Context, guardianKey string) ([]*access.GuardianAccessRequest, error)
	TransitionGuardianRequestFunc       func(ctx context.Context, requestKey string, newState access.RequestState) (*access.GuardianAccessRequest, error)
	DeleteGuardianRequestFunc           func(ctx context.Context, requestKey string) error
	HasApprovedGuardianAccessFunc       func(ctx context.Context, guardianKey, patientKey string) (bool, error)

	CreatePatientDoctorRequestFunc          func(ctx context.Context, r *access.PatientDoctorRequest) error
	GetPatientDoctorRequestFunc             func(ctx context.Context, requestKey string) (*access.PatientDoctorRequest, error)
	ListPatientDoctorRequestsForPatientFunc func(ctx context.Context, patientKey string) ([]*access.PatientDoctorRequest, error)
	ListPatientDoctorRequestsForDoctorFunc  func(ctx context.Context, doctorKey string) ([]*access.PatientDoctorRequest, error)
	TransitionPatientDoctorRequestFunc      func(ctx context.Context, requestKey string, newState access.RequestState) (*access.PatientDoctorRequest, error)
	DeletePatientDoctorRequestFunc          func(ctx context.Context, requestKey string) error
	IsConnectedFunc                         func(ctx context.Context, patientKey, doctorKey string) (bool, error)
}

func (m *MockAccessRepository) CreateGuardianRequest(ctx context.Context, r *access.GuardianAccessRequest) error {
	if m.CreateGuardianRequestFunc != nil {
		return m.CreateGuardianRequestFunc(ctx, r)
	}
	return nil
}

func (m *MockAccessRepository) GetGuardianRequest(ctx context.Context, requestKey string) (*access.GuardianAccessRequest, error) {
	if m.GetGuardianRequestFunc != nil {
		return m.GetGuardianRequestFunc(ctx, requestKey)
	}
	return nil, errors.New("GetGuardianRequestFunc not implemented in mock")
}

func (m *MockAccessRepository) ListGuardianRequestsForPatient(ctx context.Context, patientKey string) ([]*access.GuardianAccessRequest, error) {
	if m.ListGuardianRequestsForPatientFunc != nil {
		return m.ListGuardianRequestsForPatientFunc(ctx, patientKey)
	}
	return nil, nil
}

func (m *MockAccessRepository) ListGuardianRequestsForGuardian(ctx context.Context, guardianKey string) ([]*access.GuardianAccessRequest, error) {
	if m.ListGuardianRequestsForGuardianFunc != nil {
		return m.ListGuardianRequestsForGuardianFunc(ctx, guardianKey)
	}
	return nil, nil
}

func (m *MockAccessRepository) TransitionGuardianRequest(ctx context.Context, requestKey string, newState access.RequestState) (*access.GuardianAccessRequest, error) {
	if m.TransitionGuardianRequestFunc != nil {
		return m.TransitionGuardianRequestFunc(ctx, requestKey, newState)
	}
	return nil, errors.New("TransitionGuardianRequestFunc not implemented in mock")
}

func (m *MockAccessRepository) DeleteGuardianRequest(ctx context.Context, requestKey string) error {
	if m.DeleteGuardianRequestFunc != nil {
		return m.DeleteGuardianRequestFunc(ctx, requestKey)
	}
	return nil
}

func (m *MockAccessRepository) HasApprovedGuardianAccess(ctx context.Context, guardianKey, patientKey string) (bool, error) {
	if m.HasApprovedGuardianAccessFunc != nil {
		return m.HasApprovedGuardianAccessFunc(ctx, guardianKey, patientKey)
	}
	return false, nil
}

func (m *MockAccessRepository) CreatePatientDoctorRequest(ctx context.Context, r *access.PatientDoctorRequest) error {
	if m.CreatePatientDoctorRequestFunc != nil {
		return m.CreatePatientDoctorRequestFunc(ctx, r)
	}
	return nil
}

func (m *MockAccessRepository) GetPatientDoctorRequest(ctx context.Context, requestKey string) (*access.PatientDoctorRequest, error) {
	if m.GetPatientDoctorRequestFunc != nil {
		return m.GetPatientDoctorRequestFunc(ctx, requestKey)
	}
	return nil, errors.New("GetPatientDoctorRequestFunc not implemented in mock")
}

func (m *MockAccessRepository) ListPatientDoctorRequestsForPatient(ctx context.Context, patientKey string) ([]*access.PatientDoctorRequest, error) {
	if m.ListPatientDoctorRequestsForPatientFunc != nil {
		return m.ListPatientDoctorRequestsForPatientFunc(ctx, patientKey)
	}
	return nil, nil
}

func (m *MockAccessRepository) ListPatientDoctorRequestsForDoctor(ctx context.Context, doctorKey string) ([]*access.PatientDoctorRequest, error) {
	if m.ListPatientDoctorRequestsForDoctorFunc != nil {
		return m.ListPatientDoctorRequestsForDoctorFunc(ctx, doctorKey)
	}
	return nil, nil
}

func (m *MockAccessRepository) TransitionPatientDoctorRequest(ctx context.Context, requestKey string, newState access.RequestState) (*access.PatientDoctorRequest, error) {
	if m.TransitionPatientDoctorRequestFunc != nil {
		return m.TransitionPatientDoctorRequestFunc(ctx, requestKey, newState)
	}
	return nil, errors.New("TransitionPatientDoctorRequestFunc not implemented in mock")
}

func (m *MockAccessRepository) DeletePatientDoctorRequest(ctx context.Context, requestKey string) error {
	if m.DeletePatientDoctorRequestFunc != nil {
		return m.DeletePatientDoctorRequestFunc(ctx, requestKey)
	}
	return nil
}

func (m *MockAccessRepository) IsConnected(ctx context.Context, patientKey, doctorKey string) (bool, error) {
	if m.IsConnectedFunc != nil {
		return m.IsConnectedFunc(ctx, patientKey, doctorKey)
	}
	return false, nil
}

// --- MockQueryRepository ---

var _ clinical.QueryRepository = (*MockQueryRepository)(nil)

type MockQueryRepository struct {
	CreateWithAppointmentFunc func(ctx context.Context, q *clinical.DoctorQuery, companion *clinical.Appointment) error
	GetByKeyFunc              func(ctx context.Context, queryKey string) (*clinical.DoctorQuery, error)
	ListByPatientFunc         func(ctx context.Context, patientKey string) ([]*clinical.DoctorQuery, error)
	ListByDoctorFunc          func(ctx context.Context, doctorKey string) ([]*clinical.DoctorQuery, error)
	RespondFunc               func(ctx context.Context, queryKey, doctorKey, response string, at time.Time) (*clinical.DoctorQuery, error)
	ResolveFunc               func(ctx context.Context, queryKey string, at time.Time) (*clinical.DoctorQuery, error)
	CancelFunc                func(ctx context.Context, queryKey string) (*clinical.DoctorQuery, error)
}

func (m *MockQueryRepository) CreateWithAppointment(ctx context.Context, q *clinical.DoctorQuery, companion *clinical.Appointment) error {
	if m.CreateWithAppointmentFunc != nil {
		return m.CreateWithAppointmentFunc(ctx, q, companion)
	}
	return nil
}

func (m *MockQueryRepository) GetByKey(ctx context.Context, queryKey string) (*clinical.DoctorQuery, error) {
	if m.GetByKeyFunc != nil {
		return m.GetByKeyFunc(ctx, queryKey)
	}
	return nil, errors.New("GetByKeyFunc not implemented in mock")
}

func (m *MockQueryRepository) ListByPatient(ctx context.Context, patientKey string) ([]*clinical.DoctorQuery, error) {
	if m.ListByPatientFunc != nil {
		return m.ListByPatientFunc(ctx, patientKey)
	}
	return nil, nil
}

func (m *MockQueryRepository) ListByDoctor(ctx context.Context, doctorKey string) ([]*clinical.DoctorQuery, error) {
	if m.ListByDoctorFunc != nil {
		return m.ListByDoctorFunc(ctx, doctorKey)
	}
	return nil, nil
}

func (m *MockQueryRepository) Respond(ctx context.Context, queryKey, doctorKey, response string, at time.Time) (*clinical.DoctorQuery, error) {
	if m.RespondFunc != nil {
		return m.RespondFunc(ctx, queryKey, doctorKey, response, at)
	}
	return nil, errors.New("RespondFunc not implemented in mock")
}

func (m *MockQueryRepository) Resolve(ctx context.Context, queryKey string, at time.Time) (*clinical.DoctorQuery, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, queryKey, at)
	}
	return nil, errors.New("ResolveFunc not implemented in mock")
}

func (m *MockQueryRepository) Cancel(ctx context.Context, queryKey string) (*clinical.DoctorQuery, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, queryKey)
	}
	return nil, errors.New("CancelFunc not implemented in mock")
}

// --- MockAppointmentRepository ---

var _ clinical.AppointmentRepository = (*MockAppointmentRepository)(nil)

type MockAppointmentRepository struct {
	CreateFunc        func(ctx context.Context, a *clinical.Appointment) error
	GetByKeyFunc      func(ctx context.Context, appointmentKey string) (*clinical.Appointment, error)
	ListByPatientFunc func(ctx context.Context, patientKey string) ([]*clinical.Appointment, error)
	ListByDoctorFunc  func(ctx context.Context, doctorKey string) ([]*clinical.Appointment, error)
	TransitionFunc    func(ctx context.Context, appointmentKey string, newState clinical.AppointmentState) (*clinical.Appointment, error)
	DeclineFunc       func(ctx context.Context, appointmentKey string) (*clinical.Appointment, error)
	RescheduleFunc    func(ctx context.Context, appointmentKey string, cmd *clinical.RescheduleCommand) (*clinical.Appointment, error)
}

func (m *MockAppointmentRepository) Create(ctx context.Context, a *clinical.Appointment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, a)
	}
	return nil
}

func (m *MockAppointmentRepository) GetByKey(ctx context.Context, appointmentKey string) (*clinical.Appointment, error) {
	if m.GetByKeyFunc != nil {
		return m.GetByKeyFunc(ctx, appointmentKey)
	}
	return nil, errors.New("GetByKeyFunc not implemented in mock")
}

func (m *MockAppointmentRepository) ListByPatient(ctx context.Context, patientKey string) ([]*clinical.Appointment, error) {
	if m.ListByPatientFunc != nil {
		return m.ListByPatientFunc(ctx, patientKey)
	}
	return nil, nil
}

func (m *MockAppointmentRepository) ListByDoctor(ctx context.Context, doctorKey string) ([]*clinical.Appointment, error) {
	if m.ListByDoctorFunc != nil {
		return m.ListByDoctorFunc(ctx, doctorKey)
	}
	return nil, nil
}

func (m *MockAppointmentRepository) Transition(ctx context.Context, appointmentKey string, newState clinical.AppointmentState) (*clinical.Appointment, error) {
	if m.TransitionFunc != nil {
		return m.TransitionFunc(ctx, appointmentKey, newState)
	}
	return nil, errors.New("TransitionFunc not implemented in mock")
}

func (m *MockAppointmentRepository) Decline(ctx context.Context, appointmentKey string) (*clinical.Appointment, error) {
	if m.DeclineFunc != nil {
		return m.DeclineFunc(ctx, appointmentKey)
	}
	return nil, errors.New("DeclineFunc not implemented in mock")
}

func (m *MockAppointmentRepository) Reschedule(ctx context.Context, appointmentKey string, cmd *clinical.RescheduleCommand) (*clinical.Appointment, error) {
	if m.RescheduleFunc != nil {
		return m.RescheduleFunc(ctx, appointmentKey, cmd)
	}
	return nil, errors.New("RescheduleFunc not implemented in mock")
}

// --- MockAuditRepository ---

var _ AuditRepository = (*MockAuditRepository)(nil)

type MockAuditRepository struct {
	CreateFunc      func(ctx context.Context, entry *domain.AuditLog) error
	CreateCallCount int32
}

func (m *MockAuditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	return nil
}
