package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/medremind/medremind/internal/domain"
	"github.com/medremind/medremind/internal/domain/medicine"
	"github.com/medremind/medremind/internal/domain/schedule"
	"github.com/medremind/medremind/pkg/metrics"
)

// ScheduleService is the adherence core: it creates dosing plans and moves
// their counters.
type ScheduleService struct {
	schedules schedule.Repository
	medicines medicine.Repository
	auditSvc  *AuditService
	collector *metrics.Collector
	log       *zap.Logger
}

func NewScheduleService(schedules schedule.Repository, medicines medicine.Repository, auditSvc *AuditService, collector *metrics.Collector, log *zap.Logger) *ScheduleService {
	return &ScheduleService{
		schedules: schedules,
		medicines: medicines,
		auditSvc:  auditSvc,
		collector: collector,
		log:       log,
	}
}

func (s *ScheduleService) CreateSchedule(ctx context.Context, cmd *schedule.CreateScheduleCommand) (*schedule.Schedule, error) {
	if err := schedule.ValidateDoseTimes(cmd.DosesPerDay, cmd.Times); err != nil {
		return nil, err
	}
	if !cmd.MealRelation.IsValid() {
		return nil, schedule.ErrInvalidMealRelation
	}

	m, err := s.medicines.GetByKey(ctx, cmd.MedicineKey)
	if err != nil {
		return nil, err
	}
	if m.PatientKey != cmd.PatientKey {
		return nil, schedule.ErrCrossOwnerViolation
	}

	sch := &schedule.Schedule{
		PatientKey:        cmd.PatientKey,
		MedicineKey:       cmd.MedicineKey,
		DosesPerDay:       cmd.DosesPerDay,
		Times:             cmd.Times,
		MealRelation:      cmd.MealRelation,
		Precaution:        cmd.Precaution,
		RemainingQuantity: m.Quantity,
		Status:            schedule.StatusActive,
	}

	if err := s.schedules.Create(ctx, sch); err != nil {
		s.log.Error("failed to create schedule", zap.Error(err))
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserKey:      cmd.PatientKey,
		UserRole:     string(domain.RolePatient),
		Action:       "create",
		ResourceType: "schedule",
		ResourceKey:  sch.ScheduleKey,
	})

	return sch, nil
}

func (s *ScheduleService) ListSchedules(ctx context.Context, patientKey string) ([]*schedule.Schedule, error) {
	return s.schedules.ListByPatient(ctx, patientKey)
}

func (s *ScheduleService) GetSchedule(ctx context.Context, scheduleKey string) (*schedule.Schedule, error) {
	return s.schedules.GetByKey(ctx, scheduleKey)
}

// MarkTaken records a dose at the given timestamp. Both the schedule-local
// remaining quantity and the catalog quantity move together, inside one
// transaction in the store.
func (s *ScheduleService) MarkTaken(ctx context.Context, actorKey, scheduleKey string, at time.Time) (*schedule.Schedule, error) {
	existing, err := s.schedules.GetByKey(ctx, scheduleKey)
	if err != nil {
		return nil, err
	}
	if existing.PatientKey != actorKey {
		return nil, ErrCrossOwner
	}

	sch, err := s.schedules.MarkTaken(ctx, scheduleKey, at)
	if err != nil {
		return nil, err
	}

	s.collector.DosesTakenTotal.Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserKey:      actorKey,
		UserRole:     string(domain.RolePatient),
		Action:       "update",
		ResourceType: "schedule",
		ResourceKey:  scheduleKey,
		Changes:      `{"event":"dose_taken"}`,
	})

	return sch, nil
}

// RegisterMissed bumps the missed-dose counter. There is no automatic sweep;
// callers decide when a dose counts as missed.
func (s *ScheduleService) RegisterMissed(ctx context.Context, actorKey, scheduleKey string) (*schedule.Schedule, error) {
	existing, err := s.schedules.GetByKey(ctx, scheduleKey)
	if err != nil {
		return nil, err
	}
	if existing.PatientKey != actorKey {
		return nil, ErrCrossOwner
	}

	sch, err := s.schedules.RegisterMissed(ctx, scheduleKey)
	if err != nil {
		return nil, err
	}

	s.collector.DosesMissedTotal.Inc()
	return sch, nil
}

func (s *ScheduleService) SetStatus(ctx context.Context, actorKey, scheduleKey string, status schedule.Status) error {
	if !status.IsValid() {
		return &ValidationError{Fields: []string{"status must be active or paused"}}
	}
	existing, err := s.schedules.GetByKey(ctx, scheduleKey)
	if err != nil {
		return err
	}
	if existing.PatientKey != actorKey {
		return ErrCrossOwner
	}
	return s.schedules.SetStatus(ctx, scheduleKey, status)
}

func (s *ScheduleService) DeleteSchedule(ctx context.Context, actorKey, scheduleKey string) error {
	existing, err := s.schedules.GetByKey(ctx, scheduleKey)
	if err != nil {
		return err
	}
	if existing.PatientKey != actorKey {
		return ErrCrossOwner
	}

	if err := s.schedules.Delete(ctx, scheduleKey); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserKey:      actorKey,
		UserRole:     string(domain.RolePatient),
		Action:       "delete",
		ResourceType: "schedule",
		ResourceKey:  scheduleKey,
	})

	return nil
}
