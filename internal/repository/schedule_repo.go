package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medremind/medremind/internal/domain/medicine"
	"github.com/medremind/medremind/internal/domain/schedule"
	"github.com/medremind/medremind/pkg/keys"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

var _ schedule.Repository = (*ScheduleRepository)(nil)

func (r *ScheduleRepository) Create(ctx context.Context, s *schedule.Schedule) error {
	return translate(createWithKey(r.db.WithContext(ctx), keys.Schedule,
		func(k string) { s.ScheduleKey = k }, s), schedule.ErrNotFound)
}

func (r *ScheduleRepository) GetByKey(ctx context.Context, scheduleKey string) (*schedule.Schedule, error) {
	var s schedule.Schedule
	err := r.db.WithContext(ctx).First(&s, "schedule_key = ?", scheduleKey).Error
	if err != nil {
		return nil, translate(err, schedule.ErrNotFound)
	}
	return &s, nil
}

func (r *ScheduleRepository) ListByPatient(ctx context.Context, patientKey string) ([]*schedule.Schedule, error) {
	var out []*schedule.Schedule
	err := r.db.WithContext(ctx).
		Where("patient_key = ?", patientKey).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err, schedule.ErrNotFound)
	}
	return out, nil
}

// MarkTaken serializes on the schedule row, then on the medicine row, and
// moves both counters together. A dose taken with the stock already at zero
// still succeeds; the counters just stay at zero.
func (r *ScheduleRepository) MarkTaken(ctx context.Context, scheduleKey string, at time.Time) (*schedule.Schedule, error) {
	var out *schedule.Schedule
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s schedule.Schedule
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&s, "schedule_key = ?", scheduleKey).Error; err != nil {
			return translate(err, schedule.ErrNotFound)
		}
		if !s.IsActive() {
			return schedule.ErrNotActive
		}

		var m medicine.Medicine
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "medicine_key = ?", s.MedicineKey).Error; err != nil {
			return translate(err, medicine.ErrNotFound)
		}

		s.LastTaken = &at
		if s.RemainingQuantity > 0 {
			s.RemainingQuantity--
		}
		if m.Quantity > 0 {
			m.Quantity--
		}

		if err := tx.Model(&s).Updates(map[string]any{
			"last_taken":         s.LastTaken,
			"remaining_quantity": s.RemainingQuantity,
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&m).Update("quantity", m.Quantity).Error; err != nil {
			return err
		}
		out = &s
		return nil
	})
	if err != nil {
		return nil, translate(err, schedule.ErrNotFound)
	}
	return out, nil
}

func (r *ScheduleRepository) RegisterMissed(ctx context.Context, scheduleKey string) (*schedule.Schedule, error) {
	var out *schedule.Schedule
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s schedule.Schedule
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&s, "schedule_key = ?", scheduleKey).Error; err != nil {
			return translate(err, schedule.ErrNotFound)
		}
		s.MissedDoses++
		if err := tx.Model(&s).Update("missed_doses", s.MissedDoses).Error; err != nil {
			return err
		}
		out = &s
		return nil
	})
	if err != nil {
		return nil, translate(err, schedule.ErrNotFound)
	}
	return out, nil
}

func (r *ScheduleRepository) SetStatus(ctx context.Context, scheduleKey string, status schedule.Status) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s schedule.Schedule
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&s, "schedule_key = ?", scheduleKey).Error; err != nil {
			return translate(err, schedule.ErrNotFound)
		}
		return tx.Model(&s).Update("status", status).Error
	})
}

func (r *ScheduleRepository) Delete(ctx context.Context, scheduleKey string) error {
	res := r.db.WithContext(ctx).Delete(&schedule.Schedule{}, "schedule_key = ?", scheduleKey)
	if res.Error != nil {
		return translate(res.Error, schedule.ErrNotFound)
	}
	if res.RowsAffected == 0 {
		return schedule.ErrNotFound
	}
	return nil
}
