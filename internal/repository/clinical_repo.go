package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medremind/medremind/internal/domain/clinical"
	"github.com/medremind/medremind/pkg/keys"
)

type QueryRepository struct {
	db *gorm.DB
}

func NewQueryRepository(db *gorm.DB) *QueryRepository {
	return &QueryRepository{db: db}
}

var _ clinical.QueryRepository = (*QueryRepository)(nil)

// CreateWithAppointment commits the query and its companion appointment (when
// the patient asked for one) in a single transaction, so a failure on either
// row leaves nothing behind.
func (r *QueryRepository) CreateWithAppointment(ctx context.Context, q *clinical.DoctorQuery, companion *clinical.Appointment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := createWithKey(tx, keys.DoctorQuery,
			func(k string) { q.QueryKey = k }, q); err != nil {
			return err
		}
		if companion != nil {
			return createWithKey(tx, keys.Appointment,
				func(k string) { companion.AppointmentKey = k }, companion)
		}
		return nil
	})
	return translate(err, clinical.ErrQueryNotFound)
}

func (r *QueryRepository) GetByKey(ctx context.Context, queryKey string) (*clinical.DoctorQuery, error) {
	var q clinical.DoctorQuery
	err := r.db.WithContext(ctx).First(&q, "query_key = ?", queryKey).Error
	if err != nil {
		return nil, translate(err, clinical.ErrQueryNotFound)
	}
	return &q, nil
}

func (r *QueryRepository) ListByPatient(ctx context.Context, patientKey string) ([]*clinical.DoctorQuery, error) {
	var out []*clinical.DoctorQuery
	err := r.db.WithContext(ctx).
		Where("patient_key = ?", patientKey).
		Order("submitted_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err, clinical.ErrQueryNotFound)
	}
	return out, nil
}

func (r *QueryRepository) ListByDoctor(ctx context.Context, doctorKey string) ([]*clinical.DoctorQuery, error) {
	var out []*clinical.DoctorQuery
	err := r.db.WithContext(ctx).
		Where("doctor_key = ?", doctorKey).
		Order("submitted_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err, clinical.ErrQueryNotFound)
	}
	return out, nil
}

func (r *QueryRepository) Respond(ctx context.Context, queryKey, doctorKey, response string, at time.Time) (*clinical.DoctorQuery, error) {
	var out *clinical.DoctorQuery
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var q clinical.DoctorQuery
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&q, "query_key = ?", queryKey).Error; err != nil {
			return translate(err, clinical.ErrQueryNotFound)
		}
		if q.DoctorKey == nil || *q.DoctorKey != doctorKey {
			return clinical.ErrNotAssigned
		}
		if err := q.Respond(response, at); err != nil {
			return err
		}
		if err := tx.Model(&q).Updates(map[string]any{
			"state":           q.State,
			"doctor_response": q.DoctorResponse,
			"responded_at":    q.RespondedAt,
		}).Error; err != nil {
			return err
		}
		out = &q
		return nil
	})
	if err != nil {
		return nil, translate(err, clinical.ErrQueryNotFound)
	}
	return out, nil
}

func (r *QueryRepository) Resolve(ctx context.Context, queryKey string, at time.Time) (*clinical.DoctorQuery, error) {
	var out *clinical.DoctorQuery
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var q clinical.DoctorQuery
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&q, "query_key = ?", queryKey).Error; err != nil {
			return translate(err, clinical.ErrQueryNotFound)
		}
		if err := q.Resolve(at); err != nil {
			return err
		}
		if err := tx.Model(&q).Updates(map[string]any{
			"state":       q.State,
			"resolved_at": q.ResolvedAt,
		}).Error; err != nil {
			return err
		}
		out = &q
		return nil
	})
	if err != nil {
		return nil, translate(err, clinical.ErrQueryNotFound)
	}
	return out, nil
}

func (r *QueryRepository) Cancel(ctx context.Context, queryKey string) (*clinical.DoctorQuery, error) {
	var out *clinical.DoctorQuery
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var q clinical.DoctorQuery
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&q, "query_key = ?", queryKey).Error; err != nil {
			return translate(err, clinical.ErrQueryNotFound)
		}
		if !q.CanTransitionTo(clinical.QueryCancelled) {
			return clinical.ErrStateConflict
		}
		q.State = clinical.QueryCancelled
		if err := tx.Model(&q).Update("state", q.State).Error; err != nil {
			return err
		}
		out = &q
		return nil
	})
	if err != nil {
		return nil, translate(err, clinical.ErrQueryNotFound)
	}
	return out, nil
}

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

var _ clinical.AppointmentRepository = (*AppointmentRepository)(nil)

func (r *AppointmentRepository) Create(ctx context.Context, a *clinical.Appointment) error {
	return translate(createWithKey(r.db.WithContext(ctx), keys.Appointment,
		func(k string) { a.AppointmentKey = k }, a), clinical.ErrAppointmentNotFound)
}

func (r *AppointmentRepository) GetByKey(ctx context.Context, appointmentKey string) (*clinical.Appointment, error) {
	var a clinical.Appointment
	err := r.db.WithContext(ctx).First(&a, "appointment_key = ?", appointmentKey).Error
	if err != nil {
		return nil, translate(err, clinical.ErrAppointmentNotFound)
	}
	return &a, nil
}

func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientKey string) ([]*clinical.Appointment, error) {
	var out []*clinical.Appointment
	err := r.db.WithContext(ctx).
		Where("patient_key = ?", patientKey).
		Order("appointment_date DESC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err, clinical.ErrAppointmentNotFound)
	}
	return out, nil
}

func (r *AppointmentRepository) ListByDoctor(ctx context.Context, doctorKey string) ([]*clinical.Appointment, error) {
	var out []*clinical.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_key = ?", doctorKey).
		Order("appointment_date DESC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err, clinical.ErrAppointmentNotFound)
	}
	return out, nil
}

// Transition serializes on the appointment row; a stale approve after a
// decline fails with ErrStateConflict rather than overwriting.
func (r *AppointmentRepository) Transition(ctx context.Context, appointmentKey string, newState clinical.AppointmentState) (*clinical.Appointment, error) {
	var out *clinical.Appointment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a clinical.Appointment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&a, "appointment_key = ?", appointmentKey).Error; err != nil {
			return translate(err, clinical.ErrAppointmentNotFound)
		}
		if !a.CanTransitionTo(newState) {
			return clinical.ErrStateConflict
		}
		a.State = newState
		if err := tx.Model(&a).Update("state", a.State).Error; err != nil {
			return err
		}
		out = &a
		return nil
	})
	if err != nil {
		return nil, translate(err, clinical.ErrAppointmentNotFound)
	}
	return out, nil
}

// Decline re-checks the requested state under the row lock; an approve that
// landed first wins and the decline fails with ErrStateConflict.
func (r *AppointmentRepository) Decline(ctx context.Context, appointmentKey string) (*clinical.Appointment, error) {
	var out *clinical.Appointment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a clinical.Appointment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&a, "appointment_key = ?", appointmentKey).Error; err != nil {
			return translate(err, clinical.ErrAppointmentNotFound)
		}
		if a.State != clinical.AppointmentRequested {
			return clinical.ErrStateConflict
		}
		a.State = clinical.AppointmentCancelled
		if err := tx.Model(&a).Update("state", a.State).Error; err != nil {
			return err
		}
		out = &a
		return nil
	})
	if err != nil {
		return nil, translate(err, clinical.ErrAppointmentNotFound)
	}
	return out, nil
}

func (r *AppointmentRepository) Reschedule(ctx context.Context, appointmentKey string, cmd *clinical.RescheduleCommand) (*clinical.Appointment, error) {
	var replacement *clinical.Appointment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old clinical.Appointment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&old, "appointment_key = ?", appointmentKey).Error; err != nil {
			return translate(err, clinical.ErrAppointmentNotFound)
		}
		if !old.CanTransitionTo(clinical.AppointmentRescheduled) {
			return clinical.ErrStateConflict
		}

		next := &clinical.Appointment{
			PatientKey:      old.PatientKey,
			DoctorKey:       old.DoctorKey,
			AppointmentDate: cmd.NewDate,
			AppointmentTime: cmd.NewTime,
			Modality:        old.Modality,
			State:           clinical.AppointmentScheduled,
			Notes:           old.Notes,
		}
		if err := createWithKey(tx, keys.Appointment,
			func(k string) { next.AppointmentKey = k }, next); err != nil {
			return err
		}

		old.State = clinical.AppointmentCancelled
		old.RescheduledTo = &next.AppointmentKey
		if err := tx.Model(&old).Updates(map[string]any{
			"state":          old.State,
			"rescheduled_to": old.RescheduledTo,
		}).Error; err != nil {
			return err
		}
		replacement = next
		return nil
	})
	if err != nil {
		return nil, translate(err, clinical.ErrAppointmentNotFound)
	}
	return replacement, nil
}
