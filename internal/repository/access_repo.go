package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medremind/medremind/internal/domain/access"
	"github.com/medremind/medremind/pkg/keys"
)

type AccessRepository struct {
	db *gorm.DB
}

func NewAccessRepository(db *gorm.DB) *AccessRepository {
	return &AccessRepository{db: db}
}

var _ access.Repository = (*AccessRepository)(nil)

func (r *AccessRepository) CreateGuardianRequest(ctx context.Context, req *access.GuardianAccessRequest) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&access.GuardianAccessRequest{}).
			Where("guardian_key = ? AND patient_key = ? AND state IN ?",
				req.GuardianKey, req.PatientKey,
				[]access.RequestState{access.StatePending, access.StateApproved}).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return access.ErrDuplicateActiveRequest
		}
		return createWithKey(tx, keys.GuardianRequest,
			func(k string) { req.RequestKey = k }, req)
	})
	return translate(err, access.ErrNotFound)
}

func (r *AccessRepository) GetGuardianRequest(ctx context.Context, requestKey string) (*access.GuardianAccessRequest, error) {
	var req access.GuardianAccessRequest
	err := r.db.WithContext(ctx).First(&req, "request_key = ?", requestKey).Error
	if err != nil {
		return nil, translate(err, access.ErrNotFound)
	}
	return &req, nil
}

func (r *AccessRepository) ListGuardianRequestsForPatient(ctx context.Context, patientKey string) ([]*access.GuardianAccessRequest, error) {
	var out []*access.GuardianAccessRequest
	err := r.db.WithContext(ctx).
		Where("patient_key = ?", patientKey).
		Order("requested_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err, access.ErrNotFound)
	}
	return out, nil
}

func (r *AccessRepository) ListGuardianRequestsForGuardian(ctx context.Context, guardianKey string) ([]*access.GuardianAccessRequest, error) {
	var out []*access.GuardianAccessRequest
	err := r.db.WithContext(ctx).
		Where("guardian_key = ?", guardianKey).
		Order("requested_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err, access.ErrNotFound)
	}
	return out, nil
}

func (r *AccessRepository) TransitionGuardianRequest(ctx context.Context, requestKey string, newState access.RequestState) (*access.GuardianAccessRequest, error) {
	var out *access.GuardianAccessRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req access.GuardianAccessRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, "request_key = ?", requestKey).Error; err != nil {
			return translate(err, access.ErrNotFound)
		}
		if !req.CanTransitionTo(newState) {
			return access.ErrStateConflict
		}
		req.State = newState
		if err := tx.Model(&req).Update("state", req.State).Error; err != nil {
			return err
		}
		out = &req
		return nil
	})
	if err != nil {
		return nil, translate(err, access.ErrNotFound)
	}
	return out, nil
}

// DeleteGuardianRequest removes a terminal record entirely; pending requests
// must be decided first.
func (r *AccessRepository) DeleteGuardianRequest(ctx context.Context, requestKey string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req access.GuardianAccessRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, "request_key = ?", requestKey).Error; err != nil {
			return translate(err, access.ErrNotFound)
		}
		if !req.IsTerminal() {
			return access.ErrNotTerminal
		}
		return tx.Delete(&req).Error
	})
	return translate(err, access.ErrNotFound)
}

func (r *AccessRepository) HasApprovedGuardianAccess(ctx context.Context, guardianKey, patientKey string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&access.GuardianAccessRequest{}).
		Where("guardian_key = ? AND patient_key = ? AND state = ?",
			guardianKey, patientKey, access.StateApproved).
		Count(&count).Error
	if err != nil {
		return false, translate(err, access.ErrNotFound)
	}
	return count > 0, nil
}

func (r *AccessRepository) CreatePatientDoctorRequest(ctx context.Context, req *access.PatientDoctorRequest) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&access.PatientDoctorRequest{}).
			Where("patient_key = ? AND doctor_key = ? AND state IN ?",
				req.PatientKey, req.DoctorKey,
				[]access.RequestState{access.StatePending, access.StateApproved}).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return access.ErrDuplicateActiveRequest
		}
		return createWithKey(tx, keys.PatientDoctorRequest,
			func(k string) { req.RequestKey = k }, req)
	})
	return translate(err, access.ErrNotFound)
}

func (r *AccessRepository) GetPatientDoctorRequest(ctx context.Context, requestKey string) (*access.PatientDoctorRequest, error) {
	var req access.PatientDoctorRequest
	err := r.db.WithContext(ctx).First(&req, "request_key = ?", requestKey).Error
	if err != nil {
		return nil, translate(err, access.ErrNotFound)
	}
	return &req, nil
}

func (r *AccessRepository) ListPatientDoctorRequestsForPatient(ctx context.Context, patientKey string) ([]*access.PatientDoctorRequest, error) {
	var out []*access.PatientDoctorRequest
	err := r.db.WithContext(ctx).
		Where("patient_key = ?", patientKey).
		Order("requested_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err, access.ErrNotFound)
	}
	return out, nil
}

func (r *AccessRepository) ListPatientDoctorRequestsForDoctor(ctx context.Context, doctorKey string) ([]*access.PatientDoctorRequest, error) {
	var out []*access.PatientDoctorRequest
	err := r.db.WithContext(ctx).
		Where("doctor_key = ?", doctorKey).
		Order("requested_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err, access.ErrNotFound)
	}
	return out, nil
}

func (r *AccessRepository) TransitionPatientDoctorRequest(ctx context.Context, requestKey string, newState access.RequestState) (*access.PatientDoctorRequest, error) {
	var out *access.PatientDoctorRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req access.PatientDoctorRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, "request_key = ?", requestKey).Error; err != nil {
			return translate(err, access.ErrNotFound)
		}
		if !req.CanTransitionTo(newState) {
			return access.ErrStateConflict
		}
		req.State = newState
		if err := tx.Model(&req).Update("state", req.State).Error; err != nil {
			return err
		}
		out = &req
		return nil
	})
	if err != nil {
		return nil, translate(err, access.ErrNotFound)
	}
	return out, nil
}

func (r *AccessRepository) DeletePatientDoctorRequest(ctx context.Context, requestKey string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req access.PatientDoctorRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, "request_key = ?", requestKey).Error; err != nil {
			return translate(err, access.ErrNotFound)
		}
		if !req.IsTerminal() {
			return access.ErrNotTerminal
		}
		return tx.Delete(&req).Error
	})
	return translate(err, access.ErrNotFound)
}

func (r *AccessRepository) IsConnected(ctx context.Context, patientKey, doctorKey string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&access.PatientDoctorRequest{}).
		Where("patient_key = ? AND doctor_key = ? AND state = ?",
			patientKey, doctorKey, access.StateApproved).
		Count(&count).Error
	if err != nil {
		return false, translate(err, access.ErrNotFound)
	}
	return count > 0, nil
}
