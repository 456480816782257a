package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/medremind/medremind/internal/domain/document"
	"github.com/medremind/medremind/pkg/keys"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

var _ document.Repository = (*DocumentRepository)(nil)

func (r *DocumentRepository) CreatePrescription(ctx context.Context, p *document.Prescription) error {
	return translate(createWithKey(r.db.WithContext(ctx), keys.Prescription,
		func(k string) { p.PrescriptionKey = k }, p), document.ErrPrescriptionNotFound)
}

func (r *DocumentRepository) GetPrescription(ctx context.Context, prescriptionKey string) (*document.Prescription, error) {
	var p document.Prescription
	err := r.db.WithContext(ctx).First(&p, "prescription_key = ?", prescriptionKey).Error
	if err != nil {
		return nil, translate(err, document.ErrPrescriptionNotFound)
	}
	return &p, nil
}

func (r *DocumentRepository) ListPrescriptionsByPatient(ctx context.Context, patientKey string) ([]*document.Prescription, error) {
	var out []*document.Prescription
	err := r.db.WithContext(ctx).
		Where("patient_key = ?", patientKey).
		Order("uploaded_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err, document.ErrPrescriptionNotFound)
	}
	return out, nil
}

func (r *DocumentRepository) ListPrescriptionsByDoctor(ctx context.Context, doctorKey string) ([]*document.Prescription, error) {
	var out []*document.Prescription
	err := r.db.WithContext(ctx).
		Where("doctor_key = ?", doctorKey).
		Order("uploaded_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err, document.ErrPrescriptionNotFound)
	}
	return out, nil
}

func (r *DocumentRepository) DeletePrescription(ctx context.Context, prescriptionKey string) error {
	res := r.db.WithContext(ctx).Delete(&document.Prescription{}, "prescription_key = ?", prescriptionKey)
	if res.Error != nil {
		return translate(res.Error, document.ErrPrescriptionNotFound)
	}
	if res.RowsAffected == 0 {
		return document.ErrPrescriptionNotFound
	}
	return nil
}

func (r *DocumentRepository) CreateTest(ctx context.Context, t *document.MedicalTest) error {
	return translate(createWithKey(r.db.WithContext(ctx), keys.MedicalTest,
		func(k string) { t.TestKey = k }, t), document.ErrTestNotFound)
}

func (r *DocumentRepository) GetTest(ctx context.Context, testKey string) (*document.MedicalTest, error) {
	var t document.MedicalTest
	err := r.db.WithContext(ctx).First(&t, "test_key = ?", testKey).Error
	if err != nil {
		return nil, translate(err, document.ErrTestNotFound)
	}
	return &t, nil
}

func (r *DocumentRepository) ListTestsByPatient(ctx context.Context, patientKey string) ([]*document.MedicalTest, error) {
	var out []*document.MedicalTest
	err := r.db.WithContext(ctx).
		Where("patient_key = ?", patientKey).
		Order("uploaded_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err, document.ErrTestNotFound)
	}
	return out, nil
}

func (r *DocumentRepository) ListTestsByDoctor(ctx context.Context, doctorKey string) ([]*document.MedicalTest, error) {
	var out []*document.MedicalTest
	err := r.db.WithContext(ctx).
		Where("doctor_key = ?", doctorKey).
		Order("uploaded_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err, document.ErrTestNotFound)
	}
	return out, nil
}

func (r *DocumentRepository) DeleteTest(ctx context.Context, testKey string) error {
	res := r.db.WithContext(ctx).Delete(&document.MedicalTest{}, "test_key = ?", testKey)
	if res.Error != nil {
		return translate(res.Error, document.ErrTestNotFound)
	}
	if res.RowsAffected == 0 {
		return document.ErrTestNotFound
	}
	return nil
}
