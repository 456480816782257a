package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medremind/medremind/internal/domain/medicine"
	"github.com/medremind/medremind/pkg/keys"
)

type MedicineRepository struct {
	db *gorm.DB
}

func NewMedicineRepository(db *gorm.DB) *MedicineRepository {
	return &MedicineRepository{db: db}
}

var _ medicine.Repository = (*MedicineRepository)(nil)

func (r *MedicineRepository) Create(ctx context.Context, m *medicine.Medicine) error {
	return translate(createWithKey(r.db.WithContext(ctx), keys.Medicine,
		func(k string) { m.MedicineKey = k }, m), medicine.ErrNotFound)
}

func (r *MedicineRepository) GetByKey(ctx context.Context, medicineKey string) (*medicine.Medicine, error) {
	var m medicine.Medicine
	err := r.db.WithContext(ctx).First(&m, "medicine_key = ?", medicineKey).Error
	if err != nil {
		return nil, translate(err, medicine.ErrNotFound)
	}
	return &m, nil
}

func (r *MedicineRepository) ListByPatient(ctx context.Context, patientKey string, q *medicine.ListMedicinesQuery) ([]*medicine.Medicine, error) {
	tx := r.db.WithContext(ctx).Where("patient_key = ?", patientKey)

	if q != nil {
		if q.Category != nil {
			tx = tx.Where("category = ?", *q.Category)
		}
		if s := strings.TrimSpace(q.Search); s != "" {
			pattern := "%" + strings.ToLower(s) + "%"
			tx = tx.Where("LOWER(name) LIKE ? OR LOWER(purpose) LIKE ?", pattern, pattern)
		}
		if q.SortBy == medicine.SortByExpiry {
			tx = tx.Order("expiry_date ASC")
		} else {
			tx = tx.Order("name ASC")
		}
	} else {
		tx = tx.Order("name ASC")
	}

	var out []*medicine.Medicine
	if err := tx.Find(&out).Error; err != nil {
		return nil, translate(err, medicine.ErrNotFound)
	}
	return out, nil
}

// Delete removes the medicine; the schedule FK cascades its schedules.
func (r *MedicineRepository) Delete(ctx context.Context, medicineKey string) error {
	res := r.db.WithContext(ctx).Delete(&medicine.Medicine{}, "medicine_key = ?", medicineKey)
	if res.Error != nil {
		return translate(res.Error, medicine.ErrNotFound)
	}
	if res.RowsAffected == 0 {
		return medicine.ErrNotFound
	}
	return nil
}

func (r *MedicineRepository) DecrementQuantity(ctx context.Context, medicineKey string, n int) (int, error) {
	var remaining int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m medicine.Medicine
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "medicine_key = ?", medicineKey).Error; err != nil {
			return err
		}
		m.Quantity -= n
		if m.Quantity < 0 {
			m.Quantity = 0
		}
		remaining = m.Quantity
		return tx.Model(&m).Update("quantity", m.Quantity).Error
	})
	if err != nil {
		return 0, translate(err, medicine.ErrNotFound)
	}
	return remaining, nil
}
