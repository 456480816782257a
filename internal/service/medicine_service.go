package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/medremind/medremind/internal/domain"
	"github.com/medremind/medremind/internal/domain/medicine"
	"github.com/medremind/medremind/internal/domain/user"
)

type MedicineService struct {
	medicines medicine.Repository
	users     user.Repository
	auditSvc  *AuditService
	log       *zap.Logger
}

func NewMedicineService(medicines medicine.Repository, users user.Repository, auditSvc *AuditService, log *zap.Logger) *MedicineService {
	return &MedicineService{medicines: medicines, users: users, auditSvc: auditSvc, log: log}
}

func (s *MedicineService) AddMedicine(ctx context.Context, cmd *medicine.CreateMedicineCommand) (*medicine.Medicine, error) {
	owner, err := s.users.GetByKey(ctx, cmd.PatientKey)
	if err != nil {
		return nil, err
	}
	if owner.Role != domain.RolePatient {
		return nil, user.ErrNotFound
	}

	if strings.TrimSpace(cmd.Name) == "" {
		return nil, &ValidationError{Fields: []string{"name is required"}}
	}
	if cmd.Quantity < 1 {
		return nil, medicine.ErrInvalidQuantity
	}
	m := &medicine.Medicine{
		PatientKey:   cmd.PatientKey,
		Name:         strings.TrimSpace(cmd.Name),
		Contents:     cmd.Contents,
		Quantity:     cmd.Quantity,
		ExpiryDate:   cmd.ExpiryDate,
		Purpose:      cmd.Purpose,
		Instructions: cmd.Instructions,
		IntakeTiming: cmd.IntakeTiming,
		Category:     cmd.Category,
		ImagePath:    cmd.ImagePath,
	}
	if m.Category == "" {
		m.Category = medicine.CategoryGeneral
	}
	if !m.IntakeTiming.IsValid() {
		return nil, medicine.ErrInvalidTiming
	}
	if !m.Category.IsValid() {
		return nil, medicine.ErrInvalidCategory
	}
	if m.IsExpired(time.Now()) {
		return nil, medicine.ErrInvalidExpiry
	}

	if err := s.medicines.Create(ctx, m); err != nil {
		s.log.Error("failed to create medicine", zap.Error(err))
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserKey:      cmd.PatientKey,
		UserRole:     string(domain.RolePatient),
		Action:       "create",
		ResourceType: "medicine",
		ResourceKey:  m.MedicineKey,
	})

	return m, nil
}

func (s *MedicineService) ListMedicines(ctx context.Context, patientKey string, q *medicine.ListMedicinesQuery) ([]*medicine.Medicine, error) {
	if q != nil && q.Category != nil && !q.Category.IsValid() {
		return nil, medicine.ErrInvalidCategory
	}
	return s.medicines.ListByPatient(ctx, patientKey, q)
}

func (s *MedicineService) GetMedicine(ctx context.Context, medicineKey string) (*medicine.Medicine, error) {
	return s.medicines.GetByKey(ctx, medicineKey)
}

// DeleteMedicine removes a medicine the actor owns; schedules cascade with it.
func (s *MedicineService) DeleteMedicine(ctx context.Context, actorKey, medicineKey string) error {
	m, err := s.medicines.GetByKey(ctx, medicineKey)
	if err != nil {
		return err
	}
	if m.PatientKey != actorKey {
		return ErrCrossOwner
	}

	if err := s.medicines.Delete(ctx, medicineKey); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserKey:      actorKey,
		UserRole:     string(domain.RolePatient),
		Action:       "delete",
		ResourceType: "medicine",
		ResourceKey:  medicineKey,
	})

	return nil
}

// DecrementQuantity is the administrative catalog adjustment; dose taking
// goes through the schedule engine instead.
func (s *MedicineService) DecrementQuantity(ctx context.Context, actorKey, medicineKey string, n int) (int, error) {
	if n < 1 {
		n = 1
	}
	m, err := s.medicines.GetByKey(ctx, medicineKey)
	if err != nil {
		return 0, err
	}
	if m.PatientKey != actorKey {
		return 0, ErrCrossOwner
	}
	return s.medicines.DecrementQuantity(ctx, medicineKey, n)
}
