package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/medremind/medremind/internal/domain"
	"github.com/medremind/medremind/internal/domain/document"
	"github.com/medremind/medremind/internal/domain/user"
)

// DocumentService stores prescription and test metadata. Blob bytes are
// written by the upload collaborator before the call; only the path lands
// here.
type DocumentService struct {
	documents document.Repository
	users     user.Repository
	auditSvc  *AuditService
	log       *zap.Logger
}

func NewDocumentService(documents document.Repository, users user.Repository, auditSvc *AuditService, log *zap.Logger) *DocumentService {
	return &DocumentService{documents: documents, users: users, auditSvc: auditSvc, log: log}
}

func (s *DocumentService) checkParties(ctx context.Context, patientKey string, doctorKey *string) error {
	owner, err := s.users.GetByKey(ctx, patientKey)
	if err != nil {
		return err
	}
	if owner.Role != domain.RolePatient {
		return user.ErrNotFound
	}
	if doctorKey != nil && *doctorKey != "" {
		doc, err := s.users.GetByKey(ctx, *doctorKey)
		if err != nil {
			return err
		}
		if doc.Role != domain.RoleDoctor {
			return user.ErrInvalidRole
		}
	}
	return nil
}

func (s *DocumentService) AddPrescription(ctx context.Context, cmd *document.AddPrescriptionCommand) (*document.Prescription, error) {
	if strings.TrimSpace(cmd.FilePath) == "" {
		return nil, document.ErrMissingFilePath
	}
	if err := s.checkParties(ctx, cmd.PatientKey, cmd.DoctorKey); err != nil {
		return nil, err
	}

	p := &document.Prescription{
		PatientKey: cmd.PatientKey,
		DoctorKey:  cmd.DoctorKey,
		FilePath:   cmd.FilePath,
		Notes:      cmd.Notes,
	}
	if err := s.documents.CreatePrescription(ctx, p); err != nil {
		s.log.Error("failed to create prescription", zap.Error(err))
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserKey:      cmd.PatientKey,
		UserRole:     string(domain.RolePatient),
		Action:       "create",
		ResourceType: "prescription",
		ResourceKey:  p.PrescriptionKey,
	})

	return p, nil
}

func (s *DocumentService) ListPrescriptionsForPatient(ctx context.Context, patientKey string) ([]*document.Prescription, error) {
	return s.documents.ListPrescriptionsByPatient(ctx, patientKey)
}

func (s *DocumentService) ListPrescriptionsForDoctor(ctx context.Context, doctorKey string) ([]*document.Prescription, error) {
	return s.documents.ListPrescriptionsByDoctor(ctx, doctorKey)
}

func (s *DocumentService) DeletePrescription(ctx context.Context, actorKey, prescriptionKey string) error {
	p, err := s.documents.GetPrescription(ctx, prescriptionKey)
	if err != nil {
		return err
	}
	if p.PatientKey != actorKey {
		return ErrCrossOwner
	}
	return s.documents.DeletePrescription(ctx, prescriptionKey)
}

func (s *DocumentService) AddMedicalTest(ctx context.Context, cmd *document.AddMedicalTestCommand) (*document.MedicalTest, error) {
	if strings.TrimSpace(cmd.FilePath) == "" {
		return nil, document.ErrMissingFilePath
	}
	if strings.TrimSpace(cmd.TestType) == "" {
		return nil, &ValidationError{Fields: []string{"test_type is required"}}
	}
	if err := s.checkParties(ctx, cmd.PatientKey, cmd.DoctorKey); err != nil {
		return nil, err
	}

	t := &document.MedicalTest{
		PatientKey: cmd.PatientKey,
		DoctorKey:  cmd.DoctorKey,
		TestType:   cmd.TestType,
		FilePath:   cmd.FilePath,
		Notes:      cmd.Notes,
		OrderedAt:  cmd.OrderedAt,
	}
	if err := s.documents.CreateTest(ctx, t); err != nil {
		s.log.Error("failed to create medical test", zap.Error(err))
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserKey:      cmd.PatientKey,
		UserRole:     string(domain.RolePatient),
		Action:       "create",
		ResourceType: "medical_test",
		ResourceKey:  t.TestKey,
	})

	return t, nil
}

func (s *DocumentService) ListTestsForPatient(ctx context.Context, patientKey string) ([]*document.MedicalTest, error) {
	return s.documents.ListTestsByPatient(ctx, patientKey)
}

func (s *DocumentService) ListTestsForDoctor(ctx context.Context, doctorKey string) ([]*document.MedicalTest, error) {
	return s.documents.ListTestsByDoctor(ctx, doctorKey)
}

func (s *DocumentService) DeleteMedicalTest(ctx context.Context, actorKey, testKey string) error {
	t, err := s.documents.GetTest(ctx, testKey)
	if err != nil {
		return err
	}
	if t.PatientKey != actorKey {
		return ErrCrossOwner
	}
	return s.documents.DeleteTest(ctx, testKey)
}
