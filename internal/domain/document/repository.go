package document

import "context"

// Repository covers both parallel sub-stores. Doctor deletion nulls
// doctor_key on surviving rows; patient deletion cascades them away.
type Repository interface {
	CreatePrescription(ctx context.Context, p *Prescription) error
	GetPrescription(ctx context.Context, prescriptionKey string) (*Prescription, error)
	ListPrescriptionsByPatient(ctx context.Context, patientKey string) ([]*Prescription, error)
	ListPrescriptionsByDoctor(ctx context.Context, doctorKey string) ([]*Prescription, error)
	DeletePrescription(ctx context.Context, prescriptionKey string) error

	CreateTest(ctx context.Context, t *MedicalTest) error
	GetTest(ctx context.Context, testKey string) (*MedicalTest, error)
	ListTestsByPatient(ctx context.Context, patientKey string) ([]*MedicalTest, error)
	ListTestsByDoctor(ctx context.Context, doctorKey string) ([]*MedicalTest, error)
	DeleteTest(ctx context.Context, testKey string) error
}
