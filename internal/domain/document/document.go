package document

import (
	"time"
)

// Prescription is an uploaded prescription artifact. The blob bytes are
// written by the upload collaborator; only the path is stored here.
type Prescription struct {
	PrescriptionKey string `gorm:"column:prescription_key;type:varchar(16);primaryKey"`

	PatientKey string  `gorm:"column:patient_key;type:varchar(16);not null;index"`
	DoctorKey  *string `gorm:"column:doctor_key;type:varchar(16);index"`

	FilePath   string    `gorm:"column:file_path;type:text;not null"`
	Notes      string    `gorm:"column:notes;type:text"`
	UploadedAt time.Time `gorm:"column:uploaded_at;autoCreateTime;index"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

// MedicalTest is an uploaded test result artifact, optionally ordered by a
// doctor.
type MedicalTest struct {
	TestKey string `gorm:"column:test_key;type:varchar(16);primaryKey"`

	PatientKey string  `gorm:"column:patient_key;type:varchar(16);not null;index"`
	DoctorKey  *string `gorm:"column:doctor_key;type:varchar(16);index"`

	TestType   string     `gorm:"column:test_type;type:varchar(100);not null"`
	FilePath   string     `gorm:"column:file_path;type:text;not null"`
	Notes      string     `gorm:"column:notes;type:text"`
	UploadedAt time.Time  `gorm:"column:uploaded_at;autoCreateTime;index"`
	OrderedAt  *time.Time `gorm:"column:ordered_at"`
}

func (MedicalTest) TableName() string {
	return "medical_tests"
}

type AddPrescriptionCommand struct {
	PatientKey string
	DoctorKey  *string
	FilePath   string
	Notes      string
}

type AddMedicalTestCommand struct {
	PatientKey string
	DoctorKey  *string
	TestType   string
	FilePath   string
	Notes      string
	OrderedAt  *time.Time
}
