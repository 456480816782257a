package access

import "context"

type Repository interface {
	// CreateGuardianRequest fails with ErrDuplicateActiveRequest when a
	// pending or approved record already links the pair.
	CreateGuardianRequest(ctx context.Context, r *GuardianAccessRequest) error
	GetGuardianRequest(ctx context.Context, requestKey string) (*GuardianAccessRequest, error)
	ListGuardianRequestsForPatient(ctx context.Context, patientKey string) ([]*GuardianAccessRequest, error)
	ListGuardianRequestsForGuardian(ctx context.Context, guardianKey string) ([]*GuardianAccessRequest, error)

	// TransitionGuardianRequest locks the row and applies the move; illegal
	// or stale moves fail with ErrStateConflict.
	TransitionGuardianRequest(ctx context.Context, requestKey string, newState RequestState) (*GuardianAccessRequest, error)
	DeleteGuardianRequest(ctx context.Context, requestKey string) error

	// HasApprovedGuardianAccess reports whether guardian currently holds an
	// approved request for the patient.
	HasApprovedGuardianAccess(ctx context.Context, guardianKey, patientKey string) (bool, error)

	CreatePatientDoctorRequest(ctx context.Context, r *PatientDoctorRequest) error
	GetPatientDoctorRequest(ctx context.Context, requestKey string) (*PatientDoctorRequest, error)
	ListPatientDoctorRequestsForPatient(ctx context.Context, patientKey string) ([]*PatientDoctorRequest, error)
	ListPatientDoctorRequestsForDoctor(ctx context.Context, doctorKey string) ([]*PatientDoctorRequest, error)
	TransitionPatientDoctorRequest(ctx context.Context, requestKey string, newState RequestState) (*PatientDoctorRequest, error)
	DeletePatientDoctorRequest(ctx context.Context, requestKey string) error

	// IsConnected reports whether an approved patient-doctor request links
	// the pair.
	IsConnected(ctx context.Context, patientKey, doctorKey string) (bool, error)
}
