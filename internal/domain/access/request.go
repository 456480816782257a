package access

import (
	"time"
)

// RequestState is shared by both request kinds.
//
// PatientDoctorRequest: pending → approved | denied, both terminal.
// GuardianAccessRequest additionally allows approved → denied (revocation).
type RequestState string

const (
	StatePending  RequestState = "pending"
	StateApproved RequestState = "approved"
	StateDenied   RequestState = "denied"
)

func (s RequestState) IsValid() bool {
	switch s {
	case StatePending, StateApproved, StateDenied:
		return true
	}
	return false
}

// GuardianAccessRequest is initiated by a guardian at signup and approved by
// the patient. An approved record grants the guardian read-only visibility
// over the patient's medicines, schedules, and missed-dose counters.
type GuardianAccessRequest struct {
	RequestKey  string    `gorm:"column:request_key;type:varchar(16);primaryKey"`
	RequestedAt time.Time `gorm:"column:requested_at;autoCreateTime;index"`

	PatientKey  string `gorm:"column:patient_key;type:varchar(16);not null;index"`
	GuardianKey string `gorm:"column:guardian_key;type:varchar(16);not null;index"`

	// Snapshot of the guardian's details at request time, so the patient can
	// judge the request even before the guardian completes a profile.
	GuardianName string `gorm:"column:guardian_name;type:varchar(200)"`
	Relationship string `gorm:"column:relationship;type:varchar(50)"`
	Mobile       string `gorm:"column:mobile;type:varchar(20)"`
	Email        string `gorm:"column:email;type:varchar(255)"`

	State RequestState `gorm:"column:state;type:varchar(10);not null;default:'pending';index"`
}

func (GuardianAccessRequest) TableName() string {
	return "guardian_access_requests"
}

func (r *GuardianAccessRequest) CanTransitionTo(newState RequestState) bool {
	switch r.State {
	case StatePending:
		return newState == StateApproved || newState == StateDenied
	case StateApproved:
		// Revocation.
		return newState == StateDenied
	}
	return false
}

// IsTerminal reports whether either party may delete the record outright.
func (r *GuardianAccessRequest) IsTerminal() bool {
	return r.State == StateApproved || r.State == StateDenied
}

// PatientDoctorRequest is initiated by a patient and approved by the doctor.
// The approved record is the single source of truth that unlocks queries,
// appointments, and doctor-visible patient data.
type PatientDoctorRequest struct {
	RequestKey  string    `gorm:"column:request_key;type:varchar(16);primaryKey"`
	RequestedAt time.Time `gorm:"column:requested_at;autoCreateTime;index"`

	PatientKey string `gorm:"column:patient_key;type:varchar(16);not null;index"`
	DoctorKey  string `gorm:"column:doctor_key;type:varchar(16);not null;index"`

	State RequestState `gorm:"column:state;type:varchar(10);not null;default:'pending';index"`
}

func (PatientDoctorRequest) TableName() string {
	return "patient_doctor_requests"
}

func (r *PatientDoctorRequest) CanTransitionTo(newState RequestState) bool {
	return r.State == StatePending && (newState == StateApproved || newState == StateDenied)
}

func (r *PatientDoctorRequest) IsTerminal() bool {
	return r.State == StateApproved || r.State == StateDenied
}

type CreateGuardianRequestCommand struct {
	GuardianKey  string
	PatientKey   string
	GuardianName string
	Relationship string
	Mobile       string
	Email        string
}
