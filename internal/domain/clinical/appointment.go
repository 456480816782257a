package clinical

import (
	"time"
)

type Modality string

const (
	ModalityVideoCall   Modality = "Video Call"
	ModalityClinicVisit Modality = "Clinic Visit"
)

func (m Modality) IsValid() bool {
	switch m {
	case ModalityVideoCall, ModalityClinicVisit:
		return true
	}
	return false
}

// State transitions:
//
//	requested → scheduled → completed
//	requested → cancelled
//	scheduled → cancelled
//	scheduled → rescheduled (the replacement row starts scheduled; the old
//	row moves to cancelled carrying a reference to the new one)
type AppointmentState string

const (
	AppointmentRequested   AppointmentState = "requested"
	AppointmentScheduled   AppointmentState = "scheduled"
	AppointmentCompleted   AppointmentState = "completed"
	AppointmentCancelled   AppointmentState = "cancelled"
	AppointmentRescheduled AppointmentState = "rescheduled"
)

type Appointment struct {
	AppointmentKey string    `gorm:"column:appointment_key;type:varchar(16);primaryKey"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`

	PatientKey string `gorm:"column:patient_key;type:varchar(16);not null;index"`
	DoctorKey  string `gorm:"column:doctor_key;type:varchar(16);not null;index"`

	AppointmentDate time.Time `gorm:"column:appointment_date;not null;index"`
	AppointmentTime string    `gorm:"column:appointment_time;type:varchar(5);not null"`
	Modality        Modality  `gorm:"column:modality;type:varchar(20);not null"`

	State AppointmentState `gorm:"column:state;type:varchar(20);not null;default:'requested';index"`
	Notes string           `gorm:"column:notes;type:text"`

	// Set on the cancelled row when a reschedule produced a replacement.
	RescheduledTo *string `gorm:"column:rescheduled_to;type:varchar(16)"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) CanTransitionTo(newState AppointmentState) bool {
	allowed := map[AppointmentState][]AppointmentState{
		AppointmentRequested:   {AppointmentScheduled, AppointmentCancelled},
		AppointmentScheduled:   {AppointmentCompleted, AppointmentCancelled, AppointmentRescheduled},
		AppointmentCompleted:   {},
		AppointmentCancelled:   {},
		AppointmentRescheduled: {},
	}
	for _, s := range allowed[a.State] {
		if s == newState {
			return true
		}
	}
	return false
}

// Approve moves requested → scheduled.
func (a *Appointment) Approve() error {
	if !a.CanTransitionTo(AppointmentScheduled) {
		return ErrStateConflict
	}
	a.State = AppointmentScheduled
	return nil
}

// Decline moves requested → cancelled.
func (a *Appointment) Decline() error {
	if a.State != AppointmentRequested || !a.CanTransitionTo(AppointmentCancelled) {
		return ErrStateConflict
	}
	a.State = AppointmentCancelled
	return nil
}

// Complete moves scheduled → completed.
func (a *Appointment) Complete() error {
	if !a.CanTransitionTo(AppointmentCompleted) {
		return ErrStateConflict
	}
	a.State = AppointmentCompleted
	return nil
}

type RequestAppointmentCommand struct {
	PatientKey      string
	DoctorKey       string
	AppointmentDate time.Time
	AppointmentTime string
	Modality        Modality
	Notes           string
}

type RescheduleCommand struct {
	NewDate time.Time
	NewTime string
}
