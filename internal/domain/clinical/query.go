package clinical

import (
	"time"
)

type AppointmentIntent string

const (
	IntentNone        AppointmentIntent = "No Appointment"
	IntentVideoCall   AppointmentIntent = "Video Call"
	IntentClinicVisit AppointmentIntent = "Clinic Visit"
)

func (i AppointmentIntent) IsValid() bool {
	switch i {
	case IntentNone, IntentVideoCall, IntentClinicVisit:
		return true
	}
	return false
}

// State transitions:
//
//	pending → answered → resolved
//	pending → resolved
//	pending → cancelled
type QueryState string

const (
	QueryPending   QueryState = "pending"
	QueryAnswered  QueryState = "answered"
	QueryResolved  QueryState = "resolved"
	QueryCancelled QueryState = "cancelled"
)

type DoctorQuery struct {
	QueryKey    string    `gorm:"column:query_key;type:varchar(16);primaryKey"`
	SubmittedAt time.Time `gorm:"column:submitted_at;autoCreateTime;index"`

	PatientKey string  `gorm:"column:patient_key;type:varchar(16);not null;index"`
	DoctorKey  *string `gorm:"column:doctor_key;type:varchar(16);index"`

	Question          string            `gorm:"column:question;type:text;not null"`
	AppointmentIntent AppointmentIntent `gorm:"column:appointment_intent;type:varchar(20);not null;default:'No Appointment'"`
	PreferredDate     *time.Time        `gorm:"column:preferred_date"`
	PreferredTime     string            `gorm:"column:preferred_time;type:varchar(5)"`

	State          QueryState `gorm:"column:state;type:varchar(20);not null;default:'pending';index"`
	DoctorResponse *string    `gorm:"column:doctor_response;type:text"`
	RespondedAt    *time.Time `gorm:"column:responded_at"`
	ResolvedAt     *time.Time `gorm:"column:resolved_at"`
}

func (DoctorQuery) TableName() string {
	return "doctor_queries"
}

func (q *DoctorQuery) CanTransitionTo(newState QueryState) bool {
	allowed := map[QueryState][]QueryState{
		QueryPending:   {QueryAnswered, QueryResolved, QueryCancelled},
		QueryAnswered:  {QueryResolved},
		QueryResolved:  {},
		QueryCancelled: {},
	}
	for _, s := range allowed[q.State] {
		if s == newState {
			return true
		}
	}
	return false
}

// Respond applies the doctor's answer, moving pending → answered.
func (q *DoctorQuery) Respond(response string, at time.Time) error {
	if !q.CanTransitionTo(QueryAnswered) {
		return ErrStateConflict
	}
	q.State = QueryAnswered
	q.DoctorResponse = &response
	q.RespondedAt = &at
	return nil
}

// Resolve closes the query from pending or answered.
func (q *DoctorQuery) Resolve(at time.Time) error {
	if !q.CanTransitionTo(QueryResolved) {
		return ErrStateConflict
	}
	q.State = QueryResolved
	q.ResolvedAt = &at
	return nil
}

type SubmitQueryCommand struct {
	PatientKey        string
	DoctorKey         string
	Question          string
	AppointmentIntent AppointmentIntent
	PreferredDate     *time.Time
	PreferredTime     string
}
