package schedule

import (
	"time"
)

type MealRelation string

const (
	MealBeforeEating MealRelation = "Before Eating"
	MealAfterEating  MealRelation = "After Eating"
	MealWithFood     MealRelation = "With Food"
)

func (m MealRelation) IsValid() bool {
	switch m {
	case MealBeforeEating, MealAfterEating, MealWithFood:
		return true
	}
	return false
}

type Status string

const (
	StatusActive Status = "active"
	StatusPaused Status = "paused"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPaused:
		return true
	}
	return false
}

const (
	MinDosesPerDay = 1
	MaxDosesPerDay = 6
)

// ValidateDoseTimes checks the cardinality invariant (|times| == dosesPerDay,
// within the allowed range) and that every entry parses as an HH:MM
// time-of-day.
func ValidateDoseTimes(dosesPerDay int, times []string) error {
	if dosesPerDay < MinDosesPerDay || dosesPerDay > MaxDosesPerDay {
		return ErrInvalidCardinality
	}
	if len(times) != dosesPerDay {
		return ErrInvalidCardinality
	}
	for _, t := range times {
		if _, err := time.Parse("15:04", t); err != nil {
			return ErrInvalidDoseTime
		}
	}
	return nil
}

// Schedule is a recurring dosing plan for one medicine. RemainingQuantity is
// a schedule-local stock view; MarkTaken moves it in lockstep with the
// catalog quantity so the two only diverge through administrative catalog
// edits.
type Schedule struct {
	ScheduleKey string    `gorm:"column:schedule_key;type:varchar(16);primaryKey"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	PatientKey  string `gorm:"column:patient_key;type:varchar(16);not null;index"`
	MedicineKey string `gorm:"column:medicine_key;type:varchar(16);not null;index"`

	DosesPerDay  int          `gorm:"column:doses_per_day;not null"`
	Times        []string     `gorm:"column:times;serializer:json"`
	MealRelation MealRelation `gorm:"column:meal_relation;type:varchar(20);not null"`
	Precaution   string       `gorm:"column:precaution;type:text"`

	RemainingQuantity int        `gorm:"column:remaining_quantity;not null;check:remaining_quantity >= 0"`
	LastTaken         *time.Time `gorm:"column:last_taken"`
	NextDoseTime      *time.Time `gorm:"column:next_dose_time"`
	MissedDoses       int        `gorm:"column:missed_doses;not null;default:0"`

	Status Status `gorm:"column:status;type:varchar(10);not null;default:'active';index"`
}

func (Schedule) TableName() string {
	return "schedules"
}

func (s *Schedule) IsActive() bool {
	return s.Status == StatusActive
}

type CreateScheduleCommand struct {
	PatientKey   string
	MedicineKey  string
	DosesPerDay  int
	Times        []string
	MealRelation MealRelation
	Precaution   string
}
