package medicine

import (
	"time"
)

type IntakeTiming string

const (
	TimingBeforeFood IntakeTiming = "Before Food"
	TimingAfterFood  IntakeTiming = "After Food"
	TimingWithFood   IntakeTiming = "With Food"
)

func (t IntakeTiming) IsValid() bool {
	switch t {
	case TimingBeforeFood, TimingAfterFood, TimingWithFood:
		return true
	}
	return false
}

type Category string

const (
	CategoryGeneral    Category = "General"
	CategoryAntibiotic Category = "Antibiotic"
	CategoryPainkiller Category = "Painkiller"
	CategoryVitamin    Category = "Vitamin"
	CategoryOther      Category = "Other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryGeneral, CategoryAntibiotic, CategoryPainkiller, CategoryVitamin, CategoryOther:
		return true
	}
	return false
}

type Medicine struct {
	MedicineKey string    `gorm:"column:medicine_key;type:varchar(16);primaryKey"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	PatientKey string `gorm:"column:patient_key;type:varchar(16);not null;index"`

	Name         string       `gorm:"column:name;type:varchar(200);not null"`
	Contents     string       `gorm:"column:contents;type:text"`
	Quantity     int          `gorm:"column:quantity;not null;check:quantity >= 0"`
	ExpiryDate   time.Time    `gorm:"column:expiry_date;not null"`
	Purpose      string       `gorm:"column:purpose;type:text"`
	Instructions string       `gorm:"column:instructions;type:text"`
	IntakeTiming IntakeTiming `gorm:"column:intake_timing;type:varchar(20);not null"`
	Category     Category     `gorm:"column:category;type:varchar(20);not null;default:'General';index"`
	ImagePath    string       `gorm:"column:image_path;type:text"`
}

func (Medicine) TableName() string {
	return "medicines"
}

// IsExpired reports whether the medicine's expiry date has passed relative to
// the given calendar day.
func (m *Medicine) IsExpired(today time.Time) bool {
	y1, mo1, d1 := m.ExpiryDate.Date()
	y2, mo2, d2 := today.Date()
	expiry := time.Date(y1, mo1, d1, 0, 0, 0, 0, time.UTC)
	day := time.Date(y2, mo2, d2, 0, 0, 0, 0, time.UTC)
	return expiry.Before(day)
}

type CreateMedicineCommand struct {
	PatientKey   string
	Name         string
	Contents     string
	Quantity     int
	ExpiryDate   time.Time
	Purpose      string
	Instructions string
	IntakeTiming IntakeTiming
	Category     Category
	ImagePath    string
}

type SortBy string

const (
	SortByName   SortBy = "name"
	SortByExpiry SortBy = "expiry"
)

// ListMedicinesQuery filters a patient's catalog. Search matches name or
// purpose case-insensitively as a substring.
type ListMedicinesQuery struct {
	Category *Category
	Search   string
	SortBy   SortBy
}
