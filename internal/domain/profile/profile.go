package profile

import (
	"strings"
	"time"
)

// Weekday short names used for doctor availability. Persisted as a JSON list
// in the order given here.
var weekdayOrder = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// NormalizeAvailability validates a set of weekday labels and returns them
// deduplicated in canonical week order.
func NormalizeAvailability(days []string) ([]string, error) {
	seen := make(map[string]bool, len(days))
	for _, d := range days {
		valid := false
		for _, w := range weekdayOrder {
			if d == w {
				valid = true
				break
			}
		}
		if !valid {
			return nil, ErrInvalidAvailability
		}
		seen[d] = true
	}
	out := make([]string, 0, len(seen))
	for _, w := range weekdayOrder {
		if seen[w] {
			out = append(out, w)
		}
	}
	return out, nil
}

// ValidateEmail applies the profile email rules: exactly one '@', a non-empty
// local part, and a domain that contains a dot but neither starts nor ends
// with one, with no consecutive dots.
func ValidateEmail(email string) error {
	at := strings.Count(email, "@")
	if at != 1 {
		return ErrInvalidEmail
	}
	parts := strings.SplitN(email, "@", 2)
	local, dom := parts[0], parts[1]
	if local == "" {
		return ErrInvalidEmail
	}
	if !strings.Contains(dom, ".") {
		return ErrInvalidEmail
	}
	if strings.HasPrefix(dom, ".") || strings.HasSuffix(dom, ".") {
		return ErrInvalidEmail
	}
	if strings.Contains(dom, "..") {
		return ErrInvalidEmail
	}
	return nil
}

type Profile struct {
	UserKey   string    `gorm:"column:user_key;type:varchar(16);primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	FullName string `gorm:"column:full_name;type:varchar(200)"`

	// Contact
	Mobile          string `gorm:"column:mobile;type:varchar(20)"`
	AltMobile       string `gorm:"column:alt_mobile;type:varchar(20)"`
	Email           string `gorm:"column:email;type:varchar(255)"`
	EmergencyName   string `gorm:"column:emergency_name;type:varchar(200)"`
	EmergencyNumber string `gorm:"column:emergency_number;type:varchar(20)"`

	// Postal
	Address     string `gorm:"column:address;type:text"`
	City        string `gorm:"column:city;type:varchar(100)"`
	Pincode     string `gorm:"column:pincode;type:varchar(10)"`
	State       string `gorm:"column:state;type:varchar(100)"`
	Nationality string `gorm:"column:nationality;type:varchar(100)"`

	// Demographic
	Gender        string     `gorm:"column:gender;type:varchar(20)"`
	DateOfBirth   *time.Time `gorm:"column:date_of_birth"`
	MaritalStatus string     `gorm:"column:marital_status;type:varchar(30)"`
	BloodGroup    string     `gorm:"column:blood_group;type:varchar(5)"`

	PhotoPath string `gorm:"column:photo_path;type:text"`

	// Doctor-only
	Specialization  string   `gorm:"column:specialization;type:varchar(100)"`
	ConsultationFee *float64 `gorm:"column:consultation_fee"`
	Experience      *int     `gorm:"column:experience"`
	HospitalClinic  string   `gorm:"column:hospital_clinic;type:varchar(200)"`
	LicenseNumber   string   `gorm:"column:license_number;type:varchar(100)"`
	Qualification   string   `gorm:"column:qualification;type:varchar(200)"`
	Availability    []string `gorm:"column:availability;serializer:json"`
	CertificatePath string   `gorm:"column:certificate_path;type:text"`
	LicensePath     string   `gorm:"column:license_path;type:text"`

	// Guardian-only
	Relationship     string `gorm:"column:relationship;type:varchar(50)"`
	ConnectedPatient string `gorm:"column:connected_patient;type:varchar(16);index"`
}

func (Profile) TableName() string {
	return "profiles"
}

// UpsertProfileCommand carries a partial profile update. Nil pointers leave
// the stored value untouched; non-nil pointers overwrite, including with the
// empty value.
type UpsertProfileCommand struct {
	FullName        *string
	Mobile          *string
	AltMobile       *string
	Email           *string
	EmergencyName   *string
	EmergencyNumber *string

	Address     *string
	City        *string
	Pincode     *string
	State       *string
	Nationality *string

	Gender        *string
	DateOfBirth   *time.Time
	MaritalStatus *string
	BloodGroup    *string

	PhotoPath *string

	Specialization  *string
	ConsultationFee *float64
	Experience      *int
	HospitalClinic  *string
	LicenseNumber   *string
	Qualification   *string
	Availability    *[]string
	CertificatePath *string
	LicensePath     *string

	Relationship     *string
	ConnectedPatient *string
}

// Apply merges the command into an existing profile record.
func (cmd *UpsertProfileCommand) Apply(p *Profile) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setStr(&p.FullName, cmd.FullName)
	setStr(&p.Mobile, cmd.Mobile)
	setStr(&p.AltMobile, cmd.AltMobile)
	setStr(&p.Email, cmd.Email)
	setStr(&p.EmergencyName, cmd.EmergencyName)
	setStr(&p.EmergencyNumber, cmd.EmergencyNumber)
	setStr(&p.Address, cmd.Address)
	setStr(&p.City, cmd.City)
	setStr(&p.Pincode, cmd.Pincode)
	setStr(&p.State, cmd.State)
	setStr(&p.Nationality, cmd.Nationality)
	setStr(&p.Gender, cmd.Gender)
	setStr(&p.MaritalStatus, cmd.MaritalStatus)
	setStr(&p.BloodGroup, cmd.BloodGroup)
	setStr(&p.PhotoPath, cmd.PhotoPath)
	setStr(&p.Specialization, cmd.Specialization)
	setStr(&p.HospitalClinic, cmd.HospitalClinic)
	setStr(&p.LicenseNumber, cmd.LicenseNumber)
	setStr(&p.Qualification, cmd.Qualification)
	setStr(&p.CertificatePath, cmd.CertificatePath)
	setStr(&p.LicensePath, cmd.LicensePath)
	setStr(&p.Relationship, cmd.Relationship)
	setStr(&p.ConnectedPatient, cmd.ConnectedPatient)

	if cmd.DateOfBirth != nil {
		p.DateOfBirth = cmd.DateOfBirth
	}
	if cmd.ConsultationFee != nil {
		p.ConsultationFee = cmd.ConsultationFee
	}
	if cmd.Experience != nil {
		p.Experience = cmd.Experience
	}
	if cmd.Availability != nil {
		p.Availability = *cmd.Availability
	}
}
