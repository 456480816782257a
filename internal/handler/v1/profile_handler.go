package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medremind/medremind/internal/domain/profile"
	"github.com/medremind/medremind/internal/service"
	"github.com/medremind/medremind/pkg/keys"
)

type ProfileHandler struct {
	profiles *service.ProfileService
	log      *zap.Logger
}

func NewProfileHandler(profiles *service.ProfileService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, log: log}
}

// upsertProfileRequest mirrors the partial-update command: absent fields keep
// their stored values.
type upsertProfileRequest struct {
	FullName        *string `json:"full_name"`
	Mobile          *string `json:"mobile"`
	AltMobile       *string `json:"alt_mobile"`
	Email           *string `json:"email"`
	EmergencyName   *string `json:"emergency_name"`
	EmergencyNumber *string `json:"emergency_number"`

	Address     *string `json:"address"`
	City        *string `json:"city"`
	Pincode     *string `json:"pincode"`
	State       *string `json:"state"`
	Nationality *string `json:"nationality"`

	Gender        *string    `json:"gender"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	MaritalStatus *string    `json:"marital_status"`
	BloodGroup    *string    `json:"blood_group"`

	PhotoPath *string `json:"photo_path"`

	Specialization  *string   `json:"specialization"`
	ConsultationFee *float64  `json:"consultation_fee"`
	Experience      *int      `json:"experience"`
	HospitalClinic  *string   `json:"hospital_clinic"`
	LicenseNumber   *string   `json:"license_number"`
	Qualification   *string   `json:"qualification"`
	Availability    *[]string `json:"availability"`
	CertificatePath *string   `json:"certificate_path"`
	LicensePath     *string   `json:"license_path"`

	Relationship     *string `json:"relationship"`
	ConnectedPatient *string `json:"connected_patient"`
}

func (h *ProfileHandler) Upsert(c *gin.Context) {
	var req upsertProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &profile.UpsertProfileCommand{
		FullName:        req.FullName,
		Mobile:          req.Mobile,
		AltMobile:       req.AltMobile,
		Email:           req.Email,
		EmergencyName:   req.EmergencyName,
		EmergencyNumber: req.EmergencyNumber,
		Address:         req.Address,
		City:            req.City,
		Pincode:         req.Pincode,
		State:           req.State,
		Nationality:     req.Nationality,
		Gender:          req.Gender,
		DateOfBirth:     req.DateOfBirth,
		MaritalStatus:   req.MaritalStatus,
		BloodGroup:      req.BloodGroup,
		PhotoPath:       req.PhotoPath,
		Specialization:  req.Specialization,
		ConsultationFee: req.ConsultationFee,
		Experience:      req.Experience,
		HospitalClinic:  req.HospitalClinic,
		LicenseNumber:   req.LicenseNumber,
		Qualification:   req.Qualification,
		Availability:    req.Availability,
		CertificatePath: req.CertificatePath,
		LicensePath:     req.LicensePath,

		Relationship:     req.Relationship,
		ConnectedPatient: req.ConnectedPatient,
	}

	p, err := h.profiles.Upsert(c.Request.Context(), actorKey(c), cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

func (h *ProfileHandler) Me(c *gin.Context) {
	p, err := h.profiles.Get(c.Request.Context(), actorKey(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

// GetDoctor exposes a doctor's public profile to patients choosing one.
func (h *ProfileHandler) GetDoctor(c *gin.Context) {
	key, ok := paramKey(c, "doctor_key", keys.Doctor)
	if !ok {
		return
	}
	p, err := h.profiles.Get(c.Request.Context(), key)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}
