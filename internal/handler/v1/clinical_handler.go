package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medremind/medremind/internal/domain"
	"github.com/medremind/medremind/internal/domain/clinical"
	"github.com/medremind/medremind/internal/service"
	"github.com/medremind/medremind/pkg/keys"
)

type ClinicalHandler struct {
	clinical *service.ClinicalService
	log      *zap.Logger
}

func NewClinicalHandler(clinical *service.ClinicalService, log *zap.Logger) *ClinicalHandler {
	return &ClinicalHandler{clinical: clinical, log: log}
}

type submitQueryRequest struct {
	DoctorKey         string     `json:"doctor_key" binding:"required"`
	Question          string     `json:"question" binding:"required"`
	AppointmentIntent string     `json:"appointment_intent"`
	PreferredDate     *time.Time `json:"preferred_date"`
	PreferredTime     string     `json:"preferred_time"`
}

type submitQueryResponse struct {
	Query       *clinical.DoctorQuery `json:"query"`
	Appointment *clinical.Appointment `json:"appointment,omitempty"`
}

func (h *ClinicalHandler) SubmitQuery(c *gin.Context) {
	var req submitQueryRequest
	if !bindJSON(c, &req) {
		return
	}

	intent := clinical.AppointmentIntent(req.AppointmentIntent)
	if req.AppointmentIntent == "" {
		intent = clinical.IntentNone
	}

	q, apt, err := h.clinical.SubmitQuery(c.Request.Context(), &clinical.SubmitQueryCommand{
		PatientKey:        actorKey(c),
		DoctorKey:         req.DoctorKey,
		Question:          req.Question,
		AppointmentIntent: intent,
		PreferredDate:     req.PreferredDate,
		PreferredTime:     req.PreferredTime,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, submitQueryResponse{Query: q, Appointment: apt})
}

func (h *ClinicalHandler) ListQueries(c *gin.Context) {
	if actorRole(c) == string(domain.RoleDoctor) {
		list, err := h.clinical.ListQueriesForDoctor(c.Request.Context(), actorKey(c))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondOK(c, list)
		return
	}

	list, err := h.clinical.ListQueriesForPatient(c.Request.Context(), actorKey(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

type respondQueryRequest struct {
	Response string `json:"response" binding:"required"`
}

func (h *ClinicalHandler) RespondToQuery(c *gin.Context) {
	key, ok := paramKey(c, "query_key", keys.DoctorQuery)
	if !ok {
		return
	}

	var req respondQueryRequest
	if !bindJSON(c, &req) {
		return
	}

	q, err := h.clinical.RespondToQuery(c.Request.Context(), key, actorKey(c), req.Response)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, q)
}

func (h *ClinicalHandler) ResolveQuery(c *gin.Context) {
	key, ok := paramKey(c, "query_key", keys.DoctorQuery)
	if !ok {
		return
	}

	q, err := h.clinical.ResolveQuery(c.Request.Context(), key, actorKey(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, q)
}

func (h *ClinicalHandler) CancelQuery(c *gin.Context) {
	key, ok := paramKey(c, "query_key", keys.DoctorQuery)
	if !ok {
		return
	}

	q, err := h.clinical.CancelQuery(c.Request.Context(), key, actorKey(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, q)
}

type requestAppointmentRequest struct {
	DoctorKey       string    `json:"doctor_key" binding:"required"`
	AppointmentDate time.Time `json:"appointment_date" binding:"required"`
	AppointmentTime string    `json:"appointment_time" binding:"required"`
	Modality        string    `json:"modality" binding:"required"`
	Notes           string    `json:"notes"`
}

func (h *ClinicalHandler) RequestAppointment(c *gin.Context) {
	var req requestAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.clinical.RequestAppointment(c.Request.Context(), &clinical.RequestAppointmentCommand{
		PatientKey:      actorKey(c),
		DoctorKey:       req.DoctorKey,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Modality:        clinical.Modality(req.Modality),
		Notes:           req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, a)
}

func (h *ClinicalHandler) ListAppointments(c *gin.Context) {
	if actorRole(c) == string(domain.RoleDoctor) {
		list, err := h.clinical.ListAppointmentsForDoctor(c.Request.Context(), actorKey(c))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondOK(c, list)
		return
	}

	list, err := h.clinical.ListAppointmentsForPatient(c.Request.Context(), actorKey(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *ClinicalHandler) ApproveAppointment(c *gin.Context) {
	key, ok := paramKey(c, "appointment_key", keys.Appointment)
	if !ok {
		return
	}

	a, err := h.clinical.ApproveAppointment(c.Request.Context(), key, actorKey(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

func (h *ClinicalHandler) DeclineAppointment(c *gin.Context) {
	key, ok := paramKey(c, "appointment_key", keys.Appointment)
	if !ok {
		return
	}

	a, err := h.clinical.DeclineAppointment(c.Request.Context(), key, actorKey(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

func (h *ClinicalHandler) CompleteAppointment(c *gin.Context) {
	key, ok := paramKey(c, "appointment_key", keys.Appointment)
	if !ok {
		return
	}

	a, err := h.clinical.CompleteAppointment(c.Request.Context(), key, actorKey(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

func (h *ClinicalHandler) CancelAppointment(c *gin.Context) {
	key, ok := paramKey(c, "appointment_key", keys.Appointment)
	if !ok {
		return
	}

	a, err := h.clinical.CancelAppointment(c.Request.Context(), key, actorKey(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

type rescheduleRequest struct {
	NewDate time.Time `json:"new_date" binding:"required"`
	NewTime string    `json:"new_time" binding:"required"`
}

func (h *ClinicalHandler) RescheduleAppointment(c *gin.Context) {
	key, ok := paramKey(c, "appointment_key", keys.Appointment)
	if !ok {
		return
	}

	var req rescheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.clinical.Reschedule(c.Request.Context(), key, actorKey(c), req.NewDate, req.NewTime)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}
