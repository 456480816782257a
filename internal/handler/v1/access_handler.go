package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medremind/medremind/internal/domain"
	"github.com/medremind/medremind/internal/domain/access"
	"github.com/medremind/medremind/internal/service"
	"github.com/medremind/medremind/pkg/keys"
)

type AccessHandler struct {
	access *service.AccessService
	log    *zap.Logger
}

func NewAccessHandler(accessSvc *service.AccessService, log *zap.Logger) *AccessHandler {
	return &AccessHandler{access: accessSvc, log: log}
}

type bindGuardianRequest struct {
	PatientKey   string `json:"patient_key" binding:"required"`
	GuardianName string `json:"guardian_name"`
	Relationship string `json:"relationship"`
	Mobile       string `json:"mobile"`
	Email        string `json:"email"`
}

func (h *AccessHandler) BindGuardian(c *gin.Context) {
	var req bindGuardianRequest
	if !bindJSON(c, &req) {
		return
	}

	r, err := h.access.BindGuardian(c.Request.Context(), &access.CreateGuardianRequestCommand{
		GuardianKey:  actorKey(c),
		PatientKey:   req.PatientKey,
		GuardianName: req.GuardianName,
		Relationship: req.Relationship,
		Mobile:       req.Mobile,
		Email:        req.Email,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, r)
}

type resolveRequest struct {
	State string `json:"state" binding:"required"`
}

func (h *AccessHandler) ResolveGuardianRequest(c *gin.Context) {
	key, ok := paramKey(c, "request_key", keys.GuardianRequest)
	if !ok {
		return
	}

	var req resolveRequest
	if !bindJSON(c, &req) {
		return
	}

	r, err := h.access.ResolveGuardianRequest(c.Request.Context(), actorKey(c), key, access.RequestState(req.State))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, r)
}

func (h *AccessHandler) DeleteGuardianRequest(c *gin.Context) {
	key, ok := paramKey(c, "request_key", keys.GuardianRequest)
	if !ok {
		return
	}

	if err := h.access.DeleteGuardianRequest(c.Request.Context(), actorKey(c), key); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AccessHandler) ListGuardianRequests(c *gin.Context) {
	if actorRole(c) == string(domain.RoleGuardian) {
		list, err := h.access.ListGuardianRequestsForGuardian(c.Request.Context(), actorKey(c))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondOK(c, list)
		return
	}

	list, err := h.access.ListGuardianRequestsForPatient(c.Request.Context(), actorKey(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

type requestDoctorRequest struct {
	DoctorKey string `json:"doctor_key" binding:"required"`
}

func (h *AccessHandler) RequestDoctor(c *gin.Context) {
	var req requestDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	r, err := h.access.RequestDoctor(c.Request.Context(), actorKey(c), req.DoctorKey)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, r)
}

func (h *AccessHandler) ResolvePatientDoctorRequest(c *gin.Context) {
	key, ok := paramKey(c, "request_key", keys.PatientDoctorRequest)
	if !ok {
		return
	}

	var req resolveRequest
	if !bindJSON(c, &req) {
		return
	}

	r, err := h.access.ResolvePatientDoctorRequest(c.Request.Context(), actorKey(c), key, access.RequestState(req.State))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, r)
}

func (h *AccessHandler) DeletePatientDoctorRequest(c *gin.Context) {
	key, ok := paramKey(c, "request_key", keys.PatientDoctorRequest)
	if !ok {
		return
	}

	if err := h.access.DeletePatientDoctorRequest(c.Request.Context(), actorKey(c), key); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AccessHandler) ListPatientDoctorRequests(c *gin.Context) {
	if actorRole(c) == string(domain.RoleDoctor) {
		list, err := h.access.ListPatientDoctorRequestsForDoctor(c.Request.Context(), actorKey(c))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondOK(c, list)
		return
	}

	list, err := h.access.ListPatientDoctorRequestsForPatient(c.Request.Context(), actorKey(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

// Guardian read-only views over a connected patient's data.

func (h *AccessHandler) GuardianPatientMedicines(c *gin.Context) {
	patientKey, ok := paramKey(c, "patient_key", keys.Patient)
	if !ok {
		return
	}

	list, err := h.access.ListMedicinesForGuardian(c.Request.Context(), actorKey(c), patientKey)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *AccessHandler) GuardianPatientSchedules(c *gin.Context) {
	patientKey, ok := paramKey(c, "patient_key", keys.Patient)
	if !ok {
		return
	}

	list, err := h.access.ListSchedulesForGuardian(c.Request.Context(), actorKey(c), patientKey)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}
