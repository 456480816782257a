package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medremind/medremind/internal/domain"
	"github.com/medremind/medremind/internal/domain/document"
	"github.com/medremind/medremind/internal/service"
	"github.com/medremind/medremind/pkg/keys"
)

type DocumentHandler struct {
	documents *service.DocumentService
	log       *zap.Logger
}

func NewDocumentHandler(documents *service.DocumentService, log *zap.Logger) *DocumentHandler {
	return &DocumentHandler{documents: documents, log: log}
}

type addPrescriptionRequest struct {
	DoctorKey *string `json:"doctor_key"`
	FilePath  string  `json:"file_path" binding:"required"`
	Notes     string  `json:"notes"`
}

func (h *DocumentHandler) AddPrescription(c *gin.Context) {
	var req addPrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.documents.AddPrescription(c.Request.Context(), &document.AddPrescriptionCommand{
		PatientKey: actorKey(c),
		DoctorKey:  req.DoctorKey,
		FilePath:   req.FilePath,
		Notes:      req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, p)
}

func (h *DocumentHandler) ListPrescriptions(c *gin.Context) {
	if actorRole(c) == string(domain.RoleDoctor) {
		list, err := h.documents.ListPrescriptionsForDoctor(c.Request.Context(), actorKey(c))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondOK(c, list)
		return
	}

	list, err := h.documents.ListPrescriptionsForPatient(c.Request.Context(), actorKey(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *DocumentHandler) DeletePrescription(c *gin.Context) {
	key, ok := paramKey(c, "prescription_key", keys.Prescription)
	if !ok {
		return
	}

	if err := h.documents.DeletePrescription(c.Request.Context(), actorKey(c), key); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type addMedicalTestRequest struct {
	DoctorKey *string    `json:"doctor_key"`
	TestType  string     `json:"test_type" binding:"required"`
	FilePath  string     `json:"file_path" binding:"required"`
	Notes     string     `json:"notes"`
	OrderedAt *time.Time `json:"ordered_at"`
}

func (h *DocumentHandler) AddMedicalTest(c *gin.Context) {
	var req addMedicalTestRequest
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.documents.AddMedicalTest(c.Request.Context(), &document.AddMedicalTestCommand{
		PatientKey: actorKey(c),
		DoctorKey:  req.DoctorKey,
		TestType:   req.TestType,
		FilePath:   req.FilePath,
		Notes:      req.Notes,
		OrderedAt:  req.OrderedAt,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, t)
}

func (h *DocumentHandler) ListMedicalTests(c *gin.Context) {
	if actorRole(c) == string(domain.RoleDoctor) {
		list, err := h.documents.ListTestsForDoctor(c.Request.Context(), actorKey(c))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondOK(c, list)
		return
	}

	list, err := h.documents.ListTestsForPatient(c.Request.Context(), actorKey(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *DocumentHandler) DeleteMedicalTest(c *gin.Context) {
	key, ok := paramKey(c, "test_key", keys.MedicalTest)
	if !ok {
		return
	}

	if err := h.documents.DeleteMedicalTest(c.Request.Context(), actorKey(c), key); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
