package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medremind/medremind/internal/domain/medicine"
	"github.com/medremind/medremind/internal/service"
	"github.com/medremind/medremind/pkg/keys"
)

type MedicineHandler struct {
	medicines *service.MedicineService
	log       *zap.Logger
}

func NewMedicineHandler(medicines *service.MedicineService, log *zap.Logger) *MedicineHandler {
	return &MedicineHandler{medicines: medicines, log: log}
}

type addMedicineRequest struct {
	Name         string    `json:"name" binding:"required"`
	Contents     string    `json:"contents"`
	Quantity     int       `json:"quantity" binding:"required"`
	ExpiryDate   time.Time `json:"expiry_date" binding:"required"`
	Purpose      string    `json:"purpose"`
	Instructions string    `json:"instructions"`
	IntakeTiming string    `json:"intake_timing" binding:"required"`
	Category     string    `json:"category"`
	ImagePath    string    `json:"image_path"`
}

func (h *MedicineHandler) Add(c *gin.Context) {
	var req addMedicineRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.medicines.AddMedicine(c.Request.Context(), &medicine.CreateMedicineCommand{
		PatientKey:   actorKey(c),
		Name:         req.Name,
		Contents:     req.Contents,
		Quantity:     req.Quantity,
		ExpiryDate:   req.ExpiryDate,
		Purpose:      req.Purpose,
		Instructions: req.Instructions,
		IntakeTiming: medicine.IntakeTiming(req.IntakeTiming),
		Category:     medicine.Category(req.Category),
		ImagePath:    req.ImagePath,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, m)
}

func (h *MedicineHandler) List(c *gin.Context) {
	q := &medicine.ListMedicinesQuery{
		Search: c.Query("search"),
		SortBy: medicine.SortBy(c.DefaultQuery("sort_by", string(medicine.SortByName))),
	}
	if raw := c.Query("category"); raw != "" {
		cat := medicine.Category(raw)
		q.Category = &cat
	}

	list, err := h.medicines.ListMedicines(c.Request.Context(), actorKey(c), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, list)
}

func (h *MedicineHandler) Get(c *gin.Context) {
	key, ok := paramKey(c, "medicine_key", keys.Medicine)
	if !ok {
		return
	}

	m, err := h.medicines.GetMedicine(c.Request.Context(), key)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if m.PatientKey != actorKey(c) {
		respondError(c, http.StatusForbidden, "access denied")
		return
	}

	respondOK(c, m)
}

func (h *MedicineHandler) Delete(c *gin.Context) {
	key, ok := paramKey(c, "medicine_key", keys.Medicine)
	if !ok {
		return
	}

	if err := h.medicines.DeleteMedicine(c.Request.Context(), actorKey(c), key); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type decrementRequest struct {
	Count int `json:"count"`
}

func (h *MedicineHandler) Decrement(c *gin.Context) {
	key, ok := paramKey(c, "medicine_key", keys.Medicine)
	if !ok {
		return
	}

	var req decrementRequest
	if !bindJSON(c, &req) {
		return
	}

	remaining, err := h.medicines.DecrementQuantity(c.Request.Context(), actorKey(c), key, req.Count)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"quantity": remaining})
}
