package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medremind/medremind/internal/domain/schedule"
	"github.com/medremind/medremind/internal/service"
	"github.com/medremind/medremind/pkg/keys"
)

type ScheduleHandler struct {
	schedules *service.ScheduleService
	log       *zap.Logger
}

func NewScheduleHandler(schedules *service.ScheduleService, log *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, log: log}
}

type createScheduleRequest struct {
	MedicineKey  string   `json:"medicine_key" binding:"required"`
	DosesPerDay  int      `json:"doses_per_day" binding:"required"`
	Times        []string `json:"times" binding:"required"`
	MealRelation string   `json:"meal_relation" binding:"required"`
	Precaution   string   `json:"precaution"`
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	var req createScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	sch, err := h.schedules.CreateSchedule(c.Request.Context(), &schedule.CreateScheduleCommand{
		PatientKey:   actorKey(c),
		MedicineKey:  req.MedicineKey,
		DosesPerDay:  req.DosesPerDay,
		Times:        req.Times,
		MealRelation: schedule.MealRelation(req.MealRelation),
		Precaution:   req.Precaution,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, sch)
}

func (h *ScheduleHandler) List(c *gin.Context) {
	list, err := h.schedules.ListSchedules(c.Request.Context(), actorKey(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

type markTakenRequest struct {
	TakenAt *time.Time `json:"taken_at"`
}

func (h *ScheduleHandler) MarkTaken(c *gin.Context) {
	key, ok := paramKey(c, "schedule_key", keys.Schedule)
	if !ok {
		return
	}

	var req markTakenRequest
	if !bindJSON(c, &req) {
		return
	}
	at := time.Now()
	if req.TakenAt != nil {
		at = *req.TakenAt
	}

	sch, err := h.schedules.MarkTaken(c.Request.Context(), actorKey(c), key, at)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, sch)
}

func (h *ScheduleHandler) RegisterMissed(c *gin.Context) {
	key, ok := paramKey(c, "schedule_key", keys.Schedule)
	if !ok {
		return
	}

	sch, err := h.schedules.RegisterMissed(c.Request.Context(), actorKey(c), key)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, sch)
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *ScheduleHandler) SetStatus(c *gin.Context) {
	key, ok := paramKey(c, "schedule_key", keys.Schedule)
	if !ok {
		return
	}

	var req setStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.schedules.SetStatus(c.Request.Context(), actorKey(c), key, schedule.Status(req.Status)); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"status": req.Status})
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	key, ok := paramKey(c, "schedule_key", keys.Schedule)
	if !ok {
		return
	}

	if err := h.schedules.DeleteSchedule(c.Request.Context(), actorKey(c), key); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
