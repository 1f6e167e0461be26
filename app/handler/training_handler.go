package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mlboard/internal/schedule"
	"mlboard/pkg/store/mysql"
	"mlboard/pkg/store/mysql/model"
)

// TrainingHandler serves training records and scheduled starts.
type TrainingHandler struct {
	repo      *mysql.TrainingRepository
	scheduler *schedule.Scheduler
}

func NewTrainingHandler(repo *mysql.TrainingRepository, scheduler *schedule.Scheduler) *TrainingHandler {
	return &TrainingHandler{repo: repo, scheduler: scheduler}
}

// List returns training records, newest first.
func (h *TrainingHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	trainings, err := h.repo.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trainings": trainings})
}

// Get returns one training record.
func (h *TrainingHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid training id"})
		return
	}
	training, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "training not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, training)
}

type scheduleRequest struct {
	ScheduledTime *time.Time `json:"scheduledTime"`
}

// Schedule enqueues the training's start for its scheduled time. An optional
// scheduledTime in the body overrides the stored one for this enqueue.
func (h *TrainingHandler) Schedule(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid training id"})
		return
	}
	training, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "training not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if training.Status != model.TrainingStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "training is not pending"})
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.ScheduledTime != nil {
		training.Schedule = model.ScheduleScheduled
		training.ScheduledTime = req.ScheduledTime
	}

	if err := h.scheduler.ScheduleTraining(c.Request.Context(), training); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"trainingId":    training.ID,
		"schedule":      training.Schedule,
		"scheduledTime": training.ScheduledTime,
	})
}
