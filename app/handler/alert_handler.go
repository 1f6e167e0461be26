package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mlboard/app/middleware"
	"mlboard/pkg/store/mysql"
	"mlboard/pkg/store/mysql/model"
)

// AlertHandler serves alert-condition management.
type AlertHandler struct {
	repo *mysql.AlertConditionRepository
}

func NewAlertHandler(repo *mysql.AlertConditionRepository) *AlertHandler {
	return &AlertHandler{repo: repo}
}

type createConditionRequest struct {
	TrainingID    *int64   `json:"trainingId"`
	ConditionType string   `json:"conditionType" binding:"required"`
	Threshold     *float64 `json:"threshold"`
	Operator      *string  `json:"operator"`
	Description   string   `json:"description"`
}

func validConditionType(t string) bool {
	switch model.ConditionType(t) {
	case model.ConditionLossThreshold, model.ConditionAccuracyTarget,
		model.ConditionTrainingCompleted, model.ConditionTrainingFailed:
		return true
	}
	return false
}

// Create registers a new alert condition for the acting user.
func (h *AlertHandler) Create(c *gin.Context) {
	var req createConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validConditionType(req.ConditionType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown condition type: " + req.ConditionType})
		return
	}

	cond := &model.AlertCondition{
		UserID:        middleware.UserID(c),
		TrainingID:    req.TrainingID,
		ConditionType: req.ConditionType,
		Threshold:     req.Threshold,
		Operator:      req.Operator,
		Description:   req.Description,
	}
	if err := h.repo.Create(c.Request.Context(), cond); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, cond)
}

// List returns the acting user's conditions, active and inactive.
func (h *AlertHandler) List(c *gin.Context) {
	conditions, err := h.repo.ListByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conditions": conditions})
}

// Deactivate retires a condition. Conditions are never hard-deleted so fired
// notifications keep their context.
func (h *AlertHandler) Deactivate(c *gin.Context) {
	conditionID := c.Param("id")
	err := h.repo.Deactivate(c.Request.Context(), middleware.UserID(c), conditionID)
	if err != nil {
		status := http.StatusInternalServerError
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conditionId": conditionID, "isActive": false})
}
