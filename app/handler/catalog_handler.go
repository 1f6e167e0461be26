package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mlboard/pkg/store/mysql"
)

// CatalogHandler serves read-only list/detail endpoints over the dashboard
// catalog entities.
type CatalogHandler struct {
	repo *mysql.CatalogRepository
}

func NewCatalogHandler(repo *mysql.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{repo: repo}
}

func respondList(c *gin.Context, key string, items interface{}, err error) {
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{key: items})
}

func respondDetail(c *gin.Context, item interface{}, err error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (h *CatalogHandler) ListModels(c *gin.Context) {
	items, err := h.repo.ListModels(c.Request.Context())
	respondList(c, "models", items, err)
}

func (h *CatalogHandler) GetModel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.repo.GetModelByID(c.Request.Context(), id)
	respondDetail(c, item, err)
}

func (h *CatalogHandler) ListImages(c *gin.Context) {
	items, err := h.repo.ListImages(c.Request.Context())
	respondList(c, "images", items, err)
}

func (h *CatalogHandler) GetImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.repo.GetImageByID(c.Request.Context(), id)
	respondDetail(c, item, err)
}

func (h *CatalogHandler) ListProjects(c *gin.Context) {
	items, err := h.repo.ListProjects(c.Request.Context())
	respondList(c, "projects", items, err)
}

func (h *CatalogHandler) GetProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.repo.GetProjectByID(c.Request.Context(), id)
	respondDetail(c, item, err)
}

func (h *CatalogHandler) ListDeployments(c *gin.Context) {
	items, err := h.repo.ListDeployments(c.Request.Context())
	respondList(c, "deployments", items, err)
}

func (h *CatalogHandler) GetDeployment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.repo.GetDeploymentByID(c.Request.Context(), id)
	respondDetail(c, item, err)
}

func (h *CatalogHandler) ListAPIs(c *gin.Context) {
	items, err := h.repo.ListAPIs(c.Request.Context())
	respondList(c, "apis", items, err)
}

func (h *CatalogHandler) GetAPI(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.repo.GetAPIByID(c.Request.Context(), id)
	respondDetail(c, item, err)
}

func (h *CatalogHandler) ListAPIKeys(c *gin.Context) {
	items, err := h.repo.ListAPIKeys(c.Request.Context())
	respondList(c, "apiKeys", items, err)
}

func (h *CatalogHandler) GetAPIKey(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.repo.GetAPIKeyByID(c.Request.Context(), id)
	respondDetail(c, item, err)
}

func (h *CatalogHandler) ListEvaluations(c *gin.Context) {
	items, err := h.repo.ListEvaluations(c.Request.Context())
	respondList(c, "evaluations", items, err)
}

func (h *CatalogHandler) GetEvaluation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.repo.GetEvaluationByID(c.Request.Context(), id)
	respondDetail(c, item, err)
}

func (h *CatalogHandler) ListAnomalyDetections(c *gin.Context) {
	items, err := h.repo.ListAnomalyDetections(c.Request.Context())
	respondList(c, "anomalyDetections", items, err)
}

func (h *CatalogHandler) GetAnomalyDetection(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.repo.GetAnomalyDetectionByID(c.Request.Context(), id)
	respondDetail(c, item, err)
}

func (h *CatalogHandler) ListResourceGroups(c *gin.Context) {
	items, err := h.repo.ListResourceGroups(c.Request.Context())
	respondList(c, "resourceGroups", items, err)
}

func (h *CatalogHandler) GetResourceGroup(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.repo.GetResourceGroupByID(c.Request.Context(), id)
	respondDetail(c, item, err)
}
