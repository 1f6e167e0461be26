package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mlboard/app/handler"
	"mlboard/app/middleware"
	"mlboard/pkg/config"
)

// Handlers bundles the handler layer for route registration.
type Handlers struct {
	Telemetry    *handler.TelemetryHandler
	Notification *handler.NotificationHandler
	Alert        *handler.AlertHandler
	Training     *handler.TrainingHandler
	Catalog      *handler.CatalogHandler
}

// Setup builds the gin engine with all routes registered.
func Setup(h *Handlers) *gin.Engine {
	if config.GlobalConfig.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Live telemetry channel.
	r.GET("/ws/training-metrics", middleware.AuthMiddleware(), h.Telemetry.Serve)

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/sessions", h.Telemetry.ListSessions)

		api.GET("/notifications/unread", h.Notification.ListUnread)
		api.GET("/notifications/unread-count", h.Notification.UnreadCount)
		api.POST("/notifications/:id/read", h.Notification.MarkRead)
		api.DELETE("/notifications/:id", h.Notification.Delete)

		api.POST("/alert-conditions", h.Alert.Create)
		api.GET("/alert-conditions", h.Alert.List)
		api.POST("/alert-conditions/:id/deactivate", h.Alert.Deactivate)

		api.GET("/trainings", h.Training.List)
		api.GET("/trainings/:id", h.Training.Get)
		api.POST("/trainings/:id/schedule", h.Training.Schedule)

		api.GET("/models", h.Catalog.ListModels)
		api.GET("/models/:id", h.Catalog.GetModel)
		api.GET("/images", h.Catalog.ListImages)
		api.GET("/images/:id", h.Catalog.GetImage)
		api.GET("/projects", h.Catalog.ListProjects)
		api.GET("/projects/:id", h.Catalog.GetProject)
		api.GET("/deployments", h.Catalog.ListDeployments)
		api.GET("/deployments/:id", h.Catalog.GetDeployment)
		api.GET("/apis", h.Catalog.ListAPIs)
		api.GET("/apis/:id", h.Catalog.GetAPI)
		api.GET("/api-keys", h.Catalog.ListAPIKeys)
		api.GET("/api-keys/:id", h.Catalog.GetAPIKey)
		api.GET("/evaluations", h.Catalog.ListEvaluations)
		api.GET("/evaluations/:id", h.Catalog.GetEvaluation)
		api.GET("/anomaly-detections", h.Catalog.ListAnomalyDetections)
		api.GET("/anomaly-detections/:id", h.Catalog.GetAnomalyDetection)
		api.GET("/resource-groups", h.Catalog.ListResourceGroups)
		api.GET("/resource-groups/:id", h.Catalog.GetResourceGroup)
	}

	return r
}
