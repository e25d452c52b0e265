package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/taskhive/backend/internal/models"
)

// HealthHandler provides the liveness/readiness endpoint.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// CheckHealth returns the health status of all subsystems.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	// Database check
	dbStatus := "ok"
	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	var openTasks int64
	if overall == "healthy" {
		models.GetDB().Model(&models.Task{}).
			Where("status != ?", models.TaskStatusDone).
			Count(&openTasks)
	}

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "taskhive",
		"components": gin.H{
			"database":   dbStatus,
			"open_tasks": openTasks,
		},
	})
}
