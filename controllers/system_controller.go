package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grocerly/pos-backend/middleware"
	"github.com/grocerly/pos-backend/services"
)

// SystemController exposes the maintenance-mode switch.
type SystemController struct {
	system *services.SystemService
}

func NewSystemController(system *services.SystemService) *SystemController {
	return &SystemController{system: system}
}

// GetMaintenance handles GET /api/system/maintenance
func (sc *SystemController) GetMaintenance(c *gin.Context) {
	enabled, err := sc.system.MaintenanceEnabled(c.Request.Context())
	if err != nil {
		zap.L().Error("failed to read maintenance flag", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read maintenance state"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": enabled})
}

// SetMaintenance handles PUT /api/system/maintenance
func (sc *SystemController) SetMaintenance(c *gin.Context) {
	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	actor := c.GetString(middleware.CtxUsername)
	if err := sc.system.SetMaintenance(c.Request.Context(), *req.Enabled, actor); err != nil {
		zap.L().Error("failed to set maintenance flag", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update maintenance state"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance state updated", "enabled": *req.Enabled})
}
