package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grocerly/pos-backend/models"
	"github.com/grocerly/pos-backend/services"
)

// MaintenanceGate blocks write requests from non-superadmins while the store
// is in maintenance mode. Reads stay available so dashboards keep working.
func MaintenanceGate(system *services.SystemService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.Next()
			return
		}
		if c.GetString(CtxRole) == models.RoleSuperadmin {
			c.Next()
			return
		}

		enabled, err := system.MaintenanceEnabled(c.Request.Context())
		if err != nil {
			zap.L().Error("maintenance check failed", zap.Error(err))
			c.Next()
			return
		}
		if enabled {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "System is under maintenance"})
			c.Abort()
			return
		}
		c.Next()
	}
}
