package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grocerly/pos-backend/services"
)

// AnalyticsController serves the daily sales dashboard.
type AnalyticsController struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsController(analytics *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analytics: analytics}
}

// Summary handles GET /api/analytics/summary. Defaults to today in UTC when
// no range is given.
func (ac *AnalyticsController) Summary(c *gin.Context) {
	from, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	if from != nil {
		start = from.UTC()
	}
	if to != nil {
		end = to.UTC()
	}

	summary, top, err := ac.analytics.Summary(c.Request.Context(), start, end)
	if err != nil {
		zap.L().Error("failed to compute summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":      summary,
		"top_products": top,
		"from":         start.Format(time.RFC3339),
		"to":           end.Format(time.RFC3339),
	})
}
