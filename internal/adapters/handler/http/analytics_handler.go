package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nutrack/nutrack-engine/internal/adapters/handler/http/middleware"
	"github.com/nutrack/nutrack-engine/internal/core/domain"
	"github.com/nutrack/nutrack-engine/internal/core/services"
)

// Analytics ranges default to the last 30 days and are capped at one
// year, matching the record retention the dashboards query.
const maxAnalyticsRangeDays = 366

type AnalyticsHandler struct {
	svc *services.AnalyticsService
}

func NewAnalyticsHandler(svc *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	analytics := router.Group("/analytics")
	{
		analytics.GET("/summary", h.GetSummary)
		analytics.GET("/goals-progress", h.GetGoalsProgress)
		analytics.GET("/goals", h.GetGoals)
	}
}

func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	end, err := parseDateQuery(c, "end_date", time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format, expected YYYY-MM-DD"})
		return
	}
	start, err := parseDateQuery(c, "start_date", domain.DayStart(end).AddDate(0, 0, -29))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date format, expected YYYY-MM-DD"})
		return
	}

	if start.After(end) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date cannot be after end_date"})
		return
	}
	if end.Sub(start).Hours()/24 > maxAnalyticsRangeDays {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date range too large, max 1 year allowed"})
		return
	}

	summary, err := h.svc.Summary(c.Request.Context(), userID, start, end)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute analytics"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *AnalyticsHandler) GetGoalsProgress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	progress, err := h.svc.GoalsProgress(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute goal progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": progress})
}

func (h *AnalyticsHandler) GetGoals(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	goals, err := h.svc.Goals(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute nutrition goals"})
		return
	}

	c.JSON(http.StatusOK, goals)
}
