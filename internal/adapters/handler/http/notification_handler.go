package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nutrack/nutrack-engine/internal/adapters/handler/http/middleware"
	"github.com/nutrack/nutrack-engine/internal/core/domain"
	"github.com/nutrack/nutrack-engine/internal/core/services"
	"github.com/nutrack/nutrack-engine/internal/core/workers"
)

type NotificationHandler struct {
	svc    *services.ReminderService
	worker *workers.ReminderWorker
}

func NewNotificationHandler(svc *services.ReminderService, worker *workers.ReminderWorker) *NotificationHandler {
	return &NotificationHandler{
		svc:    svc,
		worker: worker,
	}
}

type updateSettingsRequest struct {
	Enabled         *bool                                           `json:"enabled"`
	Slots           map[domain.ReminderCategory]domain.ReminderSlot `json:"slots"`
	QuietHoursStart *string                                         `json:"quiet_hours_start"`
	QuietHoursEnd   *string                                         `json:"quiet_hours_end"`
}

type markReadRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	notifications := router.Group("/notifications")
	{
		notifications.GET("/settings", h.GetSettings)
		notifications.PUT("/settings", h.UpdateSettings)
		notifications.GET("/due", h.GetDue)
		notifications.POST("/dispatch", h.Dispatch)
		notifications.POST("/schedule", h.Schedule)
		notifications.GET("/history", h.History)
		notifications.POST("/read", h.MarkRead)
		notifications.DELETE("/history", h.ClearHistory)
		notifications.GET("/stats", h.Stats)
	}
}

func (h *NotificationHandler) handleConfigError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidTime),
		errors.Is(err, domain.ErrInvalidFrequency),
		errors.Is(err, domain.ErrInvalidWeekdays),
		errors.Is(err, domain.ErrInvalidInterval),
		errors.Is(err, domain.ErrInvalidQuietHours),
		errors.Is(err, domain.ErrUnknownCategory):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *NotificationHandler) GetSettings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	config, err := h.svc.GetConfig(c.Request.Context(), userID)
	if err != nil {
		h.handleConfigError(c, err)
		return
	}

	c.JSON(http.StatusOK, config)
}

func (h *NotificationHandler) UpdateSettings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config, err := h.svc.UpdateConfig(c.Request.Context(), services.UpdateConfigInput{
		UserID:          userID,
		Enabled:         req.Enabled,
		Slots:           req.Slots,
		QuietHoursStart: req.QuietHoursStart,
		QuietHoursEnd:   req.QuietHoursEnd,
	})
	if err != nil {
		h.handleConfigError(c, err)
		return
	}

	c.JSON(http.StatusOK, config)
}

// GetDue previews what would fire right now without sending anything.
func (h *NotificationHandler) GetDue(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	due, err := h.svc.EvaluateDue(c.Request.Context(), userID)
	if err != nil {
		h.handleConfigError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"due": due})
}

// Dispatch evaluates and sends synchronously, returning what went out.
func (h *NotificationHandler) Dispatch(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	sent, err := h.svc.Dispatch(c.Request.Context(), userID)
	if err != nil {
		h.handleConfigError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent": sent})
}

// Schedule enqueues a background sweep for the user. The cron that
// drives reminders hits this for every active user.
func (h *NotificationHandler) Schedule(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	h.worker.Enqueue(userID)

	c.JSON(http.StatusAccepted, gin.H{"status": "scheduled"})
}

func (h *NotificationHandler) History(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		var err error
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 200"})
			return
		}
	}

	entries, err := h.svc.History(c.Request.Context(), userID, domain.ReminderCategory(c.Query("category")), limit)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": entries})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	marked, err := h.svc.MarkRead(c.Request.Context(), userID, req.IDs)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked": marked})
}

func (h *NotificationHandler) ClearHistory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	deleted, err := h.svc.ClearHistory(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *NotificationHandler) Stats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	stats, err := h.svc.Stats(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
