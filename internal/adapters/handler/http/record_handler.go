package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nutrack/nutrack-engine/internal/adapters/handler/http/middleware"
	"github.com/nutrack/nutrack-engine/internal/core/domain"
	"github.com/nutrack/nutrack-engine/internal/core/services"
)

const (
	defaultRecordRangeDays = 30
	maxRecordRangeLimit    = 90
)

type RecordHandler struct {
	svc *services.RecordService
}

func NewRecordHandler(svc *services.RecordService) *RecordHandler {
	return &RecordHandler{svc: svc}
}

type upsertRecordRequest struct {
	Date     string                  `json:"date"`
	Health   *domain.HealthSnapshot  `json:"health"`
	Activity *domain.ActivityTotals  `json:"activity"`
	Notes    *string                 `json:"notes"`
}

func (h *RecordHandler) RegisterRoutes(router *gin.RouterGroup) {
	records := router.Group("/records")
	{
		records.POST("", h.Upsert)
		records.GET("", h.List)
		records.GET("/today", h.GetToday)
		records.GET("/date/:date", h.GetByDate)
		records.PUT("/:id", h.Update)
		records.DELETE("/:id", h.Delete)
	}
}

func (h *RecordHandler) handleRecordError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, domain.ErrInvalidScale), errors.Is(err, domain.ErrInvalidMetric):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *RecordHandler) Upsert(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req upsertRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		var err error
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
			return
		}
	}

	record, err := h.svc.Upsert(c.Request.Context(), services.UpsertRecordInput{
		UserID:   userID,
		Date:     date,
		Health:   req.Health,
		Activity: req.Activity,
		Notes:    req.Notes,
	})
	if err != nil {
		h.handleRecordError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *RecordHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	now := time.Now().UTC()
	to, err := parseDateQuery(c, "to", now)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to format, expected YYYY-MM-DD"})
		return
	}
	from, err := parseDateQuery(c, "from", domain.DayStart(to).AddDate(0, 0, -defaultRecordRangeDays+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from format, expected YYYY-MM-DD"})
		return
	}
	if from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from cannot be after to"})
		return
	}

	limit := defaultRecordRangeDays
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxRecordRangeLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 90"})
			return
		}
	}

	records, err := h.svc.ListByDateRange(c.Request.Context(), userID, domain.DayStart(from), domain.DayEnd(to), limit)
	if err != nil {
		h.handleRecordError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *RecordHandler) GetToday(c *gin.Context) {
	h.getForDate(c, time.Now().UTC())
}

// GetByDate returns the day's record, materializing an empty one with
// freshly aggregated nutrition when the day has not been logged yet.
func (h *RecordHandler) GetByDate(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return
	}
	h.getForDate(c, date)
}

func (h *RecordHandler) getForDate(c *gin.Context, date time.Time) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	record, err := h.svc.GetByDate(c.Request.Context(), userID, date)
	if err != nil {
		h.handleRecordError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *RecordHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req upsertRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.svc.UpdateByID(c.Request.Context(), services.UpdateRecordInput{
		ID:       c.Param("id"),
		UserID:   userID,
		Health:   req.Health,
		Activity: req.Activity,
		Notes:    req.Notes,
	})
	if err != nil {
		h.handleRecordError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *RecordHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.handleRecordError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
