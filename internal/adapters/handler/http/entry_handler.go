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

type EntryHandler struct {
	entries    *services.EntryService
	aggregator *services.Aggregator
	advice     *services.AdviceService
}

func NewEntryHandler(entries *services.EntryService, aggregator *services.Aggregator, advice *services.AdviceService) *EntryHandler {
	return &EntryHandler{
		entries:    entries,
		aggregator: aggregator,
		advice:     advice,
	}
}

type foodEntryRequest struct {
	FoodName  string               `json:"food_name" binding:"required"`
	Quantity  float64              `json:"quantity" binding:"required"`
	Unit      string               `json:"unit"`
	MealSlot  string               `json:"meal_slot" binding:"required"`
	Category  string               `json:"category" binding:"required"`
	Nutrition domain.NutritionInfo `json:"nutrition"`
	Notes     string               `json:"notes"`
	LoggedAt  time.Time            `json:"logged_at"`
}

type waterEntryRequest struct {
	Amount   float64   `json:"amount" binding:"required"`
	LoggedAt time.Time `json:"logged_at"`
}

func (h *EntryHandler) RegisterRoutes(router *gin.RouterGroup) {
	food := router.Group("/entries/food")
	{
		food.POST("", h.CreateFood)
		food.GET("", h.ListFood)
		food.PUT("/:id", h.UpdateFood)
		food.DELETE("/:id", h.DeleteFood)
	}

	water := router.Group("/entries/water")
	{
		water.POST("", h.CreateWater)
		water.GET("", h.ListWater)
		water.PUT("/:id", h.UpdateWater)
		water.DELETE("/:id", h.DeleteWater)
	}

	router.GET("/entries/summary", h.DaySummary)
	router.GET("/entries/advice", h.DailyAdvice)
}

func (h *EntryHandler) handleEntryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrFoodEntryNotFound), errors.Is(err, domain.ErrWaterEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrFoodNameEmpty),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidMealSlot),
		errors.Is(err, domain.ErrInvalidCategory):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *EntryHandler) CreateFood(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req foodEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.entries.CreateFood(c.Request.Context(), services.CreateFoodEntryInput{
		UserID:    userID,
		FoodName:  req.FoodName,
		Quantity:  req.Quantity,
		Unit:      req.Unit,
		MealSlot:  req.MealSlot,
		Category:  req.Category,
		Nutrition: req.Nutrition,
		Notes:     req.Notes,
		LoggedAt:  req.LoggedAt,
	})
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *EntryHandler) ListFood(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	from, to, limit, err := parseRangeQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries, err := h.entries.ListFood(c.Request.Context(), userID, from, to, limit)
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *EntryHandler) UpdateFood(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req foodEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.entries.UpdateFood(c.Request.Context(), services.UpdateFoodEntryInput{
		ID:        c.Param("id"),
		UserID:    userID,
		FoodName:  req.FoodName,
		Quantity:  req.Quantity,
		Unit:      req.Unit,
		MealSlot:  req.MealSlot,
		Category:  req.Category,
		Nutrition: req.Nutrition,
		Notes:     req.Notes,
	})
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *EntryHandler) DeleteFood(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.entries.DeleteFood(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.handleEntryError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *EntryHandler) CreateWater(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req waterEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.entries.CreateWater(c.Request.Context(), services.CreateWaterEntryInput{
		UserID:   userID,
		Amount:   req.Amount,
		LoggedAt: req.LoggedAt,
	})
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *EntryHandler) ListWater(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	from, to, limit, err := parseRangeQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries, err := h.entries.ListWater(c.Request.Context(), userID, from, to, limit)
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *EntryHandler) UpdateWater(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req waterEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.entries.UpdateWater(c.Request.Context(), c.Param("id"), userID, req.Amount)
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *EntryHandler) DeleteWater(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.entries.DeleteWater(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.handleEntryError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DaySummary returns the live per-slot rollup for one day
// (default today).
func (h *EntryHandler) DaySummary(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	date, err := parseDateQuery(c, "date", time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	summary, err := h.aggregator.DaySummary(c.Request.Context(), userID, date)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *EntryHandler) DailyAdvice(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	date, err := parseDateQuery(c, "date", time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	advice, err := h.advice.DailyAdvice(c.Request.Context(), userID, date)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"advice": advice})
}

func parseDateQuery(c *gin.Context, key string, fallback time.Time) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", raw)
}

// parseRangeQuery reads from/to/limit query params, defaulting to the
// last 7 days.
func parseRangeQuery(c *gin.Context) (time.Time, time.Time, int, error) {
	now := time.Now().UTC()

	to, err := parseDateQuery(c, "to", now)
	if err != nil {
		return time.Time{}, time.Time{}, 0, errors.New("invalid to format, expected YYYY-MM-DD")
	}
	from, err := parseDateQuery(c, "from", domain.DayStart(to).AddDate(0, 0, -6))
	if err != nil {
		return time.Time{}, time.Time{}, 0, errors.New("invalid from format, expected YYYY-MM-DD")
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, 0, errors.New("from cannot be after to")
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return time.Time{}, time.Time{}, 0, errors.New("invalid limit")
		}
	}

	return domain.DayStart(from), domain.DayEnd(to), limit, nil
}
