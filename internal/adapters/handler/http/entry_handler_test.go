package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nutrack/nutrack-engine/internal/adapters/repository"
	"github.com/nutrack/nutrack-engine/internal/core/domain"
	"github.com/nutrack/nutrack-engine/internal/core/services"
	"github.com/nutrack/nutrack-engine/internal/core/workers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pickFirst struct{}

func (pickFirst) Choice(n int) int { return 0 }

type entryHandlerFixture struct {
	router    *gin.Engine
	foodRepo  *repository.InMemoryFoodEntryRepository
	waterRepo *repository.InMemoryWaterEntryRepository
	userRepo  *repository.InMemoryUserRepository
}

func setupEntryHandler(t *testing.T, userID string) entryHandlerFixture {
	gin.SetMode(gin.TestMode)

	foodRepo := repository.NewInMemoryFoodEntryRepository()
	waterRepo := repository.NewInMemoryWaterEntryRepository()
	recordRepo := repository.NewInMemoryDailyRecordRepository()
	userRepo := repository.NewInMemoryUserRepository()

	user, err := domain.NewUser(userID, userID+"@nutrack.app")
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(context.Background(), user))

	aggregator := services.NewAggregator(foodRepo, waterRepo)
	recordService := services.NewRecordService(recordRepo, aggregator)
	entryService := services.NewEntryService(foodRepo, waterRepo, workers.NewSyncWorker(recordService))

	clock := stubClock{now: time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)}
	adviceService := services.NewAdviceService(aggregator, userRepo, clock, pickFirst{})

	handler := NewEntryHandler(entryService, aggregator, adviceService)

	router := gin.New()
	group := router.Group("")
	group.Use(fakeAuth(userID))
	handler.RegisterRoutes(group)

	return entryHandlerFixture{
		router:    router,
		foodRepo:  foodRepo,
		waterRepo: waterRepo,
		userRepo:  userRepo,
	}
}

func TestEntryHandler_Food(t *testing.T) {
	userID := "user-entry-1"

	t.Run("Success: Creates a food entry", func(t *testing.T) {
		fx := setupEntryHandler(t, userID)

		payload := map[string]interface{}{
			"food_name": "Greek Yogurt",
			"quantity":  170,
			"meal_slot": domain.MealBreakfast,
			"category":  domain.CategoryDairy,
			"nutrition": map[string]interface{}{"calories": 100, "protein": 17},
		}
		body, _ := json.Marshal(payload)

		req, _ := http.NewRequest(http.MethodPost, "/entries/food", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		fx.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var entry domain.FoodEntry
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
		assert.Equal(t, "Greek Yogurt", entry.FoodName)
		assert.Equal(t, "grams", entry.Unit)
		assert.Equal(t, userID, entry.UserID)
	})

	t.Run("Fail: Unknown category returns 400", func(t *testing.T) {
		fx := setupEntryHandler(t, userID)

		payload := map[string]interface{}{
			"food_name": "Mystery",
			"quantity":  100,
			"meal_slot": domain.MealLunch,
			"category":  "junk",
		}
		body, _ := json.Marshal(payload)

		req, _ := http.NewRequest(http.MethodPost, "/entries/food", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		fx.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: Missing required fields return 400", func(t *testing.T) {
		fx := setupEntryHandler(t, userID)

		body, _ := json.Marshal(map[string]interface{}{"food_name": "Toast"})
		req, _ := http.NewRequest(http.MethodPost, "/entries/food", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		fx.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: Updating another user's entry returns 404", func(t *testing.T) {
		fx := setupEntryHandler(t, userID)

		foreign, err := domain.NewFoodEntry("someone-else", "Rice", "grams", domain.MealLunch, domain.CategoryCarbs, 100, domain.NutritionInfo{}, time.Time{})
		require.NoError(t, err)
		require.NoError(t, fx.foodRepo.Create(context.Background(), foreign))

		payload := map[string]interface{}{
			"food_name": "Hijacked Rice",
			"quantity":  100,
			"meal_slot": domain.MealLunch,
			"category":  domain.CategoryCarbs,
		}
		body, _ := json.Marshal(payload)

		req, _ := http.NewRequest(http.MethodPut, "/entries/food/"+foreign.ID, bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		fx.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Success: Delete returns 204", func(t *testing.T) {
		fx := setupEntryHandler(t, userID)

		entry, err := domain.NewFoodEntry(userID, "Rice", "grams", domain.MealLunch, domain.CategoryCarbs, 100, domain.NutritionInfo{}, time.Time{})
		require.NoError(t, err)
		require.NoError(t, fx.foodRepo.Create(context.Background(), entry))

		req, _ := http.NewRequest(http.MethodDelete, "/entries/food/"+entry.ID, nil)
		w := httptest.NewRecorder()
		fx.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestEntryHandler_Water(t *testing.T) {
	userID := "user-entry-2"

	t.Run("Success: Create then update a water entry", func(t *testing.T) {
		fx := setupEntryHandler(t, userID)

		body, _ := json.Marshal(map[string]interface{}{"amount": 400})
		req, _ := http.NewRequest(http.MethodPost, "/entries/water", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		fx.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var entry domain.WaterEntry
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
		assert.Equal(t, 400.0, entry.Amount)

		update, _ := json.Marshal(map[string]interface{}{"amount": 650})
		req2, _ := http.NewRequest(http.MethodPut, "/entries/water/"+entry.ID, bytes.NewBuffer(update))
		w2 := httptest.NewRecorder()
		fx.router.ServeHTTP(w2, req2)

		require.Equal(t, http.StatusOK, w2.Code)

		var updated domain.WaterEntry
		require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &updated))
		assert.Equal(t, 650.0, updated.Amount)
	})

	t.Run("Fail: Zero amount returns 400", func(t *testing.T) {
		fx := setupEntryHandler(t, userID)

		body, _ := json.Marshal(map[string]interface{}{"amount": 0})
		req, _ := http.NewRequest(http.MethodPost, "/entries/water", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		fx.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEntryHandler_SummaryAndAdvice(t *testing.T) {
	userID := "user-entry-3"
	day := "2026-06-10"
	loggedAt := time.Date(2026, 6, 10, 8, 30, 0, 0, time.UTC)

	t.Run("Success: Summary groups entries by meal slot", func(t *testing.T) {
		fx := setupEntryHandler(t, userID)

		food, err := domain.NewFoodEntry(userID, "Eggs", "grams", domain.MealBreakfast, domain.CategoryProtein, 120, domain.NutritionInfo{Calories: 180, Protein: 15}, loggedAt)
		require.NoError(t, err)
		require.NoError(t, fx.foodRepo.Create(context.Background(), food))

		water, err := domain.NewWaterEntry(userID, 300, loggedAt)
		require.NoError(t, err)
		require.NoError(t, fx.waterRepo.Create(context.Background(), water))

		req, _ := http.NewRequest(http.MethodGet, "/entries/summary?date="+day, nil)
		w := httptest.NewRecorder()
		fx.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var summary domain.DaySummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		assert.Equal(t, 180.0, summary.TotalCalories)
		assert.Equal(t, 300.0, summary.TotalWater)
		require.Len(t, summary.MealsBySlot[domain.MealBreakfast], 1)
	})

	t.Run("Success: Advice returns at most three tips", func(t *testing.T) {
		fx := setupEntryHandler(t, userID)

		req, _ := http.NewRequest(http.MethodGet, "/entries/advice?date="+day, nil)
		w := httptest.NewRecorder()
		fx.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Advice []string `json:"advice"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.NotEmpty(t, response.Advice)
		assert.LessOrEqual(t, len(response.Advice), 3)
		// No entries at all: the missing-breakfast rule fires first.
		assert.Contains(t, response.Advice[0], "breakfast")
	})

	t.Run("Fail: Garbage date returns 400", func(t *testing.T) {
		fx := setupEntryHandler(t, userID)

		req, _ := http.NewRequest(http.MethodGet, "/entries/summary?date=tomorrow", nil)
		w := httptest.NewRecorder()
		fx.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
