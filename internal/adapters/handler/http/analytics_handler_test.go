package http

import (
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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type analyticsFixture struct {
	router     *gin.Engine
	recordRepo *repository.InMemoryDailyRecordRepository
	userRepo   *repository.InMemoryUserRepository
}

func setupAnalyticsHandler(t *testing.T, userID string, now time.Time) analyticsFixture {
	gin.SetMode(gin.TestMode)

	recordRepo := repository.NewInMemoryDailyRecordRepository()
	userRepo := repository.NewInMemoryUserRepository()

	user, err := domain.NewUser(userID, userID+"@nutrack.app")
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(context.Background(), user))

	svc := services.NewAnalyticsService(recordRepo, userRepo, stubClock{now: now})
	handler := NewAnalyticsHandler(svc)

	router := gin.New()
	group := router.Group("")
	group.Use(fakeAuth(userID))
	handler.RegisterRoutes(group)

	return analyticsFixture{router: router, recordRepo: recordRepo, userRepo: userRepo}
}

func TestAnalyticsHandler_GetSummary(t *testing.T) {
	userID := "user-an-1"
	now := time.Date(2026, 7, 15, 10, 0, 0, 0, time.UTC)

	t.Run("Success: Returns a summary for the requested window", func(t *testing.T) {
		fx := setupAnalyticsHandler(t, userID, now)

		for day := 1; day <= 5; day++ {
			record := domain.NewDailyRecord(userID, time.Date(2026, 7, day, 0, 0, 0, 0, time.UTC))
			record.Nutrition.CaloriesConsumed = 2000
			record.Nutrition.MealsLogged = 3
			require.NoError(t, fx.recordRepo.Upsert(context.Background(), record))
		}

		req, _ := http.NewRequest(http.MethodGet, "/analytics/summary?start_date=2026-07-01&end_date=2026-07-10", nil)
		w := httptest.NewRecorder()
		fx.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var summary domain.AnalyticsSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		assert.Equal(t, userID, summary.UserID)
		assert.Equal(t, 10, summary.Consistency.TotalDays)
		assert.Equal(t, 5, summary.Consistency.DaysWithData)
		assert.Equal(t, 50.0, summary.Consistency.Overall)
	})

	t.Run("Fail: Inverted range returns 400", func(t *testing.T) {
		fx := setupAnalyticsHandler(t, userID, now)

		req, _ := http.NewRequest(http.MethodGet, "/analytics/summary?start_date=2026-07-10&end_date=2026-07-01", nil)
		w := httptest.NewRecorder()
		fx.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: Range over a year returns 400", func(t *testing.T) {
		fx := setupAnalyticsHandler(t, userID, now)

		req, _ := http.NewRequest(http.MethodGet, "/analytics/summary?start_date=2024-01-01&end_date=2026-07-01", nil)
		w := httptest.NewRecorder()
		fx.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: Garbage start_date returns 400", func(t *testing.T) {
		fx := setupAnalyticsHandler(t, userID, now)

		req, _ := http.NewRequest(http.MethodGet, "/analytics/summary?start_date=July+1st", nil)
		w := httptest.NewRecorder()
		fx.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAnalyticsHandler_Goals(t *testing.T) {
	now := time.Date(2026, 7, 15, 10, 0, 0, 0, time.UTC)

	t.Run("Success: Profile-driven targets", func(t *testing.T) {
		userID := "user-an-2"
		fx := setupAnalyticsHandler(t, userID, now)

		user, err := fx.userRepo.GetByID(context.Background(), userID)
		require.NoError(t, err)
		age, weight, height := 30, 80.0, 180.0
		user.Profile.Age = &age
		user.Profile.Weight = &weight
		user.Profile.Height = &height
		user.Profile.ActivityLevel = domain.ActivityModerate
		require.NoError(t, fx.userRepo.Update(context.Background(), user))

		req, _ := http.NewRequest(http.MethodGet, "/analytics/goals", nil)
		w := httptest.NewRecorder()
		fx.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var goals domain.NutritionGoals
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &goals))
		assert.Equal(t, 2873.0, goals.DailyCalories)
		assert.Equal(t, 176.0, goals.DailyProtein)
		assert.Equal(t, 2800.0, goals.DailyWater)
	})

	t.Run("Success: Empty profile falls back to the defaults", func(t *testing.T) {
		fx := setupAnalyticsHandler(t, "user-an-3", now)

		req, _ := http.NewRequest(http.MethodGet, "/analytics/goals", nil)
		w := httptest.NewRecorder()
		fx.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var goals domain.NutritionGoals
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &goals))
		assert.Equal(t, 2000.0, goals.DailyCalories)
		assert.Equal(t, 150.0, goals.DailyProtein)
	})
}

func TestAnalyticsHandler_GoalsProgress(t *testing.T) {
	now := time.Date(2026, 7, 15, 10, 0, 0, 0, time.UTC)

	t.Run("Success: No target weight means no goals", func(t *testing.T) {
		fx := setupAnalyticsHandler(t, "user-an-4", now)

		req, _ := http.NewRequest(http.MethodGet, "/analytics/goals-progress", nil)
		w := httptest.NewRecorder()
		fx.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Goals []domain.GoalProgress `json:"goals"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Empty(t, response.Goals)
	})

	t.Run("Success: Weight goal progress from logged records", func(t *testing.T) {
		userID := "user-an-5"
		fx := setupAnalyticsHandler(t, userID, now)

		user, err := fx.userRepo.GetByID(context.Background(), userID)
		require.NoError(t, err)
		weight, target := 90.0, 80.0
		user.Profile.Weight = &weight
		user.Profile.TargetWeight = &target
		require.NoError(t, fx.userRepo.Update(context.Background(), user))

		latest := 85.0
		record := domain.NewDailyRecord(userID, time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC))
		record.Health.Weight = &latest
		require.NoError(t, fx.recordRepo.Upsert(context.Background(), record))

		req, _ := http.NewRequest(http.MethodGet, "/analytics/goals-progress", nil)
		w := httptest.NewRecorder()
		fx.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Goals []domain.GoalProgress `json:"goals"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Goals, 1)
		assert.Equal(t, 50.0, response.Goals[0].ProgressPercentage)
		assert.True(t, response.Goals[0].IsOnTrack)
	})
}
