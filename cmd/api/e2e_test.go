package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrack/nutrack-engine/internal/adapters/delivery"
	adapterHTTP "github.com/nutrack/nutrack-engine/internal/adapters/handler/http"
	"github.com/nutrack/nutrack-engine/internal/adapters/repository"
	"github.com/nutrack/nutrack-engine/internal/core/services"
	"github.com/nutrack/nutrack-engine/internal/core/workers"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		dbUser = "nutrack_user"
	}
	dbPass := os.Getenv("DB_PASSWORD")
	if dbPass == "" {
		dbPass = "secret"
	}
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "nutrack_test"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Skipf("Skipping e2e test, database not available: %v", err)
	}

	if schema, readErr := os.ReadFile("../../migrations/schema.sql"); readErr == nil {
		_, _ = db.Exec(string(schema))
	}

	return db
}

func buildRouter(db *sqlx.DB) *gin.Engine {
	userRepo := repository.NewPostgresUserRepository(db.DB)
	foodRepo := repository.NewPostgresFoodEntryRepository(db)
	waterRepo := repository.NewPostgresWaterEntryRepository(db)
	recordRepo := repository.NewPostgresDailyRecordRepository(db)
	configRepo := repository.NewPostgresReminderConfigRepository(db)
	notifRepo := repository.NewPostgresNotificationRepository(db)

	clock := services.SystemClock{}

	aggregator := services.NewAggregator(foodRepo, waterRepo)
	recordService := services.NewRecordService(recordRepo, aggregator)
	syncWorker := workers.NewSyncWorker(recordService)
	entryService := services.NewEntryService(foodRepo, waterRepo, syncWorker)

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	tokenService := services.NewTokenService("e2e-test-secret", "nutrack-e2e", 1*time.Hour, userRepo)

	analyticsService := services.NewAnalyticsService(recordRepo, userRepo, clock)
	adviceService := services.NewAdviceService(aggregator, userRepo, clock, services.MathRandSource{})
	reminderService := services.NewReminderService(configRepo, notifRepo, delivery.NewLogDelivery(), clock)
	reminderWorker := workers.NewReminderWorker(reminderService)

	return adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:         adapterHTTP.NewAuthHandler(authService, tokenService),
		UserHandler:         adapterHTTP.NewUserHandler(userService),
		EntryHandler:        adapterHTTP.NewEntryHandler(entryService, aggregator, adviceService),
		RecordHandler:       adapterHTTP.NewRecordHandler(recordService),
		AnalyticsHandler:    adapterHTTP.NewAnalyticsHandler(analyticsService),
		NotificationHandler: adapterHTTP.NewNotificationHandler(reminderService, reminderWorker),
		TokenService:        tokenService,
		DB:                  db,
		StartTime:           time.Now(),
	})
}

func TestEndToEnd_TrackingLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	defer db.Close()

	router := buildRouter(db)

	email := fmt.Sprintf("e2e_%d@nutrack.app", time.Now().UnixNano())
	password := "E2EStrongPassword1!"
	var token string
	var foodEntryID string

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var buf *bytes.Buffer
		if body != "" {
			buf = bytes.NewBufferString(body)
		} else {
			buf = &bytes.Buffer{}
		}
		req, _ := http.NewRequest(method, path, buf)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("1. Register", func(t *testing.T) {
		payload := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
		w := do(http.MethodPost, "/api/v1/auth/register", payload)
		require.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("2. Login", func(t *testing.T) {
		payload := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
		w := do(http.MethodPost, "/api/v1/auth/login", payload)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Token)
		token = resp.Token
	})

	t.Run("3. Update Profile", func(t *testing.T) {
		payload := `{"age":30,"weight":80,"height":180,"activity_level":"moderate","goal":"muscle_gain","gym_days_per_week":4}`
		w := do(http.MethodPut, "/api/v1/users/me/profile", payload)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("4. Log Food", func(t *testing.T) {
		payload := `{"food_name":"Chicken Breast","quantity":200,"meal_slot":"lunch","category":"protein","nutrition":{"calories":330,"protein":62}}`
		w := do(http.MethodPost, "/api/v1/entries/food", payload)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.ID)
		foodEntryID = resp.ID
	})

	t.Run("5. Log Water", func(t *testing.T) {
		w := do(http.MethodPost, "/api/v1/entries/water", `{"amount":500}`)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("6. Daily Summary Reflects Entries", func(t *testing.T) {
		w := do(http.MethodGet, "/api/v1/entries/summary", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total_calories":330`)
		assert.Contains(t, w.Body.String(), `"total_water":500`)
	})

	t.Run("7. Upsert Daily Record", func(t *testing.T) {
		today := time.Now().UTC().Format("2006-01-02")
		payload := fmt.Sprintf(`{"date":%q,"health":{"weight":80,"mood":8},"activity":{"gym_sessions":1}}`, today)
		w := do(http.MethodPost, "/api/v1/records", payload)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"calories_consumed":330`)
	})

	t.Run("8. Nutrition Goals From Profile", func(t *testing.T) {
		w := do(http.MethodGet, "/api/v1/analytics/goals", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"daily_water":2800`)
	})

	t.Run("9. Reminder Settings Defaults", func(t *testing.T) {
		w := do(http.MethodGet, "/api/v1/notifications/settings", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "breakfast_reminder")
	})

	t.Run("10. Delete Food Entry", func(t *testing.T) {
		require.NotEmpty(t, foodEntryID, "Create step failed, cannot delete")
		w := do(http.MethodDelete, "/api/v1/entries/food/"+foodEntryID, "")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("11. Auth Error Without Token", func(t *testing.T) {
		saved := token
		token = ""
		w := do(http.MethodGet, "/api/v1/users/me", "")
		token = saved
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
