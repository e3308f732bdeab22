package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/nutrack/nutrack-engine/internal/adapters/cache"
	"github.com/nutrack/nutrack-engine/internal/adapters/delivery"
	adapterHTTP "github.com/nutrack/nutrack-engine/internal/adapters/handler/http"
	"github.com/nutrack/nutrack-engine/internal/adapters/repository"
	"github.com/nutrack/nutrack-engine/internal/core/domain"
	"github.com/nutrack/nutrack-engine/internal/core/services"
	"github.com/nutrack/nutrack-engine/internal/core/workers"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables.")
	}

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	serverPort := getEnv("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is required")
	}
	jwtIssuer := getEnv("JWT_ISSUER", "nutrack-engine")

	tokenHours, err := strconv.Atoi(getEnv("TOKEN_DURATION_HOURS", "72"))
	if err != nil {
		log.Fatalf("Critical: invalid TOKEN_DURATION_HOURS: %v", err)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	redisClient, err := cache.NewRedisClient(
		getEnv("REDIS_HOST", "localhost"),
		getEnv("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		0,
	)
	if err != nil {
		log.Printf("Redis unavailable, running without cache and push delivery: %v", err)
		redisClient = nil
	}

	userRepo := repository.NewPostgresUserRepository(db.DB)
	foodRepo := repository.NewPostgresFoodEntryRepository(db)
	waterRepo := repository.NewPostgresWaterEntryRepository(db)
	configRepo := repository.NewPostgresReminderConfigRepository(db)
	notifRepo := repository.NewPostgresNotificationRepository(db)

	var recordRepo domain.DailyRecordRepository = repository.NewPostgresDailyRecordRepository(db)
	if redisClient != nil {
		recordRepo = repository.NewCachedDailyRecordRepository(recordRepo, redisClient)
	}

	var push domain.Delivery = delivery.NewLogDelivery()
	if redisClient != nil {
		push = delivery.NewRedisPublisher(redisClient)
	}

	clock := services.SystemClock{}

	aggregator := services.NewAggregator(foodRepo, waterRepo)
	recordService := services.NewRecordService(recordRepo, aggregator)

	syncWorker := workers.NewSyncWorker(recordService)
	entryService := services.NewEntryService(foodRepo, waterRepo, syncWorker)

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	tokenService := services.NewTokenService(jwtSecret, jwtIssuer, time.Duration(tokenHours)*time.Hour, userRepo)

	analyticsService := services.NewAnalyticsService(recordRepo, userRepo, clock)
	adviceService := services.NewAdviceService(aggregator, userRepo, clock, services.MathRandSource{})
	reminderService := services.NewReminderService(configRepo, notifRepo, push, clock)
	reminderWorker := workers.NewReminderWorker(reminderService)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	syncWorker.Start(workerCtx)
	reminderWorker.Start(workerCtx)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:         adapterHTTP.NewAuthHandler(authService, tokenService),
		UserHandler:         adapterHTTP.NewUserHandler(userService),
		EntryHandler:        adapterHTTP.NewEntryHandler(entryService, aggregator, adviceService),
		RecordHandler:       adapterHTTP.NewRecordHandler(recordService),
		AnalyticsHandler:    adapterHTTP.NewAnalyticsHandler(analyticsService),
		NotificationHandler: adapterHTTP.NewNotificationHandler(reminderService, reminderWorker),
		TokenService:        tokenService,
		DB:                  db,
		Redis:               redisClient,
		StartTime:           startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Nutrack Engine running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	stopWorkers()

	log.Println("Server stopped gracefully.")
}
