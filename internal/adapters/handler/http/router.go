package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/nutrack/nutrack-engine/internal/adapters/handler/http/middleware"
	"github.com/nutrack/nutrack-engine/internal/core/services"
)

type RouterDependencies struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	EntryHandler        *EntryHandler
	RecordHandler       *RecordHandler
	AnalyticsHandler    *AnalyticsHandler
	NotificationHandler *NotificationHandler
	TokenService        *services.TokenService
	DB                  *sqlx.DB
	Redis               *redis.Client
	StartTime           time.Time
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// healthHandler reports dependency status. Redis is optional, so the
// endpoint only degrades to 503 when Postgres is down.
func healthHandler(deps RouterDependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "connected"
		statusCode := http.StatusOK
		if err := deps.DB.Ping(); err != nil {
			dbStatus = "unreachable"
			statusCode = http.StatusServiceUnavailable
		}

		redisStatus := "connected"
		if deps.Redis == nil || deps.Redis.Ping(c.Request.Context()).Err() != nil {
			redisStatus = "unreachable"
		}

		c.JSON(statusCode, gin.H{
			"status":   "ok",
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	}
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.Default()
	router.Use(corsMiddleware())

	router.GET("/health", healthHandler(deps))

	apiV1 := router.Group("/api/v1")

	public := apiV1.Group("")
	protected := apiV1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.TokenService))

	if deps.Redis != nil {
		// The limiter keys on the user ID when one is in the context,
		// so on protected routes it must run after AuthMiddleware.
		// Public routes are counted per client IP.
		limiter := middleware.RateLimiterMiddleware(deps.Redis, 100, 1*time.Minute)
		public.Use(limiter)
		protected.Use(limiter)
	}

	deps.AuthHandler.RegisterRoutes(public)
	{
		deps.UserHandler.RegisterRoutes(protected)
		deps.EntryHandler.RegisterRoutes(protected)
		deps.RecordHandler.RegisterRoutes(protected)
		deps.AnalyticsHandler.RegisterRoutes(protected)
		deps.NotificationHandler.RegisterRoutes(protected)
	}

	return router
}
