package http

import (
	"os"
	"strconv"
	"time"

	"janken_backend/internal/config"
	"janken_backend/internal/http/handlers"
	"janken_backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.Engine, rdb *redis.Client, cfg *config.Config, version string) {
	h := handlers.NewHandler(rdb, cfg.SessionTTL, cfg.LockTTL)
	healthHandler := handlers.NewHealthHandler(rdb, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	rateLimit := middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow)

	// Per-session submission limit, read from env with safe defaults
	sessionRateLimit := 30
	if v := os.Getenv("SESSION_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			sessionRateLimit = n
		}
	}
	sessionRateWindow := time.Minute
	if v := os.Getenv("SESSION_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			sessionRateWindow = time.Duration(n) * time.Second
		}
	}
	sessionRL := middleware.SessionRateLimit(sessionRateLimit, sessionRateWindow)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(rateLimit)
	{
		v1.POST("/sessions", h.StartSession)
		v1.GET("/sessions/:id", h.GetSession)
		v1.POST("/sessions/:id/choices", sessionRL, h.SubmitChoice)
		v1.GET("/sessions/:id/result", h.GetResult)
	}

	// Legacy GET routes kept for the old bot clients
	legacy := r.Group("/janken")
	legacy.Use(rateLimit)
	{
		legacy.GET("/start", h.StartSessionLegacy)
		legacy.GET("/:id", h.GetSession)
		legacy.GET("/:id/choice/:user/:hand", sessionRL, h.SubmitChoiceLegacy)
		legacy.GET("/:id/result", h.GetResult)
	}
}
