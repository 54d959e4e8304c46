package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"home-library/internal/agent"
	"home-library/internal/config"
	"home-library/internal/handler"
	"home-library/internal/library"
	"home-library/internal/logging"
	"home-library/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	logging.Info().Str("env", cfg.Server.Env).Str("data_dir", cfg.Data.Dir).Msg("starting home library")

	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		logging.Fatal().Err(err).Msg("failed to create data directory")
	}

	lib := library.Open(cfg.Data, cfg.AI.APIKey).EnableGemini(agent.Settings{
		TextModel:       cfg.AI.TextModel,
		ChatTemperature: cfg.AI.ChatTemperature,
		ImageModel:      cfg.AI.ImageModel,
		SpeechModel:     cfg.AI.SpeechModel,
		Voice:           cfg.AI.Voice,
		SpeechLanguage:  cfg.AI.SpeechLanguage,
		AudioDir:        cfg.AI.AudioDir,
		Breaker: agent.BreakerSettings{
			Failures: cfg.AI.BreakerFailures,
			Timeout:  cfg.AI.BreakerTimeout,
		},
	})
	if _, cred, err := lib.APIKey(); err != nil {
		logging.Warn().Err(err).Msg("failed to read stored api key")
	} else if !cred.Configured {
		logging.Warn().Msg("no Gemini API key configured, AI features are unavailable until one is set")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.GinMiddleware())

	// Security headers (before CORS)
	r.Use(middleware.SecurityHeaders())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Accept-Language", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	ipLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.PerSecond), cfg.RateLimit.Burst)
	dailyQuota := middleware.NewDailyQuota(cfg.RateLimit.DailyQuota)
	go func() {
		for range time.Tick(middleware.IdleTTL / 4) {
			if n := ipLimiter.Sweep(); n > 0 {
				logging.Debug().Int("evicted", n).Msg("idle rate limiters evicted")
			}
		}
	}()
	logging.Info().
		Float64("per_second", cfg.RateLimit.PerSecond).
		Int("burst", cfg.RateLimit.Burst).
		Int64("daily_quota", cfg.RateLimit.DailyQuota).
		Msg("rate limiting enabled for AI routes")

	handler.New(lib).Register(r, middleware.RateLimitMiddleware(ipLimiter, dailyQuota))

	if dir := cfg.Server.StaticDir; dir != "" {
		r.Static("/assets", filepath.Join(dir, "assets"))

		r.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "code": "NOT_FOUND"})
				return
			}
			c.File(filepath.Join(dir, "index.html"))
		})
	}

	logging.Info().Str("port", cfg.Server.Port).Strs("allowed_origins", cfg.Server.AllowedOrigins).Msg("server ready")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logging.Fatal().Err(err).Msg("failed to start server")
	}
}
