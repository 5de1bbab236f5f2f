package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/agrimitra/farmer-assist/internal/ai"
	"github.com/agrimitra/farmer-assist/internal/config"
	"github.com/agrimitra/farmer-assist/internal/database"
	"github.com/agrimitra/farmer-assist/internal/handler"
	"github.com/agrimitra/farmer-assist/internal/middleware"
	"github.com/agrimitra/farmer-assist/internal/queue"
	"github.com/agrimitra/farmer-assist/internal/repository"
	"github.com/agrimitra/farmer-assist/internal/router"
	"github.com/agrimitra/farmer-assist/internal/service"
	"github.com/agrimitra/farmer-assist/internal/upload"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set env vars directly

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	rdb := config.NewRedisClient() // nil when Redis is unreachable
	if rdb == nil {
		log.Println("redis unavailable: OTP issuing will fail and rate limiting is disabled")
	}

	store, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload store: %v", err)
	}

	users := repository.NewUserRepo(db)
	queries := repository.NewQueryRepo(db)
	escalations := repository.NewEscalationRepo(db)
	otps := repository.NewOTPRepo(rdb, cfg.OTPTTL, cfg.BcryptCost)

	aiCfg := ai.LoadConfig()
	gateway := ai.NewGateway(aiCfg, nil, nil)

	querySvc := service.NewQueryService(queries, store, gateway, aiCfg, upload.Limits{
		MaxFiles: cfg.MaxUploadFiles,
		MaxBytes: cfg.MaxUploadBytes,
		AllowGIF: cfg.AllowGIF,
	})

	auth := middleware.JWTAuth(cfg.JWTSecret)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New() // Create Echo instance
	e.Validator = handler.NewValidator()

	router.RegisterRoutes(e, cfg.UploadDir)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, otps), auth)
	router.RegisterQuery(e, handler.NewQueryHandler(querySvc), auth, limiter)
	router.RegisterEscalations(e, handler.NewEscalationHandler(escalations), auth)
	router.RegisterOfficer(e, handler.NewOfficerHandler(users, queries), auth)

	// Background consumer that mirrors escalation events into the audit log.
	go func() {
		if err := queue.StartEscalationConsumer(); err != nil {
			log.Printf("escalation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
