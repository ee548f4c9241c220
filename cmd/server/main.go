package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rdcplates/carte-rose-backend/config"
	"github.com/rdcplates/carte-rose-backend/internal/app/controller"
	"github.com/rdcplates/carte-rose-backend/internal/app/repository"
	"github.com/rdcplates/carte-rose-backend/internal/app/service"
	"github.com/rdcplates/carte-rose-backend/internal/db"
	"github.com/rdcplates/carte-rose-backend/internal/middleware"
	"github.com/rdcplates/carte-rose-backend/internal/router"
	"github.com/rdcplates/carte-rose-backend/internal/storage"
	"github.com/rdcplates/carte-rose-backend/pkg/logger"
	"github.com/rdcplates/carte-rose-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Carte Rose Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional; without it logout simply lets tokens expire
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, token blacklist disabled", map[string]interface{}{
				"error": err.Error(),
			})
		}
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close redis connection", err)
			}
		}()
	}

	// Object storage is optional; without it document files live in the
	// database rows
	var objectStorage *storage.S3Storage
	if cfg.S3.Bucket != "" {
		objectStorage = storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
		logger.Info("Object storage enabled", map[string]interface{}{
			"bucket": cfg.S3.Bucket,
		})
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	vehicleRepo := repository.NewVehicleRepository(db.GetDB())
	sequenceRepo := repository.NewPlateSequenceRepository(db.GetDB())
	documentRepo := repository.NewDocumentRepository(db.GetDB())
	printHistoryRepo := repository.NewPrintHistoryRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, &cfg.JWT)
	plateService := service.NewPlateService(sequenceRepo, db.GetDB())
	qrService := service.NewQRService(vehicleRepo)
	vehicleService := service.NewVehicleService(vehicleRepo, printHistoryRepo, plateService, qrService, db.GetDB())
	documentService := service.NewDocumentService(documentRepo, printHistoryRepo, vehicleRepo, objectStorage)

	// Initialize controllers
	authController := controller.NewAuthController(authService, cfg.JWT.AccessTokenExpiry)
	vehicleController := controller.NewVehicleController(vehicleService, qrService, cfg.Print.DefaultPrinterName)
	documentController := controller.NewDocumentController(documentService, cfg.Print.DefaultPrinterName)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		vehicleController,
		documentController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
