package config

import (
	"Compliance-Shield/internal/api/handlers"
	"Compliance-Shield/internal/api/routes"
	"Compliance-Shield/internal/middleware"
	"Compliance-Shield/internal/utils"
	"Compliance-Shield/internal/utils/mailing"
	"Compliance-Shield/internal/utils/storage"
	"Compliance-Shield/pkg/classifier"
	"Compliance-Shield/pkg/inventory"
	"Compliance-Shield/pkg/jwt"
	"Compliance-Shield/pkg/user"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

const bodyLimit = 12 << 20

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	logFile := utils.GetConfig("LOG_FILE")
	if logFile == "" {
		logFile = "./logs/app.log"
	}
	if err := os.MkdirAll(filepath.Dir(logFile), os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating logs directory: %w", err)
	}
	file, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	var s3 storage.AwsS3
	if bucket := utils.GetConfig("AWS_S3_BUCKET"); bucket != "" {
		s3, err = storage.NewAwsS3(context.Background(), storage.S3Config{
			Bucket:    bucket,
			Region:    utils.GetConfig("AWS_S3_REGION"),
			AccessKey: utils.GetConfig("AWS_ACCESS_KEY"),
			SecretKey: utils.GetConfig("AWS_SECRET_KEY"),
		})
		if err != nil {
			log.Warnw("label photos will not be stored", "error", err)
			s3 = nil
		}
	}
	mailer := mailing.NewMailer(mailing.LoadMailConfig())

	gemini, err := classifier.NewGeminiClient(classifier.Config{
		APIKey:     utils.GetConfig("GEMINI_API_KEY"),
		Model:      utils.GetConfig("GEMINI_MODEL"),
		BaseURL:    utils.GetConfig("GEMINI_BASE_URL"),
		MaxRetries: utils.GetConfigInt("CLASSIFIER_MAX_RETRIES", classifier.DefaultMaxRetries),
	})
	if err != nil {
		return nil, err
	}

	jwtSecret := utils.GetConfig("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not configured")
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	inventoryRepository := inventory.NewInventoryRepository(db)

	// Service
	jwtService := jwt.NewJWTService(jwtSecret)
	otpMode := utils.GetConfig("OTP_MODE")
	if otpMode == user.OTPModeStrict {
		log.Warn("OTP_MODE is strict but codes are only delivered to the debug log")
	}
	userService := user.NewUserService(userRepository, jwtService, user.NewLogOTPSender(), user.OTPConfig{
		Mode: otpMode,
		TTL:  time.Duration(utils.GetConfigInt("OTP_TTL_MINUTES", 5)) * time.Minute,
	})
	inventoryService := inventory.NewInventoryService(
		inventoryRepository,
		gemini,
		s3,
		mailer,
		time.Duration(utils.GetConfigInt("CLASSIFIER_TIMEOUT_SECONDS", 30))*time.Second,
	)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, userService, validator)

	// routes
	routesConfig := routes.Config{
		App:              app,
		UserHandler:      userHandler,
		InventoryHandler: inventoryHandler,
		Middleware:       middlewares,
		JWTService:       jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
