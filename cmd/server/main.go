// Package main is the application entry point. It wires configuration,
// storage, services, and the HTTP surface, then runs the server until
// shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventhub/config"
	_ "eventhub/docs"
	"eventhub/internal/adapters/auth"
	"eventhub/internal/adapters/email"
	"eventhub/internal/adapters/token"
	delivery "eventhub/internal/delivery/http"
	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/repository/postgres"
	"eventhub/internal/services"

	"golang.org/x/crypto/bcrypt"
)

// @title EventHub Registration API
// @version 1.0
// @description QR-code registration and check-in for EventHub events.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)

	db, err := postgres.Open(cfg.DBUrl)
	if err != nil {
		logger.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	// Repositories
	eventRepo := postgres.NewEventRepository(db)
	userRepo := postgres.NewUserRepository(db)
	regRepo := postgres.NewRegistrationRepository(db)
	scanLogRepo := postgres.NewScanLogRepository(db)
	scannerRepo := postgres.NewScannerRepository(db)

	// Adapters
	codec := token.NewHMACCodec(cfg.QRSecret, cfg.QRTokenTTL)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	keyHasher := auth.NewBcryptKeyHasher(bcrypt.DefaultCost)
	mailer := email.NewMailer(cfg.Email, logger)
	renderer := email.NewTemplateRenderer()

	// Services
	emailSvc := services.NewEmailService(mailer, renderer, logger)
	registrationSvc := services.NewRegistrationService(eventRepo, userRepo, regRepo, codec, emailSvc, logger)
	validationSvc := services.NewValidationService(codec, regRepo, eventRepo, userRepo, scanLogRepo, logger)
	scannerSvc := services.NewScannerService(scannerRepo, keyHasher)

	// Controllers
	registrationController := controllers.NewRegistrationController(logger, registrationSvc)
	scanController := controllers.NewScanController(logger, validationSvc, scanLogRepo)
	scannerController := controllers.NewScannerController(logger, scannerSvc)

	mux := delivery.NewRouter(logger, verifier, scannerSvc, registrationController, scanController, scannerController)

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	handler = middleware.Logging(logger, handler)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
