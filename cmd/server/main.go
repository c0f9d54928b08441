package main

import (
	"os"
	"path/filepath"
	"time"

	"buildex/server/config"
	"buildex/server/internal/api"
	"buildex/server/internal/auth"
	"buildex/server/internal/database"
	"buildex/server/internal/email"
	"buildex/server/internal/geocoding"
	"buildex/server/internal/otp"
	"buildex/server/internal/payments"
	"buildex/server/internal/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	logger.Infof("Using database at: %s", cfg.Server.DBPath)
	db, err := database.NewDatabase(cfg.Server.DBPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Outbound email: real delivery needs a SendGrid key, otherwise messages
	// are just logged.
	var mailer email.Mailer
	if cfg.Email.SendGridAPIKey != "" {
		mailer = email.NewSendGridMailer(cfg.Email.SendGridAPIKey, cfg.Email.FromAddress, cfg.Email.FromName)
	} else {
		logger.Warn("SENDGRID_API_KEY not set, emails will be logged instead of sent")
		mailer = &email.LogMailer{Logger: logger}
	}
	mailQueue := email.NewMailQueue(100, mailer, logger)
	mailQueue.Start()
	defer mailQueue.Close()

	gateway := payments.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	notifier := email.NewPaymentNotifier(db, mailQueue, logger)
	paymentService := payments.NewService(db, gateway, notifier, cfg.Razorpay.KeyID, cfg.Razorpay.Currency, logger)

	otpStore := otp.NewStore(time.Now)
	otpService := otp.NewService(otpStore, time.Duration(cfg.OTP.TTLMinutes)*time.Minute, logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTL)*time.Hour)

	geocoder := geocoding.NewGeocoder(logger, filepath.Join(os.TempDir(), "buildex", "geocode_cache"))

	handler := api.NewHandler(db, paymentService, otpService, tokens, mailQueue, geocoder, cfg.OTP.TTLMinutes, logger)

	jobs := scheduler.NewScheduler(db, mailQueue, cfg, logger)
	jobs.Start()
	defer jobs.Stop()

	router := gin.Default()
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
