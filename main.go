package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/7499karthik/suvidhaa/config"
	"github.com/7499karthik/suvidhaa/controllers"
	"github.com/7499karthik/suvidhaa/cron"
	"github.com/7499karthik/suvidhaa/db"
	"github.com/7499karthik/suvidhaa/logger"
	"github.com/7499karthik/suvidhaa/mailer"
	"github.com/7499karthik/suvidhaa/metrics"
	"github.com/7499karthik/suvidhaa/middleware"
	"github.com/7499karthik/suvidhaa/redis"
	"github.com/7499karthik/suvidhaa/routes"
	"github.com/7499karthik/suvidhaa/token"
	"github.com/7499karthik/suvidhaa/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	// A failed store connection is logged but does not stop the server;
	// store-backed endpoints fail per-request until it recovers.
	gdb, err := db.Connect(cfg)
	if err != nil {
		appLogger.Error("database connection failed", zap.Error(err))
	} else if err := db.Migrate(gdb); err != nil {
		appLogger.Warn("migrations not applied", zap.Error(err))
	}

	tokens := token.NewService(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)

	var denylist *redis.Denylist
	if cfg.RedisAddr != "" {
		denylist, err = redis.NewDenylist(cfg.RedisAddr)
		if err != nil {
			appLogger.Warn("redis unavailable, logout revocation disabled", zap.Error(err))
			denylist = nil
		}
	}
	var guardDenylist middleware.Denylist
	var revoker controllers.TokenRevoker
	if denylist != nil {
		guardDenylist = denylist
		revoker = denylist
	}

	mail := mailer.New(cfg)

	var avatarUploader controllers.AvatarUploader
	if cfg.CloudinaryConfigured() {
		uploader, err := utils.NewUploader(cfg)
		if err != nil {
			appLogger.Warn("cloudinary unavailable, avatar uploads disabled", zap.Error(err))
		} else {
			avatarUploader = uploader
		}
	}

	metrics.Register()

	app := fiber.New()
	app.Use(recover.New())

	app.Get("/api", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Suvidhaa API is running",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	protected := middleware.Protected(cfg.JWTSecret, guardDenylist)

	auth := controllers.NewAuthController(gdb, tokens, revoker, appLogger)
	bookings := controllers.NewBookingController(gdb, mail, appLogger)
	providers := controllers.NewProviderController(gdb, avatarUploader, appLogger)
	contact := controllers.NewContactController(gdb, appLogger)
	dashboard := controllers.NewDashboardController(gdb, appLogger)

	routes.SetupAuthRoutes(app, auth, protected)
	routes.SetupBookingRoutes(app, bookings, protected)
	routes.SetupProviderRoutes(app, providers, protected)
	routes.SetupContactRoutes(app, contact, protected)
	routes.SetupDashboardRoutes(app, dashboard, protected)

	if gdb != nil {
		scheduler := cron.NewScheduler(gdb, mail, appLogger)
		if err := scheduler.Start(cfg.ReminderCron); err != nil {
			appLogger.Warn("reminder scheduler not started", zap.Error(err))
		} else {
			defer scheduler.Stop()
		}
	}

	appLogger.Info("server listening", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLogger.Fatal("server stopped", zap.Error(err))
	}
}
