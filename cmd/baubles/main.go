package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/baublesbot/baubles/internal/api/http"
	"github.com/baublesbot/baubles/internal/attachments"
	"github.com/baublesbot/baubles/internal/bot"
	"github.com/baublesbot/baubles/internal/config"
	"github.com/baublesbot/baubles/internal/lastseen"
	"github.com/baublesbot/baubles/internal/scheduler"
	"github.com/baublesbot/baubles/internal/store"
	"github.com/baublesbot/baubles/internal/urlhistory"
	"github.com/baublesbot/baubles/internal/weather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for all outbound calls. One uniform timeout.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Database-backed store.
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}

	// Weather subsystem: geocoding with cache, current conditions, forecast.
	geocoder := weather.NewGeocoder(httpClient, cfg.GoogleMapsAPIKey)
	owm := weather.NewOWMClient(httpClient, cfg.OpenWeatherAPIKey)
	nws := weather.NewNWSClient(httpClient)
	weatherService := weather.NewService(st, geocoder, owm, nws)

	// Remaining bot features.
	history := urlhistory.New(st, httpClient)
	tracker := lastseen.New(st)
	saver := attachments.New(st, httpClient, cfg.AttachmentDir)

	b := bot.New(weatherService, history, tracker)

	// Periodic store-stats job.
	sched := scheduler.New(st, cfg.StatsInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "baubles",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "baubles",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, b, saver, history)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
