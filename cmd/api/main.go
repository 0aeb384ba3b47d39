package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/waypost-app/waypost/internal/adapters/http"
	natsadapter "github.com/waypost-app/waypost/internal/adapters/nats"
	"github.com/waypost-app/waypost/internal/adapters/places"
	"github.com/waypost-app/waypost/internal/adapters/postgres"
	"github.com/waypost-app/waypost/internal/adapters/valkey"
	"github.com/waypost-app/waypost/internal/core/ports"
	"github.com/waypost-app/waypost/internal/core/usecases"
	"github.com/waypost-app/waypost/internal/pkg/config"
	"github.com/waypost-app/waypost/internal/pkg/logging"
	"github.com/waypost-app/waypost/internal/pkg/metrics"
	"github.com/waypost-app/waypost/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("waypost-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache (optional: planning works without it, just slower)
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		cacheSvc = cache
		defer cache.Close()
	}

	// NATS event publisher (optional)
	var publisher ports.EventPublisher
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		publisher = nc
		defer nc.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Repos
	campsiteRepo := postgres.NewCampsiteRepo(db)

	// Live places provider, with a caching decorator when Valkey is up
	var placesSvc ports.PlacesSearcher = places.NewClient(
		cfg.Places.Token,
		cfg.Places.BaseURL,
		time.Duration(cfg.Places.TimeoutSeconds)*time.Second,
	)
	if cacheSvc != nil {
		placesSvc = places.NewCachedClient(placesSvc, cacheSvc)
	}

	// Stop sources. Campsite sources merge in fixed order: persisted
	// records first, then live provider results.
	dbSource := usecases.NewDatabaseStopSource(campsiteRepo, cacheSvc)
	liveSource := usecases.NewLivePlacesStopSource(placesSvc, cfg.Planner.PlacesConcurrency)
	synthSource := usecases.NewSyntheticAmenitySource(rand.New(rand.NewSource(time.Now().UnixNano())))

	agg := usecases.NewSourceAggregator(
		[]ports.StopSource{dbSource, liveSource},
		synthSource,
		time.Duration(cfg.Planner.SourceTimeoutSeconds)*time.Second,
	)

	// Use cases
	plannerSvc := usecases.NewPlannerService(agg, publisher, cfg.Planner.AvgSpeedMPH)
	campsiteSvc := usecases.NewCampsiteService(campsiteRepo, cacheSvc, publisher)

	deps := &http.Dependencies{
		Planner:            plannerSvc,
		Campsites:          campsiteSvc,
		NATS:               natsConn,
		DB:                 db,
		Cache:              cache,
		MaxBufferMiles:     cfg.Planner.MaxBufferMiles,
		DefaultBufferMiles: cfg.Planner.DefaultBufferMiles,
		DefaultPOISamples:  cfg.Planner.DefaultPOISamples,
		MaxPOISamples:      cfg.Planner.MaxPOISamples,
	}

	// Export connection pool stats to Prometheus
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Waypost API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.waypost.app",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
