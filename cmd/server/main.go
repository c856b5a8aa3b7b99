package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Tina-Mai/storm/internal/config"
	"github.com/Tina-Mai/storm/internal/handler"
	"github.com/Tina-Mai/storm/internal/logger"
	"github.com/Tina-Mai/storm/internal/metrics"
	"github.com/Tina-Mai/storm/internal/middleware"
	"github.com/Tina-Mai/storm/internal/repository"
	redisrepo "github.com/Tina-Mai/storm/internal/repository/redis"
	"github.com/Tina-Mai/storm/internal/service"
	"github.com/Tina-Mai/storm/pkg/bandit"
)

func main() {
	logger.Init()
	cfg := config.Load()
	log.Info().
		Dur("tickInterval", cfg.TickInterval).
		Int("defaultRegions", cfg.DefaultRegions).
		Int("defaultBudget", cfg.DefaultBudget).
		Bool("redis", cfg.RedisURL != "").
		Msg("Config loaded")

	// Redis (optional)
	var cache repository.SnapshotCache
	var redisClient *redisrepo.Client
	if cfg.RedisURL != "" {
		var err error
		redisClient, err = redisrepo.NewClient(cfg.RedisURL, cfg.SnapshotTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		defer redisClient.Close()
		if err := redisClient.Clear(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to clear stale snapshot")
		}
		cache = redisClient
	}

	// WebSocket hub
	wsHub := handler.NewHub()

	// Engine and services
	engine := bandit.New(bandit.WithSource(bandit.NewSource(cfg.Seed)))
	simSvc := service.NewSimulationService(engine, cache, wsHub)
	runner := service.NewRunner(simSvc, cfg.TickInterval)

	// Start with a ready run so clients have something to show.
	if _, err := simSvc.Initialize(context.Background(), cfg.DefaultRegions, cfg.DefaultBudget); err != nil {
		log.Fatal().Err(err).Msg("Invalid default run configuration")
	}

	// Handlers
	simHandler := handler.NewSimulationHandler(simSvc, runner)
	wsHandler := handler.NewWSHandler(wsHub, simSvc)

	// Router
	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Underlying().Ping(r.Context()).Err(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"redis unavailable"}`))
				return
			}
		}
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	handler.RegisterRoutes(mux, simHandler, wsHandler)

	// Apply global middleware
	root := middleware.Chain(mux, middleware.Logger, middleware.Recover, middleware.CORS("*"), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	runner.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
