package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/soluna-app/soluna/internal/adapter/llm"
	"github.com/soluna-app/soluna/internal/config"
	"github.com/soluna-app/soluna/internal/insight"
	"github.com/soluna-app/soluna/internal/kv"
	"github.com/soluna-app/soluna/internal/policy"
	"github.com/soluna-app/soluna/internal/scheduler"
	"github.com/soluna-app/soluna/internal/service"
	"github.com/soluna-app/soluna/internal/store"
	handler "github.com/soluna-app/soluna/internal/transport/http"
	"github.com/soluna-app/soluna/internal/transport/ws"
)

func main() {
	cfg := config.Load()

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().Int("http_port", cfg.HTTPPort).Str("database", cfg.DatabaseURL).Msg("starting soluna")

	// Relational backend
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer db.Close()

	// Key-value scopes: durable Redis for registered identities, in-process
	// memory for guests. Without Redis everything falls back to memory.
	var durable kv.Store
	if cfg.RedisAddr != "" {
		rds, err := kv.NewRedisStore(kv.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rds.Close()
		durable = rds
	} else {
		log.Warn().Msg("REDIS_ADDR not set, durable scope falls back to memory")
	}
	kvs := kv.NewScoped(durable, kv.NewMemoryStore())

	// Chat backend and insight generator
	chatClient := llm.NewChatClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	generator := insight.NewGenerator(chatClient, rng)

	// Send-gate policy engine
	ctx := context.Background()
	gate, err := policy.NewEngine(ctx, policy.DefaultGatePolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize gate engine")
	}

	// Live event stream
	hub := ws.NewHub()
	go hub.Run()

	// Controller
	svc := service.New(db, kvs, chatClient, generator, gate, cfg).WithNotifier(hub)

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	handler.NewHandler(svc).RegisterRoutes(e)
	ws.NewServer(hub).RegisterRoutes(e)

	// Nightly maintenance
	sched := scheduler.New(db)
	sched.Start()
	defer sched.Stop()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.HTTPPort).Msg("api started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown server gracefully")
	}
	log.Info().Msg("stopped")
}
