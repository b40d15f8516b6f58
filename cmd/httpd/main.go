package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Angeloac12/siigo-cotizador/internal/api"
	"github.com/Angeloac12/siigo-cotizador/internal/catalog"
	"github.com/Angeloac12/siigo-cotizador/internal/config"
	"github.com/Angeloac12/siigo-cotizador/internal/database"
	"github.com/Angeloac12/siigo-cotizador/internal/drafts"
	"github.com/Angeloac12/siigo-cotizador/internal/logger"
	"github.com/Angeloac12/siigo-cotizador/internal/metrics"
	"github.com/Angeloac12/siigo-cotizador/internal/parser"
	"github.com/Angeloac12/siigo-cotizador/internal/service"
	"github.com/Angeloac12/siigo-cotizador/internal/tenant"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()
	log = log.With(logger.String("service", cfg.Service.Name))

	log.Info("Starting quoting service",
		logger.Int("port", cfg.Service.Port),
		logger.Bool("debug", cfg.Service.Debug),
	)

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		return 1
	}
	defer func() { _ = db.Close() }()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = redisClient.Close() }()

	m := metrics.New()
	p := parser.New(nil)

	catalogRepo := catalog.NewRepository(db)
	draftRepo := drafts.NewRepository(db)
	tenantStore := tenant.NewStore(redisClient, cfg.Redis.TTL, log)

	draftSvc := service.NewDraftService(draftRepo, p, m, log)
	matchSvc := service.NewMatchService(catalogRepo, draftRepo, tenantStore, m, log)

	handler := api.NewHandler(draftSvc, matchSvc, catalogRepo, tenantStore, p, m, cfg.Service.MaxItems, log)
	router := api.SetupRouter(handler, api.RouterOptions{
		APIKey:    cfg.Auth.APIKey,
		Logger:    log,
		Metrics:   m,
		Readiness: readiness(db.PingContext, redisClient),
	})

	server := api.NewServer(router, cfg.Service.Port, cfg.Service.Debug, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err = <-errCh:
		if err != nil {
			log.Error("Server error", logger.Error(err))
			return 1
		}
	case sig := <-quit:
		log.Info("Signal received", logger.String("signal", sig.String()))
		if err = server.Shutdown(cfg.Service.ShutdownTimeout); err != nil {
			log.Error("Shutdown error", logger.Error(err))
			return 1
		}
	}

	log.Info("Quoting service exited cleanly")
	return 0
}

// readiness reports 503 until both Postgres and Redis answer.
func readiness(pingDB func(context.Context) error, rc *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := pingDB(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		if err := rc.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
