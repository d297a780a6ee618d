package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go-gin-event-registration/config"
	"go-gin-event-registration/internal/cache"
	"go-gin-event-registration/internal/database"
	"go-gin-event-registration/internal/handler"
	"go-gin-event-registration/internal/repository"
	"go-gin-event-registration/internal/service"
	"go-gin-event-registration/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	defer logger.Sync()

	cfg := config.LoadConfig()
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		logger.L.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.MigrateUp(ctx, pool); err != nil {
			logger.L.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.L.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	eventRepo := repository.NewEventRepository(pool)
	visitorRepo := repository.NewVisitorRepository(pool)
	registrationRepo := repository.NewRegistrationRepository(pool)
	incomeCache := cache.NewRedisEventIncomeCache(rdb, cfg.Cache.StatsTTL)
	sync := service.NewStatusSynchronizer(eventRepo, registrationRepo, time.Now)

	eventService := service.NewEventService(pool, eventRepo, visitorRepo, incomeCache, sync)
	visitorService := service.NewVisitorService(visitorRepo, eventRepo, registrationRepo, incomeCache)
	registrationService := service.NewRegistrationService(pool, registrationRepo, eventRepo, visitorRepo, incomeCache, sync)

	templates, err := handler.NewTemplates(cfg.Server.Location)
	if err != nil {
		logger.L.Fatal("Failed to parse templates", zap.Error(err))
	}

	router := handler.NewRouter(templates,
		handler.NewHomeHandler(),
		handler.NewEventHandler(eventService, cfg.Server.Location),
		handler.NewVisitorHandler(visitorService),
		handler.NewRegistrationHandler(registrationService, eventService, visitorService, cfg.Server.Location),
		handler.NewHealthHandler(map[string]handler.HealthCheck{
			"postgres": pool.Ping,
			"redis": func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		}),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.L.Info("Server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.L.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L.Error("Graceful shutdown failed", zap.Error(err))
	}
}
