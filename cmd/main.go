package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/shenikar/geo_mesh_sync/internal/config"
	"github.com/shenikar/geo_mesh_sync/internal/exchange"
	v1 "github.com/shenikar/geo_mesh_sync/internal/handler/http/v1"
	"github.com/shenikar/geo_mesh_sync/internal/models"
	"github.com/shenikar/geo_mesh_sync/internal/repository"
	"github.com/shenikar/geo_mesh_sync/internal/service"
	"github.com/shenikar/geo_mesh_sync/internal/signer"
	"github.com/shenikar/geo_mesh_sync/internal/transport/udp"
	"github.com/shenikar/geo_mesh_sync/pkg/logger"
	"github.com/shenikar/geo_mesh_sync/pkg/postgres"
	redisclient "github.com/shenikar/geo_mesh_sync/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/geo_mesh_sync/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Geo Mesh Sync API
// @version 1.0
// @description Status and local entry points of the peer data-sync engine.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel, cfg.DeviceID)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Хранилище записей: Postgres, если задан DATABASE_URL, иначе память процесса
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to open record store: %v", err)
	}
	defer closeStore()

	// Источник пиров: Redis и/или статический список
	peers, redisClient, err := openPeers(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to init peer source: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	sender, err := udp.NewSender(cfg.SocketTimeout)
	if err != nil {
		log.Fatalf("Failed to open send socket: %v", err)
	}
	defer sender.Close()

	exporter, err := exchange.NewWriter(cfg.ExchangeDir, cfg.DeviceID)
	if err != nil {
		log.Fatalf("Failed to init exchange writer: %v", err)
	}

	// Инициализация компонентов движка
	ports := service.Ports{Location: cfg.LocationPort, Incident: cfg.IncidentPort}
	identity := service.Identity{DeviceID: cfg.DeviceID, SubscriberID: cfg.SubscriberID, Timezone: cfg.DeviceTimezone}
	sig := signer.NewPlaceholder()

	queue := make(chan models.Datagram, cfg.QueueSize)
	collectors := make([]service.Collector, 0, 2)
	for _, ch := range []udp.CollectorConfig{
		{Name: "location", Port: cfg.LocationPort, ReadTimeout: cfg.SocketTimeout},
		{Name: "incident", Port: cfg.IncidentPort, ReadTimeout: cfg.SocketTimeout},
	} {
		c, err := udp.NewCollector(ch, queue, log)
		if err != nil {
			log.Fatalf("Failed to bind %s channel: %v", ch.Name, err)
		}
		collectors = append(collectors, c)
	}

	ingestor, err := service.NewIngestor(store, sig, ports, queue, cfg.DedupCacheSize, log)
	if err != nil {
		log.Fatalf("Failed to init ingestor: %v", err)
	}
	selector := service.NewFixSelector(cfg.FixFreshness, cfg.FixInaccuracyLimit)
	broadcaster := service.NewBroadcaster(store, peers, sender, sig, ports, log)
	repeater := service.NewRepeater(store, broadcaster, cfg.RepeatInterval, log)
	fileSync := service.NewFileSyncWorker(store, cfg.InboxDir, cfg.DeviceID, cfg.InboxScanInterval, log)

	engine := service.NewEngine(service.EngineParts{
		Collectors: collectors,
		Ingestor:   ingestor,
		Repeater:   repeater,
		FileSync:   fileSync,
		Selector:   selector,
	}, log)
	if err := engine.Start(ctx); err != nil {
		log.Fatalf("Failed to start sync engine: %v", err)
	}

	// Инициализация сервисов
	locationService := service.NewLocationService(selector, store, exporter, broadcaster, identity, log)
	incidentService := service.NewIncidentService(store, exporter, broadcaster, identity, log)

	// Инициализация хэндлеров
	handler := v1.NewHandler(locationService, incidentService, engine, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Метрики и Swagger UI
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	engine.Stop()

	log.Info("Server gracefully stopped")
}

func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (service.RecordStore, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL is empty, records are kept in memory only")
		return repository.NewMemoryStore(), func() {}, nil
	}

	log.Info("Running database migrations...")
	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		return nil, nil, err
	}
	log.Info("Database migrations applied successfully")

	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Successfully connected to PostgreSQL")

	var cache *goredis.Client
	if cfg.RedisAddr != "" {
		cache, err = redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.SocketTimeout)
		if err != nil {
			log.WithError(err).Warn("Record cache disabled")
			cache = nil
		}
	}
	return repository.NewRecordRepository(dbpool, cache), func() { closeAll(dbpool, cache) }, nil
}

func closeAll(dbpool *pgxpool.Pool, cache *goredis.Client) {
	if cache != nil {
		_ = cache.Close()
	}
	dbpool.Close()
}

func openPeers(ctx context.Context, cfg *config.Config, log *logrus.Logger) (service.PeerSource, *goredis.Client, error) {
	static := repository.NewStaticPeerSource(cfg.StaticPeers)
	if cfg.RedisAddr == "" {
		log.WithField("peers", len(cfg.StaticPeers)).Info("Using static peer list")
		return static, nil, nil
	}

	client, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.SocketTimeout)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Successfully connected to Redis")
	return repository.NewMergedPeerSource(repository.NewRedisPeerSource(client, cfg.RedisPeersKey), static), client, nil
}
