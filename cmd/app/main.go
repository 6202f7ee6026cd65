package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/anisurarzu/hotelseashore/config"
	"github.com/anisurarzu/hotelseashore/internal/allocation"
	"github.com/anisurarzu/hotelseashore/internal/bootstrap"
	"github.com/anisurarzu/hotelseashore/internal/cache"
	"github.com/anisurarzu/hotelseashore/internal/domain"
	"github.com/anisurarzu/hotelseashore/internal/kafka"
	"github.com/anisurarzu/hotelseashore/internal/metrics"
	"github.com/anisurarzu/hotelseashore/internal/repository"
	"github.com/anisurarzu/hotelseashore/internal/service/inventory"
	"github.com/anisurarzu/hotelseashore/internal/service/reservation"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARNING: load .env: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	health := map[string]bootstrap.HealthCheck{}

	var (
		inventoryRepo   repository.InventoryRepository
		reservationRepo repository.ReservationRepository
	)
	switch cfg.Database.Driver {
	case config.DriverMemory:
		var hotels []domain.Hotel
		if cfg.Database.SeedPath != "" {
			hotels, err = repository.LoadSeed(cfg.Database.SeedPath)
			if err != nil {
				log.Fatalf("load seed: %v", err)
			}
		}
		store := repository.NewMemoryStore(hotels)
		inventoryRepo, reservationRepo = store, store
		log.Printf("using in-memory store hotels=%d", len(hotels))
	default:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("connect postgres: %v", err)
		}
		defer pool.Close()
		health["postgres"] = pool.Ping
		inventoryRepo = repository.NewInventoryRepository(pool)
		reservationRepo = repository.NewReservationRepository(pool)
	}

	var (
		inventoryCache inventory.Cache
		locker         allocation.Locker
	)
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Reservation.InventoryCacheTTL(), cfg.Reservation.LockTTL(), cfg.Reservation.LockWait())
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("WARNING: redis unreachable addr=%s: %v", cfg.Redis.Addr, err)
		}
		health["redis"] = redisCache.Ping
		inventoryCache = redisCache
		if cfg.Reservation.LockBackend == config.LockBackendRedis {
			locker = redisCache
		}
	}
	if locker == nil {
		locker = allocation.NewLocalLocker(cfg.Reservation.LockWait())
		log.Printf("using process-local room locks wait=%s", cfg.Reservation.LockWait())
	}

	var producer reservation.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer kafkaProducer.Close()
		if err := kafkaProducer.CheckConnection(ctx); err != nil {
			log.Printf("WARNING: %v", err)
		}
		producer = kafkaProducer
	}

	var m *metrics.Metrics
	gatekeeperOpts := []allocation.GatekeeperOption{}
	reservationOpts := []reservation.ReservationServiceOption{
		reservation.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	}
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Prefix)
		gatekeeperOpts = append(gatekeeperOpts, allocation.WithLockObserver(m.ObserveLock))
		reservationOpts = append(reservationOpts, reservation.WithRecorder(m))
	}
	reservationOpts = append(reservationOpts, reservation.WithGatekeeperOptions(gatekeeperOpts...))

	inventoryService := inventory.NewInventoryService(inventoryRepo, inventoryCache)
	reservationOpts = append(reservationOpts, reservation.WithReadRooms(inventoryService))
	reservationService := reservation.NewReservationService(
		inventoryRepo,
		reservationRepo,
		locker,
		producer,
		cfg.Kafka.ReservationTopic,
		reservationOpts...,
	)

	if err := bootstrap.Run(ctx, cfg, bootstrap.Services{
		Inventory:    inventoryService,
		Reservations: reservationService,
		Metrics:      m,
		Health:       health,
	}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
