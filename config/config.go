package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	LockBackendRedis = "redis"
	LockBackendLocal = "local"

	minLockTTLFactor = 3
)

type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	Reservation ReservationConfig `yaml:"reservation"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

type HTTPConfig struct {
	Address         string `yaml:"address"`
	ShutdownSeconds int    `yaml:"shutdown_seconds"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
	// SeedPath is the inventory file loaded by the memory driver.
	SeedPath string `yaml:"seed_path"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	ReservationTopic   string   `yaml:"reservation_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type ReservationConfig struct {
	LockBackend          string `yaml:"lock_backend"`
	LockWaitMillis       int    `yaml:"lock_wait_millis"`
	LockTTLSeconds       int    `yaml:"lock_ttl_seconds"`
	InventoryCacheTTLSec int    `yaml:"inventory_cache_ttl_seconds"`
}

func (r ReservationConfig) LockWait() time.Duration {
	return time.Duration(r.LockWaitMillis) * time.Millisecond
}

func (r ReservationConfig) LockTTL() time.Duration {
	return time.Duration(r.LockTTLSeconds) * time.Second
}

func (r ReservationConfig) InventoryCacheTTL() time.Duration {
	return time.Duration(r.InventoryCacheTTLSec) * time.Second
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Prefix  string `yaml:"prefix"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.ShutdownSeconds == 0 {
		c.HTTP.ShutdownSeconds = 5
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Reservation.LockBackend == "" {
		c.Reservation.LockBackend = LockBackendRedis
	}
	if c.Reservation.LockWaitMillis == 0 {
		c.Reservation.LockWaitMillis = 2000
	}
	if c.Reservation.LockTTLSeconds == 0 {
		c.Reservation.LockTTLSeconds = 10
	}
	if c.Reservation.InventoryCacheTTLSec == 0 {
		c.Reservation.InventoryCacheTTLSec = 60
	}
	if c.Metrics.Prefix == "" {
		c.Metrics.Prefix = "hotel"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "reservation-notifier"
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	switch c.Reservation.LockBackend {
	case LockBackendRedis, LockBackendLocal:
	default:
		return fmt.Errorf("unknown lock backend %q", c.Reservation.LockBackend)
	}
	if c.Reservation.LockWaitMillis < 0 || c.Reservation.LockTTLSeconds < 0 {
		return fmt.Errorf("lock timings must be positive")
	}
	// A lock must outlive a holder's check-and-persist; the TTL only guards
	// against crashed holders.
	if c.Reservation.LockTTL() < minLockTTLFactor*c.Reservation.LockWait() {
		return fmt.Errorf("lock_ttl_seconds (%s) must be at least %d times lock_wait_millis (%s)",
			c.Reservation.LockTTL(), minLockTTLFactor, c.Reservation.LockWait())
	}
	if c.Reservation.LockBackend == LockBackendRedis && c.Redis.Addr == "" {
		return fmt.Errorf("redis lock backend requires redis.addr")
	}
	return nil
}
