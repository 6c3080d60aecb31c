package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// ErrInvalidConfig конфигурация не прошла валидацию
var ErrInvalidConfig = errors.New("invalid config")

// Режимы блокировки мастера при создании бронирования
const (
	LockModeLocal = "local"
	LockModeRedis = "redis"
)

// Config конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Scheduling   SchedulingConfig   `toml:"scheduling"`
	Cache        CacheConfig        `toml:"cache"`
	RateLimit    RateLimitConfig    `toml:"ratelimit"`
	Lock         LockConfig         `toml:"lock"`
	StaffService StaffServiceConfig `toml:"staff_service"`
	Events       EventsConfig       `toml:"events"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	// Количество повторов сериализуемой транзакции при 40001/40P01
	MaxTxRetries int `toml:"max_tx_retries"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// SchedulingConfig рабочее окно салона (одно на все дни, задается при старте)
type SchedulingConfig struct {
	Timezone        string `toml:"timezone"`
	OpenTime        string `toml:"open_time"`
	CloseTime       string `toml:"close_time"`
	SlotStepMinutes int    `toml:"slot_step_minutes"`
}

// BusinessHours собирает domain.BusinessHours из конфигурации
func (s SchedulingConfig) BusinessHours() (domain.BusinessHours, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return domain.BusinessHours{}, fmt.Errorf("%w: scheduling.timezone: %v", ErrInvalidConfig, err)
	}
	open, err := types.NewTimeStringFromString(s.OpenTime)
	if err != nil {
		return domain.BusinessHours{}, fmt.Errorf("%w: scheduling.open_time: %v", ErrInvalidConfig, err)
	}
	closeTime, err := types.NewTimeStringFromString(s.CloseTime)
	if err != nil {
		return domain.BusinessHours{}, fmt.Errorf("%w: scheduling.close_time: %v", ErrInvalidConfig, err)
	}

	hours := domain.BusinessHours{
		Open:     open,
		Close:    closeTime,
		Step:     time.Duration(s.SlotStepMinutes) * time.Minute,
		Location: loc,
	}
	if err := hours.Validate(); err != nil {
		return domain.BusinessHours{}, fmt.Errorf("%w: scheduling: %v", ErrInvalidConfig, err)
	}
	return hours, nil
}

// CacheConfig кэш каталога услуг (секунды)
type CacheConfig struct {
	Enabled         bool `toml:"enabled"`
	TTL             int  `toml:"ttl"`
	CleanupInterval int  `toml:"cleanup_interval"`
}

// RateLimitConfig ограничение частоты запросов по IP
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// LockConfig блокировка мастера на время проверки и вставки
type LockConfig struct {
	Mode          string `toml:"mode"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
	TTL           int    `toml:"ttl"`            // секунды
	RetryInterval int    `toml:"retry_interval"` // миллисекунды
	WaitTimeout   int    `toml:"wait_timeout"`   // секунды
}

// StaffServiceConfig справочник мастеров
type StaffServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// EventsConfig публикация событий бронирований в Kafka
type EventsConfig struct {
	Enabled bool     `toml:"enabled"`
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
	Timeout int      `toml:"timeout"`
}

// Load читает конфигурацию из файла, заполняет значения по умолчанию и валидирует
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(string(data))
}

// Parse разбирает TOML
func Parse(data string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default значения по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			MaxTxRetries:    3,
		},
		Logs: LogsConfig{
			Level: "info",
			File:  "logs/app.log",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "salon_scheduler",
		},
		Scheduling: SchedulingConfig{
			Timezone:        domain.DefaultTimezone,
			OpenTime:        domain.DefaultOpenTime,
			CloseTime:       domain.DefaultCloseTime,
			SlotStepMinutes: domain.DefaultSlotStepMinutes,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             300,
			CleanupInterval: 600,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Lock: LockConfig{
			Mode:          LockModeLocal,
			Prefix:        "salon:provider-lock",
			TTL:           10,
			RetryInterval: 25,
			WaitTimeout:   5,
		},
		StaffService: StaffServiceConfig{
			URL:     "http://localhost:8081",
			Timeout: 5,
		},
		Events: EventsConfig{
			Topic:   "salon.bookings",
			Timeout: 5,
		},
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var errs []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Sprintf("server.http_port out of range: %d", c.Server.HTTPPort))
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.Database.MaxTxRetries < 0 {
		errs = append(errs, "database.max_tx_retries must not be negative")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Sprintf("metrics.path must start with '/': %q", c.Metrics.Path))
	}
	if _, err := c.Scheduling.BusinessHours(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		errs = append(errs, "cache.ttl must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, "ratelimit.requests_per_second and ratelimit.burst must be positive")
	}
	switch c.Lock.Mode {
	case LockModeLocal:
	case LockModeRedis:
		if c.Lock.RedisAddr == "" {
			errs = append(errs, "lock.redis_addr is required for redis mode")
		}
	default:
		errs = append(errs, fmt.Sprintf("lock.mode must be %q or %q, got %q", LockModeLocal, LockModeRedis, c.Lock.Mode))
	}
	if c.StaffService.URL == "" {
		errs = append(errs, "staff_service.url is required")
	}
	if c.Events.Enabled && (len(c.Events.Brokers) == 0 || c.Events.Topic == "") {
		errs = append(errs, "events.brokers and events.topic are required when events are enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}
