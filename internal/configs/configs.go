package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	NotifyBackendLocal = "local"
	NotifyBackendRedis = "redis"
)

type Config struct {
	AppURL                 string
	AppEnv                 string
	DatabaseDriver         string
	DatabaseDSN            string
	RateLimit              int
	TxTimeout              time.Duration
	NotifyWorkers          int
	NotifyQueueSize        int
	NotifyBackend          string
	RedisAddr              string
	RedisChannel           string
	ShutdownTimeoutSeconds int
}

func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", v.GetString("APP_HOST"), v.GetString("APP_PORT")),
		AppEnv:                 v.GetString("APP_ENV"),
		DatabaseDriver:         v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:            v.GetString("DATABASE_DSN"),
		RateLimit:              v.GetInt("RATE_LIMIT_PER_MINUTE"),
		TxTimeout:              time.Duration(v.GetInt("TX_TIMEOUT_MS")) * time.Millisecond,
		NotifyWorkers:          v.GetInt("NOTIFY_WORKERS"),
		NotifyQueueSize:        v.GetInt("NOTIFY_QUEUE_SIZE"),
		NotifyBackend:          v.GetString("NOTIFY_BACKEND"),
		RedisAddr:              fmt.Sprintf("%s:%s", v.GetString("REDIS_HOST"), v.GetString("REDIS_PORT")),
		RedisChannel:           v.GetString("REDIS_CHANNEL"),
		ShutdownTimeoutSeconds: v.GetInt("SHUTDOWN_TIMEOUT_SECONDS"),
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_HOST", "127.0.0.1")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "gigflow.db")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	v.SetDefault("TX_TIMEOUT_MS", 5000)
	v.SetDefault("NOTIFY_WORKERS", 2)
	v.SetDefault("NOTIFY_QUEUE_SIZE", 256)
	v.SetDefault("NOTIFY_BACKEND", NotifyBackendLocal)
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_CHANNEL", "gigflow:notifications")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 20)
}

func validate(cfg Config) error {
	var errs []error
	if cfg.AppURL == ":" {
		errs = append(errs, errors.New("APP_HOST/APP_PORT must not be empty (e.g. 127.0.0.1:8080)"))
	}
	if cfg.DatabaseDriver != DriverSQLite && cfg.DatabaseDriver != DriverPostgres {
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be %q or %q", DriverSQLite, DriverPostgres))
	}
	if cfg.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN must not be empty"))
	}
	if cfg.RateLimit <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must be greater than 0"))
	}
	if cfg.TxTimeout <= 0 {
		errs = append(errs, errors.New("TX_TIMEOUT_MS must be greater than 0"))
	}
	if cfg.NotifyWorkers <= 0 {
		errs = append(errs, errors.New("NOTIFY_WORKERS must be greater than 0"))
	}
	if cfg.NotifyQueueSize <= 0 {
		errs = append(errs, errors.New("NOTIFY_QUEUE_SIZE must be greater than 0"))
	}
	if cfg.NotifyBackend != NotifyBackendLocal && cfg.NotifyBackend != NotifyBackendRedis {
		errs = append(errs, fmt.Errorf("NOTIFY_BACKEND must be %q or %q", NotifyBackendLocal, NotifyBackendRedis))
	}
	if cfg.NotifyBackend == NotifyBackendRedis && cfg.RedisChannel == "" {
		errs = append(errs, errors.New("REDIS_CHANNEL must not be empty when NOTIFY_BACKEND=redis"))
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0"))
	}
	return errors.Join(errs...)
}
