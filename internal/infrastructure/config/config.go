package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port        string `env:"PORT,        default=8080"`
	Env         string `env:"ENV,         default=development"`
	LogLevel    string `env:"LOG_LEVEL,   default=info"`
	TokenSecret string `env:"TOKEN_SECRET"`

	Storage StorageConfig
	Latency LatencyConfig
}

type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER, default=sqlite"`

	SQLitePath string `env:"SQLITE_PATH, default=data/tracker.db"`

	RedisAddr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB,       default=0"`
	RedisPrefix   string `env:"REDIS_PREFIX,   default=tracker:"`

	MongoURI string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	MongoDB  string `env:"MONGO_DB,  default=project_tracker"`
}

// LatencyConfig holds the simulated round trip of each emulated call.
type LatencyConfig struct {
	// Default applies to emulated calls that do not set their own latency.
	Default time.Duration `env:"LATENCY_DEFAULT, default=500ms"`
	Login   time.Duration `env:"LATENCY_LOGIN,   default=1s"`
	List    time.Duration `env:"LATENCY_LIST,    default=800ms"`
	Create  time.Duration `env:"LATENCY_CREATE,  default=1200ms"`
	Mutate  time.Duration `env:"LATENCY_MUTATE,  default=500ms"`
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	switch cfg.Storage.Driver {
	case DriverSQLite, DriverRedis, DriverMongo, DriverMemory:
	default:
		return nil, fmt.Errorf("config: unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
	return &cfg, nil
}
