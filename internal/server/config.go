package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mkoster/pibauhaus/pkg/cache"
)

// Cache backend names accepted by PIBAUHAUS_CACHE.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config holds the HTTP server settings, read from the environment. Poster
// parameters come from the regular config sources; only deployment concerns
// live here.
type Config struct {
	Addr string `env:"PIBAUHAUS_ADDR" envDefault:":8080"`

	// ConfigPath optionally points at a poster TOML file layered over the
	// defaults at startup.
	ConfigPath string `env:"PIBAUHAUS_CONFIG"`

	CacheBackend string `env:"PIBAUHAUS_CACHE" envDefault:"file"`
	CacheDir     string `env:"PIBAUHAUS_CACHE_DIR"`

	RedisAddr     string `env:"PIBAUHAUS_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"PIBAUHAUS_REDIS_PASSWORD"`
	RedisDB       int    `env:"PIBAUHAUS_REDIS_DB" envDefault:"0"`

	MongoURI      string `env:"PIBAUHAUS_MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"PIBAUHAUS_MONGO_DB" envDefault:"pibauhaus"`

	ThumbEdge int `env:"PIBAUHAUS_THUMB_EDGE" envDefault:"600"`

	ReadTimeout     time.Duration `env:"PIBAUHAUS_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"PIBAUHAUS_WRITE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"PIBAUHAUS_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoadConfig reads the server configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing server environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	switch c.CacheBackend {
	case BackendFile, BackendRedis, BackendMongo, BackendNone:
	default:
		return fmt.Errorf("unknown cache backend %q (must be file, redis, mongo, or none)", c.CacheBackend)
	}
	if c.ThumbEdge <= 0 {
		return fmt.Errorf("thumbnail edge must be positive, got %d", c.ThumbEdge)
	}
	return nil
}

// OpenCache creates the configured cache backend. The redis and mongo
// backends connect eagerly so misconfiguration fails at startup, not on the
// first request.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.CacheBackend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
	case BackendMongo:
		return cache.NewMongoCache(ctx, cache.MongoConfig{
			URI:      c.MongoURI,
			Database: c.MongoDatabase,
		})
	default:
		dir := c.CacheDir
		if dir == "" {
			var err error
			if dir, err = defaultCacheDir(); err != nil {
				return nil, fmt.Errorf("resolving cache dir: %w", err)
			}
		}
		return cache.NewFileCache(dir)
	}
}

// defaultCacheDir follows the XDG convention (~/.cache/pibauhaus/).
func defaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "pibauhaus"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "pibauhaus"), nil
}
