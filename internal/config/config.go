package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Catalog source kinds.
const (
	SourceFile     = "file"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	Catalog CatalogConfig
	DB      DatabaseConfig
	Redis   RedisConfig
	Worker  WorkerConfig
	Cache   CacheConfig
	CORS    CORSConfig
}

// CatalogConfig selects where the product catalog is loaded from.
type CatalogConfig struct {
	Source    string
	File      string
	S3Bucket  string
	S3Key     string
	AWSRegion string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters. An empty Host disables Redis.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis host is configured.
func (r RedisConfig) Enabled() bool { return r.Host != "" }

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	CatalogReloadInterval time.Duration
}

// CacheConfig contains TTLs for cached rankings.
type CacheConfig struct {
	SimilarTTL time.Duration
}

// CORSConfig lists the hosts allowed to call the API from a browser.
type CORSConfig struct {
	AllowedHosts []string
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Missing .env is fine: production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Catalog
	cfg.Catalog = CatalogConfig{
		Source:    strings.ToLower(getEnv("CATALOG_SOURCE", SourceFile)),
		File:      getEnv("CATALOG_FILE", "data/products.json"),
		S3Bucket:  getEnv("CATALOG_S3_BUCKET", ""),
		S3Key:     getEnv("CATALOG_S3_KEY", "products.json"),
		AWSRegion: getEnv("AWS_REGION", "eu-north-1"),
	}

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	cfg.CORS = CORSConfig{
		AllowedHosts: splitList(getEnv("CORS_ALLOWED_HOSTS", "localhost:5173,127.0.0.1:5173")),
	}

	var err error
	if cfg.Worker.CatalogReloadInterval, err = parseDurationEnv("CATALOG_RELOAD_INTERVAL", "0s"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_RELOAD_INTERVAL: %w", err)
	}
	if cfg.Cache.SimilarTTL, err = parseDurationEnv("SIMILAR_CACHE_TTL", "10m"); err != nil {
		return nil, fmt.Errorf("invalid SIMILAR_CACHE_TTL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	switch cfg.Catalog.Source {
	case SourceFile:
		if cfg.Catalog.File == "" {
			return errors.New("CATALOG_FILE must be set for the file catalog source")
		}
	case SourceS3:
		if cfg.Catalog.S3Bucket == "" || cfg.Catalog.S3Key == "" {
			return errors.New("CATALOG_S3_BUCKET and CATALOG_S3_KEY must be set for the s3 catalog source")
		}
	case SourcePostgres:
		if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
			return errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
		}
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q: expected file, s3 or postgres", cfg.Catalog.Source)
	}

	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set for admin authentication")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
