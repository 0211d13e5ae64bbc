package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database     DatabaseConfig
	Redis        RedisConfig
	Session      SessionConfig
	CORS         CORSConfig
	Log          LogConfig
	Catalog      CatalogConfig
	Store        StoreConfig
	CustomFilter CustomFilterConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	URL          string
}

type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	Namespace string
}

// SessionConfig controls the signed token identifying a student across requests.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string

	// IdleTimeout bounds how long an untouched in-memory session is kept.
	IdleTimeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CatalogConfig points at the remote programme catalog service.
type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
	PerPage int
}

// StoreConfig selects the backend for the per-student key-value cache.
type StoreConfig struct {
	Driver string
	TTL    time.Duration
}

// CustomFilterConfig tunes the ad-hoc subject match flow.
type CustomFilterConfig struct {
	PerPage      int
	DefaultGrade string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		URL:          v.GetString("DATABASE_URL"),
	}

	cfg.Redis = RedisConfig{
		Host:      v.GetString("REDIS_HOST"),
		Port:      v.GetInt("REDIS_PORT"),
		Password:  v.GetString("REDIS_PASSWORD"),
		DB:        v.GetInt("REDIS_DB"),
		Namespace: v.GetString("REDIS_NAMESPACE"),
	}

	cfg.Session = SessionConfig{
		Secret: v.GetString("SESSION_SECRET"),
		TTL:    parseDuration(v.GetString("SESSION_TTL"), 24*time.Hour),
		Issuer: v.GetString("SESSION_ISSUER"),

		IdleTimeout: parseDuration(v.GetString("SESSION_IDLE_TIMEOUT"), 2*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Catalog = CatalogConfig{
		BaseURL: strings.TrimRight(v.GetString("CATALOG_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("CATALOG_TIMEOUT"), 10*time.Second),
		PerPage: positiveOr(v.GetInt("CATALOG_PER_PAGE"), 6),
	}

	cfg.Store = StoreConfig{
		Driver: strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		TTL:    parseDuration(v.GetString("STORE_TTL"), 0),
	}
	switch cfg.Store.Driver {
	case StoreMemory, StoreRedis, StorePostgres:
	default:
		cfg.Store.Driver = StoreMemory
	}

	cfg.CustomFilter = CustomFilterConfig{
		PerPage:      positiveOr(v.GetInt("CUSTOM_FILTER_PER_PAGE"), 6),
		DefaultGrade: strings.ToUpper(strings.TrimSpace(v.GetString("CUSTOM_FILTER_DEFAULT_GRADE"))),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "programme_match")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DATABASE_URL", "")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_NAMESPACE", "programme-match:")

	v.SetDefault("SESSION_SECRET", "dev_session_secret")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_ISSUER", "programme-match-api")
	v.SetDefault("SESSION_IDLE_TIMEOUT", "2h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CATALOG_BASE_URL", "http://localhost:8000")
	v.SetDefault("CATALOG_TIMEOUT", "10s")
	v.SetDefault("CATALOG_PER_PAGE", 6)

	v.SetDefault("STORE_DRIVER", StoreMemory)
	v.SetDefault("STORE_TTL", "")

	v.SetDefault("CUSTOM_FILTER_PER_PAGE", 6)
	v.SetDefault("CUSTOM_FILTER_DEFAULT_GRADE", "C")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func positiveOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
