package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default cookie name the front-end bootstrap reads and writes.
const DefaultConsentCookieName = "felixCookies"

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Environment     string
	LogLevel        string
	AdminAPIToken   string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	MaxBodyBytes    int64
	SeedFile        string
	TrustedProxies  []string
	TracingEnabled  bool

	Cookie    CookieConfig
	Templates TemplateConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Retention RetentionConfig
}

// CookieConfig controls the consent cookie written back to the browser.
type CookieConfig struct {
	Name     string
	Domain   string
	Path     string
	Secure   bool
	SameSite string
}

// TemplateConfig locates the modal and per-group script templates on disk.
type TemplateConfig struct {
	Dir   string
	Watch bool
}

// DatabaseConfig holds Postgres connection settings. An empty URL keeps the
// service on in-memory stores.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds registry cache settings. An empty URL disables the cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	RegistryTTL  time.Duration
}

// KafkaConfig holds the decision log sink settings. Empty brokers disable the sink.
type KafkaConfig struct {
	Brokers         string
	Topic           string
	Acks            string
	Retries         int
	DeliveryTimeout time.Duration
}

// RetentionConfig bounds how long proof-of-consent entries are kept.
type RetentionConfig struct {
	Period          time.Duration
	CleanupInterval time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present; real
// environment variables always win over it.
func FromEnv() (Server, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Server{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Server{
		Addr:            envString("CONSENTRY_ADDR", ":8080"),
		Environment:     envString("ENVIRONMENT", "development"),
		LogLevel:        envString("LOG_LEVEL", "info"),
		AdminAPIToken:   os.Getenv("ADMIN_API_TOKEN"),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		RequestTimeout:  envDuration("REQUEST_TIMEOUT", 30*time.Second),
		MaxBodyBytes:    int64(envInt("MAX_BODY_BYTES", 64*1024)),
		SeedFile:        os.Getenv("SEED_FILE"),
		TrustedProxies:  envList("TRUSTED_PROXIES"),
		TracingEnabled:  envBool("TRACING_ENABLED", false),
		Cookie: CookieConfig{
			Name:     envString("CONSENT_COOKIE_NAME", DefaultConsentCookieName),
			Domain:   os.Getenv("CONSENT_COOKIE_DOMAIN"),
			Path:     envString("CONSENT_COOKIE_PATH", "/"),
			Secure:   envBool("CONSENT_COOKIE_SECURE", true),
			SameSite: envString("CONSENT_COOKIE_SAMESITE", "lax"),
		},
		Templates: TemplateConfig{
			Dir:   envString("TEMPLATE_DIR", "templates"),
			Watch: envBool("TEMPLATE_WATCH", true),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			RegistryTTL:  envDuration("REGISTRY_CACHE_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:         os.Getenv("KAFKA_BROKERS"),
			Topic:           envString("KAFKA_DECISION_TOPIC", "consent.decisions"),
			Acks:            envString("KAFKA_ACKS", "all"),
			Retries:         envInt("KAFKA_RETRIES", 3),
			DeliveryTimeout: envDuration("KAFKA_DELIVERY_TIMEOUT", 30*time.Second),
		},
		Retention: RetentionConfig{
			Period:          envDuration("CONSENT_LOG_RETENTION", 3*365*24*time.Hour),
			CleanupInterval: envDuration("CONSENT_LOG_CLEANUP_INTERVAL", time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c Server) Validate() error {
	if strings.TrimSpace(c.Cookie.Name) == "" {
		return fmt.Errorf("CONSENT_COOKIE_NAME must not be empty")
	}
	switch strings.ToLower(c.Cookie.SameSite) {
	case "lax", "strict", "none":
	default:
		return fmt.Errorf("CONSENT_COOKIE_SAMESITE must be one of lax, strict, none")
	}
	if c.Retention.Period <= 0 {
		return fmt.Errorf("CONSENT_LOG_RETENTION must be positive")
	}
	if c.Environment == "production" && c.AdminAPIToken == "" {
		return fmt.Errorf("ADMIN_API_TOKEN is required in production")
	}
	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
