package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates per-concern configuration so main stays lean.
type Config struct {
	Server   Server
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

// PostgresConfig captures the SQL store connection settings. An empty URL
// selects the in-memory stores (dev and unit-test mode).
type PostgresConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	ConnTimeout  time.Duration
}

// RedisConfig captures cache connection settings. An empty URL disables the
// unread-count cache; the service falls back to counting in the store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// KafkaConfig captures the identity lifecycle event source. Empty brokers
// disable the consumer; lifecycle events then only arrive from the in-process
// emitter.
type KafkaConfig struct {
	Brokers        []string
	LifecycleTopic string
	ConsumerGroup  string
}

// AuthConfig holds inbound token validation settings. Tokens are issued by the
// external identity provider; this service only verifies them.
type AuthConfig struct {
	JWTSigningKey  string
	Issuer         string
	Audience       string
	AdminTokenHash string
}

// FromEnv builds a Config from environment variables with dev defaults.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            envOr("PULSEBOARD_ADDR", ":8080"),
			ShutdownTimeout: envDuration("PULSEBOARD_SHUTDOWN_TIMEOUT", 10*time.Second),
			RequestTimeout:  envDuration("PULSEBOARD_REQUEST_TIMEOUT", 30*time.Second),
		},
		Postgres: PostgresConfig{
			URL:          os.Getenv("PULSEBOARD_POSTGRES_URL"),
			MaxOpenConns: envInt("PULSEBOARD_POSTGRES_MAX_OPEN", 20),
			MaxIdleConns: envInt("PULSEBOARD_POSTGRES_MAX_IDLE", 5),
			ConnTimeout:  envDuration("PULSEBOARD_POSTGRES_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("PULSEBOARD_REDIS_URL"),
			PoolSize:     envInt("PULSEBOARD_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("PULSEBOARD_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("PULSEBOARD_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("PULSEBOARD_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("PULSEBOARD_REDIS_WRITE_TIMEOUT", 3*time.Second),
			CacheTTL:     envDuration("PULSEBOARD_REDIS_CACHE_TTL", time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:        envList("PULSEBOARD_KAFKA_BROKERS"),
			LifecycleTopic: envOr("PULSEBOARD_KAFKA_LIFECYCLE_TOPIC", "identity.lifecycle"),
			ConsumerGroup:  envOr("PULSEBOARD_KAFKA_GROUP", "pulseboard"),
		},
		Auth: AuthConfig{
			// Dev default; must be overridden in production.
			JWTSigningKey:  envOr("PULSEBOARD_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			Issuer:         envOr("PULSEBOARD_JWT_ISSUER", "identity-provider"),
			Audience:       envOr("PULSEBOARD_JWT_AUDIENCE", "pulseboard"),
			AdminTokenHash: os.Getenv("PULSEBOARD_ADMIN_TOKEN_HASH"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
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

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
