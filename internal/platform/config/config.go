package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Environment names accepted by STABLEFORD_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Server captures process level configuration.
type Server struct {
	Addr     string `env:"STABLEFORD_ADDR" envDefault:":8080"`
	Env      string `env:"STABLEFORD_ENV" envDefault:"development"`
	LogLevel string `env:"STABLEFORD_LOG_LEVEL" envDefault:"info"`

	// TxTimeout bounds every unit of work that has no caller deadline.
	TxTimeout time.Duration `env:"STABLEFORD_TX_TIMEOUT" envDefault:"5s"`

	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Tracing  TracingConfig
}

// DatabaseConfig configures Postgres. An empty URL selects in-memory stores.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// RedisConfig configures the current-handicap cache. An empty URL disables it.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
	CacheTTL     time.Duration `env:"STABLEFORD_CACHE_TTL" envDefault:"10m"`
}

// KafkaConfig configures the audit stream. No brokers disables it.
type KafkaConfig struct {
	Brokers     []string `env:"KAFKA_BROKERS" envSeparator:","`
	AuditTopic  string   `env:"KAFKA_AUDIT_TOPIC" envDefault:"stableford.audit"`
	Partitions  int32    `env:"KAFKA_AUDIT_PARTITIONS" envDefault:"3"`
	Replication int16    `env:"KAFKA_AUDIT_REPLICATION" envDefault:"1"`
	AuditBuffer int      `env:"KAFKA_AUDIT_BUFFER" envDefault:"1024"`
}

// TracingConfig configures OTLP span export. No endpoint disables export.
type TracingConfig struct {
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"stableford"`
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate rejects settings that would fail later in less obvious ways.
func (c Server) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("STABLEFORD_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env)
	}
	if c.TxTimeout <= 0 {
		return fmt.Errorf("STABLEFORD_TX_TIMEOUT must be positive")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.AuditTopic == "" {
		return fmt.Errorf("KAFKA_AUDIT_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

func (c Server) IsProduction() bool {
	return c.Env == EnvProduction
}
