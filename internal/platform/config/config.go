package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Counter backends for credential number allocation.
const (
	CounterMemory   = "memory"
	CounterPostgres = "postgres"
	CounterRedis    = "redis"
)

// Server captures process-level configuration. Every field can be set from
// the environment; flags on the serve command override a few of them.
type Server struct {
	Addr     string `env:"ACCREDIT_ADDR" envDefault:":8080"`
	LogLevel string `env:"ACCREDIT_LOG_LEVEL" envDefault:"info"`

	// DevMode runs on in-memory stores seeded with a demo advocate.
	DevMode bool `env:"ACCREDIT_DEV_MODE"`

	DatabaseURL string `env:"DATABASE_URL"`
	Migrate     bool   `env:"ACCREDIT_MIGRATE"`

	Redis RedisConfig `envPrefix:"REDIS_"`
	Kafka KafkaConfig `envPrefix:"KAFKA_"`

	JWTSigningKey string `env:"JWT_SIGNING_KEY"`
	JWTIssuer     string `env:"JWT_ISSUER" envDefault:"accredit"`
	JWTAudience   string `env:"JWT_AUDIENCE" envDefault:"accredit-api"`

	// AdminToken guards the staff routes. Empty disables them.
	AdminToken string `env:"ACCREDIT_ADMIN_TOKEN"`

	CredentialPrefix string `env:"ACCREDIT_CREDENTIAL_PREFIX" envDefault:"ACC"`
	CounterBackend   string `env:"ACCREDIT_COUNTER_BACKEND" envDefault:"postgres"`

	// PublicRateLimit caps unauthenticated requests per client address per
	// PublicRateWindow. Zero disables limiting.
	PublicRateLimit  int           `env:"ACCREDIT_PUBLIC_RATE_LIMIT" envDefault:"60"`
	PublicRateWindow time.Duration `env:"ACCREDIT_PUBLIC_RATE_WINDOW" envDefault:"1m"`

	ShutdownTimeout time.Duration `env:"ACCREDIT_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type RedisConfig struct {
	URL          string        `env:"URL"`
	PoolSize     int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
}

// KafkaConfig enables the Kafka audit sink when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string `env:"BROKERS" envSeparator:","`
	Topic   string   `env:"AUDIT_TOPIC" envDefault:"accredit.audit"`
}

const devSigningKey = "dev-secret-key-change-in-production"

// FromEnv loads a Server config from environment variables.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate applies dev defaults and rejects combinations that cannot start.
func (c *Server) Validate() error {
	c.CounterBackend = strings.ToLower(strings.TrimSpace(c.CounterBackend))
	if c.DevMode {
		if c.JWTSigningKey == "" {
			c.JWTSigningKey = devSigningKey
		}
		if c.DatabaseURL == "" {
			c.CounterBackend = CounterMemory
		}
	}

	switch c.CounterBackend {
	case CounterMemory, CounterPostgres, CounterRedis:
	default:
		return fmt.Errorf("unknown counter backend %q", c.CounterBackend)
	}
	if c.JWTSigningKey == "" {
		return fmt.Errorf("JWT_SIGNING_KEY is required outside dev mode")
	}
	if !c.DevMode && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required outside dev mode")
	}
	if c.CounterBackend == CounterPostgres && c.DatabaseURL == "" {
		return fmt.Errorf("postgres counter requires DATABASE_URL")
	}
	if c.CounterBackend == CounterRedis && c.Redis.URL == "" {
		return fmt.Errorf("redis counter requires REDIS_URL")
	}
	if c.PublicRateLimit < 0 || (c.PublicRateLimit > 0 && c.PublicRateWindow <= 0) {
		return fmt.Errorf("public rate limit needs a non-negative limit and a positive window")
	}
	if c.CounterBackend == CounterMemory && !c.DevMode {
		return fmt.Errorf("memory counter is only allowed in dev mode")
	}
	return nil
}
