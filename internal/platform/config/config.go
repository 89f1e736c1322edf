package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures server-level configuration. FromEnv keeps main lean.
type Config struct {
	Addr          string
	DatabaseURL   string
	JWTSigningKey string

	Redis RedisConfig
	Kafka KafkaConfig

	// ClaimTTL bounds how long a pending claim holds its donation in limbo.
	ClaimTTL time.Duration
	// ClaimSweepInterval must stay well under ClaimTTL so the deadline is
	// enforced promptly; DonationSweepInterval covers the coarser expiry date.
	ClaimSweepInterval    time.Duration
	DonationSweepInterval time.Duration

	// AuditBuffer sizes the async audit publisher; 0 means synchronous.
	AuditBuffer int
}

// RedisConfig configures the pub/sub fan-out client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional audit trail sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:          envString("SHAREBITE_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("SHAREBITE_DATABASE_URL"),
		JWTSigningKey: os.Getenv("SHAREBITE_JWT_SIGNING_KEY"),
		Redis: RedisConfig{
			URL:          os.Getenv("SHAREBITE_REDIS_URL"),
			PoolSize:     envInt("SHAREBITE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("SHAREBITE_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("SHAREBITE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("SHAREBITE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("SHAREBITE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: envList("SHAREBITE_KAFKA_BROKERS"),
			Topic:   envString("SHAREBITE_KAFKA_AUDIT_TOPIC", "sharebite.audit"),
		},
		ClaimTTL:              envDuration("SHAREBITE_CLAIM_TTL", 15*time.Minute),
		ClaimSweepInterval:    envDuration("SHAREBITE_CLAIM_SWEEP_INTERVAL", 30*time.Second),
		DonationSweepInterval: envDuration("SHAREBITE_DONATION_SWEEP_INTERVAL", time.Hour),
		AuditBuffer:           envInt("SHAREBITE_AUDIT_BUFFER", 256),
	}
	if cfg.JWTSigningKey == "" {
		// Dev default; must be overridden in production.
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}
	return cfg
}

func envString(key, fallback string) string {
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
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
