package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full process configuration assembled from the environment.
type Config struct {
	Server      Server
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Storage     StorageConfig
	Outbox      OutboxConfig
	Admin       AdminBootstrap
	AutoMigrate bool
	LogLevel    string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	JWTTTL        time.Duration
}

type DatabaseConfig struct {
	URL             string
	Driver          string // "postgres" (lib/pq) or "pgx"
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	Group   string
}

// Enabled reports whether a broker list was configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

type StorageConfig struct {
	Bucket       string
	Region       string
	Endpoint     string
	SignedURLTTL time.Duration
}

// AdminBootstrap names an account granted ADMIN at startup, so a fresh
// deployment has someone who can create elections.
type AdminBootstrap struct {
	VoterID  string
	Password string
}

// Enabled reports whether both credentials were configured.
func (a AdminBootstrap) Enabled() bool { return a.VoterID != "" && a.Password != "" }

type OutboxConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

const devSigningKey = "dev-secret-key-change-in-production"

// FromEnv builds Config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present;
// real environment variables win over it.
func FromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Server: Server{
			Addr:          getString("ELECTORAL_ADDR", ":8080"),
			JWTSigningKey: getString("JWT_SIGNING_KEY", devSigningKey),
			JWTIssuer:     getString("JWT_ISSUER", "electoral"),
			JWTAudience:   getString("JWT_AUDIENCE", "electoral-api"),
		},
		Database: DatabaseConfig{
			URL:    os.Getenv("DATABASE_URL"),
			Driver: getString("DB_DRIVER", "postgres"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getString("KAFKA_TOPIC", "electoral.events"),
			Group:   getString("KAFKA_GROUP", "electoral-notifier"),
		},
		Storage: StorageConfig{
			Bucket:   os.Getenv("S3_BUCKET"),
			Region:   getString("AWS_REGION", "ap-south-1"),
			Endpoint: os.Getenv("S3_ENDPOINT"),
		},
		Admin: AdminBootstrap{
			VoterID:  os.Getenv("ADMIN_VOTER_ID"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		LogLevel: getString("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.Server.JWTTTL, err = getDuration("JWT_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.Database.MaxOpenConns, err = getInt("DB_MAX_OPEN_CONNS", 25); err != nil {
		return Config{}, err
	}
	if cfg.Database.MaxIdleConns, err = getInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return Config{}, err
	}
	if cfg.Database.ConnMaxLifetime, err = getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.Redis.PoolSize, err = getInt("REDIS_POOL_SIZE", 10); err != nil {
		return Config{}, err
	}
	if cfg.Redis.MinIdleConns, err = getInt("REDIS_MIN_IDLE_CONNS", 2); err != nil {
		return Config{}, err
	}
	cfg.Redis.DialTimeout = 5 * time.Second
	cfg.Redis.ReadTimeout = 3 * time.Second
	cfg.Redis.WriteTimeout = 3 * time.Second
	if cfg.Storage.SignedURLTTL, err = getDuration("SIGNED_URL_TTL", 300*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.Outbox.PollInterval, err = getDuration("OUTBOX_POLL_INTERVAL", time.Second); err != nil {
		return Config{}, err
	}
	if cfg.Outbox.BatchSize, err = getInt("OUTBOX_BATCH_SIZE", 100); err != nil {
		return Config{}, err
	}
	if cfg.AutoMigrate, err = getBool("AUTO_MIGRATE", false); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "pgx":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or pgx, got %q", c.Database.Driver)
	}
	if c.Server.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

// UsesDevSigningKey reports whether the built-in development key is active.
func (c Config) UsesDevSigningKey() bool {
	return c.Server.JWTSigningKey == devSigningKey
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
