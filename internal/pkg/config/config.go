package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Storage backends selectable with STORE_DRIVER.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreBadger   = "badger"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// StoreDriver selects the operator store: mongo, postgres or badger.
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`
	// AutoCreateOperators lets reports naming an unknown operator ID
	// provision it.
	AutoCreateOperators bool `env:"AUTO_CREATE_OPERATORS, default=false"`
	DispatchWorkers     int  `env:"DISPATCH_WORKERS,      default=8"`

	Mongo    MongoConfig
	Postgres PostgresConfig
	Badger   BadgerConfig
	Redis    RedisConfig
	AMQP     AMQPConfig
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,            default=duty_status"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=50"`
}

type PostgresConfig struct {
	DSN      string `env:"POSTGRES_DSN,       default=postgres://localhost:5432/duty_status?sslmode=disable"`
	MaxConns int32  `env:"POSTGRES_MAX_CONNS, default=10"`
}

type BadgerConfig struct {
	Path     string `env:"BADGER_PATH,      default=./data/badger"`
	InMemory bool   `env:"BADGER_IN_MEMORY, default=false"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,        default=0"`
	DedupTTL time.Duration `env:"REDIS_DEDUP_TTL, default=1h"`
}

// AMQPConfig enables the RabbitMQ report consumer and anomaly publisher when
// URL is set.
type AMQPConfig struct {
	URL             string `env:"AMQP_URL"`
	StatusQueue     string `env:"AMQP_STATUS_QUEUE,     default=duty_status.reports"`
	AnomalyExchange string `env:"AMQP_ANOMALY_EXCHANGE, default=duty_status.anomalies"`
	Prefetch        int    `env:"AMQP_PREFETCH,         default=32"`
}

// IsDevelopment reports whether ENV is "development".
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Validate checks the settings that have no safe default.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMongo, StorePostgres, StoreBadger:
	default:
		return fmt.Errorf("config: STORE_DRIVER must be one of mongo, postgres, badger (got %q)", c.StoreDriver)
	}
	if c.JWTSecret == "" && !c.IsDevelopment() {
		return fmt.Errorf("config: JWT_SECRET is required outside development")
	}
	if c.DispatchWorkers <= 0 {
		return fmt.Errorf("config: DISPATCH_WORKERS must be positive")
	}
	return nil
}

// Parse fills a Config from l and validates it.
func Parse(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads configuration from environment variables using go-envconfig.
// A .env file in the working directory, when present, is loaded first and
// never overrides variables that are already set.
func Load() *Config {
	_ = godotenv.Load()
	cfg, err := Parse(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}
