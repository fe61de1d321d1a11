package config

import (
	"fmt"

	pkgconfig "github.com/weiawesome/prefixid/pkg/config"
	"github.com/weiawesome/prefixid/pkg/pubsub"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Snowflake SnowflakeConfig
	PubSub    pubsub.Config `mapstructure:"pubsub"`
	Auth      AuthConfig
	Kinds     []KindConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host     string
	Port     int
	MaxBatch int `mapstructure:"max_batch"`
}

// DatabaseConfig configures the issued-id ledger. An empty Driver disables it.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	FilePath        string `mapstructure:"file_path"`
	LogLevel        string `mapstructure:"log_level"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// AuthConfig guards id issuance with bearer tokens. An empty Secret leaves
// issuance open.
type AuthConfig struct {
	Secret   string
	Issuer   string
	TokenTTL int `mapstructure:"token_ttl"` // hours
}

type SnowflakeConfig struct {
	MachineID int64 `mapstructure:"machine_id"`
	Epoch     int64
}

// KindConfig declares one identifier kind served by the service.
type KindConfig struct {
	Prefix string
	Width  int
	Source string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.max_batch", 1000)
	v.SetDefault("database.driver", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "id_service")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.file_path", "./data/ids.db")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("snowflake.machine_id", 1)
	v.SetDefault("snowflake.epoch", 1704067200000)
	pubsubDefaults := pubsub.DefaultConfig()
	v.SetDefault("pubsub.driver", "")
	v.SetDefault("pubsub.redis.address", pubsubDefaults.Redis.Address)
	v.SetDefault("pubsub.redis.pool_size", pubsubDefaults.Redis.PoolSize)
	v.SetDefault("pubsub.redis.read_timeout", pubsubDefaults.Redis.ReadTimeout)
	v.SetDefault("pubsub.redis.write_timeout", pubsubDefaults.Redis.WriteTimeout)
	v.SetDefault("pubsub.redis.history", pubsubDefaults.Redis.History)
	v.SetDefault("pubsub.kafka.brokers", pubsubDefaults.Kafka.Brokers)
	v.SetDefault("pubsub.kafka.partitions", pubsubDefaults.Kafka.Partitions)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.issuer", "id-service")
	v.SetDefault("auth.token_ttl", 24)
	v.SetDefault("kinds", []map[string]interface{}{
		{"prefix": "user", "width": 16, "source": "random"},
		{"prefix": "order", "width": 16, "source": "ulid"},
		{"prefix": "event", "width": 8, "source": "snowflake"},
	})
	v.SetDefault("log.level", "info")

	// Override from environment
	err = pkgconfig.BindEnv(v, map[string]string{
		"server.port":          "PORT",
		"server.max_batch":     "MAX_BATCH",
		"log.level":            "LOG_LEVEL",
		"database.driver":      "DATABASE_DRIVER",
		"database.host":        "DATABASE_HOST",
		"database.port":        "DATABASE_PORT",
		"database.user":        "DATABASE_USER",
		"database.password":    "DATABASE_PASSWORD",
		"database.dbname":      "DATABASE_NAME",
		"database.file_path":   "DATABASE_FILE_PATH",
		"snowflake.machine_id": "SNOWFLAKE_MACHINE_ID",
		"pubsub.driver":        "PUBSUB_DRIVER",
		"pubsub.redis.address": "REDIS_ADDRESS",
		"pubsub.kafka.brokers": "KAFKA_BROKERS",
		"auth.secret":          "AUTH_SECRET",
	})
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Kinds) == 0 {
		return fmt.Errorf("config: at least one kind must be configured")
	}
	if c.Server.MaxBatch < 1 {
		return fmt.Errorf("config: server.max_batch must be positive, got %d", c.Server.MaxBatch)
	}
	if c.Auth.Secret != "" && c.Auth.TokenTTL < 1 {
		return fmt.Errorf("config: auth.token_ttl must be positive, got %d", c.Auth.TokenTTL)
	}
	seen := make(map[string]bool, len(c.Kinds))
	for _, k := range c.Kinds {
		if seen[k.Prefix] {
			return fmt.Errorf("config: kind %q configured twice", k.Prefix)
		}
		seen[k.Prefix] = true
	}
	return nil
}
