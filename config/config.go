// Package config loads the service configuration from an optional YAML
// file, a .env file and environment variables, in that order of precedence
// from lowest to highest.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type LockConfig struct {
	Driver    string        `yaml:"driver"`
	RedisAddr string        `yaml:"redis_addr"`
	Timeout   time.Duration `yaml:"timeout"`
	Expiry    time.Duration `yaml:"expiry"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type CloudTaskConfig struct {
	Queue    string `yaml:"queue"`
	Endpoint string `yaml:"endpoint"`
	// Local posts tasks straight to the endpoint instead of the queue.
	Local bool `yaml:"local"`
}

type EventsConfig struct {
	Log       bool            `yaml:"log"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	CloudTask CloudTaskConfig `yaml:"cloud_task"`
}

type CacheConfig struct {
	Path    string        `yaml:"path"`
	NameTTL time.Duration `yaml:"name_ttl"`
}

type LedgerConfig struct {
	RejectMissingTransferDestination bool `yaml:"reject_missing_transfer_destination"`
}

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Lock     LockConfig     `yaml:"lock"`
	Events   EventsConfig   `yaml:"events"`
	Cache    CacheConfig    `yaml:"cache"`
	Ledger   LedgerConfig   `yaml:"ledger"`
}

func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "bookkeeping.db",
		},
		Server: ServerConfig{
			Port: "8081",
		},
		Lock: LockConfig{
			Driver:  "local",
			Timeout: 10 * time.Second,
			Expiry:  30 * time.Second,
		},
		Events: EventsConfig{
			Log: true,
			Kafka: KafkaConfig{
				Topic: "bookkeeping.events",
			},
		},
		Cache: CacheConfig{
			NameTTL: 5 * time.Minute,
		},
	}
}

func NewProductionConfig() (*Config, error) {
	return Load("")
}

// Load reads envPath (or ./.env when empty and present), then the YAML file
// named by CONFIG_FILE, then applies environment overrides.
func Load(envPath string) (*Config, error) {
	if envPath != "" {
		err := godotenv.Load(envPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := Default()

	path := os.Getenv("CONFIG_FILE")
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		err = yaml.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	err := cfg.applyEnv()
	if err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	var err error

	c.Database.Driver = getEnvOrDefault("DB_DRIVER", c.Database.Driver)
	c.Database.DSN = getEnvOrDefault("DB_DSN", c.Database.DSN)
	c.Server.Host = getEnvOrDefault("HOST", c.Server.Host)
	c.Server.Port = getEnvOrDefault("PORT", c.Server.Port)

	c.Lock.Driver = getEnvOrDefault("LOCK_DRIVER", c.Lock.Driver)
	c.Lock.RedisAddr = getEnvOrDefault("REDIS_ADDR", c.Lock.RedisAddr)
	c.Lock.Timeout, err = parseDurationEnv("LOCK_TIMEOUT", c.Lock.Timeout)
	if err != nil {
		return err
	}
	c.Lock.Expiry, err = parseDurationEnv("LOCK_EXPIRY", c.Lock.Expiry)
	if err != nil {
		return err
	}

	c.Events.Log, err = parseBoolEnv("EVENTS_LOG", c.Events.Log)
	if err != nil {
		return err
	}
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers != "" {
		c.Events.Kafka.Brokers = strings.Split(brokers, ",")
	}
	c.Events.Kafka.Topic = getEnvOrDefault("KAFKA_TOPIC", c.Events.Kafka.Topic)
	c.Events.CloudTask.Queue = getEnvOrDefault("TASK_QUEUE", c.Events.CloudTask.Queue)
	c.Events.CloudTask.Endpoint = getEnvOrDefault("TASK_ENDPOINT", c.Events.CloudTask.Endpoint)
	c.Events.CloudTask.Local, err = parseBoolEnv("TASK_LOCAL", c.Events.CloudTask.Local)
	if err != nil {
		return err
	}

	c.Cache.Path = getEnvOrDefault("CACHE_PATH", c.Cache.Path)
	c.Cache.NameTTL, err = parseDurationEnv("CACHE_NAME_TTL", c.Cache.NameTTL)
	if err != nil {
		return err
	}

	c.Ledger.RejectMissingTransferDestination, err = parseBoolEnv(
		"LEDGER_REJECT_MISSING_TRANSFER_DESTINATION",
		c.Ledger.RejectMissingTransferDestination,
	)
	return err
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Lock.Timeout <= 0 || c.Lock.Expiry <= 0 {
		return fmt.Errorf("lock timeout and expiry must be positive")
	}

	switch c.Lock.Driver {
	case "local":
	case "redis":
		if c.Lock.RedisAddr == "" {
			return fmt.Errorf("lock driver redis needs a redis address")
		}
	default:
		return fmt.Errorf("unsupported lock driver %q", c.Lock.Driver)
	}

	if c.Events.CloudTask.Endpoint != "" && !c.Events.CloudTask.Local && c.Events.CloudTask.Queue == "" {
		return fmt.Errorf("cloud task events need a queue path")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
