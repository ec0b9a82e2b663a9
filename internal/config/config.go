package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Redis    RedisConfig
	Market   MarketConfig
	Fx       FxConfig
	Refresh  RefreshConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

// KafkaConfig holds Kafka configuration. Consumer ingestion only runs when
// ConsumerTopic is set.
type KafkaConfig struct {
	Brokers       []string
	Topic         string
	ConsumerTopic string
	GroupID       string
}

// RedisConfig holds the snapshot mirror configuration. The mirror is
// disabled when Addr is empty.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MarketConfig holds market-data source configuration
type MarketConfig struct {
	BaseURL      string
	FetchTimeout time.Duration
}

// FxConfig holds FX source configuration
type FxConfig struct {
	BaseURL string
	Pair    string
}

// RefreshConfig holds refresh loop configuration
type RefreshConfig struct {
	Interval      time.Duration
	Workers       int
	CacheCapacity int
	LegacyAssets  string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			DBName:         getEnv("DB_NAME", "portfolio"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MigrationsPath: getEnv("DB_MIGRATIONS_PATH", "db/migrations"),
		},
		Kafka: KafkaConfig{
			Brokers:       []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:         getEnv("KAFKA_TOPIC", "portfolio-events"),
			ConsumerTopic: getEnv("KAFKA_CONSUMER_TOPIC", ""),
			GroupID:       getEnv("KAFKA_GROUP_ID", "portfolio-service"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Market: MarketConfig{
			BaseURL:      getEnv("MARKET_BASE_URL", ""),
			FetchTimeout: getEnvDuration("MARKET_FETCH_TIMEOUT", 10*time.Second),
		},
		Fx: FxConfig{
			BaseURL: getEnv("FX_BASE_URL", ""),
			Pair:    getEnv("FX_PAIR", "USD-BRL"),
		},
		Refresh: RefreshConfig{
			Interval:      getEnvDuration("REFRESH_INTERVAL", 60*time.Second),
			Workers:       getEnvInt("REFRESH_WORKERS", 4),
			CacheCapacity: getEnvInt("QUOTE_CACHE_CAPACITY", 128),
			LegacyAssets:  getEnv("LEGACY_ASSETS_FILE", ""),
		},
	}
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
