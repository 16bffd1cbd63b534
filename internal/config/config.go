package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Storage backends for the bot document.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
)

// Config holds all application configuration.
type Config struct {
	Bot       BotConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Mongo     MongoConfig
	Promo     PromoConfig
	Broadcast BroadcastConfig
	Server    ServerConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	S3        S3Config
}

// BotConfig holds Telegram bot configuration.
type BotConfig struct {
	Token              string
	AdminIDs           []int64
	FastReservationURL string
	BannerFile         string
	PollTimeout        int // seconds
}

// StorageConfig selects where the bot document lives.
type StorageConfig struct {
	Backend  string
	FilePath string
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	Key      string
}

// MongoConfig holds MongoDB connection configuration.
type MongoConfig struct {
	URI      string
	Database string
}

// PromoConfig holds the campaign defaults applied on first run.
type PromoConfig struct {
	Enabled bool
	Limit   int
	Prefix  string
}

// BroadcastConfig holds fan-out pacing for broadcasts.
type BroadcastConfig struct {
	Rate    float64 // messages per second
	Workers int
}

// ServerConfig holds admin HTTP server configuration.
type ServerConfig struct {
	Enabled bool
	Host    string
	Port    int
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string
}

// S3Config holds AWS S3 configuration for the banner image.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "banners/")
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Bot: BotConfig{
			Token:              getEnv("BOT_TOKEN", ""),
			AdminIDs:           ParseAdminIDs(os.Getenv("ADMIN_IDS")),
			FastReservationURL: getEnv("FAST_RESERVATION_URL", "https://t.me/lotusprivate?direct"),
			BannerFile:         getEnv("BANNER_FILE", "banner.jpg"),
			PollTimeout:        getEnvAsInt("BOT_POLL_TIMEOUT", 60),
		},
		Storage: StorageConfig{
			Backend:  getEnv("STORAGE_BACKEND", BackendFile),
			FilePath: getEnv("DATA_FILE", "links.json"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "linkbot"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 5),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 1),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Key:      getEnv("REDIS_KEY", "linkbot:document"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB", "linkbot"),
		},
		Promo: PromoConfig{
			Enabled: getEnvAsBool("PROMO_ENABLED", true),
			Limit:   getEnvAsInt("PROMO_LIMIT", 100),
			Prefix:  getEnv("PROMO_PREFIX", "LP"),
		},
		Broadcast: BroadcastConfig{
			Rate:    getEnvAsFloat("BROADCAST_RATE", 25),
			Workers: getEnvAsInt("BROADCAST_WORKERS", 4),
		},
		Server: ServerConfig{
			Enabled: getEnvAsBool("HTTP_ENABLED", false),
			Host:    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:    getEnvAsInt("SERVER_PORT", 8080),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		S3: S3Config{
			Enabled: getEnvAsBool("S3_ENABLED", false),
			Bucket:  getEnv("S3_BUCKET", ""),
			Region:  getEnv("S3_REGION", "us-east-1"),
			Prefix:  getEnv("S3_PREFIX", "banners/"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
// The bot token is checked separately by BotConfig.Validate because the
// offline CLI commands do not talk to Telegram.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.FilePath == "" {
			return fmt.Errorf("data file path is required for the file backend")
		}
	case BackendPostgres:
		if err := c.Database.Validate(); err != nil {
			return err
		}
	case BackendRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("redis address is required for the redis backend")
		}
		if c.Redis.Key == "" {
			return fmt.Errorf("redis key is required for the redis backend")
		}
	case BackendMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("mongo URI is required for the mongo backend")
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("mongo database is required for the mongo backend")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (must be file, postgres, redis, or mongo)", c.Storage.Backend)
	}

	if c.Promo.Limit < 0 {
		return fmt.Errorf("promo limit must not be negative")
	}

	if c.Promo.Prefix == "" {
		return fmt.Errorf("promo prefix is required")
	}

	if c.Broadcast.Rate <= 0 {
		return fmt.Errorf("broadcast rate must be positive")
	}

	if c.Broadcast.Workers < 1 {
		return fmt.Errorf("broadcast workers must be at least 1")
	}

	if c.Server.Enabled {
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			return fmt.Errorf("invalid server port: %d", c.Server.Port)
		}
		if c.Auth.APIKey == "" {
			return fmt.Errorf("API key is required when the HTTP server is enabled")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	return nil
}

// Validate checks what the Telegram side needs to run.
func (c *BotConfig) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("bot token is required (set BOT_TOKEN)")
	}
	if c.PollTimeout < 0 {
		return fmt.Errorf("bot poll timeout must not be negative")
	}
	return nil
}

// Validate validates the PostgreSQL settings.
func (c *DatabaseConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ParseAdminIDs parses a comma-separated list of numeric user ids.
// Entries that are not plain digits are skipped.
func ParseAdminIDs(raw string) []int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.TrimLeft(part, "0123456789") != "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
