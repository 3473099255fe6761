// Package config loads process configuration from environment variables.
// Values are read once at startup and stay immutable for the process
// lifetime.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	defaultHTTPPort = 8080

	defaultMySQLHost     = "localhost"
	defaultMySQLPort     = 3306
	defaultMySQLUser     = "guest"
	defaultMySQLPassword = "guest"
	defaultMySQLDatabase = "users"
	defaultPoolSize      = 5
	defaultMaxIdleConns  = 5

	defaultRedisHost    = "localhost"
	defaultRedisPort    = 6379
	defaultRedisDB      = 0
	defaultCacheMinutes = 5

	minPort = 1
	maxPort = 65535
)

// Config is the full process configuration.
type Config struct {
	// Mode is DEV or PROD. Outside of DEV, error responses carry only
	// static descriptions.
	Mode     string
	APIKey   string
	HTTPPort int

	MySQL MySQLConfig
	Redis RedisConfig
}

// MySQLConfig holds durable-store connection and pool parameters.
type MySQLConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	PoolSize     int
	MaxIdleConns int
}

// RedisConfig holds cache connection parameters and the per-record TTL.
type RedisConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	DB       int

	// CacheLifetime is the fixed expiration applied to every cached
	// record, in minutes.
	CacheLifetime int
}

// Load reads configuration from the environment, applying defaults and
// validating ranges.
func Load() (*Config, error) {
	cfg := &Config{
		Mode:     getEnvOrDefault("MODE", "PROD"),
		APIKey:   getEnvOrDefault("API_KEY", "secret"),
		HTTPPort: defaultHTTPPort,
		MySQL: MySQLConfig{
			Host:         getEnvOrDefault("MYSQL_HOST", defaultMySQLHost),
			Port:         defaultMySQLPort,
			User:         getEnvOrDefault("MYSQL_USER", defaultMySQLUser),
			Password:     getEnvOrDefault("MYSQL_PASSWORD", defaultMySQLPassword),
			Database:     getEnvOrDefault("MYSQL_DATABASE", defaultMySQLDatabase),
			PoolSize:     defaultPoolSize,
			MaxIdleConns: defaultMaxIdleConns,
		},
		Redis: RedisConfig{
			Host:          getEnvOrDefault("REDIS_HOST", defaultRedisHost),
			Port:          defaultRedisPort,
			Username:      os.Getenv("REDIS_USERNAME"),
			Password:      os.Getenv("REDIS_PASSWORD"),
			DB:            defaultRedisDB,
			CacheLifetime: defaultCacheMinutes,
		},
	}

	var err error
	if cfg.HTTPPort, err = getEnvInt("HTTP_PORT", defaultHTTPPort); err != nil {
		return nil, err
	}
	if cfg.MySQL.Port, err = getEnvInt("MYSQL_PORT", defaultMySQLPort); err != nil {
		return nil, err
	}
	if cfg.MySQL.PoolSize, err = getEnvInt("MYSQL_POOL_SIZE", defaultPoolSize); err != nil {
		return nil, err
	}
	if cfg.MySQL.MaxIdleConns, err = getEnvInt("MYSQL_MAX_IDLE_CONNS", defaultMaxIdleConns); err != nil {
		return nil, err
	}
	if cfg.Redis.Port, err = getEnvInt("REDIS_PORT", defaultRedisPort); err != nil {
		return nil, err
	}
	if cfg.Redis.DB, err = getEnvInt("REDIS_CACHE_DB", defaultRedisDB); err != nil {
		return nil, err
	}
	if cfg.Redis.CacheLifetime, err = getEnvInt("REDIS_CACHE_LIFETIME", defaultCacheMinutes); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Mode != "DEV" && c.Mode != "PROD" {
		return fmt.Errorf("invalid MODE %q: must be DEV or PROD", c.Mode)
	}
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY must not be empty")
	}
	if c.HTTPPort < minPort || c.HTTPPort > maxPort {
		return fmt.Errorf("invalid HTTP_PORT %d: must be between %d and %d", c.HTTPPort, minPort, maxPort)
	}
	if c.MySQL.Port < minPort || c.MySQL.Port > maxPort {
		return fmt.Errorf("invalid MYSQL_PORT %d: must be between %d and %d", c.MySQL.Port, minPort, maxPort)
	}
	if c.MySQL.PoolSize < 1 {
		return fmt.Errorf("invalid MYSQL_POOL_SIZE %d: must be at least 1", c.MySQL.PoolSize)
	}
	if c.Redis.Port < minPort || c.Redis.Port > maxPort {
		return fmt.Errorf("invalid REDIS_PORT %d: must be between %d and %d", c.Redis.Port, minPort, maxPort)
	}
	if c.Redis.CacheLifetime < 1 {
		return fmt.Errorf("invalid REDIS_CACHE_LIFETIME %d: must be at least 1 minute", c.Redis.CacheLifetime)
	}
	return nil
}

// IsDev reports whether the process runs in development mode.
func (c *Config) IsDev() bool { return c.Mode == "DEV" }

// DSN builds the go-sql-driver data source name. parseTime makes the driver
// scan TIMESTAMP columns into time.Time.
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// Addr returns the host:port address of the cache.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TTL returns the cache lifetime as a duration.
func (c RedisConfig) TTL() time.Duration {
	return time.Duration(c.CacheLifetime) * time.Minute
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
