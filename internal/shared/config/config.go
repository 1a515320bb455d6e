package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	AllowedOrigins []string

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	Redis RedisConfig

	// Auth configuration
	Auth AuthConfig

	// Admission queue
	Queue QueueConfig

	// Seat locks
	Lock LockConfig

	// Rate limiting
	RateLimit RateLimitConfig

	// Read-through caches
	Cache CacheConfig

	// Kafka notifications
	Kafka KafkaConfig

	// Logging
	LogLevel string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	Addr         string
	PoolSize     int
	MinIdleConns int
}

// AuthConfig holds token configuration
type AuthConfig struct {
	JWTSecret          string
	AccessTokenExpire  time.Duration
	RefreshTokenExpire time.Duration
}

// QueueConfig holds admission queue configuration
type QueueConfig struct {
	BatchSize     int
	BatchInterval time.Duration
	TokenTTL      time.Duration
}

// LockConfig holds seat lock configuration
type LockConfig struct {
	SeatLockTimeout time.Duration
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	Max     int
	Window  time.Duration
}

// CacheConfig holds read cache TTLs
type CacheConfig struct {
	EventListTTL time.Duration
	SeatMapTTL   time.Duration
}

// KafkaConfig holds notification pipeline configuration
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
	GroupID string
	Workers int
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		// Server configuration
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB
		AllowedOrigins: getStringSliceEnv("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		// Database configuration
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "bookmate_db"),
			User:         getEnv("DB_USER", "bookmate_user"),
			Password:     getEnv("DB_PASSWORD", "bookmate_password"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 10),
		},

		// Redis configuration. Seat locks and the admission queue hit Redis
		// on every gated request, so the pool runs larger than the default.
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			PoolSize:     getIntEnv("REDIS_POOL_SIZE", 50),
			MinIdleConns: getIntEnv("REDIS_MIN_IDLE_CONNS", 10),
		},

		// Auth configuration
		Auth: AuthConfig{
			JWTSecret:          getEnv("JWT_SECRET", "your-super-secret-jwt-key"),
			AccessTokenExpire:  getDurationEnvMinutes("ACCESS_TOKEN_EXPIRE_MINUTES", 30*time.Minute),
			RefreshTokenExpire: getDurationEnvDays("REFRESH_TOKEN_EXPIRE_DAYS", 7*24*time.Hour),
		},

		// Admission queue
		Queue: QueueConfig{
			BatchSize:     getIntEnv("QUEUE_BATCH_SIZE", 50),
			BatchInterval: getDurationEnvSeconds("QUEUE_BATCH_INTERVAL", 10*time.Second),
			TokenTTL:      getDurationEnvSeconds("QUEUE_TOKEN_TTL", 600*time.Second),
		},

		// Seat locks
		Lock: LockConfig{
			SeatLockTimeout: getDurationEnvSeconds("SEAT_LOCK_TIMEOUT", 120*time.Second),
		},

		// Rate limiting
		RateLimit: RateLimitConfig{
			Enabled: getBoolEnv("RATE_LIMIT_ENABLED", true),
			Max:     getIntEnv("RATE_LIMIT_MAX", 10),
			Window:  getDurationEnvSeconds("RATE_LIMIT_WINDOW", 1*time.Second),
		},

		// Read-through caches
		Cache: CacheConfig{
			EventListTTL: getDurationEnvSeconds("EVENT_LIST_CACHE_TTL", 5*time.Minute),
			SeatMapTTL:   getDurationEnvSeconds("SEAT_MAP_CACHE_TTL", 1*time.Minute),
		},

		// Kafka notifications
		Kafka: KafkaConfig{
			Enabled: getBoolEnv("KAFKA_ENABLED", false),
			Brokers: getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("NOTIFICATION_TOPIC", "booking-notifications"),
			GroupID: getEnv("CONSUMER_GROUP_ID", "bookmate-notification-workers"),
			Workers: getIntEnv("NUM_CONSUMER_WORKERS", 3),
		},

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}

	// Build composite values
	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// buildDatabaseDSN builds the database connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getDurationEnvSeconds gets an environment variable as seconds (int) and converts to time.Duration
func getDurationEnvSeconds(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// getDurationEnvMinutes gets an environment variable as minutes (int) and converts to time.Duration
func getDurationEnvMinutes(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return fallback
}

// getDurationEnvDays gets an environment variable as days (int) and converts to time.Duration
func getDurationEnvDays(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if days, err := strconv.Atoi(value); err == nil {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}
