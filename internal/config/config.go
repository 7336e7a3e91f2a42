package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Mongo        MongoConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Storage      StorageConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// MongoConfig holds document store connection values.
type MongoConfig struct {
	URI               string
	Database          string
	ConnectTimeoutSec int
	MaxPoolSize       uint64
	EnsureIndexes     bool
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters. The JWT secret and the
// pre-authorized admin email are mandatory: there is no in-source fallback
// for either.
type AuthConfig struct {
	JWTSecret            string
	AdminEmail           string
	CitizenTokenTTLHours int
	AdminTokenTTLHours   int
	BcryptCost           int
	LoginAttemptLimit    int
	LoginAttemptWindow   time.Duration
}

// StorageConfig configures the optional object store for ticket images.
// Images stay inline (data URIs) when Endpoint is empty.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// NotificationConfig holds notification sink settings.
type NotificationConfig struct {
	AMQPURL    string
	QueueName  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where
// possible. Secrets never default.
func Load() (*Config, error) {
	_ = godotenv.Load()

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		return nil, errors.New("MONGODB_URI is required")
	}

	jwtSecret := os.Getenv("AUTH_JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("AUTH_JWT_SECRET is required")
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		return nil, errors.New("ADMIN_EMAIL is required")
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "civic-portal"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Mongo: MongoConfig{
			URI:               mongoURI,
			Database:          getEnv("MONGODB_DATABASE", "civic_portal"),
			ConnectTimeoutSec: getEnvAsInt("MONGODB_CONNECT_TIMEOUT_SECONDS", 10),
			MaxPoolSize:       uint64(getEnvAsInt("MONGODB_MAX_POOL_SIZE", 10)),
			EnsureIndexes:     getEnvAsBool("MONGODB_ENSURE_INDEXES", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:            jwtSecret,
			AdminEmail:           adminEmail,
			CitizenTokenTTLHours: getEnvAsInt("AUTH_CITIZEN_TOKEN_TTL_HOURS", 168),
			AdminTokenTTLHours:   getEnvAsInt("AUTH_ADMIN_TOKEN_TTL_HOURS", 24),
			BcryptCost:           getEnvAsInt("AUTH_BCRYPT_COST", 12),
			LoginAttemptLimit:    getEnvAsInt("AUTH_LOGIN_ATTEMPT_LIMIT", 10),
			LoginAttemptWindow:   time.Duration(getEnvAsInt("AUTH_LOGIN_ATTEMPT_WINDOW_SECONDS", 300)) * time.Second,
		},
		Storage: StorageConfig{
			Endpoint:  os.Getenv("IMAGE_STORE_ENDPOINT"),
			AccessKey: os.Getenv("IMAGE_STORE_ACCESS_KEY"),
			SecretKey: os.Getenv("IMAGE_STORE_SECRET_KEY"),
			Bucket:    getEnv("IMAGE_STORE_BUCKET", "ticket-images"),
			UseSSL:    getEnvAsBool("IMAGE_STORE_USE_SSL", false),
			PublicURL: os.Getenv("IMAGE_STORE_PUBLIC_URL"),
		},
		Notification: NotificationConfig{
			AMQPURL:    os.Getenv("RABBITMQ_URL"),
			QueueName:  getEnv("NOTIFY_QUEUE_NAME", "ticket_events"),
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Production reports whether the service runs in production mode.
func (a AppConfig) Production() bool {
	return a.Env == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
