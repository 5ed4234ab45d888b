package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	ModeCart    = "cart"
	ModeCatalog = "catalog"
)

type Config struct {
	AppEnv  string
	AppMode string
	Port    string

	CatalogBaseURL   string
	OrderGroupID     string
	FetchConcurrency int
	HTTPTimeout      time.Duration

	CartStorage string
	CartFile    string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	RedisURL        string
	RedisAddr       string
	RedisPassword   string
	RedisKeyPrefix  string
	ProductCacheTTL time.Duration

	JWTSecret     string
	JWTExpiry     time.Duration
	AdminEmail    string
	AdminPassword string

	RabbitMQURL string
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	SMTPFrom    string
	OrderNotify string
}

var AppConfig *Config

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	AppConfig = &Config{
		AppEnv:  getEnv("APP_ENV", "development"),
		AppMode: getEnv("APP_MODE", ModeCart),
		Port:    getEnv("APP_PORT", getEnv("PORT", "8082")),

		CatalogBaseURL:   getEnv("CATALOG_BASE_URL", "https://mock-data-api.firebaseio.com/e-commerce"),
		OrderGroupID:     getEnv("ORDER_GROUP_ID", "group-7"),
		FetchConcurrency: getEnvInt("FETCH_CONCURRENCY", 8),
		HTTPTimeout:      getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		CartStorage: getEnv("CART_STORAGE", "file"),
		CartFile:    getEnv("CART_FILE", "./data/local_storage.json"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBName:      getEnv("DB_NAME", "cart_app"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		RedisURL:        os.Getenv("REDIS_URL"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisKeyPrefix:  getEnv("REDIS_KEY_PREFIX", "cart-app:"),
		ProductCacheTTL: getEnvDuration("PRODUCT_CACHE_TTL", 5*time.Minute),

		JWTSecret: getEnv("JWT_SECRET", "secret"),
		JWTExpiry: getEnvDuration("JWT_EXPIRY", 24*time.Hour),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
		SMTPHost:    os.Getenv("SMTP_HOST"),
		SMTPPort:    getEnvInt("SMTP_PORT", 587),
		SMTPUser:    os.Getenv("SMTP_USER"),
		SMTPPass:    os.Getenv("SMTP_PASS"),
		SMTPFrom:    os.Getenv("SMTP_FROM"),
		OrderNotify: os.Getenv("ORDER_NOTIFY_EMAIL"),
	}

	return AppConfig
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v == 0 {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
