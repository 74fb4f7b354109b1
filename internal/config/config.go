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

type Config struct {
	Port   string
	AppEnv string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Gateway  GatewayConfig
	Checkout CheckoutConfig
	Rate     RateConfig
	Storage  StorageConfig
	SMTP     SMTPConfig
	Admin    AdminConfig

	LogLevel string
}

type DatabaseConfig struct {
	Driver      string // mysql | postgres | sqlite
	DSN         string
	AutoMigrate bool
}

type RedisConfig struct {
	Addr     string // empty disables redis
	Password string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type GatewayConfig struct {
	AccessToken string
	BaseURL     string
	Timeout     time.Duration
}

type CheckoutConfig struct {
	ClaimAmount  float64
	PollInterval time.Duration
	TTL          time.Duration
	CloseAfter   time.Duration
}

type RateConfig struct {
	RPS   float64
	Burst int
}

type StorageConfig struct {
	Driver    string // local | s3
	LocalRoot string
	PublicURL string

	S3Bucket   string
	S3Region   string
	S3Key      string
	S3Secret   string
	S3Endpoint string
	S3URL      string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	AppBaseURL string
}

type AdminConfig struct {
	Email    string
	Password string
}

const (
	defaultMySQLDSN    = "root:root@tcp(127.0.0.1:3306)/listaai?charset=utf8mb4&parseTime=True&loc=Local"
	defaultPostgresDSN = "host=localhost user=postgres password=postgres dbname=listaai port=5432 sslmode=disable"
	defaultSQLiteDSN   = "listaai.db"
)

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}
	return FromEnv(), nil
}

func FromEnv() *Config {
	driver := strings.ToLower(getEnv("DB_DRIVER", "mysql"))

	cfg := &Config{
		Port:   getEnv("PORT", "3001"),
		AppEnv: getEnv("APP_ENV", "local"),
		Database: DatabaseConfig{
			Driver:      driver,
			DSN:         getEnv("DATABASE_DSN", defaultDSN(driver)),
			AutoMigrate: getBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-me-in-production"),
			TTL:    getDuration("JWT_TTL", 24*time.Hour),
		},
		Gateway: GatewayConfig{
			AccessToken: os.Getenv("MERCADO_PAGO_TOKEN"),
			BaseURL:     getEnv("MERCADO_PAGO_BASE_URL", "https://api.mercadopago.com"),
			Timeout:     getDuration("MERCADO_PAGO_TIMEOUT", 15*time.Second),
		},
		Checkout: CheckoutConfig{
			ClaimAmount:  getFloat("CLAIM_AMOUNT", 0.01),
			PollInterval: getDuration("CHECKOUT_POLL_INTERVAL", 5*time.Second),
			TTL:          getDuration("CHECKOUT_TTL", 30*time.Minute),
			CloseAfter:   getDuration("CHECKOUT_CLOSE_AFTER", 2*time.Second),
		},
		Rate: RateConfig{
			RPS:   getFloat("RATE_LIMIT_RPS", 5),
			Burst: getInt("RATE_LIMIT_BURST", 10),
		},
		Storage: StorageConfig{
			Driver:     strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
			LocalRoot:  getEnv("STORAGE_LOCAL_ROOT", "storage/uploads"),
			PublicURL:  getEnv("STORAGE_PUBLIC_URL", "/uploads"),
			S3Bucket:   os.Getenv("S3_BUCKET"),
			S3Region:   getEnv("S3_REGION", "us-east-1"),
			S3Key:      os.Getenv("S3_KEY"),
			S3Secret:   os.Getenv("S3_SECRET"),
			S3Endpoint: os.Getenv("S3_ENDPOINT"),
			S3URL:      os.Getenv("S3_URL"),
		},
		SMTP: SMTPConfig{
			Host:       os.Getenv("SMTP_HOST"),
			Port:       getInt("SMTP_PORT", 587),
			Username:   os.Getenv("SMTP_USERNAME"),
			Password:   os.Getenv("SMTP_PASSWORD"),
			From:       getEnv("SMTP_FROM", "no-reply@listaai.app"),
			AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:5173"),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@admin.com"),
			Password: getEnv("ADMIN_PASSWORD", "admin123"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

func defaultDSN(driver string) string {
	switch driver {
	case "postgres":
		return defaultPostgresDSN
	case "sqlite":
		return defaultSQLiteDSN
	default:
		return defaultMySQLDSN
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}
