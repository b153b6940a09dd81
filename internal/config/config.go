package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080" validate:"required,numeric"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPass     string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPeersKey string `env:"REDIS_PEERS_KEY" envDefault:"mesh:peers" validate:"required"`

	// Device identity
	DeviceID       string `env:"DEVICE_ID" validate:"required,excludes=0x7C"`
	SubscriberID   string `env:"SUBSCRIBER_ID" validate:"required,len=64,hexadecimal"`
	DeviceTimezone string `env:"DEVICE_TIMEZONE" envDefault:"UTC" validate:"required,timezone"`

	// Mesh Config
	LocationPort       int           `env:"LOCATION_PORT" envDefault:"5555" validate:"min=1024,max=65535"`
	IncidentPort       int           `env:"INCIDENT_PORT" envDefault:"5556" validate:"min=1024,max=65535,nefield=LocationPort"`
	StaticPeers        []string      `env:"STATIC_PEERS" validate:"dive,ip"`
	SocketTimeout      time.Duration `env:"SOCKET_TIMEOUT" envDefault:"20s" validate:"gt=0"`
	QueueSize          int           `env:"QUEUE_SIZE" envDefault:"128" validate:"gt=0"`
	RepeatInterval     time.Duration `env:"REPEAT_INTERVAL" envDefault:"30s" validate:"gt=0"`
	FixFreshness       time.Duration `env:"FIX_FRESHNESS" envDefault:"30s" validate:"gt=0"`
	FixInaccuracyLimit float64       `env:"FIX_INACCURACY_LIMIT" envDefault:"200" validate:"gt=0"`
	DedupCacheSize     int           `env:"DEDUP_CACHE_SIZE" envDefault:"1024" validate:"gt=0"`

	// Exchange files
	ExchangeDir       string        `env:"EXCHANGE_DIR" envDefault:"./exchange/out" validate:"required"`
	InboxDir          string        `env:"INBOX_DIR" envDefault:"./exchange/in" validate:"required"`
	InboxScanInterval time.Duration `env:"INBOX_SCAN_INTERVAL" envDefault:"1m" validate:"gt=0"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		RedisPeersKey:      getEnv("REDIS_PEERS_KEY", "mesh:peers"),
		DeviceID:           os.Getenv("DEVICE_ID"),
		SubscriberID:       os.Getenv("SUBSCRIBER_ID"),
		DeviceTimezone:     getEnv("DEVICE_TIMEZONE", "UTC"),
		LocationPort:       getEnvAsInt("LOCATION_PORT", 5555),
		IncidentPort:       getEnvAsInt("INCIDENT_PORT", 5556),
		StaticPeers:        getEnvAsList("STATIC_PEERS"),
		SocketTimeout:      getEnvAsDuration("SOCKET_TIMEOUT", 20*time.Second),
		QueueSize:          getEnvAsInt("QUEUE_SIZE", 128),
		RepeatInterval:     getEnvAsDuration("REPEAT_INTERVAL", 30*time.Second),
		FixFreshness:       getEnvAsDuration("FIX_FRESHNESS", 30*time.Second),
		FixInaccuracyLimit: getEnvAsFloat("FIX_INACCURACY_LIMIT", 200),
		DedupCacheSize:     getEnvAsInt("DEDUP_CACHE_SIZE", 1024),
		ExchangeDir:        getEnv("EXCHANGE_DIR", "./exchange/out"),
		InboxDir:           getEnv("INBOX_DIR", "./exchange/in"),
		InboxScanInterval:  getEnvAsDuration("INBOX_SCAN_INTERVAL", time.Minute),
		APIKeys:            getEnvAsList("API_KEYS"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения конфигурации по тегам validate
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}

// getEnvAsList разбирает список через запятую, пустые элементы отбрасываются
func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
