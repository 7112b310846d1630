package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Storage
	DataDir   string
	UploadDir string

	// Database
	DatabaseURL    string
	DatabaseDriver string

	// Redis (empty means in-memory cache)
	RedisURL string

	// Kafka (empty brokers means in-process event dispatch)
	KafkaBrokers string
	KafkaTopic   string
	KafkaGroupID string

	// API Configuration
	APIPort     string
	APIHost     string
	CORSOrigins []string

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	// Notification recipients
	FactorChangeRecipients []string
	PriceErrorRecipients   []string
	ScheduleRecipients     []string

	// External APIs
	AnthropicAPIKey string
	VisionModel     string

	// Caches
	SearchCacheTTLSeconds   int
	ScheduleCacheTTLSeconds int

	// Scheduled changes
	ScheduleCheckIntervalMinutes int

	// Uploads
	MaxUploadMB       int
	ImageMaxDimension int

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		DataDir:                      getEnv("DATA_DIR", "data"),
		UploadDir:                    getEnv("UPLOAD_DIR", "uploads"),
		DatabaseURL:                  getEnv("DATABASE_URL", "sqlite://data/cennik.db"),
		DatabaseDriver:               getEnv("DB_DRIVER", "pgx"),
		RedisURL:                     getEnv("REDIS_URL", ""),
		KafkaBrokers:                 getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:                   getEnv("KAFKA_TOPIC", "cennik-events"),
		KafkaGroupID:                 getEnv("KAFKA_GROUP_ID", "cennik-worker"),
		APIPort:                      getEnv("API_PORT", "8080"),
		APIHost:                      getEnv("API_HOST", "0.0.0.0"),
		CORSOrigins:                  getEnvAsList("CORS_ORIGINS", []string{"*"}),
		SMTPHost:                     getEnv("SMTP_HOST", ""),
		SMTPPort:                     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:                     getEnv("SMTP_USER", ""),
		SMTPPassword:                 getEnv("SMTP_PASSWORD", ""),
		MailFrom:                     getEnv("MAIL_FROM", "cennik@localhost"),
		FactorChangeRecipients:       getEnvAsList("FACTOR_CHANGE_RECIPIENTS", nil),
		PriceErrorRecipients:         getEnvAsList("PRICE_ERROR_RECIPIENTS", nil),
		ScheduleRecipients:           getEnvAsList("SCHEDULE_RECIPIENTS", nil),
		AnthropicAPIKey:              getEnv("ANTHROPIC_API_KEY", ""),
		VisionModel:                  getEnv("VISION_MODEL", "claude-3-5-sonnet-latest"),
		SearchCacheTTLSeconds:        getEnvAsInt("SEARCH_CACHE_TTL_SECONDS", 300),
		ScheduleCacheTTLSeconds:      getEnvAsInt("SCHEDULE_CACHE_TTL_SECONDS", 30),
		ScheduleCheckIntervalMinutes: getEnvAsInt("SCHEDULE_CHECK_INTERVAL_MINUTES", 0),
		MaxUploadMB:                  getEnvAsInt("MAX_UPLOAD_MB", 20),
		ImageMaxDimension:            getEnvAsInt("IMAGE_MAX_DIMENSION", 1600),
		Env:                          getEnv("ENV", "development"),
		LogLevel:                     getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
