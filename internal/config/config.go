package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI        string
	DBName          string
	JWTSecret       string
	AdminSecretCode string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	AMQPURL         string
	RealtimeEnabled bool
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:        getEnvOrDefault("MONGODB_URI", ""),
		DBName:          getEnvOrDefault("DB_NAME", "partstore"),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", ""),
		AdminSecretCode: getEnvOrDefault("ADMIN_SECRET_CODE", ""),
		AccessTokenTTL:  getDurationEnv("ACCESS_TOKEN_TTL", 20, time.Minute),
		RefreshTokenTTL: getDurationEnv("REFRESH_TOKEN_TTL", 7, 24*time.Hour),
		SMTPHost:        getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort:        getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUser:        getEnvOrDefault("SMTP_USER", ""),
		SMTPPass:        getEnvOrDefault("SMTP_PASS", ""),
		SMTPFrom:        getEnvOrDefault("SMTP_FROM", ""),
		AMQPURL:         getEnvOrDefault("AMQP_URL", ""),
		RealtimeEnabled: getBoolEnv("REALTIME_ENABLED", false),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
