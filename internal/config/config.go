package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string
	HTTPPort       string
	LogLevel       string
	JWTSecret      string
	BackendURL     string
	BackendFormat  string // "chat" or "generate"
	BackendModel   string
	BackendAPIKey  string
	BackendTimeout time.Duration
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		DatabaseURL:   getEnv("DATABASE_URL", "crm.db"),
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		BackendURL:    getEnv("BACKEND_URL", "http://localhost:11434/api/chat"),
		BackendFormat: getEnv("BACKEND_FORMAT", "chat"),
		BackendModel:  getEnv("BACKEND_MODEL", "llama2"),
		BackendAPIKey: getEnv("BACKEND_API_KEY", ""),
	}

	// Local inference is slow; hosted APIs get a tighter default.
	defaultTimeout := 60
	if AppConfig.BackendAPIKey != "" {
		defaultTimeout = 30
	}
	AppConfig.BackendTimeout = time.Duration(getEnvAsInt("BACKEND_TIMEOUT_SECONDS", defaultTimeout)) * time.Second

	if AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
