package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Inference InferenceConfig
	Keys      APIKeys
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type InferenceConfig struct {
	Backend     string // "ollama" or "openai"
	Model       string // e.g. "llama3", "qwen2.5"
	BaseURL     string // local backend address, or remote router base
	HealthCheck bool   // probe reachability on boot
}

type APIKeys struct {
	InferenceAPIKey        string // remote backend auth
	ExchangePersistedTopic string // auto-titling topic
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Inference: InferenceConfig{
			Backend:     getEnv("INFERENCE_BACKEND", "ollama"),
			Model:       getEnv("INFERENCE_MODEL", "llama3"),
			BaseURL:     getEnv("INFERENCE_BASE_URL", "http://localhost:11434"),
			HealthCheck: getEnv("INFERENCE_HEALTH_CHECK", "true") == "true",
		},
		Keys: APIKeys{
			InferenceAPIKey:        getEnv("INFERENCE_API_KEY", ""),
			ExchangePersistedTopic: getEnv("EXCHANGE_PERSISTED_TOPIC_NAME", "EXCHANGE_PERSISTED"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
