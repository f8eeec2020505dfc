package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	LogLevel                string
	FirebaseCredentialsPath string
	MongoURI                string
	MongoDatabase           string
	EventBus                string // inproc or nats
	NATSURL                 string
	SuppressSelfComment     bool
}

func Load() *Config {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DB", "socialape"),
		EventBus:                getEnv("EVENT_BUS", "inproc"),
		NATSURL:                 getEnv("NATS_URL", "nats://localhost:4222"),
		SuppressSelfComment:     getEnv("SUPPRESS_SELF_COMMENT_NOTIFICATIONS", "") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
