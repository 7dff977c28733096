package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	PORT       string
	DB_URL     string
	JWT_SECRET string

	SMTP_HOST     string
	SMTP_PORT     string
	SMTP_FROM     string
	SMTP_PASSWORD string

	CORS_ORIGIN  string
	CSV_DATA_DIR string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")

	SMTP_HOST = getEnv("SMTP_HOST", "localhost")
	SMTP_PORT = getEnv("SMTP_PORT", "25")
	SMTP_FROM = getEnv("SMTP_FROM", "noreply@review-platform.local")
	SMTP_PASSWORD = getEnv("SMTP_PASSWORD", "")

	CORS_ORIGIN = getEnv("CORS_ORIGIN", "*")
	CSV_DATA_DIR = getEnv("CSV_DATA_DIR", "static/data")
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
