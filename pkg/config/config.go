package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Stripe   StripeConfig
	Crawler  CrawlerConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	URL string
}

type JWTConfig struct {
	Secret string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type CrawlerConfig struct {
	APIKey string
}

func Load() *Config {
	godotenv.Load() // .env dosyasını yükle

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		Database: DatabaseConfig{
			URL: mustGetEnv("DATABASE_URL"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "mentha-dev-secret"),
		},
		Stripe: StripeConfig{
			SecretKey:     mustGetEnv("STRIPE_SECRET_KEY"),
			WebhookSecret: mustGetEnv("STRIPE_WEBHOOK_SECRET"),
		},
		Crawler: CrawlerConfig{
			APIKey: getEnv("CRAWLER_API_KEY", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// mustGetEnv eksik zorunlu konfigürasyon deployment hatasıdır, request hatası değil
func mustGetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("%s is not set", key)
	}
	return value
}
