// file: config/config.go
package config

import (
	"errors"
	"os"
)

type Config struct {
	Port string
	Env  string

	DatabaseDSN   string
	RedisAddr     string
	RedisPassword string

	// SessionSecret signs session tokens. The process refuses to start
	// without it so a missing secret can never fall back to a default.
	SessionSecret string

	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageUseSSL    bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		DatabaseDSN:      getEnv("DATABASE_DSN", "root:123456@tcp(localhost:3306)/iecom_portal?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", "localhost:9000"),
		StorageAccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
		StorageSecretKey: os.Getenv("STORAGE_SECRET_KEY"),
		StorageBucket:    getEnv("STORAGE_BUCKET", "iecom-documents"),
		StorageUseSSL:    os.Getenv("STORAGE_USE_SSL") == "true",
	}

	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET environment variable is not set")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
