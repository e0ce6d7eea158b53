package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/grocerly/pos-backend/pricing"
)

type Config struct {
	Port         string
	Env          string
	MongoURL     string
	MongoDB      string
	RedisURL     string
	JWTSecret    string
	KafkaBrokers []string
	KafkaTopic   string
	VATRate      float64
}

// LoadConfig reads settings from the environment. JWT_SECRET has no safe
// default and is required.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:       getEnv("PORT", "8080"),
		Env:        getEnv("APP_ENV", "development"),
		MongoURL:   getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:    getEnv("MONGO_DB", "pos"),
		RedisURL:   getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		KafkaTopic: getEnv("KAFKA_TOPIC", "pos.audit"),
		VATRate:    pricing.DefaultVATRate,
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if raw := os.Getenv("VAT_RATE"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil || rate < 0 || rate > 100 {
			return cfg, fmt.Errorf("invalid VAT_RATE %q", raw)
		}
		cfg.VATRate = rate
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
