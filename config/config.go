package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	Port           string
	MongoURL       string
	MongoDatabase  string
	RedisURL       string
	KafkaBrokers   []string
	CheckoutTopic  string
	SNSTopicARN    string
	JWTSecret      string
	IdempotencyTTL time.Duration
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:            getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8086"),
		MongoURL:       getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGO_DB", "voicecart"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
		KafkaBrokers:   strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		CheckoutTopic:  getEnv("KAFKA_CHECKOUT_TOPIC", "checkout.requested"),
		SNSTopicARN:    os.Getenv("SNS_ORDER_TOPIC_ARN"),
		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		IdempotencyTTL: time.Hour * 24,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
