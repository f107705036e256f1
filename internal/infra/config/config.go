package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config aggregates application configuration loaded from environment
// variables.
type Config struct {
	Env              string
	HTTPAddr         string
	PublicURL        string
	MongoURI         string
	MongoDB          string
	KafkaBrokers     []string
	KafkaTopicPrefix string
	RedisAddr        string
	JWTSecret        string
	SessionTTL       time.Duration
	LockTTL          time.Duration
	StripeSecretKey  string
	StripeClientID   string
	IdentityClientID string
	IdentitySecret   string
	IdentityRedirect string
	S3Endpoint       string
	S3UseSSL         bool
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3PublicBaseURL  string
	MapboxToken      string
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":9000"),
		PublicURL:        getEnv("PUBLIC_URL", "http://localhost:3000"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "homestay"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		JWTSecret:        getEnv("JWT_SECRET", "dev-secret"),
		StripeSecretKey:  os.Getenv("STRIPE_SECRET_KEY"),
		StripeClientID:   os.Getenv("STRIPE_CLIENT_ID"),
		IdentityClientID: os.Getenv("IDENTITY_CLIENT_ID"),
		IdentitySecret:   os.Getenv("IDENTITY_CLIENT_SECRET"),
		IdentityRedirect: getEnv("IDENTITY_REDIRECT_URL", "http://localhost:3000/login"),
		S3Endpoint:       os.Getenv("S3_ENDPOINT"),
		S3UseSSL:         getEnv("S3_USE_SSL", "false") == "true",
		S3AccessKey:      os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:      os.Getenv("S3_SECRET_KEY"),
		S3Bucket:         getEnv("S3_BUCKET", "homestay-listings"),
		S3PublicBaseURL:  os.Getenv("S3_PUBLIC_BASE_URL"),
		MapboxToken:      os.Getenv("MAPBOX_TOKEN"),
	}
	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	sessionTTL, err := parseDurationEnv("SESSION_TTL", 7*24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL = sessionTTL

	lockTTL, err := parseDurationEnv("LOCK_TTL", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.LockTTL = lockTTL

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", key, err)
	}
	return d, nil
}
